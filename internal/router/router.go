package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"frenchnotes/internal/auth"
	"frenchnotes/internal/config"
	"frenchnotes/internal/errors"
	"frenchnotes/internal/handler"
	"frenchnotes/internal/model"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	authHandler *handler.AuthHandler,
	adminHandler *handler.AdminHandler,
	contentHandler *handler.ContentHandler,
	ideaHandler *handler.IdeaHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/admin-register", authHandler.AdminRegister)
	api.POST("/auth/admin-login", authHandler.AdminLogin)
	api.POST("/auth/student-register", authHandler.StudentRegister)
	api.POST("/auth/student-login", authHandler.StudentLogin)
	api.POST("/auth/student-forgot-password", authHandler.ForgotPassword)
	api.POST("/auth/student-reset-password/:token", authHandler.ResetPassword)

	// Secured routes (require JWT authentication)
	secured := api.Group("", jwtMiddleware(cfg.JWTSecret))

	secured.GET("/auth/profile", authHandler.Profile)

	secured.GET("/content", contentHandler.List)
	secured.GET("/ideas", ideaHandler.List)
	secured.POST("/ideas/submit", ideaHandler.Submit)

	// Admin-only routes (role claim is the sole gate)
	admin := secured.Group("", requireAdmin)

	admin.GET("/admin/users", adminHandler.ListUsers)
	admin.DELETE("/admin/users/:id", adminHandler.DeleteUser)
	admin.POST("/admin/users/:id/reset-logs", adminHandler.ResetUserLogs)
	admin.GET("/admin/login-logs", adminHandler.ListLoginLogs)
	admin.POST("/admin/login-logs/:id", adminHandler.DecideLoginLog)

	admin.POST("/content", contentHandler.Create)
	admin.PUT("/content/:id", contentHandler.Update)
	admin.DELETE("/content/:id", contentHandler.Delete)

	admin.PUT("/ideas/:id", ideaHandler.Update)
	admin.DELETE("/ideas/:id", ideaHandler.Delete)
}

// jwtMiddleware verifies bearer tokens and stores the parsed claims on the
// request context as *auth.Claims.
func jwtMiddleware(secret string) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(secret),
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(auth.Claims)
		},
	})
}

// requireAdmin rejects callers whose verified token does not carry the admin
// role. A reset token has no role claim at all, so it can never pass.
func requireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, err := handler.CurrentClaims(c)
		if err != nil {
			return err
		}
		if claims.Role != string(model.RoleAdmin) {
			return echo.NewHTTPError(http.StatusForbidden, errors.ErrorResponse{
				Error: "admin access only",
				Code:  "FORBIDDEN",
			})
		}
		return next(c)
	}
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
