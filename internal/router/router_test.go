package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"frenchnotes/internal/auth"
	"frenchnotes/internal/handler"
	"frenchnotes/internal/model"
)

const testSecret = "test-secret"

// newSecuredEcho mirrors the Register wiring for the protected surface: the
// JWT middleware on a group, a claims-echoing route on it, and an admin-only
// route behind requireAdmin.
func newSecuredEcho() *echo.Echo {
	e := echo.New()
	secured := e.Group("", jwtMiddleware(testSecret))
	secured.GET("/whoami", func(c echo.Context) error {
		claims, err := handler.CurrentClaims(c)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, map[string]interface{}{
			"user_id": claims.UserID,
			"role":    claims.Role,
		})
	})
	admin := secured.Group("", requireAdmin)
	admin.GET("/admin-only", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	return e
}

func TestJWTMiddleware_ParsesClaimsForHandlers(t *testing.T) {
	e := newSecuredEcho()

	token, err := auth.NewJWTService(testSecret).GenerateSessionToken(7, string(model.RoleStudent))
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"user_id":7`)
	assert.Contains(t, rec.Body.String(), `"role":"student"`)
}

func TestJWTMiddleware_RejectsBadTokens(t *testing.T) {
	e := newSecuredEcho()

	wrongSecret, err := auth.NewJWTService("other-secret").GenerateSessionToken(7, string(model.RoleStudent))
	assert.NoError(t, err)

	tests := []struct {
		name   string
		header string
	}{
		{name: "no token"},
		{name: "malformed token", header: "Bearer not-a-jwt"},
		{name: "token signed with another secret", header: "Bearer " + wrongSecret},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tt.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.header)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	e := newSecuredEcho()
	jwtService := auth.NewJWTService(testSecret)

	adminToken, err := jwtService.GenerateSessionToken(1, string(model.RoleAdmin))
	assert.NoError(t, err)
	studentToken, err := jwtService.GenerateSessionToken(7, string(model.RoleStudent))
	assert.NoError(t, err)
	resetToken, err := jwtService.GenerateResetToken(7)
	assert.NoError(t, err)

	tests := []struct {
		name         string
		token        string
		expectedCode int
	}{
		{name: "admin session passes", token: adminToken, expectedCode: http.StatusOK},
		{name: "student session is forbidden", token: studentToken, expectedCode: http.StatusForbidden},
		{name: "reset token carries no role and is forbidden", token: resetToken, expectedCode: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin-only", nil)
			req.Header.Set(echo.HeaderAuthorization, "Bearer "+tt.token)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedCode, rec.Code)
		})
	}
}
