package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"frenchnotes/internal/auth"
	"frenchnotes/internal/errors"
	"frenchnotes/internal/mailer"
	"frenchnotes/internal/model"
	"frenchnotes/internal/repository"
)

const bcryptCost = 10

var (
	// ErrInvalidCredentials is returned when username or password is incorrect.
	ErrInvalidCredentials = stderrors.New("invalid username or password")
	// ErrUserAlreadyExists is returned when trying to register an existing user.
	ErrUserAlreadyExists = stderrors.New("username or email already exists")
	// ErrInvalidResetToken is returned when a password reset token is invalid or expired.
	ErrInvalidResetToken = stderrors.New("invalid or expired reset token")
)

// AuthService handles registration, credential checks and the password
// reset flow. Student logins are handed to the device approval engine once
// credentials check out.
type AuthService interface {
	RegisterAdmin(ctx context.Context, username, password string) (*model.User, error)
	RegisterStudent(ctx context.Context, username, password, name, email string) (*model.User, error)
	AdminLogin(ctx context.Context, username, password string) (string, error)
	StudentLogin(ctx context.Context, username, password, deviceID, deviceInfo string) (*LoginOutcome, error)
	Profile(ctx context.Context, userID uint) (*model.User, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
}

type authService struct {
	userRepo      repository.UserRepository
	deviceService DeviceService
	jwtService    *auth.JWTService
	mail          mailer.Mailer
	frontendBase  string
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	userRepo repository.UserRepository,
	deviceService DeviceService,
	jwtService *auth.JWTService,
	mail mailer.Mailer,
	frontendBase string,
) AuthService {
	return &authService{
		userRepo:      userRepo,
		deviceService: deviceService,
		jwtService:    jwtService,
		mail:          mail,
		frontendBase:  frontendBase,
	}
}

// RegisterAdmin creates a new admin user with hashed password.
func (s *authService) RegisterAdmin(ctx context.Context, username, password string) (*model.User, error) {
	return s.register(ctx, &model.User{Username: username, Role: model.RoleAdmin}, password)
}

// RegisterStudent creates a new student user with hashed password.
func (s *authService) RegisterStudent(ctx context.Context, username, password, name, email string) (*model.User, error) {
	return s.register(ctx, &model.User{
		Username: username,
		Role:     model.RoleStudent,
		Name:     name,
		Email:    email,
	}, password)
}

func (s *authService) register(ctx context.Context, user *model.User, password string) (*model.User, error) {
	exists, err := s.userRepo.ExistsByUsernameOrEmail(ctx, user.Username, user.Email)
	if err != nil {
		return nil, fmt.Errorf("check user existence: %w", err)
	}
	if exists {
		return nil, ErrUserAlreadyExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = string(hashedPassword)

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// AdminLogin authenticates an admin and returns a session token. Admin
// logins are not device gated.
func (s *authService) AdminLogin(ctx context.Context, username, password string) (string, error) {
	user, err := s.checkCredentials(ctx, username, password, model.RoleAdmin)
	if err != nil {
		return "", err
	}

	token, err := s.jwtService.GenerateSessionToken(user.ID, string(user.Role))
	if err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return token, nil
}

// StudentLogin authenticates a student, then lets the device approval engine
// decide the outcome for this device.
func (s *authService) StudentLogin(ctx context.Context, username, password, deviceID, deviceInfo string) (*LoginOutcome, error) {
	user, err := s.checkCredentials(ctx, username, password, model.RoleStudent)
	if err != nil {
		return nil, err
	}
	return s.deviceService.AttemptLogin(ctx, user, deviceID, deviceInfo)
}

func (s *authService) checkCredentials(ctx context.Context, username, password string, role model.Role) (*model.User, error) {
	user, err := s.userRepo.FindByUsernameAndRole(ctx, username, role)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// Profile returns the caller's own user record.
func (s *authService) Profile(ctx context.Context, userID uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

// RequestPasswordReset emails a short-lived reset link to a student. The
// response is uniform whether or not the email exists, so account existence
// is not leaked to the caller.
func (s *authService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.userRepo.FindByEmailAndRole(ctx, email, model.RoleStudent)
	if err != nil {
		log.Printf("password reset requested for unknown email: %v", err)
		return nil
	}

	token, err := s.jwtService.GenerateResetToken(user.ID)
	if err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}

	resetLink := fmt.Sprintf("%s/reset-password/%s", s.frontendBase, token)
	if err := s.mail.SendPasswordResetEmail(user.Email, user.Name, resetLink); err != nil {
		log.Printf("password reset email to %s failed: %v", user.Email, err)
		return errors.ErrEmailDelivery
	}
	return nil
}

// ResetPassword verifies the short-lived token and updates the password hash.
func (s *authService) ResetPassword(ctx context.Context, token, newPassword string) error {
	claims, err := s.jwtService.ValidateToken(token)
	if err != nil {
		return ErrInvalidResetToken
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil || user.Role != model.RoleStudent {
		return ErrInvalidResetToken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.userRepo.UpdatePassword(ctx, user.ID, string(hashedPassword)); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}
