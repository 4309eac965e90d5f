package service

import (
	"go-retail-stock/internal/apperr"
	"go-retail-stock/internal/model"
	"go-retail-stock/internal/repository"
	"go-retail-stock/pkg/jwt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrInvalidCredentials = apperr.Auth("invalid email or password")
	ErrUserInactive       = apperr.Auth("user account is inactive")
	ErrSessionReplaced    = apperr.Auth("session expired (logged in on another device)")
	ErrWrongPassword      = apperr.Validation("current password is incorrect")
)

type AuthService interface {
	Login(email, password string) (*LoginResponse, error)
	ResetPassword(email, oldPassword, newPassword string) error
	ValidateToken(tokenString string) (*TokenValidationResponse, error)
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token      string             `json:"token"`
	User       model.UserResponse `json:"user"`
	Role       *model.Role        `json:"role"`
	Privileges []string           `json:"privileges"`
}

type TokenValidationResponse struct {
	User       model.UserResponse `json:"user"`
	Role       *model.Role        `json:"role"`
	Privileges []string           `json:"privileges"`
}

type authService struct {
	userRepo repository.UserRepository
	tokens   *jwt.Manager
	log      *logrus.Logger
}

func NewAuthService(userRepo repository.UserRepository, tokens *jwt.Manager, log *logrus.Logger) AuthService {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
		log:      log,
	}
}

func (s *authService) Login(email, password string) (*LoginResponse, error) {
	if err := validate(LoginRequest{Email: email, Password: password}); err != nil {
		return nil, err
	}

	// 1. Find user by email
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	// 2. Check if user is active
	if !user.IsActive {
		return nil, ErrUserInactive
	}

	// 3. Verify password
	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}

	// 4. Single session: a new token version invalidates older tokens
	tokenVersion := uuid.New().String()
	if err := s.userRepo.UpdateTokenVersion(user.ID, tokenVersion); err != nil {
		return nil, apperr.Unexpected(err, "failed to update session")
	}
	logWarn(s.log, "auth", "Login", s.userRepo.UpdateLastLogin(user.ID))

	claims := jwt.Claims{
		UserID:       user.ID,
		Email:        user.Email,
		Name:         user.FullName,
		RoleCode:     user.RoleCode(),
		Privileges:   user.GetPrivilegeCodes(),
		TokenVersion: tokenVersion,
	}
	if user.StoreID != nil {
		claims.StoreID = user.StoreID.String()
	}

	// 5. Sign
	token, err := s.tokens.GenerateToken(claims)
	if err != nil {
		return nil, apperr.Unexpected(err, "failed to generate token")
	}

	return &LoginResponse{
		Token:      token,
		User:       user.ToResponse(),
		Role:       user.Role,
		Privileges: user.GetPrivilegeCodes(),
	}, nil
}

// ResetPassword changes the password and signs out every open session.
func (s *authService) ResetPassword(email, oldPassword, newPassword string) error {
	if len(newPassword) < 6 {
		return apperr.Validation("new password must be at least 6 characters")
	}

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return apperr.NotFound("user not found")
	}

	if !user.CheckPassword(oldPassword) {
		return ErrWrongPassword
	}

	if err := user.SetPassword(newPassword); err != nil {
		return apperr.Unexpected(err, "failed to hash new password")
	}
	if err := s.userRepo.UpdatePassword(user.ID, user.Password); err != nil {
		return apperr.Unexpected(err, "failed to update password")
	}

	return s.userRepo.UpdateTokenVersion(user.ID, uuid.New().String())
}

func (s *authService) ValidateToken(tokenString string) (*TokenValidationResponse, error) {
	claims, err := s.tokens.ValidateToken(tokenString)
	if err != nil {
		return nil, apperr.Auth("%s", err.Error())
	}

	user, err := s.userRepo.FindByID(claims.UserID)
	if err != nil {
		return nil, apperr.Auth("user not found")
	}

	if !user.IsActive {
		return nil, ErrUserInactive
	}

	if user.TokenVersion != claims.TokenVersion {
		return nil, ErrSessionReplaced
	}

	return &TokenValidationResponse{
		User:       user.ToResponse(),
		Role:       user.Role,
		Privileges: user.GetPrivilegeCodes(),
	}, nil
}
