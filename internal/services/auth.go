package services

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/huangang/codereview-assistant/internal/config"
	"github.com/huangang/codereview-assistant/internal/models"
	"github.com/huangang/codereview-assistant/internal/utils"
	"github.com/huangang/codereview-assistant/pkg/logger"
	"gorm.io/gorm"
)

const (
	minUsernameLength = 3
	maxUsernameLength = 30
	minPasswordLength = 6
)

type AuthService struct {
	db        *gorm.DB
	jwtConfig *config.JWTConfig
}

func NewAuthService(db *gorm.DB, jwtCfg *config.JWTConfig) *AuthService {
	return &AuthService{
		db:        db,
		jwtConfig: jwtCfg,
	}
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthResult struct {
	Token    string       `json:"token"`
	User     *models.User `json:"user"`
	ExpireAt time.Time    `json:"expire_at"`
}

func (r *RegisterRequest) normalize() error {
	r.Username = strings.TrimSpace(r.Username)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))

	if r.Username == "" || r.Email == "" || r.Password == "" {
		return &ValidationError{Message: "username, email, and password are required"}
	}
	if n := utf8.RuneCountInString(r.Username); n < minUsernameLength || n > maxUsernameLength {
		return &ValidationError{Field: "username", Message: "username must be between 3 and 30 characters"}
	}
	if !strings.Contains(r.Email, "@") {
		return &ValidationError{Field: "email", Message: "please enter a valid email"}
	}
	if len(r.Password) < minPasswordLength {
		return &ValidationError{Field: "password", Message: "password must be at least 6 characters long"}
	}
	return nil
}

// Register creates a local account and signs the user in.
func (s *AuthService) Register(req *RegisterRequest) (*AuthResult, error) {
	if err := req.normalize(); err != nil {
		return nil, err
	}

	var count int64
	if err := s.db.Model(&models.User{}).
		Where("email = ? OR username = ?", req.Email, req.Username).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrUserExists
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: hash,
		Role:     "user",
	}
	if err := s.db.Create(user).Error; err != nil {
		return nil, err
	}

	logger.Infof("[Auth] Registered user %d (%s)", user.ID, user.Username)
	return s.issue(user)
}

// Login authenticates by email and password.
func (s *AuthService) Login(req *LoginRequest) (*AuthResult, error) {
	var user models.User
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !utils.CheckPassword(req.Password, user.Password) {
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	user.LastLogin = &now
	if err := s.db.Model(&user).Update("last_login", now).Error; err != nil {
		logger.Warnf("[Auth] Failed to update last login for user %d: %v", user.ID, err)
	}

	return s.issue(&user)
}

func (s *AuthService) issue(user *models.User) (*AuthResult, error) {
	hours := s.jwtConfig.ExpireHour
	if hours <= 0 {
		hours = 24 * 7
	}
	token, err := utils.GenerateToken(user.ID, user.Username, user.Role, hours)
	if err != nil {
		return nil, err
	}
	return &AuthResult{
		Token:    token,
		User:     user,
		ExpireAt: time.Now().Add(time.Duration(hours) * time.Hour),
	}, nil
}

// GetUserByID retrieves a user by ID
func (s *AuthService) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}
