// Package auth issues and validates sessions. A session is an explicit
// value returned from Login and Refresh: a short-lived JWT access token
// plus a Redis-backed refresh token. Nothing is held in package state.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/ticketbari/ticketbari/config"
	"github.com/ticketbari/ticketbari/internal/model"
	"github.com/ticketbari/ticketbari/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid token")
	ErrSessionExpired     = errors.New("session expired")
	ErrEmailTaken         = errors.New("email already registered")
)

// Identity is the authenticated caller extracted from an access token.
type Identity struct {
	Email string
	Role  model.Role
}

// Session is the result of a successful login or refresh.
type Session struct {
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
	ExpiresAt    time.Time   `json:"expiresAt"`
	User         *model.User `json:"user"`
}

type Service struct {
	mysqlRepo  *repository.MySQLRepository
	redisRepo  *repository.RedisRepository
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewService(mysqlRepo *repository.MySQLRepository, redisRepo *repository.RedisRepository) *Service {
	return &Service{
		mysqlRepo:  mysqlRepo,
		redisRepo:  redisRepo,
		secret:     []byte(config.AppConfig.Auth.JWTSecret),
		accessTTL:  config.AppConfig.Auth.AccessTokenTTL,
		refreshTTL: config.AppConfig.Auth.RefreshTokenTTL,
		now:        time.Now,
	}
}

// RegisterInput is the payload for account creation.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	PhotoURL string
}

// Register creates a user account with the default role.
func (s *Service) Register(in RegisterInput) (*model.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Email:     strings.ToLower(in.Email),
		PhotoURL:  in.PhotoURL,
		Password:  string(hashed),
		Role:      model.RoleUser,
		CreatedAt: s.now(),
	}

	if err := s.mysqlRepo.CreateUser(user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	user.Password = ""
	return user, nil
}

// Login verifies credentials and opens a new session.
func (s *Service) Login(email, password string) (*Session, error) {
	user, err := s.mysqlRepo.GetUserByEmail(strings.ToLower(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.openSession(user)
}

// Refresh rotates a refresh token: the presented token is revoked and a
// fresh session is returned.
func (s *Service) Refresh(refreshToken string) (*Session, error) {
	sess, ok, err := s.redisRepo.GetRefreshSession(refreshToken)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrSessionExpired
	}

	if err := s.redisRepo.DeleteRefreshSession(refreshToken); err != nil {
		return nil, err
	}

	user, err := s.mysqlRepo.GetUserByEmail(sess.Email)
	if err != nil {
		return nil, err
	}

	return s.openSession(user)
}

// Logout revokes a refresh token. Access tokens are left to expire.
func (s *Service) Logout(refreshToken string) error {
	return s.redisRepo.DeleteRefreshSession(refreshToken)
}

func (s *Service) openSession(user *model.User) (*Session, error) {
	expiresAt := s.now().Add(s.accessTTL)

	claims := jwt.MapClaims{
		"sub":  user.Email,
		"role": string(user.Role),
		"exp":  expiresAt.Unix(),
		"iat":  s.now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	access, err := token.SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	refresh := uuid.New().String()
	err = s.redisRepo.SaveRefreshSession(refresh, &repository.RefreshSession{
		Email: user.Email,
		Role:  user.Role,
	}, s.refreshTTL)
	if err != nil {
		return nil, err
	}

	sanitized := *user
	sanitized.Password = ""

	return &Session{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    expiresAt,
		User:         &sanitized,
	}, nil
}

// ValidateAccessToken parses and verifies an access token and returns
// the caller identity.
func (s *Service) ValidateAccessToken(tokenString string) (*Identity, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	email, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)
	if email == "" {
		return nil, ErrInvalidToken
	}

	return &Identity{Email: email, Role: model.Role(role)}, nil
}
