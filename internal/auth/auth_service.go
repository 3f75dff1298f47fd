package auth

import (
	"context"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	autherrors "leaveflow/internal/auth/errors"
	"leaveflow/internal/directory"
	"leaveflow/internal/identity"
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
)

type Service interface {
	Login(ctx context.Context, email, password string) (accessToken, refreshToken string, resp AuthResponse, err error)

	RefreshToken(ctx context.Context, refreshToken string) (newAccessToken, newRefreshToken string, resp AuthResponse, err error)

	GetMe(ctx context.Context, userID string) (*AuthResponse, error)

	Register(ctx context.Context, req RegisterRequest) (AuthResponse, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Login(ctx context.Context, email, password string) (string, string, AuthResponse, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", "", AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	accessToken, err := s.generateToken(user, accessTokenTTL)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}
	refreshToken, err := s.generateToken(user, refreshTokenTTL)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}

	return accessToken, refreshToken, toAuthResponse(user), nil
}

func (s *service) RefreshToken(ctx context.Context, refreshToken string) (string, string, AuthResponse, error) {
	token, err := jwt.Parse(refreshToken, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, autherrors.ErrInvalidToken
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})

	if err != nil || !token.Valid {
		return "", "", AuthResponse{}, autherrors.ErrInvalidRefreshToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", AuthResponse{}, autherrors.ErrInvalidToken
	}

	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return "", "", AuthResponse{}, autherrors.ErrInvalidToken
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrInvalidUserID
	}

	// Role and department come from the current row, not the old claims, so
	// a role change takes effect on the next refresh.
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrUserNotFound
	}

	newAccessToken, err := s.generateToken(user, accessTokenTTL)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}
	newRefreshToken, err := s.generateToken(user, refreshTokenTTL)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}

	return newAccessToken, newRefreshToken, toAuthResponse(user), nil
}

func (s *service) GetMe(ctx context.Context, userID string) (*AuthResponse, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, autherrors.ErrInvalidUserID
	}

	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, autherrors.ErrUserNotFound
	}

	resp := toAuthResponse(u)
	return &resp, nil
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (AuthResponse, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return AuthResponse{}, err
	}

	role := req.Role
	if role == "" {
		role = identity.RoleEmployee
	}

	user := &directory.User{
		ID:           uuid.New(),
		FullName:     req.FullName,
		Email:        req.Email,
		PasswordHash: string(hashed),
		Role:         role,
		Department:   req.Department,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return AuthResponse{}, autherrors.ErrEmailAlreadyRegistered
	}

	return toAuthResponse(user), nil
}

// reusable token generator
func (s *service) generateToken(user *directory.User, expiry time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id":    user.ID.String(),
		"role":       user.Role,
		"department": user.Department,
		"exp":        time.Now().Add(expiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}

func toAuthResponse(u *directory.User) AuthResponse {
	return AuthResponse{
		ID:         u.ID.String(),
		FullName:   u.FullName,
		Email:      u.Email,
		Role:       u.Role,
		Department: u.Department,
	}
}
