package jwt

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"tourdesk/config"
	"tourdesk/shared/constant"
	"tourdesk/shared/timezone"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

//go:generate mockgen -source=./jwt.go -destination=./mocks/jwt_mock.go -package=mocks

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrExpiredToken  = errors.New("token has expired")
	ErrInvalidClaim  = errors.New("invalid token claim")
	ErrMissingHeader = errors.New("authorization header is required")
	ErrInvalidHeader = errors.New("authorization header must start with 'Bearer '")
)

// TokenType represents the type of JWT token
type TokenType string

const (
	AccessToken  TokenType = "access"
	RefreshToken TokenType = "refresh"
)

const bearerPrefix = "Bearer "

// Claims represents the JWT claims structure
type Claims struct {
	OperatorID string    `json:"operator_id"`
	Email      string    `json:"email"`
	Role       string    `json:"role,omitempty"`
	TokenID    string    `json:"token_id"`
	Type       TokenType `json:"type"`
	jwt.RegisteredClaims
}

// TokenPair represents access and refresh token pair
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

type JWT interface {
	GenerateTokenPair(ctx context.Context, operatorID, email, role string) (*TokenPair, error)
	ValidateToken(ctx context.Context, tokenString string, tokenType TokenType) (*Claims, error)
	RefreshTokens(ctx context.Context, refreshToken string) (*TokenPair, error)
}

type Service struct {
	config *config.Config
}

func New(cfg *config.Config) JWT {
	return &Service{
		config: cfg,
	}
}

func (s *Service) GenerateTokenPair(_ context.Context, operatorID, email, role string) (*TokenPair, error) {
	now := timezone.Now()

	accessToken, err := s.generateToken(operatorID, email, role, AccessToken, now, s.config.JWT.AccessExpireMin)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.generateToken(operatorID, email, role, RefreshToken, now, s.config.JWT.RefreshExpireMin)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    strings.TrimSpace(bearerPrefix),
		ExpiresIn:    int64(s.config.JWT.AccessExpireMin * constant.MinutesToSeconds),
	}, nil
}

func (s *Service) secret(tokenType TokenType) (string, error) {
	switch tokenType {
	case AccessToken:
		return s.config.JWT.AccessSecret, nil
	case RefreshToken:
		return s.config.JWT.RefreshSecret, nil
	default:
		return "", fmt.Errorf("unknown token type: %s", tokenType)
	}
}

func (s *Service) generateToken(operatorID, email, role string, tokenType TokenType, issuedAt time.Time, expireMin int) (string, error) {
	expiresAt := issuedAt.Add(time.Duration(expireMin) * time.Minute)
	tokenID := uuid.NewString()

	claims := Claims{
		OperatorID: operatorID,
		Email:      email,
		Role:       role,
		TokenID:    tokenID,
		Type:       tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
			Issuer:    s.config.App.Name,
			Subject:   operatorID,
			ID:        tokenID,
		},
	}

	secret, err := s.secret(tokenType)
	if err != nil {
		return "", err
	}

	signedToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signedToken, nil
}

func (s *Service) ValidateToken(_ context.Context, tokenString string, tokenType TokenType) (*Claims, error) {
	secret, err := s.secret(tokenType)
	if err != nil {
		return nil, err
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}

		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}

		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.Type != tokenType {
		return nil, ErrInvalidClaim
	}

	return claims, nil
}

// RefreshTokens issues a fresh pair from a valid refresh token.
func (s *Service) RefreshTokens(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.ValidateToken(ctx, refreshToken, RefreshToken)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}

	return s.GenerateTokenPair(ctx, claims.OperatorID, claims.Email, claims.Role)
}

func ExtractTokenFromHeader(authHeader string) (string, error) {
	if authHeader == "" {
		return "", ErrMissingHeader
	}

	token, found := strings.CutPrefix(authHeader, bearerPrefix)
	if !found || token == "" {
		return "", ErrInvalidHeader
	}

	return token, nil
}
