package auth

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/marmos91/dittodrive/internal/logger"
	"github.com/marmos91/dittodrive/pkg/drive/models"
)

// EnvJWTSecret is the name of the environment variable for the JWT signing
// secret. It takes precedence over the config file value.
const EnvJWTSecret = "DITTODRIVE_JWT_SECRET"

// Common errors for token operations.
var (
	ErrInvalidToken        = errors.New("invalid token")
	ErrExpiredToken        = errors.New("token has expired")
	ErrTokenSigningFailed  = errors.New("failed to sign token")
	ErrInvalidSecretLength = errors.New("JWT secret must be at least 32 characters")
)

// Config holds token validation and generation settings.
type Config struct {
	// Secret is the HMAC signing key for JWT tokens.
	// Must be at least 32 characters long.
	// Can also be set via the DITTODRIVE_JWT_SECRET environment variable.
	// The DITTODRIVE_AUTH_SECRET environment variable overrides this.
	Secret string `mapstructure:"secret" yaml:"secret"`

	// Issuer is the expected token issuer claim. Default: "dittodrive".
	Issuer string `mapstructure:"issuer" yaml:"issuer"`

	// TokenDuration is the lifetime of tokens issued by Generate.
	// Default: 24h
	TokenDuration time.Duration `mapstructure:"token_duration" yaml:"token_duration"`
}

// GetSecret returns the JWT secret, preferring the environment variable.
// When both the environment variable and the config file set a secret, the
// environment wins and a warning is logged. Empty when neither is set.
func (c *Config) GetSecret() string {
	envSecret := os.Getenv(EnvJWTSecret)
	if envSecret != "" {
		if c.Secret != "" && c.Secret != envSecret {
			logger.Warn("JWT secret from environment variable overrides config file value",
				"env_var", EnvJWTSecret)
		}
		return envSecret
	}
	return c.Secret
}

// HasSecret returns whether a JWT secret is configured.
func (c *Config) HasSecret() bool {
	return c.GetSecret() != ""
}

// TokenService validates and issues HS256 bearer tokens.
type TokenService struct {
	config Config
}

// NewTokenService creates a new token service with the given configuration.
func NewTokenService(config Config) (*TokenService, error) {
	if len(config.Secret) < 32 {
		return nil, ErrInvalidSecretLength
	}

	// Apply defaults
	if config.Issuer == "" {
		config.Issuer = "dittodrive"
	}
	if config.TokenDuration == 0 {
		config.TokenDuration = 24 * time.Hour
	}

	return &TokenService{config: config}, nil
}

// Generate issues a signed token for the given principal.
//
// Production tokens are issued upstream where identity is established;
// Generate serves tests and development tooling such as "dittodrive token".
func (s *TokenService) Generate(principal models.Principal) (string, error) {
	if principal.ID == "" {
		return "", fmt.Errorf("principal id is required")
	}

	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   principal.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.TokenDuration)),
		},
		Email: principal.Email,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(s.config.Secret))
	if err != nil {
		return "", ErrTokenSigningFailed
	}

	return signedToken, nil
}

// Validate checks signature, expiry, issuer and subject and returns the
// claims. Returns an error if any check fails.
func (s *TokenService) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Verify signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.Secret), nil
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
	if claims.Issuer != s.config.Issuer {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// TokenDuration returns the configured token lifetime.
func (s *TokenService) TokenDuration() time.Duration {
	return s.config.TokenDuration
}
