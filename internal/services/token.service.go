package services

import (
	"errors"
	"strconv"
	"time"

	"petshop/config"
	"petshop/internal/types"
	"petshop/pkg/logger"

	"github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "petshop"

// TokenService signs and verifies the HS256 bearer tokens the API accepts.
// The subject is the user id.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
	log    logger.Logger
}

func NewTokenService(cfg config.Config) *TokenService {
	return &TokenService{
		secret: []byte(cfg.AuthTokenSecret),
		ttl:    cfg.AuthTokenTTL(),
		now:    time.Now,
		log:    logger.New("TokenService"),
	}
}

func (s *TokenService) Issue(userID int) (string, error) {
	log := s.log.Function("Issue")

	now := s.now()
	claims := jwt.RegisteredClaims{
		Issuer:    tokenIssuer,
		Subject:   strconv.Itoa(userID),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", log.Err("failed to sign token", err, "userID", userID)
	}

	return signed, nil
}

func (s *TokenService) Verify(tokenString string) (types.TokenInfo, error) {
	log := s.log.Function("Verify")

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (any, error) {
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		reason := "invalid token"
		if errors.Is(err, jwt.ErrTokenExpired) {
			reason = "token expired"
		}
		return types.TokenInfo{}, log.ErrorWithType(types.ErrUnauthorized, reason, "error", err)
	}

	userID, err := strconv.Atoi(claims.Subject)
	if err != nil || userID <= 0 {
		return types.TokenInfo{}, log.ErrorWithType(types.ErrUnauthorized, "invalid token subject", "subject", claims.Subject)
	}

	return types.TokenInfo{
		UserID:    userID,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
