package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/LEOK66/Modo-sub000/internal/config"
	"github.com/LEOK66/Modo-sub000/internal/storage"
	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// Service issues and verifies the HS256 bearer tokens the API uses.
type Service struct {
	config  *config.Config
	storage storage.Storage
}

func NewService(cfg *config.Config, storage storage.Storage) *Service {
	return &Service{config: cfg, storage: storage}
}

// SignInDev issues a long-lived token for a fixed dev user and makes sure
// that user has an owner profile. Only wired up when AUTH_MODE=dev.
func (s *Service) SignInDev(ctx context.Context) (*DevAuthResponse, error) {
	const devUserID = "dev-user"
	const devTTL = 30 * 24 * time.Hour

	accessToken, err := s.generateJWTWithTTL(devUserID, devTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate dev JWT: %w", err)
	}

	profile, err := s.findOrCreateOwnerProfile(ctx, devUserID)
	if err != nil {
		return nil, err
	}

	return &DevAuthResponse{
		AccessToken:    accessToken,
		TokenType:      "Bearer",
		ExpiresIn:      int64(devTTL.Seconds()),
		OwnerUserID:    devUserID,
		OwnerProfileID: profile.ID,
	}, nil
}

func (s *Service) findOrCreateOwnerProfile(ctx context.Context, ownerUserID string) (*storage.Profile, error) {
	profiles, err := s.storage.ListProfiles(ctx)
	if err != nil {
		return nil, err
	}
	for i := range profiles {
		if strings.EqualFold(profiles[i].OwnerUserID, ownerUserID) && profiles[i].Type == "owner" {
			return &profiles[i], nil
		}
	}

	profile := &storage.Profile{
		OwnerUserID: ownerUserID,
		Type:        "owner",
		Name:        "Me",
	}
	if err := s.storage.CreateProfile(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *Service) GenerateJWT(ownerUserID string) (string, error) {
	return s.generateJWTWithTTL(ownerUserID, time.Duration(s.config.JWTTTLMinutes)*time.Minute)
}

func (s *Service) generateJWTWithTTL(ownerUserID string, ttl time.Duration) (string, error) {
	now := time.Now()
	exp := now.Add(ttl)

	claims := jwt.MapClaims{
		"sub": ownerUserID,
		"iss": s.config.JWTIssuer,
		"exp": exp.Unix(),
		"iat": now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}

// VerifyJWT checks the signature and returns the subject.
func (s *Service) VerifyJWT(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.JWTSecret), nil
	})

	if err != nil {
		return "", ErrInvalidToken
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		sub, ok := claims["sub"].(string)
		if !ok {
			return "", ErrInvalidToken
		}
		return sub, nil
	}

	return "", ErrInvalidToken
}
