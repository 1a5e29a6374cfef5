package devserver

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"delicia/internal/domain"
	profilerepo "delicia/internal/repository/profile"
	tokenrepo "delicia/internal/repository/token"
)

var (
	// ErrInvalidCredentials is returned when email/password do not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken indicates the provided token could not be validated.
	ErrInvalidToken = errors.New("invalid token")
)

// AuthService implements the password grant against the profiles table and
// stores issued bearer tokens.
type AuthService struct {
	profiles   profilerepo.Repository
	tokens     *tokenManager
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewAuthService(profiles profilerepo.Repository, tokens tokenrepo.Repository) *AuthService {
	return &AuthService{
		profiles:   profiles,
		tokens:     newTokenManager(tokens),
		accessTTL:  48 * time.Hour,
		refreshTTL: 30 * 24 * time.Hour,
	}
}

// Login validates credentials and returns the account plus issued tokens.
func (s *AuthService) Login(ctx context.Context, email, password string) (*profilerepo.Record, string, string, error) {
	rec, err := s.profiles.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", "", ErrInvalidCredentials
		}
		return nil, "", "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(rec.PasswordHash), []byte(password)); err != nil {
		return nil, "", "", ErrInvalidCredentials
	}

	access, err := s.tokens.Issue(ctx, rec.ID, "access", s.accessTTL)
	if err != nil {
		return nil, "", "", err
	}
	refresh, err := s.tokens.Issue(ctx, rec.ID, "refresh", s.refreshTTL)
	if err != nil {
		return nil, "", "", err
	}
	return rec, access, refresh, nil
}

// LookupByToken returns the user id bound to a valid access token.
func (s *AuthService) LookupByToken(ctx context.Context, token string) (string, error) {
	meta, ok := s.tokens.Validate(ctx, token)
	if !ok {
		return "", ErrInvalidToken
	}
	return meta.UserID, nil
}

// AccessTTLSeconds exposes the access token lifetime in seconds.
func (s *AuthService) AccessTTLSeconds() int {
	return int(s.accessTTL.Seconds())
}
