package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pkordes/globetrotter/backend/internal/auth"
	"github.com/pkordes/globetrotter/backend/internal/domain"
	"github.com/pkordes/globetrotter/backend/internal/repo"
)

// Demo account created by SeedDemoUser.
const (
	DemoEmail    = "demo@globetrotter.com"
	DemoPassword = "demo123"
	DemoName     = "Demo User"
)

// TokenIssuer mints session tokens. *auth.TokenManager satisfies it.
type TokenIssuer interface {
	Generate(userID, email string) (string, error)
}

// SignupInput carries the fields accepted at signup.
type SignupInput struct {
	Email    string
	Name     string
	Password string
}

// Session is returned by Signup and Login.
type Session struct {
	AccessToken string      `json:"accessToken"`
	TokenType   string      `json:"tokenType"`
	User        domain.User `json:"user"`
}

// AuthService implements account registration, login and profile updates.
type AuthService struct {
	users  repo.UserRepo
	tokens TokenIssuer
	now    func() time.Time
}

// NewAuthService constructs an AuthService.
func NewAuthService(users repo.UserRepo, tokens TokenIssuer) *AuthService {
	return &AuthService{users: users, tokens: tokens, now: time.Now}
}

// Signup registers a new account and logs it in.
// Returns domain.ErrConflict if the email is already registered.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (Session, error) {
	if err := validateSignup(in); err != nil {
		return Session{}, fmt.Errorf("service.AuthService.Signup: %w", err)
	}

	_, err := s.users.GetByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return Session{}, fmt.Errorf("service.AuthService.Signup: %w: email already registered", domain.ErrConflict)
	case !errors.Is(err, domain.ErrNotFound):
		return Session{}, fmt.Errorf("service.AuthService.Signup: %w", err)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return Session{}, fmt.Errorf("service.AuthService.Signup: %w", err)
	}

	// The unique index still guards against a concurrent signup slipping
	// past the lookup above.
	user, err := s.users.Create(ctx, domain.User{
		ID:           domain.NewID(domain.PrefixUser),
		Email:        in.Email,
		Name:         strings.TrimSpace(in.Name),
		PasswordHash: hash,
		CreatedAt:    s.now().UTC().Truncate(time.Microsecond),
	})
	if err != nil {
		return Session{}, fmt.Errorf("service.AuthService.Signup: %w", err)
	}
	return s.session(user)
}

// Login checks credentials and issues a session token.
// An unknown email and a wrong password both return domain.ErrUnauthorized.
func (s *AuthService) Login(ctx context.Context, email, password string) (Session, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return Session{}, fmt.Errorf("service.AuthService.Login: %w: invalid email or password", domain.ErrUnauthorized)
		}
		return Session{}, fmt.Errorf("service.AuthService.Login: %w", err)
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return Session{}, fmt.Errorf("service.AuthService.Login: %w: invalid email or password", domain.ErrUnauthorized)
	}
	return s.session(user)
}

// Me returns the account behind a validated session.
// Returns domain.ErrNotFound if the account no longer exists.
func (s *AuthService) Me(ctx context.Context, userID string) (domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return domain.User{}, fmt.Errorf("service.AuthService.Me: %w", err)
	}
	return user, nil
}

// UpdateProfile applies the non-nil fields of p to the caller's account.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, p domain.ProfileUpdate) (domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return domain.User{}, fmt.Errorf("service.AuthService.UpdateProfile: %w", err)
	}
	if p.Name != nil {
		if strings.TrimSpace(*p.Name) == "" {
			var v domain.ValidationError
			v.Add("name", "must not be blank")
			return domain.User{}, fmt.Errorf("service.AuthService.UpdateProfile: %w", v.Err())
		}
		user.Name = strings.TrimSpace(*p.Name)
	}
	if p.Avatar != nil {
		user.Avatar = p.Avatar
	}

	result, err := s.users.UpdateProfile(ctx, user)
	if err != nil {
		return domain.User{}, fmt.Errorf("service.AuthService.UpdateProfile: %w", err)
	}
	return result, nil
}

// SeedDemoUser creates the demo account unless it already exists.
func (s *AuthService) SeedDemoUser(ctx context.Context, logger *slog.Logger) error {
	_, err := s.Signup(ctx, SignupInput{Email: DemoEmail, Name: DemoName, Password: DemoPassword})
	switch {
	case err == nil:
		logger.Info("demo user created", "email", DemoEmail)
		return nil
	case errors.Is(err, domain.ErrConflict):
		return nil
	default:
		return fmt.Errorf("service.AuthService.SeedDemoUser: %w", err)
	}
}

func (s *AuthService) session(user domain.User) (Session, error) {
	token, err := s.tokens.Generate(user.ID, user.Email)
	if err != nil {
		return Session{}, fmt.Errorf("issue token: %w", err)
	}
	return Session{AccessToken: token, TokenType: "bearer", User: user}, nil
}
