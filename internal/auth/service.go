// Package auth translates the application's register/login/current-user
// use cases into identity provider calls and reshapes the results. It holds
// no state: every call is a single round trip, no retries, no caching.
package auth

import (
	"context"
	"errors"

	"github.com/Anan1218/homehealth/internal/provider"
)

var (
	// ErrInvalidCredentials covers every login failure; callers must not
	// surface the underlying provider detail.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrProviderUnavailable marks transport failures and provider 5xx on
	// token introspection, so callers can tell "unauthenticated" from
	// "provider down".
	ErrProviderUnavailable = errors.New("auth provider unavailable")
)

// CreationError carries the provider's own message for a failed signup;
// the route layer surfaces it verbatim as the 400 detail.
type CreationError struct {
	Detail string
}

func (e *CreationError) Error() string { return e.Detail }

type Service struct {
	admin *provider.Client // service-role key, server-side operations
	anon  *provider.Client // public key, token introspection
}

func NewService(admin, anon *provider.Client) *Service {
	return &Service{admin: admin, anon: anon}
}

// Register creates an account at the provider and returns the fresh session.
// Any failure is reported as *CreationError with the provider detail.
func (s *Service) Register(ctx context.Context, in RegistrationRequest) (*AuthResult, error) {
	var data map[string]any
	if in.FullName != "" {
		data = map[string]any{"full_name": in.FullName}
	}
	sess, err := s.admin.SignUp(ctx, in.Email, in.Password, data)
	if err != nil {
		return nil, &CreationError{Detail: err.Error()}
	}
	if sess.User == nil {
		return nil, &CreationError{Detail: "Failed to create user"}
	}
	return resultFromSession(sess), nil
}

// Login exchanges credentials for a session. Every failure collapses to
// ErrInvalidCredentials regardless of cause.
func (s *Service) Login(ctx context.Context, in LoginRequest) (*AuthResult, error) {
	sess, err := s.admin.SignInWithPassword(ctx, in.Email, in.Password)
	if err != nil || sess.User == nil {
		return nil, ErrInvalidCredentials
	}
	return resultFromSession(sess), nil
}

// CurrentUser resolves a bearer token via provider introspection.
// A rejected token yields (nil, nil); transport failures and provider 5xx
// yield ErrProviderUnavailable.
func (s *Service) CurrentUser(ctx context.Context, token string) (*UserProfile, error) {
	u, err := s.anon.GetUser(ctx, token)
	if err != nil {
		var apiErr *provider.APIError
		if errors.As(err, &apiErr) && apiErr.Status < 500 {
			return nil, nil
		}
		return nil, ErrProviderUnavailable
	}
	p := profileFromUser(u)
	return &p, nil
}

func resultFromSession(sess *provider.Session) *AuthResult {
	return &AuthResult{
		AccessToken: sess.AccessToken,
		TokenType:   "bearer",
		ExpiresAt:   sess.ExpiresAt,
		User:        profileFromUser(sess.User),
	}
}

func profileFromUser(u *provider.User) UserProfile {
	p := UserProfile{
		ID:        u.ID,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
	if name, ok := u.UserMetadata["full_name"].(string); ok && name != "" {
		p.FullName = &name
	}
	return p
}
