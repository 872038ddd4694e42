// Package session holds the authenticated actor shared by every screen.
package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-portal/internal/models"
	appErrors "github.com/noah-isme/sma-portal/pkg/errors"
)

// Authenticator is the slice of the record API used for sign in.
type Authenticator interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error)
	Register(ctx context.Context, req models.RegistrationRequest) (*models.Actor, error)
}

// ErrNotLoggedIn is returned by operations that need an actor.
var ErrNotLoggedIn = appErrors.Clone(appErrors.ErrUnauthorized, "not logged in")

var registrationMessages = map[string]string{
	"Email":           "Please enter a valid email",
	"Phone":           "Please enter a valid phone number",
	"Password":        "Password must be at least 6 characters",
	"ConfirmPassword": "Passwords do not match",
	"FirstName":       "Please enter first name",
	"LastName":        "Please enter last name",
	"Role":            "Please choose student, teacher or admin",
}

// Session is safe for concurrent use. Readers always observe the latest
// actor, so role changes apply to the next permission check.
type Session struct {
	auth     Authenticator
	validate *validator.Validate
	logger   *zap.Logger
	now      func() time.Time

	mu        sync.RWMutex
	actor     *models.Actor
	token     string
	expiresAt time.Time
}

// New constructs an empty session.
func New(auth Authenticator, validate *validator.Validate, logger *zap.Logger) *Session {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{auth: auth, validate: validate, logger: logger, now: time.Now}
}

// Login authenticates and stores the returned actor and token.
func (s *Session) Login(ctx context.Context, email, password string) (*models.Actor, error) {
	req := models.LoginRequest{Email: strings.TrimSpace(email), Password: password}
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "email and password are required")
	}

	resp, err := s.auth.Login(ctx, req)
	if err != nil {
		return nil, err
	}
	if _, ok := models.ParseRole(string(resp.User.Role)); !ok {
		return nil, appErrors.Clone(appErrors.ErrDecode, "login response carried an unknown role")
	}

	expiresAt := s.tokenExpiry(resp.AccessToken)
	if expiresAt.IsZero() && resp.ExpiresIn > 0 {
		expiresAt = s.now().Add(time.Duration(resp.ExpiresIn) * time.Second)
	}

	actor := resp.User
	actor.Role, _ = models.ParseRole(string(actor.Role))

	s.mu.Lock()
	s.actor = &actor
	s.token = resp.AccessToken
	s.expiresAt = expiresAt
	s.mu.Unlock()

	s.logger.Info("session started", zap.String("user_id", actor.ID), zap.String("role", string(actor.Role)))
	return s.Actor(), nil
}

// Register validates the form locally and creates the account. It does not
// log the new user in.
func (s *Session) Register(ctx context.Context, req models.RegistrationRequest) (*models.Actor, error) {
	req.Email = strings.TrimSpace(req.Email)
	req.Phone = strings.TrimSpace(req.Phone)
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Username = req.FirstName + " " + req.LastName
	if req.Role == "" {
		req.Role = models.RoleStudent
	}

	if err := s.validate.Struct(req); err != nil {
		return nil, registrationError(err)
	}
	return s.auth.Register(ctx, req)
}

func registrationError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		if msg, ok := registrationMessages[verrs[0].StructField()]; ok {
			return appErrors.Clone(appErrors.ErrValidation, msg)
		}
	}
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, appErrors.ErrValidation.Message)
}

// Logout forgets the actor and token.
func (s *Session) Logout() {
	s.mu.Lock()
	s.actor = nil
	s.token = ""
	s.expiresAt = time.Time{}
	s.mu.Unlock()
}

// Actor returns a copy of the current actor, or nil.
func (s *Session) Actor() *models.Actor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.actor == nil {
		return nil
	}
	cp := *s.actor
	return &cp
}

// Role returns the current role, or "" when logged out.
func (s *Session) Role() models.Role {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.actor == nil {
		return ""
	}
	return s.actor.Role
}

// Token returns the bearer token, or "".
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Expired reports whether the token's exp claim has passed. Tokens without
// an expiry never expire.
func (s *Session) Expired() bool {
	s.mu.RLock()
	exp := s.expiresAt
	s.mu.RUnlock()
	return !exp.IsZero() && !s.now().Before(exp)
}

// UpdateActor replaces the actor, e.g. after the profile was saved.
func (s *Session) UpdateActor(actor models.Actor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.actor == nil {
		return
	}
	s.actor = &actor
}

// tokenExpiry reads exp without verifying the signature; the server remains
// the authority on validity.
func (s *Session) tokenExpiry(token string) time.Time {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		s.logger.Debug("access token is not a JWT", zap.Error(err))
		return time.Time{}
	}
	if claims.ExpiresAt == nil {
		return time.Time{}
	}
	return claims.ExpiresAt.Time
}
