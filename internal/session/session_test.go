package session

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-portal/internal/models"
	appErrors "github.com/noah-isme/sma-portal/pkg/errors"
)

type authStub struct {
	loginResp  *models.LoginResponse
	loginErr   error
	lastLogin  models.LoginRequest
	registered []models.RegistrationRequest
}

func (a *authStub) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	a.lastLogin = req
	return a.loginResp, a.loginErr
}

func (a *authStub) Register(ctx context.Context, req models.RegistrationRequest) (*models.Actor, error) {
	a.registered = append(a.registered, req)
	return &models.Actor{ID: "new", Username: req.Username, Email: req.Email, Role: req.Role}, nil
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(exp)})
	signed, err := token.SignedString([]byte("test"))
	require.NoError(t, err)
	return signed
}

func validRegistration() models.RegistrationRequest {
	return models.RegistrationRequest{
		Email:           "sam@school.test",
		Phone:           "9876543210",
		Password:        "secret1",
		ConfirmPassword: "secret1",
		FirstName:       " Sam ",
		LastName:        "Student",
	}
}

func TestLoginStoresActorAndToken(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	token := signedToken(t, now.Add(time.Hour))
	auth := &authStub{loginResp: &models.LoginResponse{
		AccessToken: token,
		User:        models.Actor{ID: "u1", Username: "Ada Admin", Role: "ADMIN"},
	}}
	s := New(auth, nil, nil)
	s.now = func() time.Time { return now }

	actor, err := s.Login(context.Background(), " ada@school.test ", "pw")
	require.NoError(t, err)

	assert.Equal(t, "ada@school.test", auth.lastLogin.Email)
	assert.Equal(t, models.RoleAdmin, actor.Role)
	assert.Equal(t, models.RoleAdmin, s.Role())
	assert.Equal(t, token, s.Token())
	assert.False(t, s.Expired())

	s.now = func() time.Time { return now.Add(2 * time.Hour) }
	assert.True(t, s.Expired())

	s.Logout()
	assert.Nil(t, s.Actor())
	assert.Empty(t, s.Token())
	assert.Equal(t, models.Role(""), s.Role())
}

func TestLoginFailures(t *testing.T) {
	s := New(&authStub{loginErr: appErrors.ErrInvalidCredentials}, nil, nil)

	_, err := s.Login(context.Background(), "", "pw")
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = s.Login(context.Background(), "ada@school.test", "bad")
	assert.ErrorIs(t, err, appErrors.ErrInvalidCredentials)
	assert.Nil(t, s.Actor())

	s = New(&authStub{loginResp: &models.LoginResponse{AccessToken: "opaque", User: models.Actor{Role: "principal"}}}, nil, nil)
	_, err = s.Login(context.Background(), "ada@school.test", "pw")
	assert.ErrorIs(t, err, appErrors.ErrDecode)
}

func TestOpaqueTokenUsesExpiresIn(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	s := New(&authStub{loginResp: &models.LoginResponse{AccessToken: "opaque", ExpiresIn: 60, User: models.Actor{Role: models.RoleTeacher}}}, nil, nil)
	s.now = func() time.Time { return now }

	_, err := s.Login(context.Background(), "t@school.test", "pw")
	require.NoError(t, err)
	assert.False(t, s.Expired())
	s.now = func() time.Time { return now.Add(time.Minute) }
	assert.True(t, s.Expired())
}

func TestRegisterValidation(t *testing.T) {
	cases := map[string]struct {
		mutate func(*models.RegistrationRequest)
		msg    string
	}{
		"email":    {func(r *models.RegistrationRequest) { r.Email = "sam.school.test" }, "Please enter a valid email"},
		"phone":    {func(r *models.RegistrationRequest) { r.Phone = "12345" }, "Please enter a valid phone number"},
		"password": {func(r *models.RegistrationRequest) { r.Password, r.ConfirmPassword = "abc", "abc" }, "Password must be at least 6 characters"},
		"confirm":  {func(r *models.RegistrationRequest) { r.ConfirmPassword = "other1" }, "Passwords do not match"},
		"first":    {func(r *models.RegistrationRequest) { r.FirstName = "   " }, "Please enter first name"},
		"last":     {func(r *models.RegistrationRequest) { r.LastName = "" }, "Please enter last name"},
		"ordering": {func(r *models.RegistrationRequest) { r.Email, r.LastName = "", "" }, "Please enter a valid email"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			auth := &authStub{}
			req := validRegistration()
			tc.mutate(&req)

			_, err := New(auth, nil, nil).Register(context.Background(), req)
			require.Error(t, err)
			assert.ErrorIs(t, err, appErrors.ErrValidation)
			assert.Equal(t, tc.msg, err.Error())
			assert.Empty(t, auth.registered)
		})
	}
}

func TestRegisterBuildsUsername(t *testing.T) {
	auth := &authStub{}
	actor, err := New(auth, nil, nil).Register(context.Background(), validRegistration())
	require.NoError(t, err)

	require.Len(t, auth.registered, 1)
	assert.Equal(t, "Sam Student", auth.registered[0].Username)
	assert.Equal(t, models.RoleStudent, auth.registered[0].Role)
	assert.Equal(t, "Sam Student", actor.Username)
}

func TestUpdateActorRequiresSession(t *testing.T) {
	s := New(&authStub{loginResp: &models.LoginResponse{AccessToken: "x", User: models.Actor{ID: "u1", Role: models.RoleAdmin}}}, nil, nil)
	s.UpdateActor(models.Actor{ID: "u1", Role: models.RoleStudent})
	assert.Nil(t, s.Actor())

	_, err := s.Login(context.Background(), "a@school.test", "pw")
	require.NoError(t, err)
	s.UpdateActor(models.Actor{ID: "u1", Role: models.RoleStudent})
	assert.Equal(t, models.RoleStudent, s.Role())
}
