package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timeyeet/timeyeet-backend-go/internal/domain/auth"
	"github.com/timeyeet/timeyeet-backend-go/internal/domain/profile"
	"github.com/timeyeet/timeyeet-backend-go/internal/domain/user"
	"github.com/timeyeet/timeyeet-backend-go/internal/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

const (
	testAccessExp  = "1h"
	testRefreshExp = "24h"
	testSecret     = "test-secret-key-for-jwt"
)

type fakeTransactor struct{}

func (fakeTransactor) WithinTransaction(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]user.User
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, pgx.ErrNoRows
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return user.User{}, pgx.ErrNoRows
	}
	return u, nil
}

func (r *fakeUserRepo) Create(ctx context.Context, newUser user.User) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[newUser.ID] = newUser
	return newUser, nil
}

func (r *fakeUserRepo) LinkGoogleAccount(ctx context.Context, googleID string, email string) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, u := range r.users {
		if u.Email == email {
			provider := user.ProviderGoogle
			u.OAuthProvider = &provider
			u.OAuthProviderID = &googleID
			r.users[id] = u
			return u, nil
		}
	}
	return user.User{}, pgx.ErrNoRows
}

type fakeProfileRepo struct {
	profiles map[string]profile.Profile
}

func (r *fakeProfileRepo) Create(ctx context.Context, p profile.Profile) (profile.Profile, error) {
	r.profiles[p.ID] = p
	return p, nil
}

func (r *fakeProfileRepo) GetByUserID(ctx context.Context, userID string) (profile.Profile, error) {
	p, ok := r.profiles[userID]
	if !ok {
		return profile.Profile{}, profile.ErrProfileNotFound
	}
	return p, nil
}

func (r *fakeProfileRepo) Update(ctx context.Context, p profile.Profile) (profile.Profile, error) {
	r.profiles[p.ID] = p
	return p, nil
}

type storedToken struct {
	userID  string
	revoked bool
}

type fakeRefreshTokenRepo struct {
	tokens map[string]*storedToken
}

func (r *fakeRefreshTokenRepo) CreateRefreshToken(ctx context.Context, userID string, token string, expiresAt int64, sessionReq auth.SessionTrackingRequest) error {
	r.tokens[token] = &storedToken{userID: userID}
	return nil
}

func (r *fakeRefreshTokenRepo) IsRefreshTokenRevoked(ctx context.Context, token string) (string, bool, error) {
	t, ok := r.tokens[token]
	if !ok {
		return "", false, pgx.ErrNoRows
	}
	return t.userID, t.revoked, nil
}

func (r *fakeRefreshTokenRepo) RevokeRefreshToken(ctx context.Context, token string) error {
	if t, ok := r.tokens[token]; ok {
		t.revoked = true
	}
	return nil
}

func (r *fakeRefreshTokenRepo) DeleteStaleRefreshTokens(ctx context.Context, cutoff time.Time) (int64, error) {
	var n int64
	for token, t := range r.tokens {
		if t.revoked {
			delete(r.tokens, token)
			n++
		}
	}
	return n, nil
}

type authFixture struct {
	service  auth.AuthService
	users    *fakeUserRepo
	profiles *fakeProfileRepo
	tokens   *fakeRefreshTokenRepo
}

func newAuthFixture() authFixture {
	f := authFixture{
		users:    &fakeUserRepo{users: map[string]user.User{}},
		profiles: &fakeProfileRepo{profiles: map[string]profile.Profile{}},
		tokens:   &fakeRefreshTokenRepo{tokens: map[string]*storedToken{}},
	}
	jwtService := jwt.NewJWTService(testSecret, testAccessExp, testRefreshExp, false)
	f.service = NewAuthService(fakeTransactor{}, f.users, f.profiles, jwtService, f.tokens)
	return f
}

func (f authFixture) addPasswordUser(t *testing.T, id, email, password string) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	hash := string(hashed)
	f.users.users[id] = user.User{ID: id, Email: email, PasswordHash: &hash}
}

var testSession = auth.SessionTrackingRequest{IPAddress: "127.0.0.1", UserAgent: "Mozilla/5.0"}

// Test Login with valid credentials
func TestAuthService_Login_Success(t *testing.T) {
	// Setup
	f := newAuthFixture()
	f.addPasswordUser(t, "user-1", "mario@example.com", "password123")

	// Act
	response, err := f.service.Login(context.Background(), auth.LoginRequest{Email: " Mario@Example.com", Password: "password123"}, testSession)

	// Assert
	require.NoError(t, err)
	assert.NotEmpty(t, response.AccessToken)
	assert.NotEmpty(t, response.RefreshToken)
	assert.Greater(t, response.AccessTokenExpiresIn, int64(0))
	assert.Contains(t, f.tokens.tokens, response.RefreshToken)
}

// Test Login with invalid password
func TestAuthService_Login_InvalidPassword(t *testing.T) {
	f := newAuthFixture()
	f.addPasswordUser(t, "user-1", "mario@example.com", "password123")

	_, err := f.service.Login(context.Background(), auth.LoginRequest{Email: "mario@example.com", Password: "wrongpassword"}, testSession)

	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

// Test Login with non-existent user
func TestAuthService_Login_UserNotFound(t *testing.T) {
	f := newAuthFixture()

	_, err := f.service.Login(context.Background(), auth.LoginRequest{Email: "nobody@example.com", Password: "password123"}, testSession)

	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

// Test Login for an account created through Google
func TestAuthService_Login_GoogleOnlyAccount(t *testing.T) {
	f := newAuthFixture()
	f.users.users["user-1"] = user.User{ID: "user-1", Email: "mario@example.com"}

	_, err := f.service.Login(context.Background(), auth.LoginRequest{Email: "mario@example.com", Password: "password123"}, testSession)

	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

// Test Register creates user and profile
func TestAuthService_Register_Success(t *testing.T) {
	// Setup
	f := newAuthFixture()
	req := auth.RegisterRequest{
		Email:           "Giulia@Example.com",
		Password:        "password123",
		ConfirmPassword: "password123",
		FirstName:       " Giulia ",
	}

	// Act
	response, err := f.service.Register(context.Background(), req, testSession)

	// Assert
	require.NoError(t, err)
	assert.NotEmpty(t, response.AccessToken)

	created, err := f.users.GetByEmail(context.Background(), "giulia@example.com")
	require.NoError(t, err)
	assert.True(t, created.HasPassword())
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(*created.PasswordHash), []byte("password123")))

	p, ok := f.profiles.profiles[created.ID]
	require.True(t, ok)
	require.NotNil(t, p.FirstName)
	assert.Equal(t, "Giulia", *p.FirstName)
	assert.Nil(t, p.LastName)
	assert.Equal(t, profile.DefaultLanguage, p.Language)
}

// Test Register with duplicate email
func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	f := newAuthFixture()
	f.addPasswordUser(t, "user-1", "mario@example.com", "password123")

	_, err := f.service.Register(context.Background(), auth.RegisterRequest{
		Email:           "mario@example.com",
		Password:        "password123",
		ConfirmPassword: "password123",
	}, testSession)

	assert.ErrorIs(t, err, auth.ErrEmailAlreadyExists)
}

// Test LoginWithGoogle for new user
func TestAuthService_LoginWithGoogle_NewUser(t *testing.T) {
	f := newAuthFixture()

	response, err := f.service.LoginWithGoogle(context.Background(), auth.GoogleLoginRequest{
		GoogleID:  "google-id-123",
		Email:     "newgoogleuser@example.com",
		FirstName: "Luca",
		LastName:  "Bianchi",
	}, testSession)

	require.NoError(t, err)
	assert.NotEmpty(t, response.AccessToken)

	created, err := f.users.GetByEmail(context.Background(), "newgoogleuser@example.com")
	require.NoError(t, err)
	assert.True(t, created.IsLinkedToGoogle())
	assert.True(t, created.EmailVerified)
	p := f.profiles.profiles[created.ID]
	assert.Equal(t, "Luca Bianchi", p.DisplayName())
}

// Test LoginWithGoogle links an existing password account
func TestAuthService_LoginWithGoogle_LinksExisting(t *testing.T) {
	f := newAuthFixture()
	f.addPasswordUser(t, "user-1", "mario@example.com", "password123")

	_, err := f.service.LoginWithGoogle(context.Background(), auth.GoogleLoginRequest{GoogleID: "g-1", Email: "mario@example.com"}, testSession)

	require.NoError(t, err)
	linked := f.users.users["user-1"]
	assert.True(t, linked.IsLinkedToGoogle())
	assert.True(t, linked.HasPassword())
	assert.Empty(t, f.profiles.profiles)
}

// Test RefreshToken and Logout
func TestAuthService_RefreshAndLogout(t *testing.T) {
	// Setup
	f := newAuthFixture()
	f.addPasswordUser(t, "user-1", "mario@example.com", "password123")
	tokens, err := f.service.Login(context.Background(), auth.LoginRequest{Email: "mario@example.com", Password: "password123"}, testSession)
	require.NoError(t, err)

	// Act
	refreshed, err := f.service.RefreshToken(context.Background(), auth.RefreshTokenRequest{RefreshToken: tokens.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	require.NoError(t, f.service.Logout(context.Background(), tokens.RefreshToken))

	// Assert
	_, err = f.service.RefreshToken(context.Background(), auth.RefreshTokenRequest{RefreshToken: tokens.RefreshToken})
	assert.ErrorIs(t, err, auth.ErrRefreshTokenRevoked)
}

// Test RefreshToken rejects an access token
func TestAuthService_RefreshToken_WrongType(t *testing.T) {
	f := newAuthFixture()
	f.addPasswordUser(t, "user-1", "mario@example.com", "password123")
	tokens, err := f.service.Login(context.Background(), auth.LoginRequest{Email: "mario@example.com", Password: "password123"}, testSession)
	require.NoError(t, err)

	_, err = f.service.RefreshToken(context.Background(), auth.RefreshTokenRequest{RefreshToken: tokens.AccessToken})

	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestAuthService_Logout_UnknownToken(t *testing.T) {
	f := newAuthFixture()

	err := f.service.Logout(context.Background(), "not-issued")

	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}
