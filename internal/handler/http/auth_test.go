package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timeyeet/timeyeet-backend-go/internal/domain/auth"
	"github.com/timeyeet/timeyeet-backend-go/internal/pkg/jwt"
	"github.com/timeyeet/timeyeet-backend-go/internal/pkg/oauth"
	"golang.org/x/oauth2"
)

const (
	handlerTestAccessExp  = "1h"
	handlerTestRefreshExp = "24h"
	handlerTestSecret     = "test-secret-key-for-jwt"
	handlerTestPassword   = "password123"
)

func newHandlerJWTService() jwt.Service {
	return jwt.NewJWTService(handlerTestSecret, handlerTestAccessExp, handlerTestRefreshExp, false)
}

// authedContext returns a context carrying a verified access token for userID.
func authedContext(t *testing.T, svc jwt.Service, userID string) context.Context {
	t.Helper()
	access, _, err := svc.GenerateAccessToken(userID, userID+"@example.com")
	require.NoError(t, err)
	token, err := jwtauth.VerifyToken(svc.JWTAuth(), access)
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp
}

func findCookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

type fakeAuthService struct {
	users       map[string]string // email -> password
	refresh     map[string]bool   // token -> revoked
	lastSession auth.SessionTrackingRequest
	lastGoogle  auth.GoogleLoginRequest
}

func newFakeAuthService() *fakeAuthService {
	return &fakeAuthService{
		users:   map[string]string{"mario@example.com": handlerTestPassword},
		refresh: map[string]bool{},
	}
}

func (f *fakeAuthService) tokens(email string) auth.TokenResponse {
	refresh := "refresh-" + email
	f.refresh[refresh] = false
	return auth.TokenResponse{
		AccessToken:           "access-" + email,
		AccessTokenExpiresIn:  3600,
		RefreshToken:          refresh,
		RefreshTokenExpiresIn: 4102444800,
	}
}

func (f *fakeAuthService) Register(ctx context.Context, req auth.RegisterRequest, sessionReq auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	if _, ok := f.users[req.Email]; ok {
		return auth.TokenResponse{}, auth.ErrEmailAlreadyExists
	}
	f.users[req.Email] = req.Password
	f.lastSession = sessionReq
	return f.tokens(req.Email), nil
}

func (f *fakeAuthService) Login(ctx context.Context, req auth.LoginRequest, sessionReq auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	if password, ok := f.users[req.Email]; !ok || password != req.Password {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}
	f.lastSession = sessionReq
	return f.tokens(req.Email), nil
}

func (f *fakeAuthService) LoginWithGoogle(ctx context.Context, req auth.GoogleLoginRequest, sessionReq auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	f.lastGoogle = req
	return f.tokens(req.Email), nil
}

func (f *fakeAuthService) Logout(ctx context.Context, refreshToken string) error {
	if _, ok := f.refresh[refreshToken]; !ok {
		return auth.ErrInvalidToken
	}
	f.refresh[refreshToken] = true
	return nil
}

func (f *fakeAuthService) RefreshToken(ctx context.Context, req auth.RefreshTokenRequest) (auth.AccessTokenResponse, error) {
	revoked, ok := f.refresh[req.RefreshToken]
	if !ok {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}
	if revoked {
		return auth.AccessTokenResponse{}, auth.ErrRefreshTokenRevoked
	}
	return auth.AccessTokenResponse{AccessToken: "access-refreshed", AccessTokenExpiresIn: 3600}, nil
}

type fakeGoogleService struct {
	info oauth.GoogleInformation
}

func (f *fakeGoogleService) GenerateState(userAgent string) string { return "state-123" }

func (f *fakeGoogleService) RedirectURL(state string) string {
	return "https://accounts.google.com/o/oauth2/auth?state=" + state
}

func (f *fakeGoogleService) VerifyToken(ctx context.Context, code string) (*oauth2.Token, error) {
	return &oauth2.Token{AccessToken: "google-" + code}, nil
}

func (f *fakeGoogleService) VerifyUser(ctx context.Context, token *oauth2.Token) (oauth.GoogleInformation, error) {
	return f.info, nil
}

func createAuthHandler(authSvc auth.AuthService, googleSvc oauth.GoogleService) AuthHandler {
	return NewAuthHandler(newHandlerJWTService(), authSvc, googleSvc, "http://localhost:3000", false)
}

// ===== HANDLER TESTS =====

// Test Register - Success
func TestAuthHandler_Register_Success(t *testing.T) {
	// Setup
	authSvc := newFakeAuthService()
	handler := createAuthHandler(authSvc, nil)

	registerReq := auth.RegisterRequest{
		Email:           "luigi@example.com",
		Password:        "SecurePass123!",
		ConfirmPassword: "SecurePass123!",
		FirstName:       "Luigi",
	}
	body, _ := json.Marshal(registerReq)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(body))
	req.Header.Set("User-Agent", "handler-test")
	w := httptest.NewRecorder()

	// Act
	handler.Register(w, req)

	// Assert
	assert.Equal(t, http.StatusCreated, w.Code)
	resp := decodeBody(t, w)
	assert.True(t, resp["success"].(bool))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "access-luigi@example.com", data["access_token"])

	cookie := findCookie(w, "refresh_token")
	require.NotNil(t, cookie)
	assert.Equal(t, "refresh-luigi@example.com", cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, "handler-test", authSvc.lastSession.UserAgent)
}

// Test Register - Invalid Password Mismatch
func TestAuthHandler_Register_PasswordMismatch(t *testing.T) {
	handler := createAuthHandler(newFakeAuthService(), nil)

	body, _ := json.Marshal(auth.RegisterRequest{
		Email:           "luigi@example.com",
		Password:        "SecurePass123!",
		ConfirmPassword: "DifferentPass123!",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(body))
	w := httptest.NewRecorder()

	handler.Register(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	resp := decodeBody(t, w)
	assert.False(t, resp["success"].(bool))
	details := resp["error"].(map[string]interface{})["details"].(map[string]interface{})
	assert.Contains(t, details, "confirm_password")
}

// Test Register - duplicate email
func TestAuthHandler_Register_Conflict(t *testing.T) {
	handler := createAuthHandler(newFakeAuthService(), nil)

	body, _ := json.Marshal(auth.RegisterRequest{
		Email:           "mario@example.com",
		Password:        "SecurePass123!",
		ConfirmPassword: "SecurePass123!",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(body))
	w := httptest.NewRecorder()

	handler.Register(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

// Test Register - Invalid JSON
func TestAuthHandler_Register_InvalidJSON(t *testing.T) {
	handler := createAuthHandler(newFakeAuthService(), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader([]byte("invalid json")))
	w := httptest.NewRecorder()

	handler.Register(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// Test Login - Success
func TestAuthHandler_Login_Success(t *testing.T) {
	// Setup
	handler := createAuthHandler(newFakeAuthService(), nil)

	body, _ := json.Marshal(auth.LoginRequest{Email: "mario@example.com", Password: handlerTestPassword})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	w := httptest.NewRecorder()

	// Act
	handler.Login(w, req)

	// Assert
	assert.Equal(t, http.StatusCreated, w.Code)
	resp := decodeBody(t, w)
	data := resp["data"].(map[string]interface{})
	assert.NotEmpty(t, data["access_token"])
	assert.NotEmpty(t, data["refresh_token"])

	refreshTokenCookie := findCookie(w, "refresh_token")
	require.NotNil(t, refreshTokenCookie)
	assert.NotEmpty(t, refreshTokenCookie.Value)
}

// Test Login - Invalid Credentials
func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	handler := createAuthHandler(newFakeAuthService(), nil)

	body, _ := json.Marshal(auth.LoginRequest{Email: "mario@example.com", Password: "wrongpassword"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	w := httptest.NewRecorder()

	handler.Login(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Nil(t, findCookie(w, "refresh_token"))
}

// Test Login - Invalid JSON
func TestAuthHandler_Login_InvalidJSON(t *testing.T) {
	handler := createAuthHandler(newFakeAuthService(), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader("{"))
	w := httptest.NewRecorder()

	handler.Login(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// Test LoginWithGoogle - Redirect with state cookie
func TestAuthHandler_LoginWithGoogle_Redirect(t *testing.T) {
	handler := createAuthHandler(newFakeAuthService(), &fakeGoogleService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/login/oauth/google", nil)
	w := httptest.NewRecorder()

	handler.LoginWithGoogle(w, req)

	assert.Equal(t, http.StatusTemporaryRedirect, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "state=state-123")
	state := findCookie(w, "state")
	require.NotNil(t, state)
	assert.Equal(t, "state-123", state.Value)
	assert.Equal(t, googleCallbackPath, state.Path)
}

// Test LoginWithGoogle - not configured
func TestAuthHandler_LoginWithGoogle_Disabled(t *testing.T) {
	handler := createAuthHandler(newFakeAuthService(), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/login/oauth/google", nil)
	w := httptest.NewRecorder()

	handler.LoginWithGoogle(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

// Test OAuthCallbackGoogle - Success
func TestAuthHandler_OAuthCallbackGoogle_Success(t *testing.T) {
	// Setup
	authSvc := newFakeAuthService()
	handler := createAuthHandler(authSvc, &fakeGoogleService{info: oauth.GoogleInformation{
		GoogleID:   "g-1",
		Email:      "anna@example.com",
		GivenName:  "Anna",
		FamilyName: "Verdi",
	}})

	req := httptest.NewRequest(http.MethodGet, googleCallbackPath+"?state=state-123&code=abc", nil)
	req.AddCookie(&http.Cookie{Name: "state", Value: "state-123"})
	w := httptest.NewRecorder()

	// Act
	handler.OAuthCallbackGoogle(w, req)

	// Assert
	assert.Equal(t, http.StatusTemporaryRedirect, w.Code)
	location, err := url.Parse(w.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "/auth/callback/google", location.Path)
	assert.Equal(t, "access-anna@example.com", location.Query().Get("access_token"))
	assert.Equal(t, "Anna", authSvc.lastGoogle.FirstName)
	assert.Equal(t, "Verdi", authSvc.lastGoogle.LastName)
	assert.NotNil(t, findCookie(w, "refresh_token"))
}

func TestAuthHandler_OAuthCallbackGoogle_Errors(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		cookie    string
		wantError string
	}{
		{name: "missing cookie", query: "state=state-123&code=abc", wantError: "state_cookie_not_found"},
		{name: "access denied", query: "error=access_denied", cookie: "state-123", wantError: "access_denied"},
		{name: "state mismatch", query: "state=other&code=abc", cookie: "state-123", wantError: "state_mismatch"},
		{name: "missing code", query: "state=state-123", cookie: "state-123", wantError: "code_empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := createAuthHandler(newFakeAuthService(), &fakeGoogleService{})
			req := httptest.NewRequest(http.MethodGet, googleCallbackPath+"?"+tt.query, nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "state", Value: tt.cookie})
			}
			w := httptest.NewRecorder()

			handler.OAuthCallbackGoogle(w, req)

			assert.Equal(t, http.StatusTemporaryRedirect, w.Code)
			location, err := url.Parse(w.Header().Get("Location"))
			require.NoError(t, err)
			assert.Equal(t, tt.wantError, location.Query().Get("error"))
		})
	}
}

// Test Logout - Success
func TestAuthHandler_Logout_Success(t *testing.T) {
	// Setup
	authSvc := newFakeAuthService()
	tokens := authSvc.tokens("mario@example.com")
	handler := createAuthHandler(authSvc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: "refresh_token", Value: tokens.RefreshToken})
	w := httptest.NewRecorder()

	// Act
	handler.Logout(w, req)

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, authSvc.refresh[tokens.RefreshToken])
	cleared := findCookie(w, "refresh_token")
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
}

// Test Logout - No Cookie
func TestAuthHandler_Logout_NoCookie(t *testing.T) {
	handler := createAuthHandler(newFakeAuthService(), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	w := httptest.NewRecorder()

	handler.Logout(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// Test RefreshToken - cookie first
func TestAuthHandler_RefreshToken_FromCookie(t *testing.T) {
	authSvc := newFakeAuthService()
	tokens := authSvc.tokens("mario@example.com")
	handler := createAuthHandler(authSvc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", nil)
	req.AddCookie(&http.Cookie{Name: "refresh_token", Value: tokens.RefreshToken})
	w := httptest.NewRecorder()

	handler.RefreshToken(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	data := decodeBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "access-refreshed", data["access_token"])
}

// Test RefreshToken - body fallback, revoked token
func TestAuthHandler_RefreshToken_Revoked(t *testing.T) {
	authSvc := newFakeAuthService()
	tokens := authSvc.tokens("mario@example.com")
	require.NoError(t, authSvc.Logout(context.Background(), tokens.RefreshToken))
	handler := createAuthHandler(authSvc, nil)

	body, _ := json.Marshal(auth.RefreshTokenRequest{RefreshToken: tokens.RefreshToken})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", bytes.NewReader(body))
	w := httptest.NewRecorder()

	handler.RefreshToken(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// Test RefreshToken - Invalid JSON
func TestAuthHandler_RefreshToken_InvalidJSON(t *testing.T) {
	handler := createAuthHandler(newFakeAuthService(), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", strings.NewReader("not json"))
	w := httptest.NewRecorder()

	handler.RefreshToken(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
