package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/timeyeet/timeyeet-backend-go/internal/domain/auth"
	"github.com/timeyeet/timeyeet-backend-go/internal/handler/http/response"
	"github.com/timeyeet/timeyeet-backend-go/internal/pkg/jwt"
	"github.com/timeyeet/timeyeet-backend-go/internal/pkg/oauth"
)

const (
	googleCallbackPath = "/api/v1/auth/oauth/callback/google"
	oauthStateCookie   = "state"
	oauthStateTTL      = 5 * time.Minute
	refreshCookieName  = "refresh_token"
)

type AuthHandler interface {
	Register(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
	LoginWithGoogle(w http.ResponseWriter, r *http.Request)
	OAuthCallbackGoogle(w http.ResponseWriter, r *http.Request)
	Logout(w http.ResponseWriter, r *http.Request)
	RefreshToken(w http.ResponseWriter, r *http.Request)
}

type AuthHandlerImpl struct {
	jwtService    jwt.Service
	authService   auth.AuthService
	googleService oauth.GoogleService
	frontendURL   string
	secureCookies bool
}

// NewAuthHandler wires the auth endpoints. googleService may be nil when
// Google sign-in is not configured.
func NewAuthHandler(jwtService jwt.Service, authService auth.AuthService, googleService oauth.GoogleService, frontendURL string, secureCookies bool) AuthHandler {
	return &AuthHandlerImpl{
		jwtService:    jwtService,
		authService:   authService,
		googleService: googleService,
		frontendURL:   frontendURL,
		secureCookies: secureCookies,
	}
}

func sessionTracking(r *http.Request) auth.SessionTrackingRequest {
	return auth.SessionTrackingRequest{
		IPAddress: r.RemoteAddr,
		UserAgent: r.UserAgent(),
	}
}

// issueSession stores the refresh token as an http-only cookie and returns
// the token pair in the body.
func (a *AuthHandlerImpl) issueSession(w http.ResponseWriter, message string, tokens auth.TokenResponse) {
	if tokens.RefreshToken != "" {
		http.SetCookie(w, a.jwtService.RefreshTokenCookie(tokens.RefreshToken, tokens.RefreshTokenExpiresIn))
	}
	response.Created(w, message, tokens)
}

// Register implements AuthHandler.
func (a *AuthHandlerImpl) Register(w http.ResponseWriter, r *http.Request) {
	var req auth.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Register decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	tokens, err := a.authService.Register(r.Context(), req, sessionTracking(r))
	if err != nil {
		slog.Error("Register service error", "error", err)
		response.HandleError(w, err)
		return
	}

	slog.Info("User registered", "email", req.Email)
	a.issueSession(w, "User created successfully", tokens)
}

// Login implements AuthHandler.
func (a *AuthHandlerImpl) Login(w http.ResponseWriter, r *http.Request) {
	var req auth.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Login decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	tokens, err := a.authService.Login(r.Context(), req, sessionTracking(r))
	if err != nil {
		slog.Error("Login service error", "error", err)
		response.HandleError(w, err)
		return
	}

	a.issueSession(w, "User logged in successfully", tokens)
}

// RefreshToken implements AuthHandler. The cookie wins over a token sent
// in the body.
func (a *AuthHandlerImpl) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req auth.RefreshTokenRequest
	if cookie, err := r.Cookie(refreshCookieName); err == nil && cookie.Value != "" {
		req.RefreshToken = cookie.Value
	} else if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		slog.Error("Refresh token decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	tokens, err := a.authService.RefreshToken(r.Context(), req)
	if err != nil {
		slog.Error("Refresh token service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Token refreshed successfully", tokens)
}

// Logout implements AuthHandler.
func (a *AuthHandlerImpl) Logout(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(refreshCookieName)
	if err != nil {
		response.HandleError(w, auth.ErrRefreshTokenCookieNotFound)
		return
	}
	if cookie.Value == "" {
		response.HandleError(w, auth.ErrRefreshTokenCookieEmpty)
		return
	}

	if err := a.authService.Logout(r.Context(), cookie.Value); err != nil {
		slog.Error("Logout service error", "error", err)
		response.HandleError(w, err)
		return
	}

	http.SetCookie(w, a.jwtService.ClearRefreshTokenCookie())
	response.SuccessWithMessage(w, "User logged out successfully", nil)
}

// LoginWithGoogle implements AuthHandler.
func (a *AuthHandlerImpl) LoginWithGoogle(w http.ResponseWriter, r *http.Request) {
	if a.googleService == nil {
		response.HandleError(w, auth.ErrGoogleLoginDisabled)
		return
	}

	state := a.googleService.GenerateState(r.UserAgent())
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     googleCallbackPath,
		Expires:  time.Now().Add(oauthStateTTL),
		HttpOnly: true,
		Secure:   a.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, a.googleService.RedirectURL(state), http.StatusTemporaryRedirect)
}

// OAuthCallbackGoogle implements AuthHandler. Every outcome redirects to
// the frontend; failures carry a short error code in the query.
func (a *AuthHandlerImpl) OAuthCallbackGoogle(w http.ResponseWriter, r *http.Request) {
	if a.googleService == nil {
		slog.Error("Google callback without configuration", "error", auth.ErrGoogleLoginDisabled)
		a.redirectToFrontend(w, r, url.Values{"error": {"google_disabled"}})
		return
	}

	code, errCode, err := checkOAuthCallback(r)
	if err != nil {
		slog.Error("Google callback rejected", "error", err, "code", errCode)
		a.redirectToFrontend(w, r, url.Values{"error": {errCode}})
		return
	}

	token, err := a.googleService.VerifyToken(r.Context(), code)
	if err != nil {
		slog.Error("Failed to verify Google token", "error", err)
		a.redirectToFrontend(w, r, url.Values{"error": {"token_verification_failed"}})
		return
	}

	info, err := a.googleService.VerifyUser(r.Context(), token)
	if err != nil {
		slog.Error("Failed to verify Google user", "error", err)
		a.redirectToFrontend(w, r, url.Values{"error": {"user_verification_failed"}})
		return
	}

	tokens, err := a.authService.LoginWithGoogle(r.Context(), auth.GoogleLoginRequest{
		GoogleID:  info.GoogleID,
		Email:     info.Email,
		FirstName: info.GivenName,
		LastName:  info.FamilyName,
	}, sessionTracking(r))
	if err != nil {
		slog.Error("Failed to login with Google", "error", err)
		a.redirectToFrontend(w, r, url.Values{"error": {"login_failed"}})
		return
	}

	http.SetCookie(w, a.jwtService.RefreshTokenCookie(tokens.RefreshToken, tokens.RefreshTokenExpiresIn))
	a.redirectToFrontend(w, r, url.Values{
		"access_token": {tokens.AccessToken},
		"expires_in":   {strconv.FormatInt(tokens.AccessTokenExpiresIn, 10)},
	})
}

// checkOAuthCallback matches the state cookie against the state parameter
// and returns the authorization code.
func checkOAuthCallback(r *http.Request) (code string, errCode string, err error) {
	cookie, err := r.Cookie(oauthStateCookie)
	if err != nil {
		return "", "state_cookie_not_found", err
	}

	q := r.URL.Query()
	switch providerErr := q.Get("error"); providerErr {
	case "":
	case "access_denied":
		return "", providerErr, auth.ErrGoogleAccessDeniedByUser
	default:
		return "", providerErr, errors.New(providerErr)
	}

	switch {
	case cookie.Value == "":
		return "", "state_cookie_empty", auth.ErrStateCookieEmpty
	case q.Get("state") == "":
		return "", "state_param_empty", auth.ErrStateParamEmpty
	case q.Get("state") != cookie.Value:
		return "", "state_mismatch", auth.ErrStateMismatch
	case q.Get("code") == "":
		return "", "code_empty", auth.ErrCodeValueEmpty
	}
	return q.Get("code"), "", nil
}

func (a *AuthHandlerImpl) redirectToFrontend(w http.ResponseWriter, r *http.Request, params url.Values) {
	target := a.frontendURL + "/auth/callback/google?" + params.Encode()
	http.Redirect(w, r, target, http.StatusTemporaryRedirect)
}
