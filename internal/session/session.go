package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/goliatone/go-cms-admin/internal/domain"
	"github.com/goliatone/go-cms-admin/internal/logging"
	"github.com/goliatone/go-cms-admin/internal/remote"
	"github.com/goliatone/go-cms-admin/pkg/interfaces"
)

// Credentials is the POST /login body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Tokens is the answer of /login and /refresh. Login may include the user.
type Tokens struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token,omitempty"`
	TokenType    string       `json:"token_type,omitempty"`
	User         *domain.User `json:"user,omitempty"`
}

// Session authenticates the administrator against the API and keeps the
// tokens in a Store.
type Session struct {
	client *remote.Client
	store  Store
	logger interfaces.Logger
}

type Option func(*Session)

func WithLogger(logger interfaces.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func New(client *remote.Client, store Store, opts ...Option) *Session {
	if store == nil {
		store = NewMemoryStore()
	}
	s := &Session{client: client, store: store, logger: logging.NoOp()}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Bind sets the client once it has been built with TokenSource.
func (s *Session) Bind(client *remote.Client) { s.client = client }

// TokenSource feeds the access token to the remote client.
func (s *Session) TokenSource() remote.TokenSource {
	return func(ctx context.Context) string {
		token, err := s.Token(ctx)
		if err != nil {
			s.logger.Warn("session.token.read_failed", "error", err)
			return ""
		}
		return token
	}
}

// Token returns the stored access token or "".
func (s *Session) Token(ctx context.Context) (string, error) {
	token, _, err := s.store.Get(ctx, KeyAccessToken)
	return token, err
}

func (s *Session) Authenticated(ctx context.Context) bool {
	token, err := s.Token(ctx)
	return err == nil && token != ""
}

func (s *Session) Login(ctx context.Context, email, password string) (Tokens, error) {
	logger := s.logger.WithContext(ctx)
	target, err := s.client.Routes().Collection("login", nil)
	if err != nil {
		return Tokens{}, err
	}
	var tokens Tokens
	creds := Credentials{Email: strings.TrimSpace(email), Password: password}
	if err := s.client.JSON(ctx, http.MethodPost, target, remote.JSONPayload(creds), &tokens); err != nil {
		logger.Warn("session.login.failed", "email", creds.Email, "error", err)
		return Tokens{}, fmt.Errorf("session: login: %w", err)
	}
	if err := s.storeTokens(ctx, tokens); err != nil {
		return Tokens{}, err
	}
	if tokens.User != nil {
		if err := s.cacheUser(ctx, *tokens.User); err != nil {
			return Tokens{}, err
		}
	}
	logger.Info("session.login.success", "email", creds.Email)
	return tokens, nil
}

// CurrentUser fetches GET /user. A 401 clears the session and returns
// ErrUnauthenticated.
func (s *Session) CurrentUser(ctx context.Context) (domain.User, error) {
	token, err := s.Token(ctx)
	if err != nil {
		return domain.User{}, err
	}
	if token == "" {
		return domain.User{}, ErrNoAccessToken
	}
	target, err := s.client.Routes().Collection("user", nil)
	if err != nil {
		return domain.User{}, err
	}
	var user domain.User
	if err := s.client.JSON(ctx, http.MethodGet, target, nil, &user); err != nil {
		if remote.StatusCode(err) == http.StatusUnauthorized {
			s.logger.WithContext(ctx).Warn("session.user.unauthorized")
			if clearErr := s.clear(ctx); clearErr != nil {
				return domain.User{}, errors.Join(unauthenticated(err), clearErr)
			}
			return domain.User{}, unauthenticated(err)
		}
		return domain.User{}, fmt.Errorf("session: fetch user: %w", err)
	}
	if err := s.cacheUser(ctx, user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// CachedUser returns the user saved by the last CurrentUser or Login.
func (s *Session) CachedUser(ctx context.Context) (domain.User, bool, error) {
	raw, ok, err := s.store.Get(ctx, KeyUser)
	if err != nil || !ok || raw == "" {
		return domain.User{}, false, err
	}
	var user domain.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return domain.User{}, false, fmt.Errorf("session: decode cached user: %w", err)
	}
	return user, true, nil
}

// Logout notifies the server and always clears the local session. Server
// failures are logged only.
func (s *Session) Logout(ctx context.Context) error {
	logger := s.logger.WithContext(ctx)
	if target, err := s.client.Routes().Collection("logout", nil); err != nil {
		logger.Warn("session.logout.route_failed", "error", err)
	} else if err := s.client.JSON(ctx, http.MethodPost, target, nil, nil); err != nil {
		logger.Warn("session.logout.remote_failed", "error", err)
	}
	if err := s.clear(ctx); err != nil {
		return err
	}
	logger.Info("session.logout.success")
	return nil
}

// Refresh exchanges the refresh token for a new access token.
func (s *Session) Refresh(ctx context.Context) (Tokens, error) {
	refresh, _, err := s.store.Get(ctx, KeyRefreshToken)
	if err != nil {
		return Tokens{}, err
	}
	if refresh == "" {
		return Tokens{}, ErrNoRefreshToken
	}
	target, err := s.client.Routes().Collection("refresh", nil)
	if err != nil {
		return Tokens{}, err
	}
	var tokens Tokens
	body := map[string]string{"refresh_token": refresh}
	if err := s.client.JSON(ctx, http.MethodPost, target, remote.JSONPayload(body), &tokens); err != nil {
		s.logger.WithContext(ctx).Warn("session.refresh.failed", "error", err)
		return Tokens{}, fmt.Errorf("session: refresh: %w", err)
	}
	if err := s.storeTokens(ctx, tokens); err != nil {
		return Tokens{}, err
	}
	return tokens, nil
}

// ExpiresAt reads the exp claim when the access token is a JWT. Opaque
// tokens report false.
func (s *Session) ExpiresAt(ctx context.Context) (time.Time, bool) {
	token, err := s.Token(ctx)
	if err != nil || token == "" {
		return time.Time{}, false
	}
	return tokenExpiry(token)
}

// Expired reports whether the JWT access token is past its exp claim.
func (s *Session) Expired(ctx context.Context, now time.Time) bool {
	exp, ok := s.ExpiresAt(ctx)
	return ok && !now.Before(exp)
}

func tokenExpiry(raw string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

func (s *Session) storeTokens(ctx context.Context, tokens Tokens) error {
	if tokens.AccessToken != "" {
		if err := s.store.Set(ctx, KeyAccessToken, tokens.AccessToken); err != nil {
			return err
		}
	}
	if tokens.RefreshToken != "" {
		if err := s.store.Set(ctx, KeyRefreshToken, tokens.RefreshToken); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) cacheUser(ctx context.Context, user domain.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return s.store.Set(ctx, KeyUser, string(raw))
}

func (s *Session) clear(ctx context.Context) error {
	return s.store.Delete(ctx, KeyAccessToken, KeyRefreshToken, KeyUser)
}
