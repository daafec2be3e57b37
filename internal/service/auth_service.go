package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"toolkit/internal/middleware"
	"toolkit/internal/models"
	"toolkit/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	googleUserInfoURL = "https://openidconnect.googleapis.com/v1/userinfo"
	oauthStateTTL     = 10 * time.Minute
)

// ErrInvalidState is returned when the OAuth state is unknown, expired or already used.
var ErrInvalidState = errors.New("invalid or expired oauth state")

// IdentityProfile is the verified identity returned by the provider.
type IdentityProfile struct {
	Subject       string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// IdentityProvider runs the authorization-code flow against an OAuth provider.
type IdentityProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*IdentityProfile, error)
}

type oauthProvider struct {
	cfg         *oauth2.Config
	userInfoURL string
}

// NewGoogleProvider returns the Google sign-in provider.
func NewGoogleProvider(clientID, clientSecret, redirectURL string) IdentityProvider {
	return NewOAuthProvider(&oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Scopes:       []string{"openid", "email", "profile"},
		Endpoint:     google.Endpoint,
	}, googleUserInfoURL)
}

// NewOAuthProvider builds a provider from an explicit config and OpenID userinfo endpoint.
func NewOAuthProvider(cfg *oauth2.Config, userInfoURL string) IdentityProvider {
	return &oauthProvider{cfg: cfg, userInfoURL: userInfoURL}
}

func (p *oauthProvider) AuthCodeURL(state string) string {
	return p.cfg.AuthCodeURL(state, oauth2.SetAuthURLParam("prompt", "select_account"))
}

func (p *oauthProvider) Exchange(ctx context.Context, code string) (*IdentityProfile, error) {
	token, err := p.cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange code: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userInfoURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := p.cfg.Client(ctx, token).Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo request failed: %s", resp.Status)
	}

	var profile IdentityProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("decode userinfo: %w", err)
	}
	if profile.Subject == "" {
		return nil, errors.New("userinfo response has no subject")
	}
	return &profile, nil
}

// AuthService links provider identities to users and issues session tokens.
type AuthService struct {
	users    repository.UserRepository
	provider IdentityProvider
	tokens   middleware.TokenConfig
	redis    func() *redis.Client
	now      func() time.Time
}

func NewAuthService(
	users repository.UserRepository,
	provider IdentityProvider,
	tokens middleware.TokenConfig,
	redisClient func() *redis.Client,
) *AuthService {
	return &AuthService{
		users:    users,
		provider: provider,
		tokens:   tokens,
		redis:    redisClient,
		now:      time.Now,
	}
}

func oauthStateKey(state string) string {
	return "oauth:state:" + state
}

// BeginLogin stores a one-time state and returns the provider URL to redirect to.
func (s *AuthService) BeginLogin(ctx context.Context) (string, error) {
	rdb := s.redis()
	if rdb == nil {
		return "", models.NewInternalError(errors.New("sign-in requires redis for oauth state"))
	}
	state := uuid.NewString()
	if err := rdb.Set(ctx, oauthStateKey(state), "1", oauthStateTTL).Err(); err != nil {
		return "", models.NewInternalError(fmt.Errorf("store oauth state: %w", err))
	}
	return s.provider.AuthCodeURL(state), nil
}

// CompleteLogin consumes the state, exchanges the code and returns a session token for
// the linked user.
func (s *AuthService) CompleteLogin(ctx context.Context, state, code string) (string, *models.User, error) {
	if state == "" || code == "" {
		return "", nil, models.NewValidationError("Missing code or state")
	}
	rdb := s.redis()
	if rdb == nil {
		return "", nil, models.NewInternalError(errors.New("sign-in requires redis for oauth state"))
	}
	if err := rdb.GetDel(ctx, oauthStateKey(state)).Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil, models.NewUnauthorizedError(ErrInvalidState.Error())
		}
		return "", nil, models.NewInternalError(err)
	}

	profile, err := s.provider.Exchange(ctx, code)
	if err != nil {
		middleware.Logger.WarnContext(ctx, "oauth exchange failed", "error", err.Error())
		return "", nil, models.NewUnauthorizedError("Sign-in failed")
	}

	user, err := s.LinkOrCreate(ctx, profile)
	if err != nil {
		return "", nil, err
	}

	token, _, err := middleware.IssueToken(s.tokens, user.ID, s.now())
	if err != nil {
		return "", nil, models.NewInternalError(err)
	}
	return token, user, nil
}

// LinkOrCreate resolves a provider identity to a user: first by subject, then by verified
// email (attaching the subject to a pre-seeded row), otherwise by creating a USER.
func (s *AuthService) LinkOrCreate(ctx context.Context, profile *IdentityProfile) (*models.User, error) {
	user, err := s.users.GetByGoogleSubject(ctx, profile.Subject)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}

	email := strings.ToLower(strings.TrimSpace(profile.Email))
	if email == "" {
		return nil, models.NewUnauthorizedError("Sign-in requires an email address")
	}

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if !profile.EmailVerified {
			return nil, models.NewUnauthorizedError("Email address is not verified")
		}
		subject := profile.Subject
		existing.GoogleSubject = &subject
		if existing.Name == "" {
			existing.Name = profile.Name
		}
		if existing.Image == "" {
			existing.Image = profile.Picture
		}
		if err := s.users.Update(ctx, existing); err != nil {
			return nil, err
		}
		middleware.Logger.InfoContext(ctx, "linked oauth identity to existing user", "user_id", existing.ID)
		return existing, nil
	}

	subject := profile.Subject
	user = &models.User{
		Email:         email,
		Name:          profile.Name,
		Image:         profile.Picture,
		Role:          models.RoleUser,
		GoogleSubject: &subject,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Me returns the session user.
func (s *AuthService) Me(ctx context.Context, userID uint) (*models.User, error) {
	if err := requireActor(userID); err != nil {
		return nil, err
	}
	return s.users.GetByID(ctx, userID)
}

// Logout revokes the token until it would have expired anyway. Without Redis it is a no-op.
func (s *AuthService) Logout(ctx context.Context, claims *middleware.SessionClaims) error {
	if claims == nil || claims.ID == "" {
		return nil
	}
	rdb := s.redis()
	if rdb == nil {
		return nil
	}
	ttl := time.Minute
	if claims.ExpiresAt != nil {
		if remaining := claims.ExpiresAt.Sub(s.now()); remaining > 0 {
			ttl = remaining
		}
	}
	if err := rdb.Set(ctx, middleware.BlacklistKey(claims.ID), "1", ttl).Err(); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
