package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/khoahotran/honors-hub/internal/config"
	"github.com/khoahotran/honors-hub/internal/domain/identity"
	"github.com/khoahotran/honors-hub/pkg/logger"
)

const (
	providerName       = "google"
	defaultUserInfoURL = "https://openidconnect.googleapis.com/v1/userinfo"
	stateTTL           = 10 * time.Minute
)

var googleEndpoint = oauth2.Endpoint{
	AuthURL:   "https://accounts.google.com/o/oauth2/auth",
	TokenURL:  "https://oauth2.googleapis.com/token",
	AuthStyle: oauth2.AuthStyleInParams,
}

// GoogleProvider runs the OAuth popup flow against Google. Session identities live
// in Redis and every change is published on the session's channel.
type GoogleProvider struct {
	oauth       *oauth2.Config
	userInfoURL string
	client      *redis.Client
	sessionTTL  time.Duration
	logger      logger.Logger
}

func NewGoogleProvider(cfg config.Config, client *redis.Client, log logger.Logger) *GoogleProvider {
	return &GoogleProvider{
		oauth: &oauth2.Config{
			ClientID:     cfg.Google.ClientID,
			ClientSecret: cfg.Google.ClientSecret,
			RedirectURL:  cfg.Google.RedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     googleEndpoint,
		},
		userInfoURL: defaultUserInfoURL,
		client:      client,
		sessionTTL:  cfg.Auth.SessionTTL,
		logger:      log,
	}
}

func (p *GoogleProvider) sessionKey(sid string) string { return "session:" + sid }
func (p *GoogleProvider) stateKey(state string) string { return "oauth_state:" + state }
func (p *GoogleProvider) channel(sid string) string    { return "session_changes:" + sid }

func (p *GoogleProvider) Subscribe(ctx context.Context, sessionID string, onChange func(*identity.Identity)) (func(), error) {
	ps := p.client.Subscribe(ctx, p.channel(sessionID))
	if _, err := ps.Receive(ctx); err != nil {
		ps.Close()
		return nil, fmt.Errorf("subscribe to session changes: %w", err)
	}

	current, err := p.lookup(ctx, sessionID)
	if err != nil {
		ps.Close()
		return nil, err
	}
	onChange(current)

	done := make(chan struct{})
	msgs := ps.Channel()
	go func() {
		defer close(done)
		for msg := range msgs {
			id, err := decodeIdentity(msg.Payload)
			if err != nil {
				p.logger.Warn("Dropping malformed session change", zap.String("session_id", sessionID), zap.Error(err))
				continue
			}
			onChange(id)
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			ps.Close()
			<-done
		})
	}, nil
}

func (p *GoogleProvider) SignInInteractive(ctx context.Context, sessionID string) (string, error) {
	if p.oauth.ClientID == "" || p.oauth.RedirectURL == "" {
		return "", identity.NewProviderError("misconfigured", identity.ErrMisconfigured)
	}

	state := uuid.NewString()
	if err := p.client.Set(ctx, p.stateKey(state), sessionID, stateTTL).Err(); err != nil {
		return "", fmt.Errorf("save sign-in state: %w", err)
	}

	return p.oauth.AuthCodeURL(state,
		oauth2.AccessTypeOnline,
		oauth2.SetAuthURLParam("display", "popup"),
		oauth2.SetAuthURLParam("prompt", "select_account"),
	), nil
}

// CompleteSignIn finishes the flow started by SignInInteractive. It returns the
// session the flow belongs to, also on failure, so the caller can notify it.
func (p *GoogleProvider) CompleteSignIn(ctx context.Context, state, code string) (string, error) {
	sid, err := p.takeState(ctx, state)
	if err != nil {
		return "", err
	}

	tok, err := p.oauth.Exchange(ctx, code)
	if err != nil {
		var re *oauth2.RetrieveError
		if errors.As(err, &re) && re.ErrorCode != "" {
			return sid, identity.NewProviderError(re.ErrorCode, err)
		}
		return sid, identity.NewProviderError("exchange_failed", err)
	}

	id, err := p.fetchUserInfo(ctx, tok)
	if err != nil {
		return sid, identity.NewProviderError("userinfo_failed", err)
	}

	if err := p.store(ctx, sid, id); err != nil {
		return sid, err
	}
	p.logger.Info("Sign-in completed", zap.String("session_id", sid), zap.String("uid", id.UID))
	return sid, nil
}

// AbandonSignIn consumes the state of a flow the popup reported as failed.
func (p *GoogleProvider) AbandonSignIn(ctx context.Context, state string) (string, error) {
	return p.takeState(ctx, state)
}

func (p *GoogleProvider) SignOut(ctx context.Context, sessionID string) error {
	if err := p.client.Del(ctx, p.sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("delete session identity: %w", err)
	}
	return p.publish(ctx, sessionID, nil)
}

func (p *GoogleProvider) takeState(ctx context.Context, state string) (string, error) {
	sid, err := p.client.GetDel(ctx, p.stateKey(state)).Result()
	if errors.Is(err, redis.Nil) {
		return "", identity.NewProviderError("invalid_state", errors.New("unknown or expired sign-in state"))
	}
	if err != nil {
		return "", fmt.Errorf("load sign-in state: %w", err)
	}
	return sid, nil
}

func (p *GoogleProvider) lookup(ctx context.Context, sessionID string) (*identity.Identity, error) {
	raw, err := p.client.Get(ctx, p.sessionKey(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session identity: %w", err)
	}
	return decodeIdentity(raw)
}

func (p *GoogleProvider) store(ctx context.Context, sessionID string, id *identity.Identity) error {
	raw, err := json.Marshal(id)
	if err != nil {
		return fmt.Errorf("marshal identity: %w", err)
	}
	if err := p.client.Set(ctx, p.sessionKey(sessionID), raw, p.sessionTTL).Err(); err != nil {
		return fmt.Errorf("save session identity: %w", err)
	}
	return p.publish(ctx, sessionID, id)
}

func (p *GoogleProvider) publish(ctx context.Context, sessionID string, id *identity.Identity) error {
	raw, err := json.Marshal(id)
	if err != nil {
		return fmt.Errorf("marshal identity: %w", err)
	}
	if err := p.client.Publish(ctx, p.channel(sessionID), raw).Err(); err != nil {
		return fmt.Errorf("publish session change: %w", err)
	}
	return nil
}

func decodeIdentity(raw string) (*identity.Identity, error) {
	var id *identity.Identity
	if err := json.Unmarshal([]byte(raw), &id); err != nil {
		return nil, fmt.Errorf("unmarshal identity: %w", err)
	}
	return id, nil
}

type googleUserInfo struct {
	Sub     string `json:"sub"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture"`
}

func (p *GoogleProvider) fetchUserInfo(ctx context.Context, tok *oauth2.Token) (*identity.Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userInfoURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := p.oauth.Client(ctx, tok).Do(req)
	if err != nil {
		return nil, fmt.Errorf("request userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo returned status %d", resp.StatusCode)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decode userinfo: %w", err)
	}
	if info.Sub == "" {
		return nil, errors.New("userinfo has no subject")
	}

	return &identity.Identity{
		UID:         info.Sub,
		DisplayName: info.Name,
		Email:       info.Email,
		PhotoURL:    info.Picture,
		Provider:    providerName,
	}, nil
}
