package session

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/khoahotran/honors-hub/internal/application/service"
	"github.com/khoahotran/honors-hub/internal/domain/identity"
	"github.com/khoahotran/honors-hub/internal/domain/notification"
	"github.com/khoahotran/honors-hub/pkg/logger"
	"github.com/khoahotran/honors-hub/pkg/metrics"
)

// Gate is the authoritative "current user or none" signal for one session.
//
// The first value delivered by the provider subscription resolves the gate and it
// stays resolved until Close. The subscription is the only source of identity
// values; SignIn only starts the provider flow and SignOut only clears locally.
type Gate struct {
	sessionID string
	provider  service.IdentityProvider
	notifier  service.Notifier
	metrics   *metrics.Metrics
	logger    logger.Logger

	mu        sync.RWMutex
	current   *identity.Identity
	resolved  bool
	closed    bool
	listeners []chan *identity.Identity

	ready       chan struct{}
	readyOnce   sync.Once
	unsubscribe func()
}

func newGate(sessionID string, p service.IdentityProvider, n service.Notifier, m *metrics.Metrics, log logger.Logger) *Gate {
	return &Gate{
		sessionID: sessionID,
		provider:  p,
		notifier:  n,
		metrics:   m,
		logger:    log.With(zap.String("session_id", sessionID)),
		ready:     make(chan struct{}),
	}
}

func (g *Gate) subscribe(ctx context.Context) error {
	unsub, err := g.provider.Subscribe(ctx, g.sessionID, g.onChange)
	if err != nil {
		return fmt.Errorf("subscribe to identity changes: %w", err)
	}
	g.mu.Lock()
	g.unsubscribe = unsub
	closed := g.closed
	g.mu.Unlock()
	if closed {
		unsub()
	}
	return nil
}

func (g *Gate) onChange(id *identity.Identity) {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return
	}
	g.current = id.Clone()
	g.resolved = true
	for _, l := range g.listeners {
		publishLatest(l, id.Clone())
	}
	g.mu.Unlock()

	g.readyOnce.Do(func() { close(g.ready) })
}

// publishLatest keeps only the newest value in a one-slot channel.
func publishLatest(ch chan *identity.Identity, id *identity.Identity) {
	select {
	case <-ch:
	default:
	}
	ch <- id
}

// CurrentUser is nil both while loading and when signed out; check IsLoading first.
func (g *Gate) CurrentUser() *identity.Identity {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.current.Clone()
}

func (g *Gate) IsLoading() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return !g.resolved
}

func (g *Gate) Ready() <-chan struct{} {
	return g.ready
}

// Wait blocks until the gate resolves and returns the identity it resolved to.
func (g *Gate) Wait(ctx context.Context) (*identity.Identity, error) {
	select {
	case <-g.ready:
		return g.CurrentUser(), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Changes delivers every identity change after the call. Slow readers only see the latest.
func (g *Gate) Changes() <-chan *identity.Identity {
	ch := make(chan *identity.Identity, 1)
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		close(ch)
		return ch
	}
	g.listeners = append(g.listeners, ch)
	return ch
}

// SignIn starts the popup flow and returns the URL the popup should open. Failures
// are posted as notifications and reported as an empty URL.
func (g *Gate) SignIn(ctx context.Context) string {
	url, err := g.provider.SignInInteractive(ctx, g.sessionID)
	if err == nil {
		return url
	}
	g.ReportSignInFailure(ctx, err)
	return ""
}

func (g *Gate) ReportSignInFailure(ctx context.Context, err error) {
	kind := identity.Classify(err)
	g.logger.Warn("Interactive sign-in failed", zap.String("kind", string(kind)), zap.Error(err))
	if g.metrics != nil {
		g.metrics.SignInFailures.WithLabelValues(string(kind)).Inc()
	}
	g.notify(ctx, identity.SignInFailure(kind))
}

func (g *Gate) SignOut(ctx context.Context) {
	g.mu.Lock()
	g.current = nil
	g.mu.Unlock()

	if err := g.provider.SignOut(ctx, g.sessionID); err != nil {
		g.logger.Error("Sign-out failed", err)
		g.notify(ctx, identity.SignOutFailure())
	}
}

func (g *Gate) notify(ctx context.Context, n notification.Notification) {
	if err := g.notifier.Notify(ctx, g.sessionID, n); err != nil {
		g.logger.Error("Failed to post notification", err, zap.String("title", n.Title))
	}
}

// Close stops the subscription. It is safe to call more than once.
func (g *Gate) Close() {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return
	}
	g.closed = true
	unsub := g.unsubscribe
	for _, l := range g.listeners {
		close(l)
	}
	g.listeners = nil
	g.mu.Unlock()

	if unsub != nil {
		unsub()
	}
}
