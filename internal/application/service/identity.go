package service

import (
	"context"

	"github.com/khoahotran/honors-hub/internal/domain/identity"
)

type IdentityProvider interface {
	// Subscribe delivers the session's identity (nil when signed out) once the provider
	// knows it, then every later change, until the returned func is called.
	Subscribe(ctx context.Context, sessionID string, onChange func(*identity.Identity)) (unsubscribe func(), err error)
	SignInInteractive(ctx context.Context, sessionID string) (authURL string, err error)
	SignOut(ctx context.Context, sessionID string) error
}
