package identity

import (
	"context"

	"github.com/khoahotran/honors-hub/internal/domain/identity"
)

// DisabledProvider backs offline mode: nobody is ever signed in.
type DisabledProvider struct{}

func NewDisabledProvider() DisabledProvider { return DisabledProvider{} }

func (DisabledProvider) Subscribe(_ context.Context, _ string, onChange func(*identity.Identity)) (func(), error) {
	onChange(nil)
	return func() {}, nil
}

func (DisabledProvider) SignInInteractive(context.Context, string) (string, error) {
	return "", identity.NewProviderError("misconfigured", identity.ErrMisconfigured)
}

func (DisabledProvider) SignOut(context.Context, string) error {
	return nil
}
