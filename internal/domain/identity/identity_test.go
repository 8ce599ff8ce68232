package identity

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	assert.Equal(t, ErrorKind(""), Classify(nil))
	assert.Equal(t, KindCancelled, Classify(ErrCancelled))
	assert.Equal(t, KindBlocked, Classify(fmt.Errorf("popup: %w", ErrBlocked)))
	assert.Equal(t, KindMisconfigured, Classify(ErrMisconfigured))
	assert.Equal(t, KindCancelled, Classify(NewProviderError("access_denied", nil)))
	assert.Equal(t, KindMisconfigured, Classify(NewProviderError("redirect_uri_mismatch", errors.New("x"))))
	assert.Equal(t, KindUnknown, Classify(NewProviderError("server_error", nil)))
	assert.Equal(t, KindUnknown, Classify(errors.New("network down")))
}

func TestSignInFailureMessages(t *testing.T) {
	assert.Equal(t, "Sign-in Cancelled", SignInFailure(KindCancelled).Title)
	assert.Equal(t, "Popup Blocked", SignInFailure(KindBlocked).Title)
	assert.Equal(t, "Sign-in Unavailable", SignInFailure(KindMisconfigured).Title)
	assert.Equal(t, "Sign-in Failed", SignInFailure(KindUnknown).Title)
}

func TestCloneNil(t *testing.T) {
	var id *Identity
	assert.Nil(t, id.Clone())

	orig := &Identity{UID: "u1"}
	c := orig.Clone()
	c.UID = "u2"
	assert.Equal(t, "u1", orig.UID)
}
