package profile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/honors-hub/internal/domain/identity"
)

func ptr(s string) *string { return &s }

func TestNewFromIdentityDefaultsName(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	p := NewFromIdentity(&identity.Identity{UID: "u1", Email: "a@b.org"}, now)
	assert.Equal(t, "New User", p.Name)
	assert.Equal(t, "u1", p.ID)
	assert.Equal(t, now, p.JoinedAt)
	assert.Zero(t, p.HonorsPoints)
}

func TestUpdateValidate(t *testing.T) {
	assert.NoError(t, Update{Name: ptr("Ada")}.Validate())
	assert.ErrorIs(t, Update{Name: ptr(" A ")}.Validate(), ErrNameTooShort)
	assert.ErrorIs(t, Update{Email: ptr("not-an-email")}.Validate(), ErrInvalidEmail)
	assert.NoError(t, Update{Email: ptr("ada@example.org")}.Validate())
	assert.True(t, Update{}.Empty())
}

func TestStarterEngagementsStable(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	a := StarterEngagements("u1", now)
	b := StarterEngagements("u1", now.Add(time.Hour))
	other := StarterEngagements("u2", now)

	require.Len(t, a, 4)
	for i := range a {
		require.NoError(t, a[i].Validate())
		assert.Equal(t, a[i].ID, b[i].ID)
		assert.NotEqual(t, a[i].ID, other[i].ID)
	}
	assert.Equal(t, 115, SumPoints(a))
}
