package activity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFind(t *testing.T) {
	a, ok := Find("2")
	require.True(t, ok)
	assert.Equal(t, "Summer Tech Fair 2024", a.Title)
	assert.Equal(t, 250, a.Turnout())

	a, ok = Find("3")
	require.True(t, ok)
	assert.Equal(t, 45, a.Turnout())

	_, ok = Find("99")
	assert.False(t, ok)
}

func TestAllReturnsCopy(t *testing.T) {
	list := All()
	require.Len(t, list, 4)
	list[0].Title = "changed"

	a, _ := Find("1")
	assert.Equal(t, "Community Garden Initiative", a.Title)
}
