package apperror

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{NewNotFound("proposal", "p1"), http.StatusNotFound},
		{NewInvalidInput("bad", nil), http.StatusBadRequest},
		{NewUnauthorized("no token", nil), http.StatusUnauthorized},
		{NewPermissionDenied("admin only"), http.StatusForbidden},
		{NewStorePermission("Update", nil), http.StatusForbidden},
		{NewConflict("profile", "id", "u1"), http.StatusConflict},
		{NewMisconfigured([]string{"DB_DSN"}), http.StatusServiceUnavailable},
		{fmt.Errorf("wrapped: %w", NewNotFound("profile", "u1")), http.StatusNotFound},
		{fmt.Errorf("plain"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ToHTTPStatus(tc.err), tc.err.Error())
	}
}

func TestToJSONHidesInternalDetails(t *testing.T) {
	internal := NewInternal("pg exploded", fmt.Errorf("boom")).ToJSON()
	assert.NotContains(t, internal, "details")

	offline := NewMisconfigured([]string{"DB_DSN", "REDIS_ADDR"}).ToJSON()
	assert.Equal(t, "Missing keys: DB_DSN, REDIS_ADDR", offline["details"])
}
