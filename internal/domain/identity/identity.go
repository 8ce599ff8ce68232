package identity

import (
	"errors"
	"fmt"

	"github.com/khoahotran/honors-hub/internal/domain/notification"
)

// Identity is a verified user as reported by the identity provider.
type Identity struct {
	UID         string `json:"uid"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	PhotoURL    string `json:"photo_url"`
	Provider    string `json:"provider"`
}

func (i *Identity) Clone() *Identity {
	if i == nil {
		return nil
	}
	c := *i
	return &c
}

// ErrorKind exists only to pick the message shown to the user. Nothing is retried.
type ErrorKind string

const (
	KindCancelled     ErrorKind = "cancelled"
	KindBlocked       ErrorKind = "blocked"
	KindMisconfigured ErrorKind = "misconfigured"
	KindUnknown       ErrorKind = "unknown"
)

var (
	ErrCancelled     = errors.New("sign-in cancelled")
	ErrBlocked       = errors.New("sign-in popup blocked")
	ErrMisconfigured = errors.New("identity provider misconfigured")
)

type ProviderError struct {
	Kind ErrorKind
	Code string
	Err  error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("identity provider error %s (%s): %v", e.Code, e.Kind, e.Err)
	}
	return fmt.Sprintf("identity provider error %s (%s)", e.Code, e.Kind)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

func NewProviderError(code string, err error) *ProviderError {
	return &ProviderError{Kind: ClassifyCode(code), Code: code, Err: err}
}

// ClassifyCode maps OAuth error codes and popup outcomes reported by the client.
func ClassifyCode(code string) ErrorKind {
	switch code {
	case "access_denied", "popup_closed", "popup_closed_by_user", "cancelled_popup_request", "redirect_cancelled_by_user":
		return KindCancelled
	case "popup_blocked":
		return KindBlocked
	case "invalid_client", "unauthorized_client", "redirect_uri_mismatch", "invalid_scope", "unsupported_response_type", "unauthorized_domain", "misconfigured":
		return KindMisconfigured
	default:
		return KindUnknown
	}
}

func Classify(err error) ErrorKind {
	var pe *ProviderError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &pe):
		return pe.Kind
	case errors.Is(err, ErrCancelled):
		return KindCancelled
	case errors.Is(err, ErrBlocked):
		return KindBlocked
	case errors.Is(err, ErrMisconfigured):
		return KindMisconfigured
	default:
		return KindUnknown
	}
}

func SignInFailure(kind ErrorKind) notification.Notification {
	switch kind {
	case KindCancelled:
		return notification.Destructive("Sign-in Cancelled",
			"The sign-in popup was closed. If the popup was blank or showed an error, check the OAuth client restrictions.")
	case KindBlocked:
		return notification.Destructive("Popup Blocked",
			"The sign-in popup was blocked by your browser. Please allow popups for this site and try again.")
	case KindMisconfigured:
		return notification.Destructive("Sign-in Unavailable",
			"The identity provider is not configured for this site. Please contact an administrator.")
	default:
		return notification.Destructive("Sign-in Failed", "An unknown error occurred during sign-in.")
	}
}

func SignOutFailure() notification.Notification {
	return notification.Destructive("Sign-out Failed", "Could not sign out.")
}
