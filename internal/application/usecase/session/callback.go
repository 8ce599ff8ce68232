package session

import (
	"context"

	"go.uber.org/zap"

	"github.com/khoahotran/honors-hub/internal/domain/identity"
	"github.com/khoahotran/honors-hub/internal/domain/notification"
	"github.com/khoahotran/honors-hub/pkg/apperror"
)

// SignInCompleter is implemented by providers whose flow ends in a server callback.
type SignInCompleter interface {
	CompleteSignIn(ctx context.Context, state, code string) (sessionID string, err error)
	AbandonSignIn(ctx context.Context, state string) (sessionID string, err error)
}

type CallbackInput struct {
	State     string
	Code      string
	ErrorCode string
}

type CallbackOutput struct {
	SessionID string
	SignedIn  bool
}

// ExecuteCallback finishes a popup sign-in. Provider failures are posted to the
// owning session as notifications; only an unknown state is returned as an error.
func (uc *SessionUseCase) ExecuteCallback(ctx context.Context, input CallbackInput) (*CallbackOutput, error) {
	completer, ok := uc.provider.(SignInCompleter)
	if !ok {
		return nil, apperror.NewAppError(apperror.ErrMisconfigured, "Sign-in is not available", "identity provider has no callback flow", nil)
	}
	if input.State == "" {
		return nil, apperror.NewInvalidInput("state is required", nil)
	}

	if input.ErrorCode != "" {
		sid, err := completer.AbandonSignIn(ctx, input.State)
		if err != nil {
			return nil, apperror.NewInvalidInput("unknown sign-in state", err)
		}
		uc.reportFailure(ctx, sid, identity.NewProviderError(input.ErrorCode, nil))
		return &CallbackOutput{SessionID: sid}, nil
	}

	sid, err := completer.CompleteSignIn(ctx, input.State, input.Code)
	if err != nil {
		if sid == "" {
			return nil, apperror.NewInvalidInput("unknown sign-in state", err)
		}
		uc.reportFailure(ctx, sid, err)
		return &CallbackOutput{SessionID: sid}, nil
	}
	uc.notify(ctx, sid, notification.Info("Signed In", "You are now signed in."))
	return &CallbackOutput{SessionID: sid, SignedIn: true}, nil
}

func (uc *SessionUseCase) reportFailure(ctx context.Context, sessionID string, err error) {
	g := newGate(sessionID, uc.provider, uc.notifier, uc.metrics, uc.logger)
	g.ReportSignInFailure(ctx, err)
}

func (uc *SessionUseCase) notify(ctx context.Context, sessionID string, n notification.Notification) {
	if err := uc.notifier.Notify(ctx, sessionID, n); err != nil {
		uc.logger.Error("Failed to post notification", err, zap.String("session_id", sessionID))
	}
}
