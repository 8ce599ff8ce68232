package service

import (
	"context"

	"github.com/khoahotran/honors-hub/internal/domain/notification"
)

type Notifier interface {
	Notify(ctx context.Context, sessionID string, n notification.Notification) error
	Drain(ctx context.Context, sessionID string) ([]notification.Notification, error)
}
