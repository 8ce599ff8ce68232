package service

import (
	"context"

	"github.com/khoahotran/honors-hub/adapters/event"
)

type EventPublisher interface {
	PublishProposalEvent(ctx context.Context, payload event.ProposalEventPayload) error
	PublishAvatarEvent(ctx context.Context, payload event.AvatarEventPayload) error
}
