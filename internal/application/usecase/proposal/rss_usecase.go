package proposal

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gorilla/feeds"
	"go.uber.org/zap"

	"github.com/khoahotran/honors-hub/internal/domain/proposal"
	"github.com/khoahotran/honors-hub/pkg/logger"
)

type RSSUseCase struct {
	proposalRepo proposal.Repository
	siteURL      string
	logger       logger.Logger
}

func NewRSSUseCase(repo proposal.Repository, siteURL string, log logger.Logger) *RSSUseCase {
	return &RSSUseCase{
		proposalRepo: repo,
		siteURL:      strings.TrimRight(siteURL, "/"),
		logger:       log,
	}
}

var feedStatuses = []proposal.Status{proposal.StatusApproved, proposal.StatusInProgress, proposal.StatusCompleted}

// Execute builds a feed of proposals that made it past review.
func (uc *RSSUseCase) Execute(ctx context.Context) (*feeds.Feed, error) {
	feed := &feeds.Feed{
		Title:       "Honors Hub - Community Proposals",
		Link:        &feeds.Link{Href: uc.siteURL + "/proposals"},
		Description: "Approved and ongoing community events and projects.",
		Author:      &feeds.Author{Name: "Honors Hub"},
		Created:     time.Now(),
	}

	for _, status := range feedStatuses {
		proposals, err := uc.proposalRepo.List(ctx, proposal.ListFilter{Status: status, Limit: 20})
		if err != nil {
			uc.logger.Error("Failed to list proposals for RSS", err, zap.String("status", string(status)))
			return nil, err
		}
		for _, p := range proposals {
			created, err := time.Parse(proposal.DateLayout, p.SubmittedDate)
			if err != nil {
				created = p.CreatedAt
			}
			feed.Items = append(feed.Items, &feeds.Item{
				Id:          p.ID,
				Title:       fmt.Sprintf("[%s] %s", p.Status, p.Title),
				Link:        &feeds.Link{Href: fmt.Sprintf("%s/proposals/%s", uc.siteURL, p.ID)},
				Description: p.Description,
				Author:      &feeds.Author{Name: p.SubmittedBy},
				Created:     created,
			})
		}
	}

	feed.Sort(func(a, b *feeds.Item) bool { return a.Created.After(b.Created) })
	uc.logger.Info("RSS feed generated successfully", zap.Int("item_count", len(feed.Items)))
	return feed, nil
}
