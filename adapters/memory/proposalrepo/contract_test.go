package proposalrepo

import (
	"testing"

	"github.com/khoahotran/honors-hub/adapters/contracttest"
	"github.com/khoahotran/honors-hub/internal/domain/proposal"
)

func TestContract_ProposalRepo(t *testing.T) {
	contracttest.RunProposalRepo(t, func(t *testing.T) (proposal.Repository, func()) {
		t.Helper()
		return NewRepo(), nil
	})
}
