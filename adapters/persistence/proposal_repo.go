package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/khoahotran/honors-hub/internal/domain/proposal"
	"github.com/khoahotran/honors-hub/pkg/apperror"
	"github.com/khoahotran/honors-hub/pkg/logger"
)

// seedLockKey serializes demo seeding across server replicas.
const seedLockKey int64 = 0x686f6e6f7273

type postgresProposalRepo struct {
	db     *pgxpool.Pool
	logger logger.Logger
}

func NewPostgresProposalRepo(db *pgxpool.Pool, logger logger.Logger) proposal.Repository {
	return &postgresProposalRepo{db: db, logger: logger}
}

var proposalColumns = []string{
	"id", "title", "event_type", "description", "goals", "resources", "target_audience",
	"status", "submitted_by", "submitter_id", "to_char(submitted_date, 'YYYY-MM-DD')", "created_at", "updated_at",
}

func scanProposal(row pgx.Row) (*proposal.Proposal, error) {
	p := &proposal.Proposal{}
	var eventType, status string
	err := row.Scan(
		&p.ID,
		&p.Title,
		&eventType,
		&p.Description,
		&p.Goals,
		&p.Resources,
		&p.TargetAudience,
		&status,
		&p.SubmittedBy,
		&p.SubmitterID,
		&p.SubmittedDate,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.EventType = proposal.EventType(eventType)
	p.Status = proposal.Status(status)
	return p, nil
}

func insertProposals(proposals ...*proposal.Proposal) sq.InsertBuilder {
	ins := psql.Insert("proposals").Columns(
		"id", "title", "event_type", "description", "goals", "resources", "target_audience",
		"status", "submitted_by", "submitter_id", "submitted_date", "created_at", "updated_at",
	)
	for _, p := range proposals {
		ins = ins.Values(
			p.ID, p.Title, string(p.EventType), p.Description, p.Goals, p.Resources, p.TargetAudience,
			string(p.Status), p.SubmittedBy, p.SubmitterID, sq.Expr("?::date", p.SubmittedDate), p.CreatedAt, p.UpdatedAt,
		)
	}
	return ins
}

func (r *postgresProposalRepo) Save(ctx context.Context, p *proposal.Proposal) error {
	sqlStr, args, err := insertProposals(p).ToSql()
	if err != nil {
		return apperror.NewInternal("failed to build proposal insert", err)
	}
	if _, err := r.db.Exec(ctx, sqlStr, args...); err != nil {
		if isUniqueViolation(err) {
			return apperror.NewConflict("proposal", "id", p.ID)
		}
		return storeError("submit proposal", err)
	}
	return nil
}

func (r *postgresProposalRepo) FindByID(ctx context.Context, id string) (*proposal.Proposal, error) {
	sqlStr, args, err := psql.Select(proposalColumns...).From("proposals").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build proposal query", err)
	}
	p, err := scanProposal(r.db.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("proposal", id)
		}
		return nil, storeError("load proposal", err)
	}
	return p, nil
}

func (r *postgresProposalRepo) List(ctx context.Context, filter proposal.ListFilter) ([]*proposal.Proposal, error) {
	b := psql.Select(proposalColumns...).From("proposals").
		OrderBy("submitted_date DESC", "created_at DESC", "id ASC")
	if filter.Status != "" {
		b = b.Where(sq.Eq{"status": string(filter.Status)})
	}
	if filter.Limit > 0 {
		b = b.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		b = b.Offset(uint64(filter.Offset))
	}

	sqlStr, args, err := b.ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build proposal list query", err)
	}

	rows, err := r.db.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, storeError("list proposals", err)
	}
	defer rows.Close()

	out := make([]*proposal.Proposal, 0)
	for rows.Next() {
		p, err := scanProposal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan proposal row during iteration: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("list proposals", err)
	}
	return out, nil
}

func (r *postgresProposalRepo) UpdateStatus(ctx context.Context, id string, from, to proposal.Status, at time.Time) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE proposals SET status = $3, updated_at = $4 WHERE id = $1 AND status = $2`,
		id, string(from), string(to), at,
	)
	if err != nil {
		return storeError("update proposal status", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	if _, err := r.FindByID(ctx, id); err != nil {
		return err
	}
	return proposal.ErrStatusChanged
}

func (r *postgresProposalRepo) SeedIfEmpty(ctx context.Context, seeds []*proposal.Proposal) (bool, error) {
	if len(seeds) == 0 {
		return false, nil
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return false, apperror.NewInternal("failed to begin transaction", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, seedLockKey); err != nil {
		return false, storeError("seed proposals", err)
	}

	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM proposals)`).Scan(&exists); err != nil {
		return false, storeError("seed proposals", err)
	}
	if exists {
		return false, nil
	}

	sqlStr, args, err := insertProposals(seeds...).ToSql()
	if err != nil {
		return false, apperror.NewInternal("failed to build seed insert", err)
	}
	if _, err := tx.Exec(ctx, sqlStr, args...); err != nil {
		return false, storeError("seed proposals", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return false, storeError("seed proposals", err)
	}
	return true, nil
}
