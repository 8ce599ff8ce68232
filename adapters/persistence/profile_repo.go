package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/khoahotran/honors-hub/internal/domain/profile"
	"github.com/khoahotran/honors-hub/pkg/apperror"
	"github.com/khoahotran/honors-hub/pkg/logger"
)

type postgresProfileRepo struct {
	db     *pgxpool.Pool
	logger logger.Logger
}

func NewPostgresProfileRepo(db *pgxpool.Pool, logger logger.Logger) profile.Repository {
	return &postgresProfileRepo{db: db, logger: logger}
}

const profileColumns = "id, name, email, photo_url, joined_at, honors_points, updated_at"

func scanProfile(row pgx.Row) (*profile.Profile, error) {
	p := &profile.Profile{}
	err := row.Scan(&p.ID, &p.Name, &p.Email, &p.PhotoURL, &p.JoinedAt, &p.HonorsPoints, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *postgresProfileRepo) FindByID(ctx context.Context, id string) (*profile.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`
	p, err := scanProfile(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("profile", id)
		}
		return nil, storeError("load profile", err)
	}
	return p, nil
}

func (r *postgresProfileRepo) CreateIfAbsent(ctx context.Context, p *profile.Profile, starter []profile.Engagement) (bool, *profile.Profile, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return false, nil, apperror.NewInternal("failed to begin transaction", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		INSERT INTO profiles (id, name, email, photo_url, joined_at, honors_points, updated_at)
		VALUES ($1, $2, $3, $4, $5, 0, $6)
		ON CONFLICT (id) DO NOTHING
	`, p.ID, p.Name, p.Email, p.PhotoURL, p.JoinedAt, p.UpdatedAt)
	if err != nil {
		return false, nil, storeError("create profile", err)
	}

	if tag.RowsAffected() == 0 {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			r.logger.Warn("Rollback after profile conflict failed", zap.Error(err))
		}
		stored, err := r.FindByID(ctx, p.ID)
		return false, stored, err
	}

	if len(starter) > 0 {
		ins := psql.Insert("engagements").
			Columns("id", "profile_id", "title", "type", "points", "occurred_at", "details", "source_ref")
		for _, e := range starter {
			ins = ins.Values(e.ID, p.ID, e.Title, string(e.Type), e.Points, e.Date, e.Details, e.SourceRef)
		}
		sqlStr, args, err := ins.Suffix("ON CONFLICT (profile_id, source_ref) DO NOTHING").ToSql()
		if err != nil {
			return false, nil, apperror.NewInternal("failed to build starter engagements query", err)
		}
		if _, err := tx.Exec(ctx, sqlStr, args...); err != nil {
			return false, nil, storeError("seed starter engagements", err)
		}
	}

	stored, err := scanProfile(tx.QueryRow(ctx, `
		UPDATE profiles
		SET honors_points = (SELECT COALESCE(SUM(points), 0) FROM engagements WHERE profile_id = $1)
		WHERE id = $1
		RETURNING `+profileColumns, p.ID))
	if err != nil {
		return false, nil, storeError("total starter points", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return false, nil, storeError("commit new profile", err)
	}
	return true, stored, nil
}

func (r *postgresProfileRepo) Update(ctx context.Context, id string, u profile.Update, at time.Time) (*profile.Profile, error) {
	b := psql.Update("profiles").Set("updated_at", at).Where(sq.Eq{"id": id})
	if u.Name != nil {
		b = b.Set("name", strings.TrimSpace(*u.Name))
	}
	if u.Email != nil {
		b = b.Set("email", strings.TrimSpace(*u.Email))
	}
	if u.PhotoURL != nil {
		b = b.Set("photo_url", *u.PhotoURL)
	}

	sqlStr, args, err := b.Suffix("RETURNING " + profileColumns).ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build profile update query", err)
	}

	p, err := scanProfile(r.db.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("profile", id)
		}
		return nil, storeError("update profile", err)
	}
	return p, nil
}

func (r *postgresProfileRepo) ListEngagements(ctx context.Context, profileID string) ([]profile.Engagement, error) {
	sqlStr, args, err := psql.
		Select("id", "profile_id", "title", "type", "points", "occurred_at", "details", "source_ref").
		From("engagements").
		Where(sq.Eq{"profile_id": profileID}).
		OrderBy("occurred_at DESC", "title ASC").
		ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build engagements query", err)
	}

	rows, err := r.db.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, storeError("list engagements", err)
	}
	defer rows.Close()

	out := make([]profile.Engagement, 0)
	for rows.Next() {
		var e profile.Engagement
		var typ string
		if err := rows.Scan(&e.ID, &e.ProfileID, &e.Title, &typ, &e.Points, &e.Date, &e.Details, &e.SourceRef); err != nil {
			return nil, apperror.NewInternal("failed to scan engagement row", err)
		}
		e.Type = profile.EngagementType(typ)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("list engagements", err)
	}
	return out, nil
}

func (r *postgresProfileRepo) AddEngagement(ctx context.Context, e profile.Engagement) (bool, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return false, apperror.NewInternal("failed to begin transaction", err)
	}
	defer tx.Rollback(ctx)

	var locked string
	err = tx.QueryRow(ctx, `SELECT id FROM profiles WHERE id = $1 FOR UPDATE`, e.ProfileID).Scan(&locked)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, apperror.NewNotFound("profile", e.ProfileID)
		}
		return false, storeError("award engagement", err)
	}

	tag, err := tx.Exec(ctx, `
		INSERT INTO engagements (id, profile_id, title, type, points, occurred_at, details, source_ref)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (profile_id, source_ref) DO NOTHING
	`, e.ID, e.ProfileID, e.Title, string(e.Type), e.Points, e.Date, e.Details, e.SourceRef)
	if err != nil {
		return false, storeError("award engagement", err)
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	if _, err := tx.Exec(ctx,
		`UPDATE profiles SET honors_points = honors_points + $2, updated_at = $3 WHERE id = $1`,
		e.ProfileID, e.Points, e.Date,
	); err != nil {
		return false, storeError("award engagement", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return false, storeError("commit engagement", err)
	}
	return true, nil
}
