package pgdb

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"gig-marketplace-api/internal/common"
	"gig-marketplace-api/internal/entity"
	"gig-marketplace-api/internal/repo/repo_errors"
	"gig-marketplace-api/pkg/postgres"

	"github.com/google/uuid"
)

type GigRepo struct {
	*postgres.Postgres
}

func NewGigRepo(pgdb *postgres.Postgres) *GigRepo {
	return &GigRepo{pgdb}
}

const gigColumns = "id, title, description, budget, owner_id, status, created_at, updated_at"

func (r *GigRepo) CreateGig(ctx context.Context, input *entity.CreateGigInput) (uuid.UUID, error) {
	createGigReq, args, _ := r.SqlBuilder.
		Insert("gig").
		Columns("title", "description", "budget", "owner_id", "status").
		Values(input.Title, input.Description, input.Budget, input.OwnerId, common.OpenGig).
		Suffix("RETURNING id").
		ToSql()

	var gigId uuid.UUID
	if err := r.Database.QueryRowContext(ctx, createGigReq, args...).Scan(&gigId); err != nil {
		return uuid.Nil, err
	}

	return gigId, nil
}

func scanGig(row interface{ Scan(...any) error }) (*entity.Gig, error) {
	var gig entity.Gig
	var createdAt, updatedAt time.Time
	err := row.Scan(&gig.Id, &gig.Title, &gig.Description, &gig.Budget,
		&gig.OwnerId, &gig.Status, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	gig.CreatedAt = createdAt.Format(time.RFC3339)
	gig.UpdatedAt = updatedAt.Format(time.RFC3339)

	return &gig, nil
}

func (r *GigRepo) GetGigById(ctx context.Context, id string) (*entity.Gig, error) {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return nil, repo_errors.ErrNotFound
	}

	getGigReq, args, _ := r.SqlBuilder.
		Select(gigColumns).
		From("gig").
		Where("id = ?", uuidForm).
		ToSql()

	gig, err := scanGig(r.Database.QueryRowContext(ctx, getGigReq, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo_errors.ErrNotFound
		}

		return nil, err
	}

	return gig, nil
}

func (r *GigRepo) GetOpenGigs(ctx context.Context, titleSearch string) ([]entity.Gig, error) {
	query := r.SqlBuilder.
		Select(gigColumns).
		From("gig").
		Where("status = ?", common.OpenGig).
		OrderBy("created_at DESC")

	if titleSearch != "" {
		query = query.Where("title ILIKE ?", "%"+titleSearch+"%")
	}

	getOpenGigsReq, args, _ := query.ToSql()

	return r.queryGigs(ctx, getOpenGigsReq, args)
}

func (r *GigRepo) GetGigsByOwner(ctx context.Context, ownerId string) ([]entity.Gig, error) {
	getOwnerGigsReq, args, _ := r.SqlBuilder.
		Select(gigColumns).
		From("gig").
		Where("owner_id = ?", ownerId).
		OrderBy("created_at DESC").
		ToSql()

	return r.queryGigs(ctx, getOwnerGigsReq, args)
}

func (r *GigRepo) queryGigs(ctx context.Context, sqlReq string, args []any) ([]entity.Gig, error) {
	rows, err := r.Database.QueryContext(ctx, sqlReq, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	gigs := make([]entity.Gig, 0)
	for rows.Next() {
		gig, err := scanGig(rows)
		if err != nil {
			return gigs, err
		}
		gigs = append(gigs, *gig)
	}
	if err = rows.Err(); err != nil {
		return gigs, err
	}

	return gigs, nil
}

// EditGigById updates only the fields set in input. The status guard sits
// in the UPDATE itself so an assigned gig can never be mutated, no matter
// what the caller observed before.
func (r *GigRepo) EditGigById(ctx context.Context, id string, input *entity.EditGigInput) error {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return repo_errors.ErrNotFound
	}

	query := r.SqlBuilder.
		Update("gig").
		Set("updated_at", time.Now().UTC()).
		Where("id = ?", uuidForm).
		Where("status = ?", common.OpenGig)

	if input.Title != "" {
		query = query.Set("title", input.Title)
	}
	if input.Description != "" {
		query = query.Set("description", input.Description)
	}
	if input.Budget > 0 {
		query = query.Set("budget", input.Budget)
	}

	editGigReq, args, _ := query.ToSql()

	res, err := r.Database.ExecContext(ctx, editGigReq, args...)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return r.classifyMissedUpdate(ctx, uuidForm)
	}

	return nil
}

// DeleteGigById removes an open gig that has no bids yet. Lock, status
// check, bid count and delete run in one transaction so a bid submitted
// concurrently cannot be orphaned.
func (r *GigRepo) DeleteGigById(ctx context.Context, id string) error {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return repo_errors.ErrNotFound
	}

	tx, err := r.Database.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	lockGigReq, args, _ := r.SqlBuilder.
		Select("status").
		From("gig").
		Where("id = ?", uuidForm).
		Suffix("FOR UPDATE").
		RunWith(tx).
		ToSql()

	var status string
	if err = tx.QueryRowContext(ctx, lockGigReq, args...).Scan(&status); err != nil {
		_ = tx.Rollback()
		if errors.Is(err, sql.ErrNoRows) {
			return repo_errors.ErrNotFound
		}

		return err
	}

	if status != common.OpenGig {
		_ = tx.Rollback()
		return repo_errors.ErrInvalidState
	}

	countBidsReq, args, _ := r.SqlBuilder.
		Select("count(*)").
		From("bid").
		Where("gig_id = ?", uuidForm).
		RunWith(tx).
		ToSql()

	var bidCount int
	if err = tx.QueryRowContext(ctx, countBidsReq, args...).Scan(&bidCount); err != nil {
		_ = tx.Rollback()
		return err
	}

	if bidCount > 0 {
		_ = tx.Rollback()
		return repo_errors.ErrConflict
	}

	deleteGigReq, args, _ := r.SqlBuilder.
		Delete("gig").
		Where("id = ?", uuidForm).
		RunWith(tx).
		ToSql()

	if _, err = tx.ExecContext(ctx, deleteGigReq, args...); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

func (r *GigRepo) classifyMissedUpdate(ctx context.Context, id uuid.UUID) error {
	checkReq, args, _ := r.SqlBuilder.
		Select("status").
		From("gig").
		Where("id = ?", id).
		ToSql()

	var status string
	err := r.Database.QueryRowContext(ctx, checkReq, args...).Scan(&status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return repo_errors.ErrNotFound
		}

		return err
	}

	return repo_errors.ErrInvalidState
}
