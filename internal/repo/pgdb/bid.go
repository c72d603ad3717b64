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
	"github.com/lib/pq"
)

type BidRepo struct {
	*postgres.Postgres
}

func NewBidRepo(pgdb *postgres.Postgres) *BidRepo {
	return &BidRepo{pgdb}
}

const bidColumns = "id, gig_id, bidder_id, message, price, status, created_at, updated_at"

// uniqueViolation is the Postgres error code raised when an insert hits
// the (gig_id, bidder_id) unique index.
const uniqueViolation = "23505"

// CreateBid inserts the bid in a single statement. Duplicate prevention
// rides on the unique index, not on a prior read, so two concurrent
// submissions from the same bidder cannot both land.
func (r *BidRepo) CreateBid(ctx context.Context, input *entity.CreateBidInput) (uuid.UUID, error) {
	gigUuid, err := uuid.Parse(input.GigId)
	if err != nil {
		return uuid.Nil, repo_errors.ErrNotFound
	}

	createBidReq, args, _ := r.SqlBuilder.
		Insert("bid").
		Columns("gig_id", "bidder_id", "message", "price", "status").
		Values(gigUuid, input.BidderId, input.Message, input.Price, common.PendingBid).
		Suffix("RETURNING id").
		ToSql()

	var bidId uuid.UUID
	if err = r.Database.QueryRowContext(ctx, createBidReq, args...).Scan(&bidId); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return uuid.Nil, repo_errors.ErrConflict
		}

		return uuid.Nil, err
	}

	return bidId, nil
}

func scanBid(row interface{ Scan(...any) error }) (*entity.Bid, error) {
	var bid entity.Bid
	var createdAt, updatedAt time.Time
	err := row.Scan(&bid.Id, &bid.GigId, &bid.BidderId, &bid.Message,
		&bid.Price, &bid.Status, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	bid.CreatedAt = createdAt.Format(time.RFC3339)
	bid.UpdatedAt = updatedAt.Format(time.RFC3339)

	return &bid, nil
}

func (r *BidRepo) GetBidById(ctx context.Context, id string) (*entity.Bid, error) {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return nil, repo_errors.ErrNotFound
	}

	getBidReq, args, _ := r.SqlBuilder.
		Select(bidColumns).
		From("bid").
		Where("id = ?", uuidForm).
		ToSql()

	bid, err := scanBid(r.Database.QueryRowContext(ctx, getBidReq, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo_errors.ErrNotFound
		}

		return nil, err
	}

	return bid, nil
}

func (r *BidRepo) GetGigBids(ctx context.Context, gigId string) ([]entity.Bid, error) {
	uuidForm, err := uuid.Parse(gigId)
	if err != nil {
		return nil, repo_errors.ErrNotFound
	}

	getGigBidsReq, args, _ := r.SqlBuilder.
		Select(bidColumns).
		From("bid").
		Where("gig_id = ?", uuidForm).
		OrderBy("created_at DESC").
		ToSql()

	return r.queryBids(ctx, getGigBidsReq, args)
}

func (r *BidRepo) GetBidderBids(ctx context.Context, bidderId string) ([]entity.Bid, error) {
	getBidderBidsReq, args, _ := r.SqlBuilder.
		Select(bidColumns).
		From("bid").
		Where("bidder_id = ?", bidderId).
		OrderBy("created_at DESC").
		ToSql()

	return r.queryBids(ctx, getBidderBidsReq, args)
}

func (r *BidRepo) queryBids(ctx context.Context, sqlReq string, args []any) ([]entity.Bid, error) {
	rows, err := r.Database.QueryContext(ctx, sqlReq, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bids := make([]entity.Bid, 0)
	for rows.Next() {
		bid, err := scanBid(rows)
		if err != nil {
			return bids, err
		}
		bids = append(bids, *bid)
	}
	if err = rows.Err(); err != nil {
		return bids, err
	}

	return bids, nil
}

// HireBid runs the hire transition as one transaction. The row lock on
// the gig serializes concurrent hires: whichever transaction locks the
// row first and still sees status=open wins, every other one observes
// ErrInvalidState. Readers outside the transaction see either the full
// pre-hire state or the full post-hire state.
func (r *BidRepo) HireBid(ctx context.Context, gigId string, bidId string) error {
	gigUuid, err := uuid.Parse(gigId)
	if err != nil {
		return repo_errors.ErrNotFound
	}

	bidUuid, err := uuid.Parse(bidId)
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
		Where("id = ?", gigUuid).
		Suffix("FOR UPDATE").
		RunWith(tx).
		ToSql()

	var gigStatus string
	if err = tx.QueryRowContext(ctx, lockGigReq, args...).Scan(&gigStatus); err != nil {
		_ = tx.Rollback()
		if errors.Is(err, sql.ErrNoRows) {
			return repo_errors.ErrNotFound
		}

		return err
	}

	if gigStatus != common.OpenGig {
		_ = tx.Rollback()
		return repo_errors.ErrInvalidState
	}

	now := time.Now().UTC()

	assignGigReq, args, _ := r.SqlBuilder.
		Update("gig").
		Set("status", common.AssignedGig).
		Set("updated_at", now).
		Where("id = ?", gigUuid).
		RunWith(tx).
		ToSql()

	if _, err = tx.ExecContext(ctx, assignGigReq, args...); err != nil {
		_ = tx.Rollback()
		return err
	}

	hireBidReq, args, _ := r.SqlBuilder.
		Update("bid").
		Set("status", common.HiredBid).
		Set("updated_at", now).
		Where("id = ?", bidUuid).
		Where("gig_id = ?", gigUuid).
		Where("status = ?", common.PendingBid).
		RunWith(tx).
		ToSql()

	res, err := tx.ExecContext(ctx, hireBidReq, args...)
	if err != nil {
		_ = tx.Rollback()
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	if affected == 0 {
		// The bid vanished or already left pending; never half-hire.
		_ = tx.Rollback()
		return repo_errors.ErrInvalidState
	}

	rejectOthersReq, args, _ := r.SqlBuilder.
		Update("bid").
		Set("status", common.RejectedBid).
		Set("updated_at", now).
		Where("gig_id = ?", gigUuid).
		Where("id <> ?", bidUuid).
		Where("status = ?", common.PendingBid).
		RunWith(tx).
		ToSql()

	if _, err = tx.ExecContext(ctx, rejectOthersReq, args...); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}
