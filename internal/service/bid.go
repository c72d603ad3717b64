package service

import (
	"context"
	"errors"
	"log"

	"gig-marketplace-api/internal/common"
	"gig-marketplace-api/internal/entity"
	"gig-marketplace-api/internal/metrics"
	"gig-marketplace-api/internal/notify"
	"gig-marketplace-api/internal/policy"
	"gig-marketplace-api/internal/repo"
	"gig-marketplace-api/internal/repo/repo_errors"
)

type BidService struct {
	bidRepo    repo.Bid
	gigRepo    repo.Gig
	dispatcher *notify.Dispatcher
	metrics    *metrics.Metrics
	logger     *log.Logger
}

func NewBidService(repos *repo.Repositories, dispatcher *notify.Dispatcher, m *metrics.Metrics, logger *log.Logger) *BidService {
	return &BidService{
		bidRepo:    repos.Bid,
		gigRepo:    repos.Gig,
		dispatcher: dispatcher,
		metrics:    m,
		logger:     logger,
	}
}

func (s *BidService) CreateBid(ctx context.Context, input *entity.CreateBidInput) (*entity.BidOutputModel, error) {
	gig, err := s.gigRepo.GetGigById(ctx, input.GigId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrGigNotFound
		}

		return nil, err
	}

	if policy.IsOwner(gig, input.BidderId) {
		return nil, ErrOwnGigBid
	}
	if !policy.IsOpen(gig) {
		return nil, ErrGigNotOpen
	}

	id, err := s.bidRepo.CreateBid(ctx, input)
	if err != nil {
		if errors.Is(err, repo_errors.ErrConflict) {
			return nil, ErrDuplicateBid
		}
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrGigNotFound
		}

		return nil, err
	}

	bid, err := s.bidRepo.GetBidById(ctx, id.String())
	if err != nil {
		return nil, err
	}

	s.metrics.BidsCreatedTotal.Inc()

	return mapBid(bid), nil
}

// Bids for a gig are visible only to the gig owner.
func (s *BidService) GetGigBids(ctx context.Context, gigId string, callerId string) ([]entity.BidOutputModel, error) {
	gig, err := s.gigRepo.GetGigById(ctx, gigId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrGigNotFound
		}

		return nil, err
	}

	if !policy.IsOwner(gig, callerId) {
		return nil, ErrNotGigOwner
	}

	bids, err := s.bidRepo.GetGigBids(ctx, gigId)
	if err != nil {
		return nil, err
	}

	return mapBids(bids), nil
}

func (s *BidService) GetBidderBids(ctx context.Context, callerId string) ([]entity.BidOutputModel, error) {
	bids, err := s.bidRepo.GetBidderBids(ctx, callerId)
	if err != nil {
		return nil, err
	}

	return mapBids(bids), nil
}

// HireBid is the hiring transaction coordinator. The policy checks here
// give early, precise errors; correctness under concurrency rests on
// the store transaction, which re-verifies the gig is open while
// holding its lock. First committer wins, the loser gets ErrGigNotOpen.
func (s *BidService) HireBid(ctx context.Context, bidId string, callerId string) (*entity.BidOutputModel, error) {
	bid, err := s.bidRepo.GetBidById(ctx, bidId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrBidNotFound
		}

		return nil, err
	}

	gig, err := s.gigRepo.GetGigById(ctx, bid.GigId.String())
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrGigNotFound
		}

		return nil, err
	}

	if !policy.IsOwner(gig, callerId) {
		return nil, ErrNotGigOwner
	}
	if !policy.IsOpen(gig) {
		s.metrics.HireConflictsTotal.Inc()
		return nil, ErrGigNotOpen
	}
	if bid.Status != common.PendingBid {
		return nil, ErrBidNotPending
	}

	err = s.bidRepo.HireBid(ctx, gig.Id.String(), bidId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrInvalidState) {
			// Lost the race: another hire committed between our check
			// and the transaction. Nothing was applied.
			s.metrics.HireConflictsTotal.Inc()
			return nil, ErrGigNotOpen
		}
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrGigNotFound
		}

		return nil, err
	}

	bid, err = s.bidRepo.GetBidById(ctx, bidId)
	if err != nil {
		return nil, err
	}

	gig, err = s.gigRepo.GetGigById(ctx, bid.GigId.String())
	if err != nil {
		return nil, err
	}

	s.metrics.HiresTotal.Inc()
	s.logger.Printf("gig %s assigned to bidder %s via bid %s", gig.Id, bid.BidderId, bid.Id)

	// Fire and forget: the hire is already committed, delivery problems
	// stay inside the dispatcher.
	s.dispatcher.NotifyHired(bid.BidderId, gig.Id.String(), gig.Title, bid.Id.String())

	return mapHiredBid(bid, gig), nil
}
