// Package memdb keeps gigs and bids in process memory behind one mutex.
// It mirrors the pgdb semantics, including the atomicity of the hire
// transition and the (gig, bidder) uniqueness guarantee, which makes it
// suitable for tests and for running the API without Postgres.
package memdb

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"gig-marketplace-api/internal/common"
	"gig-marketplace-api/internal/entity"
	"gig-marketplace-api/internal/repo/repo_errors"

	"github.com/google/uuid"
)

type gigRecord struct {
	gig entity.Gig
	seq int64
}

type bidRecord struct {
	bid entity.Bid
	seq int64
}

type Store struct {
	mu   sync.Mutex
	gigs map[uuid.UUID]*gigRecord
	bids map[uuid.UUID]*bidRecord
	seq  int64
}

func New() *Store {
	return &Store{
		gigs: make(map[uuid.UUID]*gigRecord),
		bids: make(map[uuid.UUID]*bidRecord),
	}
}

func (s *Store) Ping() error {
	return nil
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func (s *Store) CreateGig(_ context.Context, input *entity.CreateGigInput) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.New()
	ts := now()
	s.seq++
	s.gigs[id] = &gigRecord{
		gig: entity.Gig{
			Id:          id,
			Title:       input.Title,
			Description: input.Description,
			Budget:      input.Budget,
			OwnerId:     input.OwnerId,
			Status:      common.OpenGig,
			CreatedAt:   ts,
			UpdatedAt:   ts,
		},
		seq: s.seq,
	}

	return id, nil
}

func (s *Store) GetGigById(_ context.Context, id string) (*entity.Gig, error) {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return nil, repo_errors.ErrNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.gigs[uuidForm]
	if !ok {
		return nil, repo_errors.ErrNotFound
	}

	gig := rec.gig
	return &gig, nil
}

func (s *Store) GetOpenGigs(_ context.Context, titleSearch string) ([]entity.Gig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	search := strings.ToLower(titleSearch)
	records := make([]*gigRecord, 0)
	for _, rec := range s.gigs {
		if rec.gig.Status != common.OpenGig {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(rec.gig.Title), search) {
			continue
		}
		records = append(records, rec)
	}

	return collectGigs(records), nil
}

func (s *Store) GetGigsByOwner(_ context.Context, ownerId string) ([]entity.Gig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := make([]*gigRecord, 0)
	for _, rec := range s.gigs {
		if rec.gig.OwnerId == ownerId {
			records = append(records, rec)
		}
	}

	return collectGigs(records), nil
}

func collectGigs(records []*gigRecord) []entity.Gig {
	sort.Slice(records, func(i, j int) bool {
		return records[i].seq > records[j].seq
	})

	gigs := make([]entity.Gig, 0, len(records))
	for _, rec := range records {
		gigs = append(gigs, rec.gig)
	}

	return gigs
}

func (s *Store) EditGigById(_ context.Context, id string, input *entity.EditGigInput) error {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return repo_errors.ErrNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.gigs[uuidForm]
	if !ok {
		return repo_errors.ErrNotFound
	}
	if rec.gig.Status != common.OpenGig {
		return repo_errors.ErrInvalidState
	}

	if input.Title != "" {
		rec.gig.Title = input.Title
	}
	if input.Description != "" {
		rec.gig.Description = input.Description
	}
	if input.Budget > 0 {
		rec.gig.Budget = input.Budget
	}
	rec.gig.UpdatedAt = now()

	return nil
}

func (s *Store) DeleteGigById(_ context.Context, id string) error {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return repo_errors.ErrNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.gigs[uuidForm]
	if !ok {
		return repo_errors.ErrNotFound
	}
	if rec.gig.Status != common.OpenGig {
		return repo_errors.ErrInvalidState
	}

	for _, bid := range s.bids {
		if bid.bid.GigId == uuidForm {
			return repo_errors.ErrConflict
		}
	}

	delete(s.gigs, uuidForm)

	return nil
}

func (s *Store) CreateBid(_ context.Context, input *entity.CreateBidInput) (uuid.UUID, error) {
	gigUuid, err := uuid.Parse(input.GigId)
	if err != nil {
		return uuid.Nil, repo_errors.ErrNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Uniqueness check and insert happen under the same lock, matching
	// the insert-or-fail behaviour of the Postgres unique index.
	for _, rec := range s.bids {
		if rec.bid.GigId == gigUuid && rec.bid.BidderId == input.BidderId {
			return uuid.Nil, repo_errors.ErrConflict
		}
	}

	id := uuid.New()
	ts := now()
	s.seq++
	s.bids[id] = &bidRecord{
		bid: entity.Bid{
			Id:        id,
			GigId:     gigUuid,
			BidderId:  input.BidderId,
			Message:   input.Message,
			Price:     input.Price,
			Status:    common.PendingBid,
			CreatedAt: ts,
			UpdatedAt: ts,
		},
		seq: s.seq,
	}

	return id, nil
}

func (s *Store) GetBidById(_ context.Context, id string) (*entity.Bid, error) {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return nil, repo_errors.ErrNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.bids[uuidForm]
	if !ok {
		return nil, repo_errors.ErrNotFound
	}

	bid := rec.bid
	return &bid, nil
}

func (s *Store) GetGigBids(_ context.Context, gigId string) ([]entity.Bid, error) {
	uuidForm, err := uuid.Parse(gigId)
	if err != nil {
		return nil, repo_errors.ErrNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records := make([]*bidRecord, 0)
	for _, rec := range s.bids {
		if rec.bid.GigId == uuidForm {
			records = append(records, rec)
		}
	}

	return collectBids(records), nil
}

func (s *Store) GetBidderBids(_ context.Context, bidderId string) ([]entity.Bid, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := make([]*bidRecord, 0)
	for _, rec := range s.bids {
		if rec.bid.BidderId == bidderId {
			records = append(records, rec)
		}
	}

	return collectBids(records), nil
}

func collectBids(records []*bidRecord) []entity.Bid {
	sort.Slice(records, func(i, j int) bool {
		return records[i].seq > records[j].seq
	})

	bids := make([]entity.Bid, 0, len(records))
	for _, rec := range records {
		bids = append(bids, rec.bid)
	}

	return bids
}

func (s *Store) HireBid(_ context.Context, gigId string, bidId string) error {
	gigUuid, err := uuid.Parse(gigId)
	if err != nil {
		return repo_errors.ErrNotFound
	}

	bidUuid, err := uuid.Parse(bidId)
	if err != nil {
		return repo_errors.ErrNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	gigRec, ok := s.gigs[gigUuid]
	if !ok {
		return repo_errors.ErrNotFound
	}
	if gigRec.gig.Status != common.OpenGig {
		return repo_errors.ErrInvalidState
	}

	bidRec, ok := s.bids[bidUuid]
	if !ok || bidRec.bid.GigId != gigUuid || bidRec.bid.Status != common.PendingBid {
		return repo_errors.ErrInvalidState
	}

	ts := now()
	gigRec.gig.Status = common.AssignedGig
	gigRec.gig.UpdatedAt = ts
	bidRec.bid.Status = common.HiredBid
	bidRec.bid.UpdatedAt = ts

	for _, rec := range s.bids {
		if rec.bid.GigId == gigUuid && rec.bid.Id != bidUuid && rec.bid.Status == common.PendingBid {
			rec.bid.Status = common.RejectedBid
			rec.bid.UpdatedAt = ts
		}
	}

	return nil
}
