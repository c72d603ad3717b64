package memdb

import (
	"context"
	"errors"
	"sync"
	"testing"

	"gig-marketplace-api/internal/common"
	"gig-marketplace-api/internal/entity"
	"gig-marketplace-api/internal/repo/repo_errors"
)

func createGig(t *testing.T, s *Store, owner string) string {
	t.Helper()
	id, err := s.CreateGig(context.Background(), &entity.CreateGigInput{
		Title:       "Build a landing page",
		Description: "Five sections, responsive",
		Budget:      500,
		OwnerId:     owner,
	})
	if err != nil {
		t.Fatalf("create gig: %v", err)
	}

	return id.String()
}

func createBid(t *testing.T, s *Store, gigId, bidder string, price float64) string {
	t.Helper()
	id, err := s.CreateBid(context.Background(), &entity.CreateBidInput{
		GigId:    gigId,
		BidderId: bidder,
		Message:  "I can deliver this in a week",
		Price:    price,
	})
	if err != nil {
		t.Fatalf("create bid: %v", err)
	}

	return id.String()
}

func TestGigRoundTrip(t *testing.T) {
	s := New()
	id := createGig(t, s, "alice")

	gig, err := s.GetGigById(context.Background(), id)
	if err != nil {
		t.Fatalf("get gig: %v", err)
	}
	if gig.Title != "Build a landing page" || gig.Budget != 500 || gig.OwnerId != "alice" {
		t.Errorf("round trip mismatch: %+v", gig)
	}
	if gig.Status != common.OpenGig {
		t.Errorf("expected new gig to be open, got %s", gig.Status)
	}
}

func TestOpenGigsTitleSearch(t *testing.T) {
	s := New()
	ctx := context.Background()

	first, _ := s.CreateGig(ctx, &entity.CreateGigInput{Title: "Logo design", Description: "d", Budget: 100, OwnerId: "alice"})
	second, _ := s.CreateGig(ctx, &entity.CreateGigInput{Title: "Website redesign", Description: "d", Budget: 200, OwnerId: "alice"})
	_ = first

	gigs, err := s.GetOpenGigs(ctx, "DESIGN")
	if err != nil {
		t.Fatalf("get open gigs: %v", err)
	}
	if len(gigs) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(gigs))
	}
	// newest first
	if gigs[0].Id != second {
		t.Errorf("expected newest gig first, got %s", gigs[0].Title)
	}

	gigs, _ = s.GetOpenGigs(ctx, "logo")
	if len(gigs) != 1 || gigs[0].Title != "Logo design" {
		t.Errorf("expected the logo gig only, got %d results", len(gigs))
	}
}

func TestDuplicateBidRejected(t *testing.T) {
	s := New()
	gigId := createGig(t, s, "alice")
	createBid(t, s, gigId, "bob", 400)

	_, err := s.CreateBid(context.Background(), &entity.CreateBidInput{
		GigId:    gigId,
		BidderId: "bob",
		Message:  "Second attempt, lower price",
		Price:    350,
	})
	if !errors.Is(err, repo_errors.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestDuplicateBidRace(t *testing.T) {
	s := New()
	gigId := createGig(t, s, "alice")

	const attempts = 2
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.CreateBid(context.Background(), &entity.CreateBidInput{
				GigId:    gigId,
				BidderId: "bob",
				Message:  "Concurrent submission attempt",
				Price:    400,
			})
		}(i)
	}
	wg.Wait()

	successes, conflicts := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, repo_errors.ErrConflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if successes != 1 || conflicts != 1 {
		t.Fatalf("expected exactly one winner, got %d successes and %d conflicts", successes, conflicts)
	}
}

func TestHireBidTransition(t *testing.T) {
	s := New()
	ctx := context.Background()
	gigId := createGig(t, s, "alice")
	winner := createBid(t, s, gigId, "bob", 400)
	loser := createBid(t, s, gigId, "carol", 450)

	if err := s.HireBid(ctx, gigId, winner); err != nil {
		t.Fatalf("hire: %v", err)
	}

	gig, _ := s.GetGigById(ctx, gigId)
	if gig.Status != common.AssignedGig {
		t.Errorf("expected gig assigned, got %s", gig.Status)
	}

	hired, _ := s.GetBidById(ctx, winner)
	if hired.Status != common.HiredBid {
		t.Errorf("expected winning bid hired, got %s", hired.Status)
	}

	rejected, _ := s.GetBidById(ctx, loser)
	if rejected.Status != common.RejectedBid {
		t.Errorf("expected losing bid rejected, got %s", rejected.Status)
	}

	// a second hire attempt must not touch anything
	if err := s.HireBid(ctx, gigId, loser); !errors.Is(err, repo_errors.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState on second hire, got %v", err)
	}
	rejected, _ = s.GetBidById(ctx, loser)
	if rejected.Status != common.RejectedBid {
		t.Errorf("second hire mutated the losing bid to %s", rejected.Status)
	}
}

func TestConcurrentHireExactlyOneWins(t *testing.T) {
	s := New()
	ctx := context.Background()
	gigId := createGig(t, s, "alice")
	b1 := createBid(t, s, gigId, "bob", 400)
	b2 := createBid(t, s, gigId, "carol", 450)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, bidId := range []string{b1, b2} {
		wg.Add(1)
		go func(i int, bidId string) {
			defer wg.Done()
			errs[i] = s.HireBid(ctx, gigId, bidId)
		}(i, bidId)
	}
	wg.Wait()

	successes, invalid := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, repo_errors.ErrInvalidState):
			invalid++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if successes != 1 || invalid != 1 {
		t.Fatalf("expected exactly one hire to win, got %d successes and %d invalid-state", successes, invalid)
	}

	hiredCount := 0
	bids, _ := s.GetGigBids(ctx, gigId)
	for _, bid := range bids {
		if bid.Status == common.HiredBid {
			hiredCount++
		}
		if bid.Status == common.PendingBid {
			t.Errorf("bid %s left pending after hire", bid.Id)
		}
	}
	if hiredCount != 1 {
		t.Fatalf("expected exactly one hired bid, got %d", hiredCount)
	}
}

func TestDeleteGigGuards(t *testing.T) {
	s := New()
	ctx := context.Background()

	gigId := createGig(t, s, "alice")
	createBid(t, s, gigId, "bob", 400)
	if err := s.DeleteGigById(ctx, gigId); !errors.Is(err, repo_errors.ErrConflict) {
		t.Fatalf("expected ErrConflict deleting gig with bids, got %v", err)
	}

	empty := createGig(t, s, "alice")
	if err := s.DeleteGigById(ctx, empty); err != nil {
		t.Fatalf("delete gig without bids: %v", err)
	}
	if _, err := s.GetGigById(ctx, empty); !errors.Is(err, repo_errors.ErrNotFound) {
		t.Fatalf("expected deleted gig to be gone, got %v", err)
	}
}

func TestEditAssignedGigFails(t *testing.T) {
	s := New()
	ctx := context.Background()
	gigId := createGig(t, s, "alice")
	bidId := createBid(t, s, gigId, "bob", 400)
	if err := s.HireBid(ctx, gigId, bidId); err != nil {
		t.Fatalf("hire: %v", err)
	}

	err := s.EditGigById(ctx, gigId, &entity.EditGigInput{Title: "New title"})
	if !errors.Is(err, repo_errors.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}

	gig, _ := s.GetGigById(ctx, gigId)
	if gig.Title != "Build a landing page" {
		t.Errorf("assigned gig was mutated: %s", gig.Title)
	}
}
