package controller

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gig-marketplace-api/internal/common"
	"gig-marketplace-api/internal/entity"
	"gig-marketplace-api/internal/metrics"
	"gig-marketplace-api/internal/notify"
	"gig-marketplace-api/internal/repo"
	"gig-marketplace-api/internal/repo/memdb"
	"gig-marketplace-api/internal/service"

	"github.com/labstack/echo"
)

type testServer struct {
	handler *echo.Echo
	hub     *notify.Hub
}

func newTestServer() *testServer {
	store := memdb.New()
	hub := notify.NewHub()
	logger := log.New(io.Discard, "", 0)
	dispatcher := notify.NewDispatcher(hub, logger)
	repos := &repo.Repositories{Diagnostics: store, Gig: store, Bid: store}
	services := service.NewServices(repos, dispatcher, metrics.New(), logger)

	handler := echo.New()
	SetupRoutesHandlers(handler, services, hub, metrics.New())

	return &testServer{handler: handler, hub: hub}
}

func (ts *testServer) do(t *testing.T, method, path, caller, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if caller != "" {
		req.Header.Set(HeaderCallerId, caller)
	}

	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)

	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decoding response %q: %v", rec.Body.String(), err)
	}

	return out
}

func (ts *testServer) createGig(t *testing.T, owner string) entity.GigOutputModel {
	t.Helper()

	rec := ts.do(t, http.MethodPost, "/api/gigs", owner,
		`{"title":"Logo design","description":"Vector logo with brand guide","budget":500}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create gig: status %d, body %s", rec.Code, rec.Body.String())
	}

	return decode[entity.GigOutputModel](t, rec)
}

func (ts *testServer) createBid(t *testing.T, gigId, bidder string) entity.BidOutputModel {
	t.Helper()

	rec := ts.do(t, http.MethodPost, "/api/bids", bidder,
		`{"gigId":"`+gigId+`","message":"I can start right away","price":400}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create bid: status %d, body %s", rec.Code, rec.Body.String())
	}

	return decode[entity.BidOutputModel](t, rec)
}

func TestPostGig(t *testing.T) {
	ts := newTestServer()
	gig := ts.createGig(t, "alice")

	if gig.OwnerId != "alice" || gig.Status != common.OpenGig || gig.Budget != 500 {
		t.Errorf("unexpected gig payload: %+v", gig)
	}
}

func TestPostGigRequiresCaller(t *testing.T) {
	ts := newTestServer()

	rec := ts.do(t, http.MethodPost, "/api/gigs", "",
		`{"title":"t","description":"d","budget":100}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without caller header, got %d", rec.Code)
	}
}

func TestPostGigValidation(t *testing.T) {
	ts := newTestServer()

	rec := ts.do(t, http.MethodPost, "/api/gigs", "alice",
		`{"title":"","description":"d","budget":-5}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid input, got %d", rec.Code)
	}

	resp := decode[map[string]string](t, rec)
	if resp["reason"] == "" {
		t.Error("expected a reason in the error body")
	}
}

func TestGetGigNotFound(t *testing.T) {
	ts := newTestServer()

	rec := ts.do(t, http.MethodGet, "/api/gigs/00000000-0000-0000-0000-000000000000", "", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestGigSearch(t *testing.T) {
	ts := newTestServer()
	ts.createGig(t, "alice")

	rec := ts.do(t, http.MethodGet, "/api/gigs?search=logo", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	gigs := decode[[]entity.GigOutputModel](t, rec)
	if len(gigs) != 1 {
		t.Fatalf("expected one match, got %d", len(gigs))
	}

	rec = ts.do(t, http.MethodGet, "/api/gigs?search=plumbing", "", "")
	gigs = decode[[]entity.GigOutputModel](t, rec)
	if len(gigs) != 0 {
		t.Fatalf("expected no matches, got %d", len(gigs))
	}
}

func TestOwnGigBidForbidden(t *testing.T) {
	ts := newTestServer()
	gig := ts.createGig(t, "alice")

	rec := ts.do(t, http.MethodPost, "/api/bids", "alice",
		`{"gigId":"`+gig.Id+`","message":"bidding on my own gig","price":100}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d, body %s", rec.Code, rec.Body.String())
	}
}

func TestDuplicateBidConflict(t *testing.T) {
	ts := newTestServer()
	gig := ts.createGig(t, "alice")
	ts.createBid(t, gig.Id, "bob")

	rec := ts.do(t, http.MethodPost, "/api/bids", "bob",
		`{"gigId":"`+gig.Id+`","message":"second bid on same gig","price":350}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d, body %s", rec.Code, rec.Body.String())
	}
}

func TestGigBidsOwnerOnly(t *testing.T) {
	ts := newTestServer()
	gig := ts.createGig(t, "alice")
	ts.createBid(t, gig.Id, "bob")

	rec := ts.do(t, http.MethodGet, "/api/bids/"+gig.Id+"/list", "bob", "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-owner, got %d", rec.Code)
	}

	rec = ts.do(t, http.MethodGet, "/api/bids/"+gig.Id+"/list", "alice", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for owner, got %d", rec.Code)
	}
	bids := decode[[]entity.BidOutputModel](t, rec)
	if len(bids) != 1 || bids[0].BidderId != "bob" {
		t.Errorf("unexpected bids: %+v", bids)
	}
}

func TestHireFlow(t *testing.T) {
	ts := newTestServer()
	gig := ts.createGig(t, "alice")
	bid := ts.createBid(t, gig.Id, "bob")

	// a live session for the winning bidder
	events, unregister := ts.hub.Register("bob")
	defer unregister()

	rec := ts.do(t, http.MethodPatch, "/api/bids/"+bid.Id+"/hire", "alice", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("hire: status %d, body %s", rec.Code, rec.Body.String())
	}

	hired := decode[entity.BidOutputModel](t, rec)
	if hired.Status != common.HiredBid || hired.GigStatus != common.AssignedGig {
		t.Errorf("unexpected hire response: %+v", hired)
	}

	select {
	case event := <-events:
		if event.GigId != gig.Id || event.BidId != bid.Id {
			t.Errorf("unexpected event: %+v", event)
		}
	default:
		t.Fatal("winning bidder did not receive a notification")
	}

	// gig is now assigned and refuses further hires
	rec = ts.do(t, http.MethodPatch, "/api/bids/"+bid.Id+"/hire", "alice", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 on repeat hire, got %d", rec.Code)
	}
}

func TestHireByNonOwnerForbidden(t *testing.T) {
	ts := newTestServer()
	gig := ts.createGig(t, "alice")
	bid := ts.createBid(t, gig.Id, "bob")

	rec := ts.do(t, http.MethodPatch, "/api/bids/"+bid.Id+"/hire", "dave", "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d, body %s", rec.Code, rec.Body.String())
	}

	rec = ts.do(t, http.MethodGet, "/api/gigs/"+gig.Id, "", "")
	got := decode[entity.GigOutputModel](t, rec)
	if got.Status != common.OpenGig {
		t.Errorf("forbidden hire mutated gig to %s", got.Status)
	}
}

func TestDeleteGigWithBidsConflict(t *testing.T) {
	ts := newTestServer()
	gig := ts.createGig(t, "alice")
	ts.createBid(t, gig.Id, "bob")

	rec := ts.do(t, http.MethodDelete, "/api/gigs/"+gig.Id, "alice", "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d, body %s", rec.Code, rec.Body.String())
	}
}

func TestPutGigRequiresSomeField(t *testing.T) {
	ts := newTestServer()
	gig := ts.createGig(t, "alice")

	rec := ts.do(t, http.MethodPut, "/api/gigs/"+gig.Id, "alice", `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty update, got %d", rec.Code)
	}

	rec = ts.do(t, http.MethodPut, "/api/gigs/"+gig.Id, "alice", `{"budget":650}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d, body %s", rec.Code, rec.Body.String())
	}
	updated := decode[entity.GigOutputModel](t, rec)
	if updated.Budget != 650 || updated.Title != gig.Title {
		t.Errorf("unexpected update result: %+v", updated)
	}
}

func TestPing(t *testing.T) {
	ts := newTestServer()

	rec := ts.do(t, http.MethodGet, "/api/ping", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer()

	rec := ts.do(t, http.MethodGet, "/metrics", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
