package repo

import (
	"context"

	"gig-marketplace-api/internal/entity"
	"gig-marketplace-api/internal/repo/pgdb"
	"gig-marketplace-api/pkg/postgres"

	"github.com/google/uuid"
)

type Diagnostics interface {
	Ping() error
}

type Gig interface {
	CreateGig(ctx context.Context, input *entity.CreateGigInput) (uuid.UUID, error)
	GetGigById(ctx context.Context, id string) (*entity.Gig, error)
	GetOpenGigs(ctx context.Context, titleSearch string) ([]entity.Gig, error)
	GetGigsByOwner(ctx context.Context, ownerId string) ([]entity.Gig, error)
	EditGigById(ctx context.Context, id string, input *entity.EditGigInput) error
	DeleteGigById(ctx context.Context, id string) error
}

type Bid interface {
	CreateBid(ctx context.Context, input *entity.CreateBidInput) (uuid.UUID, error)
	GetBidById(ctx context.Context, id string) (*entity.Bid, error)
	GetGigBids(ctx context.Context, gigId string) ([]entity.Bid, error)
	GetBidderBids(ctx context.Context, bidderId string) ([]entity.Bid, error)

	// HireBid applies the whole hire transition atomically: the gig
	// becomes assigned, the chosen bid becomes hired and every other
	// pending bid on the gig becomes rejected, or nothing changes at all.
	HireBid(ctx context.Context, gigId string, bidId string) error
}

type Repositories struct {
	Diagnostics
	Gig
	Bid
}

func NewRepositories(p *postgres.Postgres) *Repositories {
	return &Repositories{
		Diagnostics: pgdb.NewDiagnosticsRepo(p),
		Gig:         pgdb.NewGigRepo(p),
		Bid:         pgdb.NewBidRepo(p),
	}
}
