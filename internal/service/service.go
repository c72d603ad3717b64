package service

import (
	"context"
	"log"

	"gig-marketplace-api/internal/entity"
	"gig-marketplace-api/internal/metrics"
	"gig-marketplace-api/internal/notify"
	"gig-marketplace-api/internal/repo"
)

type Diagnostics interface {
	Ping() error
}

type Gig interface {
	CreateGig(ctx context.Context, input *entity.CreateGigInput) (*entity.GigOutputModel, error)
	GetGigById(ctx context.Context, gigId string) (*entity.GigOutputModel, error)
	GetOpenGigs(ctx context.Context, titleSearch string) ([]entity.GigOutputModel, error)
	GetOwnerGigs(ctx context.Context, callerId string) ([]entity.GigOutputModel, error)
	EditGigById(ctx context.Context, gigId string, callerId string, input *entity.EditGigInput) (*entity.GigOutputModel, error)
	DeleteGigById(ctx context.Context, gigId string, callerId string) error
}

type Bid interface {
	CreateBid(ctx context.Context, input *entity.CreateBidInput) (*entity.BidOutputModel, error)
	GetGigBids(ctx context.Context, gigId string, callerId string) ([]entity.BidOutputModel, error)
	GetBidderBids(ctx context.Context, callerId string) ([]entity.BidOutputModel, error)
	HireBid(ctx context.Context, bidId string, callerId string) (*entity.BidOutputModel, error)
}

type Services struct {
	Diagnostics Diagnostics
	Gig         Gig
	Bid         Bid
}

func NewServices(repos *repo.Repositories, dispatcher *notify.Dispatcher, m *metrics.Metrics, logger *log.Logger) *Services {
	return &Services{
		Diagnostics: NewDiagnosticsService(repos),
		Gig:         NewGigService(repos, m),
		Bid:         NewBidService(repos, dispatcher, m, logger),
	}
}
