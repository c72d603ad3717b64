package service

import (
	"gig-marketplace-api/internal/entity"
)

func mapGig(g *entity.Gig) *entity.GigOutputModel {
	return &entity.GigOutputModel{
		Id:          g.Id.String(),
		Title:       g.Title,
		Description: g.Description,
		Budget:      g.Budget,
		OwnerId:     g.OwnerId,
		Status:      g.Status,
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
	}
}

func mapGigs(gigs []entity.Gig) []entity.GigOutputModel {
	s := make([]entity.GigOutputModel, 0)
	for _, gig := range gigs {
		s = append(s, *mapGig(&gig))
	}

	return s
}

func mapBid(b *entity.Bid) *entity.BidOutputModel {
	return &entity.BidOutputModel{
		Id:        b.Id.String(),
		GigId:     b.GigId.String(),
		BidderId:  b.BidderId,
		Message:   b.Message,
		Price:     b.Price,
		Status:    b.Status,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

func mapBids(bids []entity.Bid) []entity.BidOutputModel {
	s := make([]entity.BidOutputModel, 0)
	for _, bid := range bids {
		s = append(s, *mapBid(&bid))
	}

	return s
}

// mapHiredBid materializes the hire response with the post-transition gig.
func mapHiredBid(b *entity.Bid, g *entity.Gig) *entity.BidOutputModel {
	out := mapBid(b)
	out.GigTitle = g.Title
	out.GigStatus = g.Status

	return out
}
