package entity

import (
	"github.com/google/uuid"
)

// db model
type Bid struct {
	Id        uuid.UUID `json:"id" db:"id"`
	GigId     uuid.UUID `json:"gigId" db:"gig_id"`
	BidderId  string    `json:"bidderId" db:"bidder_id"`
	Message   string    `json:"message" db:"message"`
	Price     float64   `json:"price" db:"price"`
	Status    string    `json:"status" db:"status"`
	CreatedAt string    `json:"createdAt" db:"created_at"`
	UpdatedAt string    `json:"updatedAt" db:"updated_at"`
}

// service + repo input model
type CreateBidInput struct {
	GigId    string  // given
	BidderId string  // given, opaque identity from the identity provider
	Message  string  // given
	Price    float64 // given
	// Id UUID sets automatically
	// Status sets to "pending"
	// CreatedAt/UpdatedAt set automatically
}

// controller model
type BidOutputModel struct {
	Id        string  `json:"id"`
	GigId     string  `json:"gigId"`
	BidderId  string  `json:"bidderId"`
	Message   string  `json:"message"`
	Price     float64 `json:"price"`
	Status    string  `json:"status"`
	CreatedAt string  `json:"createdAt"`
	UpdatedAt string  `json:"updatedAt"`
	// filled on hire responses so the caller sees the post-transition
	// gig without a second round trip
	GigTitle  string `json:"gigTitle,omitempty"`
	GigStatus string `json:"gigStatus,omitempty"`
}
