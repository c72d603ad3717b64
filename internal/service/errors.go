package service

import "errors"

var (
	ErrGigNotFound = errors.New("gig not found")
	ErrBidNotFound = errors.New("bid not found")

	ErrNotGigOwner = errors.New("caller is not the owner of the gig")
	ErrGigNotOpen  = errors.New("gig is no longer open")
	ErrOwnGigBid   = errors.New("attempt to bid on caller's own gig")

	ErrDuplicateBid = errors.New("caller already submitted a bid for this gig")
	ErrGigHasBids   = errors.New("gig with existing bids can't be deleted")

	ErrBidNotPending = errors.New("bid already reached a terminal state")
)
