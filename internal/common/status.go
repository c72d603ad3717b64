package common

const (
	// Gig lifecycle. The only allowed transition is Open -> Assigned.
	OpenGig     = "open"
	AssignedGig = "assigned"

	// Bid lifecycle. Pending is the only non-terminal state; a bid
	// leaves it exclusively through the hire transaction.
	PendingBid  = "pending"
	HiredBid    = "hired"
	RejectedBid = "rejected"
)

const HiredEvent = "hired"
