// Package policy holds the pure access predicates consulted before any
// mutating operation. None of them touch storage; callers pass the gig
// they already resolved.
package policy

import (
	"gig-marketplace-api/internal/common"
	"gig-marketplace-api/internal/entity"
)

func IsOwner(gig *entity.Gig, callerId string) bool {
	return gig.OwnerId == callerId
}

func IsOpen(gig *entity.Gig) bool {
	return gig.Status == common.OpenGig
}

// CanBid allows anyone except the owner to bid on an open gig.
func CanBid(gig *entity.Gig, callerId string) bool {
	return IsOpen(gig) && !IsOwner(gig, callerId)
}

// CanHire allows only the owner of a still-open gig to hire.
func CanHire(gig *entity.Gig, callerId string) bool {
	return IsOwner(gig, callerId) && IsOpen(gig)
}
