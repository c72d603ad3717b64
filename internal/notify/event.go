package notify

import "fmt"

// Event is the payload pushed to a winning bidder's live session.
type Event struct {
	Name     string `json:"-"`
	Message  string `json:"message"`
	GigId    string `json:"gigId"`
	GigTitle string `json:"gigTitle"`
	BidId    string `json:"bidId"`
}

func HiredEvent(gigId, gigTitle, bidId string) Event {
	return Event{
		Name:     "hired",
		Message:  fmt.Sprintf("You have been hired for %s!", gigTitle),
		GigId:    gigId,
		GigTitle: gigTitle,
		BidId:    bidId,
	}
}
