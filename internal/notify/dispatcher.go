package notify

import "log"

// Sender delivers an event towards any live session of an identity.
// The Hub implements it directly; RedisRelay implements it by fanning
// the event out across instances first.
type Sender interface {
	SendToIdentity(identity string, event Event) error
}

// Dispatcher is the only notification surface the services see.
// Delivery is best effort: failures are logged and swallowed so they
// can never undo or fail a committed hire.
type Dispatcher struct {
	sender Sender
	logger *log.Logger
}

func NewDispatcher(sender Sender, logger *log.Logger) *Dispatcher {
	return &Dispatcher{sender: sender, logger: logger}
}

func (d *Dispatcher) NotifyHired(recipient string, gigId, gigTitle, bidId string) {
	event := HiredEvent(gigId, gigTitle, bidId)
	if err := d.sender.SendToIdentity(recipient, event); err != nil {
		d.logger.Printf("hired notification for %s on gig %s dropped: %v", recipient, gigId, err)
	}
}
