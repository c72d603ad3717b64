package notify

import "sync"

const sessionBuffer = 8

// Hub is the in-process connection registry, keyed by caller identity.
// The boundary layer registers a channel per live session; anyone may
// send to an identity. An identity with no session loses the event, a
// session that stopped draining loses it too, the sender never blocks.
type Hub struct {
	mu       sync.Mutex
	sessions map[string][]chan Event
}

func NewHub() *Hub {
	return &Hub{
		sessions: make(map[string][]chan Event),
	}
}

// Register adds a session for identity and returns its event channel
// together with the matching unregister function.
func (h *Hub) Register(identity string) (<-chan Event, func()) {
	ch := make(chan Event, sessionBuffer)

	h.mu.Lock()
	h.sessions[identity] = append(h.sessions[identity], ch)
	h.mu.Unlock()

	unregister := func() {
		h.mu.Lock()
		defer h.mu.Unlock()

		chans := h.sessions[identity]
		for i, c := range chans {
			if c == ch {
				h.sessions[identity] = append(chans[:i], chans[i+1:]...)
				break
			}
		}
		if len(h.sessions[identity]) == 0 {
			delete(h.sessions, identity)
		}
	}

	return ch, unregister
}

func (h *Hub) SendToIdentity(identity string, event Event) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, ch := range h.sessions[identity] {
		select {
		case ch <- event:
		default:
			// slow consumer, drop rather than stall the hire path
		}
	}

	return nil
}
