package events

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event types published on a meeting's channel.
const (
	TypeChat              = "chat"
	TypeJoinRequest       = "join-request"
	TypeParticipantJoined = "participant-joined"
	TypeParticipantLeft   = "participant-left"
	TypeMeetingEnded      = "meeting-ended"
	TypeRecordingStarted  = "recording-started"
	TypeRecordingStopped  = "recording-stopped"
)

type Event struct {
	Type      string         `json:"type"`
	MeetingID uuid.UUID      `json:"meeting_id"`
	Payload   map[string]any `json:"payload,omitempty"`
	At        time.Time      `json:"at"`
}

// Subscriber receives a meeting's events. Slow consumers lose events rather
// than block publishers; the store remains the source of truth.
type Subscriber struct {
	C chan Event

	meetingID uuid.UUID
}

// Hub is an in-process fan-out of meeting events feeding the websocket
// stream. Process-local only.
type Hub struct {
	mu   sync.RWMutex
	subs map[uuid.UUID]map[*Subscriber]struct{}
}

func NewHub() *Hub {
	return &Hub{
		subs: make(map[uuid.UUID]map[*Subscriber]struct{}),
	}
}

func (h *Hub) Subscribe(meetingID uuid.UUID) *Subscriber {
	sub := &Subscriber{
		C:         make(chan Event, 16),
		meetingID: meetingID,
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.subs[meetingID] == nil {
		h.subs[meetingID] = make(map[*Subscriber]struct{})
	}
	h.subs[meetingID][sub] = struct{}{}
	return sub
}

func (h *Hub) Unsubscribe(sub *Subscriber) {
	if sub == nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if set, ok := h.subs[sub.meetingID]; ok {
		if _, ok := set[sub]; ok {
			delete(set, sub)
			close(sub.C)
		}
		if len(set) == 0 {
			delete(h.subs, sub.meetingID)
		}
	}
}

func (h *Hub) Publish(evt Event) {
	if evt.At.IsZero() {
		evt.At = time.Now().UTC()
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.subs[evt.MeetingID] {
		select {
		case sub.C <- evt:
		default:
		}
	}
}
