package model

import "time"

// EventID identifies an event on the Convive service.
type EventID string

// EventStatus is the lifecycle status of an event as reported by the server.
type EventStatus string

const (
	StatusDraft     EventStatus = "draft"
	StatusPublished EventStatus = "published"
	StatusCanceled  EventStatus = "canceled"
	StatusCompleted EventStatus = "completed"
	StatusDeleted   EventStatus = "deleted"
)

func (s EventStatus) String() string {
	return string(s)
}

// Event is the client-side view of a gathering. All counts and statuses
// are server-authoritative; the client never derives them locally.
type Event struct {
	ID        EventID     `json:"id"`
	Title     string      `json:"title"`
	Status    EventStatus `json:"status"`
	Host      string      `json:"host"`
	StartsAt  time.Time   `json:"starts_at"`
	Location  string      `json:"location,omitempty"`
	Capacity  int         `json:"capacity"`
	Attending int         `json:"attending"`
	Items     []Item      `json:"items,omitempty"`
}

// Item is a dish or supply participants can claim to bring.
type Item struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Quantity int            `json:"quantity"`
	Claimed  int            `json:"claimed"`
	Claims   map[string]int `json:"claims,omitempty"` // guest -> count
}

// JoinStatus is the server's disposition of a join request.
type JoinStatus string

const (
	JoinPending    JoinStatus = "pending"
	JoinApproved   JoinStatus = "approved"
	JoinRejected   JoinStatus = "rejected"
	JoinWaitlisted JoinStatus = "waitlisted"
)

// JoinRequest is a guest's request to attend an event. Approval, rejection,
// and waitlisting against the capacity ceiling are decided by the server.
type JoinRequest struct {
	ID        string     `json:"id"`
	EventID   EventID    `json:"event_id"`
	Guest     string     `json:"guest"`
	Status    JoinStatus `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
}
