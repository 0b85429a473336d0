package reservations

import "github.com/google/uuid"

// Table is the backend table holding reservations.
const Table = "Reservations"

// Status is derived from the nullable is_accepted column.
type Status int

const (
	StatusPending Status = iota
	StatusAccepted
	StatusRejected
)

func (s Status) String() string {
	switch s {
	case StatusAccepted:
		return "Accepted"
	case StatusRejected:
		return "Rejected"
	}
	return "Pending"
}

// Reservation is one row of the Reservations table.
type Reservation struct {
	ID          string  `json:"reservation_id"`
	Date        string  `json:"date"`
	Time        *string `json:"time"`
	Description *string `json:"description"`
	IsAccepted  *bool   `json:"is_accepted"`
	UserID      string  `json:"user_id"`
	Reason      *string `json:"reason,omitempty"`
}

func (r Reservation) Status() Status {
	switch {
	case r.IsAccepted == nil:
		return StatusPending
	case *r.IsAccepted:
		return StatusAccepted
	}
	return StatusRejected
}

// StatusUpdate is the patch written by an admin decision. Reason is always
// sent so that accepting clears an earlier rejection reason.
type StatusUpdate struct {
	IsAccepted bool    `json:"is_accepted"`
	Reason     *string `json:"reason"`
}

// NewID mints a reservation id on the client; the backend does not assign one.
func NewID() string { return uuid.NewString() }

// StringPtr returns nil for an empty string.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
