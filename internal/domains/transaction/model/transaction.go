package model

import (
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a borrow transaction
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusIssued    Status = "ISSUED"
	StatusReturned  Status = "RETURNED"
	StatusRejected  Status = "REJECTED"
	StatusCancelled Status = "CANCELLED"
)

// transitions is the single source of truth for the lifecycle graph.
// A status absent from the map is terminal.
var transitions = map[Status][]Status{
	StatusPending: {StatusIssued, StatusRejected, StatusCancelled},
	StatusIssued:  {StatusReturned},
}

// CanTransitionTo reports whether the edge from s to next exists
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no edges leave s
func (s Status) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// Valid reports whether s is a known lifecycle status
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusIssued, StatusReturned, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

// Transaction is one borrow request and its full lifecycle record.
// IssuedAt, DueAt and ReturnedAt are set by the transitions that
// produce them and stay nil before that.
type Transaction struct {
	ID          uuid.UUID  `json:"id"`
	MemberID    uuid.UUID  `json:"member_id"`
	BookID      uuid.UUID  `json:"book_id"`
	Status      Status     `json:"status"`
	RequestedAt time.Time  `json:"requested_at"`
	IssuedAt    *time.Time `json:"issued_at,omitempty"`
	DueAt       *time.Time `json:"due_at,omitempty"`
	ReturnedAt  *time.Time `json:"returned_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Detail is a transaction joined with the book and member it references,
// shaped for the admin dashboard and the member history page.
type Detail struct {
	Transaction
	BookTitle    string  `json:"book_title"`
	BookAuthor   string  `json:"book_author"`
	BookCoverURL *string `json:"book_cover_url,omitempty"`
	MemberName   string  `json:"member_name"`
	MemberEmail  string  `json:"member_email"`
}
