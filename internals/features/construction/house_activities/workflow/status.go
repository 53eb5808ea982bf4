package workflow

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status is the closed set of house activity workflow states.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusReview     Status = "review"
	StatusCompleted  Status = "completed"
	StatusBlocked    Status = "blocked"
	StatusRejected   Status = "rejected"
)

var Statuses = []Status{
	StatusPending,
	StatusInProgress,
	StatusReview,
	StatusCompleted,
	StatusBlocked,
	StatusRejected,
}

var ErrInvalidStatus = errors.New("status must be one of: pending, in_progress, review, completed, blocked, rejected")

func (s Status) Valid() bool {
	for _, v := range Statuses {
		if v == s {
			return true
		}
	}
	return false
}

func (s Status) String() string { return string(s) }

func ParseStatus(raw string) (Status, error) {
	s := Status(strings.TrimSpace(raw))
	if !s.Valid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}

// Fields are the inputs status derivation looks at.
type Fields struct {
	IsBlocked       bool
	RejectedRemarks *string
	CompletionDate  *time.Time
	ApprovedByID    *uuid.UUID
	StartDate       *time.Time
}

// DeriveStatus applies the fixed precedence:
// blocked > rejected > completed > review > in_progress > pending.
func DeriveStatus(f Fields) Status {
	switch {
	case f.IsBlocked:
		return StatusBlocked
	case f.RejectedRemarks != nil && strings.TrimSpace(*f.RejectedRemarks) != "":
		return StatusRejected
	case f.CompletionDate != nil && f.ApprovedByID != nil:
		return StatusCompleted
	case f.CompletionDate != nil:
		return StatusReview
	case f.StartDate != nil:
		return StatusInProgress
	default:
		return StatusPending
	}
}
