package workflow

import (
	"time"

	"github.com/google/uuid"
)

// Change is one optional field of a partial update.
//
//	Set=false            field absent
//	Set=true, Value=nil  explicit null (clear)
type Change[T any] struct {
	Set   bool
	Value *T
}

func Set[T any](v T) Change[T] { return Change[T]{Set: true, Value: &v} }

func Clear[T any]() Change[T] { return Change[T]{Set: true} }

// Patch is a partial house activity update.
type Patch struct {
	StartDate       Change[time.Time]
	CompletionDate  Change[time.Time]
	IsBlocked       Change[bool]
	AppUserID       Change[uuid.UUID]
	Remarks         Change[string]
	RejectedRemarks Change[string]
	ApprovedByID    Change[uuid.UUID]
	Status          Change[Status]
}

// Present lists the fields carried by the patch in a stable order.
func (p Patch) Present() []Field {
	var out []Field
	add := func(set bool, f Field) {
		if set {
			out = append(out, f)
		}
	}
	add(p.StartDate.Set, FieldStartDate)
	add(p.CompletionDate.Set, FieldCompletionDate)
	add(p.Remarks.Set, FieldRemarks)
	add(p.AppUserID.Set, FieldAppUserID)
	add(p.IsBlocked.Set, FieldIsBlocked)
	add(p.RejectedRemarks.Set, FieldRejectedRemarks)
	add(p.ApprovedByID.Set, FieldApprovedByID)
	add(p.Status.Set, FieldStatus)
	return out
}

// State is the persisted workflow state of one house activity.
type State struct {
	Status          Status
	StartDate       *time.Time
	CompletionDate  *time.Time
	IsBlocked       bool
	AppUserID       *uuid.UUID
	ApprovedByID    *uuid.UUID
	ApprovalDate    *time.Time
	Remarks         *string
	RejectedRemarks *string
}

func (s State) Fields() Fields {
	return Fields{
		IsBlocked:       s.IsBlocked,
		RejectedRemarks: s.RejectedRemarks,
		CompletionDate:  s.CompletionDate,
		ApprovedByID:    s.ApprovedByID,
		StartDate:       s.StartDate,
	}
}

type Result struct {
	Next          State
	Derived       Status // what the fields alone produce
	Explicit      bool   // status came from the payload
	Overridden    bool   // explicit status differs from Derived
	StatusChanged bool
}

func pick[T any](cur *T, c Change[T]) *T {
	if !c.Set {
		return cur
	}
	if c.Value == nil {
		return nil
	}
	v := *c.Value
	return &v
}

// Apply merges p into cur and computes the next status.
//
// Derivation uses incoming values where present and existing ones otherwise.
// An explicit status wins over derivation and is stored as given.
// startDate is stamped when missing and the result is review, or an explicit
// pending. completionDate is stamped when missing and the result is completed.
// approvalDate follows approvedById: stamped when a new approver is set,
// cleared when the approver is cleared.
func Apply(cur State, p Patch, now time.Time) Result {
	next := cur
	next.StartDate = pick(cur.StartDate, p.StartDate)
	next.CompletionDate = pick(cur.CompletionDate, p.CompletionDate)
	next.AppUserID = pick(cur.AppUserID, p.AppUserID)
	next.Remarks = pick(cur.Remarks, p.Remarks)
	next.RejectedRemarks = pick(cur.RejectedRemarks, p.RejectedRemarks)
	next.ApprovedByID = pick(cur.ApprovedByID, p.ApprovedByID)
	if p.IsBlocked.Set {
		next.IsBlocked = p.IsBlocked.Value != nil && *p.IsBlocked.Value
	}

	if p.ApprovedByID.Set {
		switch {
		case next.ApprovedByID == nil:
			next.ApprovalDate = nil
		case cur.ApprovedByID == nil || *cur.ApprovedByID != *next.ApprovedByID:
			t := now
			next.ApprovalDate = &t
		}
	}

	res := Result{Derived: DeriveStatus(next.Fields())}
	next.Status = res.Derived
	if p.Status.Set && p.Status.Value != nil {
		next.Status = *p.Status.Value
		res.Explicit = true
		res.Overridden = next.Status != res.Derived
	}

	if next.StartDate == nil &&
		(next.Status == StatusReview || (res.Explicit && next.Status == StatusPending)) {
		t := now
		next.StartDate = &t
	}
	if next.CompletionDate == nil && next.Status == StatusCompleted {
		t := now
		next.CompletionDate = &t
	}

	res.Next = next
	res.StatusChanged = next.Status != cur.Status
	return res
}
