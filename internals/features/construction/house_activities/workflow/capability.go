package workflow

import (
	"errors"
	"fmt"
	"strings"

	"housetrack_backend/internals/constants"

	"github.com/google/uuid"
)

// Field names a writable house activity attribute, spelled as in the JSON payload.
type Field string

const (
	FieldStartDate       Field = "startDate"
	FieldCompletionDate  Field = "completionDate"
	FieldRemarks         Field = "remarks"
	FieldAppUserID       Field = "appUserId"
	FieldIsBlocked       Field = "isBlocked"
	FieldRejectedRemarks Field = "rejectedRemarks"
	FieldApprovedByID    Field = "approvedById"
	FieldStatus          Field = "status"
)

var surveyorFields = []Field{FieldStartDate, FieldCompletionDate, FieldRemarks, FieldAppUserID}

var reviewerFields = append(append([]Field{}, surveyorFields...),
	FieldIsBlocked, FieldRejectedRemarks, FieldApprovedByID, FieldStatus)

// capabilities is the role x field write table.
var capabilities = map[string]map[Field]bool{
	constants.RoleSurveyor: fieldSet(surveyorFields),
	constants.RoleReviewer: fieldSet(reviewerFields),
	constants.RoleAdmin:    fieldSet(reviewerFields),
}

func fieldSet(fs []Field) map[Field]bool {
	m := make(map[Field]bool, len(fs))
	for _, f := range fs {
		m[f] = true
	}
	return m
}

// CanWrite reports whether role may write field.
func CanWrite(role string, f Field) bool {
	return capabilities[role][f]
}

// requiresOwnership lists roles limited to their own activities.
var requiresOwnership = map[string]bool{
	constants.RoleSurveyor: true,
}

var (
	ErrNoChanges    = errors.New("payload contains no updatable fields")
	ErrNotAssignee  = errors.New("activity is not assigned to you")
	ErrAssignOthers = errors.New("you may only assign an activity to yourself")
)

// ForbiddenFieldsError lists the present fields the role cannot write.
type ForbiddenFieldsError struct {
	Role   string
	Fields []Field
}

func (e *ForbiddenFieldsError) Error() string {
	names := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		names[i] = string(f)
	}
	return fmt.Sprintf("role %q may not modify: %s", e.Role, strings.Join(names, ", "))
}

// Authorize makes the single allow/deny decision for an update. assignee is the
// activity's current assignee.
func Authorize(role string, caller uuid.UUID, assignee *uuid.UUID, p Patch) error {
	present := p.Present()
	if len(present) == 0 {
		return ErrNoChanges
	}

	var denied []Field
	for _, f := range present {
		if !CanWrite(role, f) {
			denied = append(denied, f)
		}
	}
	if len(denied) > 0 {
		return &ForbiddenFieldsError{Role: role, Fields: denied}
	}

	if !requiresOwnership[role] {
		return nil
	}

	ownsCurrent := assignee != nil && *assignee == caller
	if p.AppUserID.Set {
		switch {
		case p.AppUserID.Value == nil:
			// releasing is only possible for one's own assignment
			if !ownsCurrent {
				return ErrNotAssignee
			}
		case *p.AppUserID.Value != caller:
			return ErrAssignOthers
		case assignee != nil && !ownsCurrent:
			// claiming only works on unassigned activities
			return ErrNotAssignee
		}
		return nil
	}
	if !ownsCurrent {
		return ErrNotAssignee
	}
	return nil
}
