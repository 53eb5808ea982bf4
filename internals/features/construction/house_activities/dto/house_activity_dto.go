package dto

import (
	"errors"
	"strings"
	"time"

	haModel "housetrack_backend/internals/features/construction/house_activities/model"
	"housetrack_backend/internals/features/construction/house_activities/service"
	"housetrack_backend/internals/features/construction/house_activities/workflow"
	houseModel "housetrack_backend/internals/features/construction/houses/model"
	projectModel "housetrack_backend/internals/features/construction/projects/model"
	helper "housetrack_backend/internals/helpers"

	"github.com/google/uuid"
)

/* =========================================================
   Request: PATCH /api/u/house-activities/:id
   ========================================================= */

// UpdateHouseActivityRequest: semua field opsional, null = clear.
type UpdateHouseActivityRequest struct {
	StartDate       helper.NullableTime        `json:"startDate"`
	CompletionDate  helper.NullableTime        `json:"completionDate"`
	IsBlocked       helper.Nullable[bool]      `json:"isBlocked"`
	AppUserID       helper.Nullable[uuid.UUID] `json:"appUserId"`
	Remarks         helper.Nullable[string]    `json:"remarks"`
	RejectedRemarks helper.Nullable[string]    `json:"rejectedRemarks"`
	ApprovedByID    helper.Nullable[uuid.UUID] `json:"approvedById"`
	Status          helper.Nullable[string]    `json:"status"`
}

var (
	ErrIsBlockedNull = errors.New("isBlocked cannot be null")
	ErrStatusNull    = errors.New("status cannot be null")
)

func timeChange(n helper.NullableTime) workflow.Change[time.Time] {
	if !n.Set {
		return workflow.Change[time.Time]{}
	}
	return workflow.Change[time.Time]{Set: true, Value: n.Value}
}

func change[T any](n helper.Nullable[T]) workflow.Change[T] {
	if !n.Set {
		return workflow.Change[T]{}
	}
	return workflow.Change[T]{Set: true, Value: n.Value}
}

// text trims and turns blank strings into a clear.
func text(n helper.Nullable[string]) workflow.Change[string] {
	if !n.Set {
		return workflow.Change[string]{}
	}
	if n.Value == nil || strings.TrimSpace(*n.Value) == "" {
		return workflow.Clear[string]()
	}
	return workflow.Set(strings.TrimSpace(*n.Value))
}

// ToPatch converts the request into a workflow patch. Unknown status values fail here.
func (r UpdateHouseActivityRequest) ToPatch() (workflow.Patch, error) {
	p := workflow.Patch{
		StartDate:       timeChange(r.StartDate),
		CompletionDate:  timeChange(r.CompletionDate),
		AppUserID:       change(r.AppUserID),
		Remarks:         text(r.Remarks),
		RejectedRemarks: text(r.RejectedRemarks),
		ApprovedByID:    change(r.ApprovedByID),
	}

	if r.IsBlocked.Set {
		if r.IsBlocked.Value == nil {
			return p, ErrIsBlockedNull
		}
		p.IsBlocked = workflow.Set(*r.IsBlocked.Value)
	}

	if r.Status.Set {
		if r.Status.Value == nil {
			return p, ErrStatusNull
		}
		st, err := workflow.ParseStatus(*r.Status.Value)
		if err != nil {
			return p, err
		}
		p.Status = workflow.Set(st)
	}
	return p, nil
}

/* =========================================================
   Responses
   ========================================================= */

type HouseActivityResponse struct {
	ID              uuid.UUID  `json:"id"`
	HouseID         uuid.UUID  `json:"houseId"`
	ActivityID      uuid.UUID  `json:"activityId"`
	StartDate       *time.Time `json:"startDate"`
	CompletionDate  *time.Time `json:"completionDate"`
	Status          string     `json:"status"`
	AppUserID       *uuid.UUID `json:"appUserId"`
	ApprovedByID    *uuid.UUID `json:"approvedById"`
	ApprovalDate    *time.Time `json:"approvalDate"`
	Remarks         *string    `json:"remarks"`
	RejectedRemarks *string    `json:"rejectedRemarks"`
	IsBlocked       bool       `json:"isBlocked"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

func FromModel(m haModel.HouseActivityModel) HouseActivityResponse {
	return HouseActivityResponse{
		ID:              m.HouseActivityID,
		HouseID:         m.HouseActivityHouseID,
		ActivityID:      m.HouseActivityActivityID,
		StartDate:       m.HouseActivityStartDate,
		CompletionDate:  m.HouseActivityCompletionDate,
		Status:          m.HouseActivityStatus,
		AppUserID:       m.HouseActivityAppUserID,
		ApprovedByID:    m.HouseActivityApprovedByID,
		ApprovalDate:    m.HouseActivityApprovalDate,
		Remarks:         m.HouseActivityRemarks,
		RejectedRemarks: m.HouseActivityRejectedRemarks,
		IsBlocked:       m.HouseActivityIsBlocked,
		CreatedAt:       m.HouseActivityCreatedAt,
		UpdatedAt:       m.HouseActivityUpdatedAt,
	}
}

func FromModels(rows []haModel.HouseActivityModel) []HouseActivityResponse {
	out := make([]HouseActivityResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, FromModel(r))
	}
	return out
}

// HouseSnapshot is the house aggregate after a cascade.
type HouseSnapshot struct {
	ID                  uuid.UUID  `json:"id"`
	ProjectID           *uuid.UUID `json:"projectId"`
	Status              string     `json:"status"`
	Progress            float64    `json:"progress"`
	CompletedActivities int        `json:"completedActivities"`
	TotalActivities     int        `json:"totalActivities"`
}

type ProjectSnapshot struct {
	ID              uuid.UUID `json:"id"`
	HousesCompleted int       `json:"housesCompleted"`
	TotalHouses     int       `json:"totalHouses"`
}

func HouseSnapshotOf(h *houseModel.HouseModel) *HouseSnapshot {
	if h == nil {
		return nil
	}
	return &HouseSnapshot{
		ID:                  h.HouseID,
		ProjectID:           h.HouseProjectID,
		Status:              h.HouseStatus,
		Progress:            h.HouseProgress,
		CompletedActivities: h.HouseCompletedActivities,
		TotalActivities:     h.HouseTotalActivities,
	}
}

func ProjectSnapshots(rows []projectModel.ProjectModel) []ProjectSnapshot {
	out := make([]ProjectSnapshot, 0, len(rows))
	for _, p := range rows {
		out = append(out, ProjectSnapshot{
			ID:              p.ProjectID,
			HousesCompleted: p.ProjectHousesCompleted,
			TotalHouses:     p.ProjectTotalHouses,
		})
	}
	return out
}

// UpdateHouseActivityResponse carries the activity and whatever the cascade touched.
type UpdateHouseActivityResponse struct {
	HouseActivityResponse
	StatusChanged bool              `json:"statusChanged"`
	Overridden    bool              `json:"statusOverridden"`
	House         *HouseSnapshot    `json:"house,omitempty"`
	Projects      []ProjectSnapshot `json:"projects,omitempty"`
}

func FromOutcome(o *service.Outcome) UpdateHouseActivityResponse {
	resp := UpdateHouseActivityResponse{
		HouseActivityResponse: FromModel(o.Activity),
		StatusChanged:         o.StatusChanged,
		Overridden:            o.Overridden,
		House:                 HouseSnapshotOf(o.House),
	}
	if len(o.Projects) > 0 {
		resp.Projects = ProjectSnapshots(o.Projects)
	}
	return resp
}
