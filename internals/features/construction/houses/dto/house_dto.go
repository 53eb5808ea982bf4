package dto

import (
	"errors"
	"strings"
	"time"

	houseModel "housetrack_backend/internals/features/construction/houses/model"
	"housetrack_backend/internals/features/construction/houses/service"
	projectModel "housetrack_backend/internals/features/construction/projects/model"
	helper "housetrack_backend/internals/helpers"

	"github.com/google/uuid"
)

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func trimNullable(n helper.Nullable[string]) helper.Nullable[string] {
	if !n.Set {
		return n
	}
	return helper.Nullable[string]{Set: true, Value: trimPtr(n.Value)}
}

/* =========================================================
   CREATE
   ========================================================= */

type CreateHouseRequest struct {
	ProjectID   *uuid.UUID `json:"projectId"`
	Coto        *string    `json:"coto" validate:"omitempty,max=60"`
	Name        string     `json:"name" validate:"required,max=200"`
	Model       *string    `json:"model" validate:"omitempty,max=120"`
	Status      string     `json:"status" validate:"omitempty,oneof=in_progress completed delayed"`
	Description *string    `json:"description"`
	HouseImage  *string    `json:"houseImage" validate:"omitempty,max=1024"`
	M2Const     *float64   `json:"m2const" validate:"omitempty,gte=0"`
}

func (r *CreateHouseRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Coto = trimPtr(r.Coto)
	r.Model = trimPtr(r.Model)
	r.Status = strings.ToLower(strings.TrimSpace(r.Status))
	r.Description = trimPtr(r.Description)
	r.HouseImage = trimPtr(r.HouseImage)
}

func (r CreateHouseRequest) ToInput() service.CreateHouseInput {
	return service.CreateHouseInput{
		ProjectID:   r.ProjectID,
		Coto:        r.Coto,
		Name:        r.Name,
		Model:       r.Model,
		Status:      r.Status,
		Description: r.Description,
		HouseImage:  r.HouseImage,
		M2Const:     r.M2Const,
	}
}

/* =========================================================
   PATCH (partial, null = clear)
   ========================================================= */

type UpdateHouseRequest struct {
	ProjectID   helper.Nullable[uuid.UUID] `json:"projectId"`
	Coto        helper.Nullable[string]    `json:"coto"`
	Name        *string                    `json:"name"`
	Model       helper.Nullable[string]    `json:"model"`
	Status      *string                    `json:"status"`
	Description helper.Nullable[string]    `json:"description"`
	HouseImage  helper.Nullable[string]    `json:"houseImage"`
	M2Const     helper.Nullable[float64]   `json:"m2const"`
}

var (
	ErrNameBlank       = errors.New("name cannot be empty")
	ErrM2ConstNegative = errors.New("m2const must be >= 0")
	ErrNothingToUpdate = errors.New("no fields to update")
)

func (r UpdateHouseRequest) ToInput() (service.UpdateHouseInput, error) {
	in := service.UpdateHouseInput{
		ProjectID:   r.ProjectID,
		Coto:        trimNullable(r.Coto),
		Model:       trimNullable(r.Model),
		Description: trimNullable(r.Description),
		HouseImage:  trimNullable(r.HouseImage),
		M2Const:     r.M2Const,
	}
	if r.Name != nil {
		name := strings.TrimSpace(*r.Name)
		if name == "" {
			return in, ErrNameBlank
		}
		in.Name = &name
	}
	if r.Status != nil {
		st := strings.ToLower(strings.TrimSpace(*r.Status))
		in.Status = &st
	}
	if r.M2Const.Value != nil && *r.M2Const.Value < 0 {
		return in, ErrM2ConstNegative
	}
	if in.Empty() {
		return in, ErrNothingToUpdate
	}
	return in, nil
}

/* =========================================================
   Responses
   ========================================================= */

type CreateHouseResponse struct {
	House         houseModel.HouseModel       `json:"house"`
	ActivityCount int                         `json:"activityCount"`
	Projects      []projectModel.ProjectModel `json:"projects,omitempty"`
}

type UpdateHouseResponse struct {
	House         houseModel.HouseModel       `json:"house"`
	StatusChanged bool                        `json:"statusChanged"`
	Projects      []projectModel.ProjectModel `json:"projects,omitempty"`
}

// HouseActivityRow is a checklist entry joined with its template.
type HouseActivityRow struct {
	ID               uuid.UUID  `gorm:"column:house_activity_id" json:"id"`
	ActivityID       uuid.UUID  `gorm:"column:activity_id" json:"activityId"`
	ActivityNumber   int        `gorm:"column:activity_number" json:"activityNumber"`
	ActivityPhase    string     `gorm:"column:activity_phase" json:"phase"`
	ActivitySubPhase *string    `gorm:"column:activity_sub_phase" json:"subPhase"`
	ActivityName     string     `gorm:"column:activity_name" json:"name"`
	Status           string     `gorm:"column:house_activity_status" json:"status"`
	StartDate        *time.Time `gorm:"column:house_activity_start_date" json:"startDate"`
	CompletionDate   *time.Time `gorm:"column:house_activity_completion_date" json:"completionDate"`
	AppUserID        *uuid.UUID `gorm:"column:house_activity_app_user_id" json:"appUserId"`
	ApprovedByID     *uuid.UUID `gorm:"column:house_activity_approved_by_id" json:"approvedById"`
	ApprovalDate     *time.Time `gorm:"column:house_activity_approval_date" json:"approvalDate"`
	Remarks          *string    `gorm:"column:house_activity_remarks" json:"remarks"`
	RejectedRemarks  *string    `gorm:"column:house_activity_rejected_remarks" json:"rejectedRemarks"`
	IsBlocked        bool       `gorm:"column:house_activity_is_blocked" json:"isBlocked"`
}
