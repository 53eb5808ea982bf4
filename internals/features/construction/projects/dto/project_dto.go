package dto

import (
	"errors"
	"strings"
	"time"

	projectModel "housetrack_backend/internals/features/construction/projects/model"
	helper "housetrack_backend/internals/helpers"

	"github.com/google/uuid"
)

var (
	ErrDateRange       = errors.New("endDate must not be before startDate")
	ErrNameBlank       = errors.New("name cannot be empty")
	ErrNothingToUpdate = errors.New("no fields to update")
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

func checkRange(start, end *time.Time) error {
	if start != nil && end != nil && end.Before(*start) {
		return ErrDateRange
	}
	return nil
}

type CreateProjectRequest struct {
	Name        string              `json:"name" validate:"required,max=200"`
	Description *string             `json:"description"`
	Location    *string             `json:"location" validate:"omitempty,max=255"`
	StartDate   helper.NullableTime `json:"startDate"`
	EndDate     helper.NullableTime `json:"endDate"`
}

func (r *CreateProjectRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Description = trimPtr(r.Description)
	r.Location = trimPtr(r.Location)
}

func (r CreateProjectRequest) ToModel() (*projectModel.ProjectModel, error) {
	if err := checkRange(r.StartDate.Value, r.EndDate.Value); err != nil {
		return nil, err
	}
	return &projectModel.ProjectModel{
		ProjectName:        r.Name,
		ProjectDescription: r.Description,
		ProjectLocation:    r.Location,
		ProjectStartDate:   r.StartDate.Value,
		ProjectEndDate:     r.EndDate.Value,
	}, nil
}

type UpdateProjectRequest struct {
	Name        *string                 `json:"name" validate:"omitempty,max=200"`
	Description helper.Nullable[string] `json:"description"`
	Location    helper.Nullable[string] `json:"location"`
	StartDate   helper.NullableTime     `json:"startDate"`
	EndDate     helper.NullableTime     `json:"endDate"`
}

// Apply writes the present fields into m and returns the column map for Updates.
func (r UpdateProjectRequest) Apply(m *projectModel.ProjectModel) (map[string]any, error) {
	cols := map[string]any{}
	if r.Name != nil {
		name := strings.TrimSpace(*r.Name)
		if name == "" {
			return nil, ErrNameBlank
		}
		m.ProjectName = name
		cols["project_name"] = name
	}
	if r.Description.Set {
		m.ProjectDescription = trimPtr(r.Description.Value)
		cols["project_description"] = m.ProjectDescription
	}
	if r.Location.Set {
		m.ProjectLocation = trimPtr(r.Location.Value)
		cols["project_location"] = m.ProjectLocation
	}
	if r.StartDate.Set {
		m.ProjectStartDate = r.StartDate.Value
		cols["project_start_date"] = m.ProjectStartDate
	}
	if r.EndDate.Set {
		m.ProjectEndDate = r.EndDate.Value
		cols["project_end_date"] = m.ProjectEndDate
	}
	if len(cols) == 0 {
		return nil, ErrNothingToUpdate
	}
	if err := checkRange(m.ProjectStartDate, m.ProjectEndDate); err != nil {
		return nil, err
	}
	return cols, nil
}

// HousesSummary counts the houses of a project per status.
type HousesSummary struct {
	InProgress int `json:"inProgress"`
	Completed  int `json:"completed"`
	Delayed    int `json:"delayed"`
	Total      int `json:"total"`
}

type HouseBrief struct {
	ID       uuid.UUID `gorm:"column:house_id" json:"id"`
	Name     string    `gorm:"column:house_name" json:"name"`
	Coto     *string   `gorm:"column:house_coto" json:"coto,omitempty"`
	Status   string    `gorm:"column:house_status" json:"status"`
	Progress float64   `gorm:"column:house_progress" json:"progress"`
}

type ProjectDetailResponse struct {
	projectModel.ProjectModel
	Progress float64       `json:"progress"`
	Summary  HousesSummary `json:"housesSummary"`
	Houses   []HouseBrief  `json:"houses"`
}
