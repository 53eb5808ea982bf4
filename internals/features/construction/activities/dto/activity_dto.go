package dto

import (
	"errors"
	"strings"

	activityModel "housetrack_backend/internals/features/construction/activities/model"
	helper "housetrack_backend/internals/helpers"

	"github.com/bytedance/sonic"
	"gorm.io/datatypes"
)

var (
	ErrSelfDependency  = errors.New("an activity cannot depend on itself")
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

// encodeDeps stores dependency activity numbers as a JSON array, deduplicated, order kept.
func encodeDeps(number int, deps []int) (datatypes.JSON, error) {
	seen := map[int]bool{}
	out := make([]int, 0, len(deps))
	for _, d := range deps {
		if d == number {
			return nil, ErrSelfDependency
		}
		if !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
	}
	b, err := sonic.Marshal(out)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}

// DecodeDeps reads the dependency array back; malformed content yields an empty list.
func DecodeDeps(raw datatypes.JSON) []int {
	out := []int{}
	if len(raw) == 0 {
		return out
	}
	_ = sonic.Unmarshal(raw, &out)
	return out
}

type CreateActivityRequest struct {
	Number       int     `json:"number" validate:"required,gt=0"`
	Phase        string  `json:"phase" validate:"required,max=120"`
	SubPhase     *string `json:"subPhase" validate:"omitempty,max=120"`
	Name         string  `json:"name" validate:"required"`
	Dependencies []int   `json:"dependencies" validate:"omitempty,dive,gt=0"`
	IsActive     *bool   `json:"isActive"`
}

func (r *CreateActivityRequest) Normalize() {
	r.Phase = strings.TrimSpace(r.Phase)
	r.SubPhase = trimPtr(r.SubPhase)
	r.Name = strings.TrimSpace(r.Name)
}

func (r CreateActivityRequest) ToModel() (*activityModel.ActivityModel, error) {
	deps, err := encodeDeps(r.Number, r.Dependencies)
	if err != nil {
		return nil, err
	}
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return &activityModel.ActivityModel{
		ActivityNumber:       r.Number,
		ActivityPhase:        r.Phase,
		ActivitySubPhase:     r.SubPhase,
		ActivityName:         r.Name,
		ActivityDependencies: deps,
		ActivityIsActive:     active,
	}, nil
}

type UpdateActivityRequest struct {
	Number       *int                    `json:"number" validate:"omitempty,gt=0"`
	Phase        *string                 `json:"phase" validate:"omitempty,max=120"`
	SubPhase     helper.Nullable[string] `json:"subPhase"`
	Name         *string                 `json:"name"`
	Dependencies *[]int                  `json:"dependencies"`
	IsActive     *bool                   `json:"isActive"`
}

// Apply writes the present fields into m and returns the column map for Updates.
func (r UpdateActivityRequest) Apply(m *activityModel.ActivityModel) (map[string]any, error) {
	cols := map[string]any{}
	if r.Number != nil {
		m.ActivityNumber = *r.Number
		cols["activity_number"] = *r.Number
	}
	if r.Phase != nil {
		if v := strings.TrimSpace(*r.Phase); v != "" {
			m.ActivityPhase = v
			cols["activity_phase"] = v
		}
	}
	if r.SubPhase.Set {
		m.ActivitySubPhase = trimPtr(r.SubPhase.Value)
		cols["activity_sub_phase"] = m.ActivitySubPhase
	}
	if r.Name != nil {
		if v := strings.TrimSpace(*r.Name); v != "" {
			m.ActivityName = v
			cols["activity_name"] = v
		}
	}
	if r.Dependencies != nil {
		deps, err := encodeDeps(m.ActivityNumber, *r.Dependencies)
		if err != nil {
			return nil, err
		}
		m.ActivityDependencies = deps
		cols["activity_dependencies"] = deps
	} else if r.Number != nil {
		// nomor berubah: pastikan tidak jadi bergantung ke diri sendiri
		for _, d := range DecodeDeps(m.ActivityDependencies) {
			if d == m.ActivityNumber {
				return nil, ErrSelfDependency
			}
		}
	}
	if r.IsActive != nil {
		m.ActivityIsActive = *r.IsActive
		cols["activity_is_active"] = *r.IsActive
	}
	if len(cols) == 0 {
		return nil, ErrNothingToUpdate
	}
	return cols, nil
}
