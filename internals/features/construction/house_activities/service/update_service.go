package service

import (
	"context"
	"errors"
	"time"

	"housetrack_backend/internals/configs"
	"housetrack_backend/internals/constants"
	haModel "housetrack_backend/internals/features/construction/house_activities/model"
	"housetrack_backend/internals/features/construction/house_activities/workflow"
	houseModel "housetrack_backend/internals/features/construction/houses/model"
	progressService "housetrack_backend/internals/features/construction/progress/service"
	projectModel "housetrack_backend/internals/features/construction/projects/model"
	userModel "housetrack_backend/internals/features/users/user/model"
	"housetrack_backend/internals/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrActivityNotFound = errors.New("house activity not found")
	ErrAssigneeNotFound = errors.New("appUserId does not reference an active user")
	ErrApproverInvalid  = errors.New("approvedById must reference an active reviewer or admin")
)

type UpdateInput struct {
	ID       uuid.UUID
	CallerID uuid.UUID
	Role     string
	Patch    workflow.Patch
}

// Outcome is the updated activity plus whatever the cascade touched.
type Outcome struct {
	Activity       haModel.HouseActivityModel
	PreviousStatus workflow.Status
	StatusChanged  bool
	Overridden     bool
	House          *houseModel.HouseModel
	HouseChanged   bool
	Projects       []projectModel.ProjectModel
}

// Clock is swapped in tests.
var Clock = func() time.Time { return time.Now().UTC() }

func stateOf(m haModel.HouseActivityModel) workflow.State {
	return workflow.State{
		Status:          workflow.Status(m.HouseActivityStatus),
		StartDate:       m.HouseActivityStartDate,
		CompletionDate:  m.HouseActivityCompletionDate,
		IsBlocked:       m.HouseActivityIsBlocked,
		AppUserID:       m.HouseActivityAppUserID,
		ApprovedByID:    m.HouseActivityApprovedByID,
		ApprovalDate:    m.HouseActivityApprovalDate,
		Remarks:         m.HouseActivityRemarks,
		RejectedRemarks: m.HouseActivityRejectedRemarks,
	}
}

func applyState(m *haModel.HouseActivityModel, s workflow.State) {
	m.HouseActivityStatus = string(s.Status)
	m.HouseActivityStartDate = s.StartDate
	m.HouseActivityCompletionDate = s.CompletionDate
	m.HouseActivityIsBlocked = s.IsBlocked
	m.HouseActivityAppUserID = s.AppUserID
	m.HouseActivityApprovedByID = s.ApprovedByID
	m.HouseActivityApprovalDate = s.ApprovalDate
	m.HouseActivityRemarks = s.Remarks
	m.HouseActivityRejectedRemarks = s.RejectedRemarks
}

func checkUser(tx *gorm.DB, id uuid.UUID, roles []string) (bool, error) {
	q := tx.Model(&userModel.UserModel{}).Where("id = ? AND is_active = ?", id, true)
	if len(roles) > 0 {
		q = q.Where("role IN ?", roles)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// UpdateHouseActivity runs the whole update as one transaction: permission check,
// status derivation, the activity write and the house/project cascade.
func UpdateHouseActivity(ctx context.Context, db *gorm.DB, in UpdateInput) (*Outcome, error) {
	out := &Outcome{}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var act haModel.HouseActivityModel
		if err := tx.First(&act, "house_activity_id = ?", in.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrActivityNotFound
			}
			return err
		}

		if err := workflow.Authorize(in.Role, in.CallerID, act.HouseActivityAppUserID, in.Patch); err != nil {
			var fe *workflow.ForbiddenFieldsError
			if errors.As(err, &fe) {
				configs.Log.Warn("house activity update denied",
					zap.String("house_activity_id", in.ID.String()),
					zap.String("caller", in.CallerID.String()),
					zap.String("role", in.Role),
					zap.Any("fields", fe.Fields),
				)
			}
			return err
		}

		if p := in.Patch.AppUserID; p.Set && p.Value != nil {
			ok, err := checkUser(tx, *p.Value, nil)
			if err != nil {
				return err
			}
			if !ok {
				return ErrAssigneeNotFound
			}
		}
		if p := in.Patch.ApprovedByID; p.Set && p.Value != nil {
			ok, err := checkUser(tx, *p.Value, constants.ReviewerAndAbove)
			if err != nil {
				return err
			}
			if !ok {
				return ErrApproverInvalid
			}
		}

		cur := stateOf(act)
		res := workflow.Apply(cur, in.Patch, Clock())
		applyState(&act, res.Next)

		if err := tx.Save(&act).Error; err != nil {
			return err
		}

		out.PreviousStatus = cur.Status
		out.StatusChanged = res.StatusChanged
		out.Overridden = res.Overridden

		if res.Overridden {
			metrics.ActivityStatusOverrides.Inc()
			configs.Log.Warn("explicit status stored over derived status",
				zap.String("house_activity_id", in.ID.String()),
				zap.String("explicit", string(res.Next.Status)),
				zap.String("derived", string(res.Derived)),
				zap.String("caller", in.CallerID.String()),
			)
		}

		if res.StatusChanged && progressService.AffectsProgress(cur.Status, res.Next.Status) {
			recalc, err := progressService.RecalculateHouse(ctx, tx, act.HouseActivityHouseID)
			if err != nil {
				return err
			}
			house := recalc.House
			out.House = &house
			out.HouseChanged = recalc.StatusChanged
			projects, err := progressService.LoadProjects(tx, recalc.TouchedProjects)
			if err != nil {
				return err
			}
			out.Projects = projects
		}

		out.Activity = act
		return nil
	})
	if err != nil {
		return nil, err
	}

	if out.StatusChanged {
		metrics.RecordStatusTransition(string(out.PreviousStatus), out.Activity.HouseActivityStatus)
		configs.Log.Info("house activity status changed",
			zap.String("house_activity_id", in.ID.String()),
			zap.String("from", string(out.PreviousStatus)),
			zap.String("to", out.Activity.HouseActivityStatus),
			zap.String("caller", in.CallerID.String()),
		)
	}
	return out, nil
}
