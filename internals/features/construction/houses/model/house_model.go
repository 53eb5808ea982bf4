package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	HouseStatusInProgress = "in_progress"
	HouseStatusCompleted  = "completed"
	HouseStatusDelayed    = "delayed"
)

var HouseStatuses = []string{HouseStatusInProgress, HouseStatusCompleted, HouseStatusDelayed}

func IsValidHouseStatus(s string) bool {
	for _, v := range HouseStatuses {
		if v == s {
			return true
		}
	}
	return false
}

type HouseModel struct {
	HouseID                  uuid.UUID  `gorm:"column:house_id;type:uuid;primaryKey" json:"id"`
	HouseProjectID           *uuid.UUID `gorm:"column:house_project_id;type:uuid;index" json:"projectId,omitempty"`
	HouseCoto                *string    `gorm:"column:house_coto;size:60" json:"coto,omitempty"`
	HouseName                string     `gorm:"column:house_name;size:200;not null" json:"name"`
	HouseModelName           *string    `gorm:"column:house_model;size:120" json:"model,omitempty"`
	HouseStatus              string     `gorm:"column:house_status;size:20;not null;index" json:"status"`
	HouseDescription         *string    `gorm:"column:house_description" json:"description,omitempty"`
	HouseImage               *string    `gorm:"column:house_image" json:"houseImage,omitempty"`
	HouseM2Const             *float64   `gorm:"column:house_m2const" json:"m2const,omitempty"`
	HouseProgress            float64    `gorm:"column:house_progress;not null;default:0" json:"progress"`
	HouseCompletedActivities int        `gorm:"column:house_completed_activities;not null;default:0" json:"completedActivities"`
	HouseTotalActivities     int        `gorm:"column:house_total_activities;not null;default:0" json:"totalActivities"`
	HouseCreatedAt           time.Time  `gorm:"column:house_created_at;autoCreateTime" json:"createdAt"`
	HouseUpdatedAt           time.Time  `gorm:"column:house_updated_at;autoUpdateTime" json:"updatedAt"`
}

func (HouseModel) TableName() string {
	return "houses"
}

func (m *HouseModel) BeforeCreate(tx *gorm.DB) error {
	if m.HouseID == uuid.Nil {
		m.HouseID = uuid.New()
	}
	if m.HouseStatus == "" {
		m.HouseStatus = HouseStatusInProgress
	}
	return nil
}

func (m *HouseModel) IsCompleted() bool {
	return m.HouseStatus == HouseStatusCompleted
}
