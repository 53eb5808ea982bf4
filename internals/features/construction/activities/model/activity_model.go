package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ActivityModel is a row of the master checklist copied into every new house.
type ActivityModel struct {
	ActivityID           uuid.UUID      `gorm:"column:activity_id;type:uuid;primaryKey" json:"id"`
	ActivityNumber       int            `gorm:"column:activity_number;not null;uniqueIndex" json:"number"`
	ActivityPhase        string         `gorm:"column:activity_phase;size:120;not null" json:"phase"`
	ActivitySubPhase     *string        `gorm:"column:activity_sub_phase;size:120" json:"subPhase,omitempty"`
	ActivityName         string         `gorm:"column:activity_name;not null" json:"name"`
	ActivityDependencies datatypes.JSON `gorm:"column:activity_dependencies" json:"dependencies"`
	ActivityIsActive     bool           `gorm:"column:activity_is_active;not null;index" json:"isActive"`
	ActivityCreatedAt    time.Time      `gorm:"column:activity_created_at;autoCreateTime" json:"createdAt"`
	ActivityUpdatedAt    time.Time      `gorm:"column:activity_updated_at;autoUpdateTime" json:"updatedAt"`
}

func (ActivityModel) TableName() string {
	return "activities"
}

func (m *ActivityModel) BeforeCreate(tx *gorm.DB) error {
	if m.ActivityID == uuid.Nil {
		m.ActivityID = uuid.New()
	}
	if len(m.ActivityDependencies) == 0 {
		m.ActivityDependencies = datatypes.JSON("[]")
	}
	return nil
}
