package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProjectModel struct {
	ProjectID              uuid.UUID  `gorm:"column:project_id;type:uuid;primaryKey" json:"id"`
	ProjectName            string     `gorm:"column:project_name;size:200;not null" json:"name"`
	ProjectDescription     *string    `gorm:"column:project_description" json:"description,omitempty"`
	ProjectLocation        *string    `gorm:"column:project_location;size:255" json:"location,omitempty"`
	ProjectStartDate       *time.Time `gorm:"column:project_start_date" json:"startDate,omitempty"`
	ProjectEndDate         *time.Time `gorm:"column:project_end_date" json:"endDate,omitempty"`
	ProjectHousesCompleted int        `gorm:"column:project_houses_completed;not null;default:0" json:"housesCompleted"`
	ProjectTotalHouses     int        `gorm:"column:project_total_houses;not null;default:0" json:"totalHouses"`
	ProjectCreatedAt       time.Time  `gorm:"column:project_created_at;autoCreateTime" json:"createdAt"`
	ProjectUpdatedAt       time.Time  `gorm:"column:project_updated_at;autoUpdateTime" json:"updatedAt"`
}

func (ProjectModel) TableName() string {
	return "projects"
}

func (m *ProjectModel) BeforeCreate(tx *gorm.DB) error {
	if m.ProjectID == uuid.Nil {
		m.ProjectID = uuid.New()
	}
	return nil
}
