package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// HouseActivityModel is one checklist entry of a house, carrying its review workflow.
type HouseActivityModel struct {
	HouseActivityID              uuid.UUID  `gorm:"column:house_activity_id;type:uuid;primaryKey" json:"id"`
	HouseActivityHouseID         uuid.UUID  `gorm:"column:house_activity_house_id;type:uuid;not null;uniqueIndex:uq_house_activity_house_activity,priority:1" json:"houseId"`
	HouseActivityActivityID      uuid.UUID  `gorm:"column:house_activity_activity_id;type:uuid;not null;uniqueIndex:uq_house_activity_house_activity,priority:2;index" json:"activityId"`
	HouseActivityStartDate       *time.Time `gorm:"column:house_activity_start_date" json:"startDate"`
	HouseActivityCompletionDate  *time.Time `gorm:"column:house_activity_completion_date" json:"completionDate"`
	HouseActivityStatus          string     `gorm:"column:house_activity_status;size:20;not null;index" json:"status"`
	HouseActivityAppUserID       *uuid.UUID `gorm:"column:house_activity_app_user_id;type:uuid;index" json:"appUserId"`
	HouseActivityApprovedByID    *uuid.UUID `gorm:"column:house_activity_approved_by_id;type:uuid" json:"approvedById"`
	HouseActivityApprovalDate    *time.Time `gorm:"column:house_activity_approval_date" json:"approvalDate"`
	HouseActivityRemarks         *string    `gorm:"column:house_activity_remarks" json:"remarks"`
	HouseActivityRejectedRemarks *string    `gorm:"column:house_activity_rejected_remarks" json:"rejectedRemarks"`
	HouseActivityIsBlocked       bool       `gorm:"column:house_activity_is_blocked;not null" json:"isBlocked"`
	HouseActivityCreatedAt       time.Time  `gorm:"column:house_activity_created_at;autoCreateTime" json:"createdAt"`
	HouseActivityUpdatedAt       time.Time  `gorm:"column:house_activity_updated_at;autoUpdateTime" json:"updatedAt"`
}

func (HouseActivityModel) TableName() string {
	return "house_activities"
}

func (m *HouseActivityModel) BeforeCreate(tx *gorm.DB) error {
	if m.HouseActivityID == uuid.Nil {
		m.HouseActivityID = uuid.New()
	}
	if m.HouseActivityStatus == "" {
		m.HouseActivityStatus = "pending"
	}
	return nil
}
