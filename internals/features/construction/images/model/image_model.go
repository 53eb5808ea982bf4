package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ImageModel struct {
	ImageID              uuid.UUID `gorm:"column:image_id;type:uuid;primaryKey" json:"id"`
	ImageHouseActivityID uuid.UUID `gorm:"column:image_house_activity_id;type:uuid;not null;index" json:"houseActivityId"`
	ImageAppUserID       uuid.UUID `gorm:"column:image_app_user_id;type:uuid;not null" json:"appUserId"`
	ImageURL             string    `gorm:"column:image_url;not null" json:"url"`
	ImageObjectKey       string    `gorm:"column:image_object_key;not null" json:"objectKey"`
	ImageContentType     string    `gorm:"column:image_content_type;size:60;not null" json:"contentType"`
	ImageSizeBytes       int64     `gorm:"column:image_size_bytes;not null" json:"sizeBytes"`
	ImageDescription     *string   `gorm:"column:image_description" json:"description,omitempty"`
	ImageCreatedAt       time.Time `gorm:"column:image_created_at;autoCreateTime" json:"createdAt"`
}

func (ImageModel) TableName() string {
	return "images"
}

func (m *ImageModel) BeforeCreate(tx *gorm.DB) error {
	if m.ImageID == uuid.Nil {
		m.ImageID = uuid.New()
	}
	return nil
}
