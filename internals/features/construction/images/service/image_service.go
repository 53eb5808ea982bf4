package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"time"

	"housetrack_backend/internals/configs"
	"housetrack_backend/internals/constants"
	haModel "housetrack_backend/internals/features/construction/house_activities/model"
	imageModel "housetrack_backend/internals/features/construction/images/model"
	"housetrack_backend/internals/helpers/blob"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrActivityNotFound = errors.New("house activity not found")
	ErrImageNotFound    = errors.New("image not found")
	ErrNotAllowed       = errors.New("you are not allowed to manage images of this activity")
	ErrNotImage         = errors.New("file must be an image (png, jpg, jpeg, webp, gif, bmp)")
)

const webpContentType = "image/webp"

type UploadInput struct {
	HouseActivityID uuid.UUID
	CallerID        uuid.UUID
	Role            string
	Filename        string
	File            io.Reader
	Description     *string
}

// canTouchActivity: reviewer/admin selalu boleh, surveyor hanya untuk activity miliknya.
func canTouchActivity(role string, caller uuid.UUID, act haModel.HouseActivityModel) bool {
	if constants.IsReviewerOrAbove(role) {
		return true
	}
	return act.HouseActivityAppUserID != nil && *act.HouseActivityAppUserID == caller
}

func loadActivity(db *gorm.DB, id uuid.UUID) (*haModel.HouseActivityModel, error) {
	var act haModel.HouseActivityModel
	if err := db.First(&act, "house_activity_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrActivityNotFound
		}
		return nil, err
	}
	return &act, nil
}

// Upload re-encodes the photo to WebP, stores it and records the row.
// The stored object is removed again when the row cannot be written.
func Upload(ctx context.Context, db *gorm.DB, store blob.Store, opt blob.WebPOptions, in UploadInput) (*imageModel.ImageModel, error) {
	if !constants.IsImageFile(in.Filename) {
		return nil, ErrNotImage
	}
	db = db.WithContext(ctx)

	act, err := loadActivity(db, in.HouseActivityID)
	if err != nil {
		return nil, err
	}
	if !canTouchActivity(in.Role, in.CallerID, *act) {
		return nil, ErrNotAllowed
	}

	encoded, err := blob.ConvertToWebP(in.File, opt)
	if err != nil {
		return nil, err
	}

	key := blob.HouseActivityImageKey(in.HouseActivityID, time.Now())
	url, err := store.Put(ctx, key, bytes.NewReader(encoded), webpContentType)
	if err != nil {
		return nil, err
	}

	row := imageModel.ImageModel{
		ImageHouseActivityID: in.HouseActivityID,
		ImageAppUserID:       in.CallerID,
		ImageURL:             url,
		ImageObjectKey:       key,
		ImageContentType:     webpContentType,
		ImageSizeBytes:       int64(len(encoded)),
		ImageDescription:     in.Description,
	}
	if err := db.Create(&row).Error; err != nil {
		if derr := store.Delete(context.Background(), key); derr != nil {
			configs.Log.Warn("orphan image object", zap.String("key", key), zap.Error(derr))
		}
		return nil, err
	}

	configs.Log.Info("image uploaded",
		zap.String("house_activity_id", in.HouseActivityID.String()),
		zap.String("key", key),
		zap.Int("bytes", len(encoded)),
	)
	return &row, nil
}

func List(ctx context.Context, db *gorm.DB, houseActivityID uuid.UUID) ([]imageModel.ImageModel, error) {
	db = db.WithContext(ctx)
	if _, err := loadActivity(db, houseActivityID); err != nil {
		return nil, err
	}
	rows := []imageModel.ImageModel{}
	if err := db.Where("image_house_activity_id = ?", houseActivityID).
		Order("image_created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Delete removes the row, then the stored object. Uploader, reviewer or admin only.
func Delete(ctx context.Context, db *gorm.DB, store blob.Store, id, caller uuid.UUID, role string) error {
	db = db.WithContext(ctx)

	var row imageModel.ImageModel
	if err := db.First(&row, "image_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrImageNotFound
		}
		return err
	}
	if row.ImageAppUserID != caller && !constants.IsReviewerOrAbove(role) {
		return ErrNotAllowed
	}
	if err := db.Delete(&imageModel.ImageModel{}, "image_id = ?", id).Error; err != nil {
		return err
	}
	if err := store.Delete(ctx, row.ImageObjectKey); err != nil {
		configs.Log.Warn("failed to delete image object", zap.String("key", row.ImageObjectKey), zap.Error(err))
	}
	return nil
}
