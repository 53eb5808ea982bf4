package blob

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"housetrack_backend/internals/configs"

	"github.com/google/uuid"
)

// Store persists uploaded objects and hands back a public URL.
type Store interface {
	Put(ctx context.Context, key string, r io.Reader, contentType string) (publicURL string, err error)
	Delete(ctx context.Context, key string) error
}

// NewStoreFromEnv picks the backend from STORAGE_DRIVER ("local" or "oss").
func NewStoreFromEnv() (Store, error) {
	switch configs.StorageDriver {
	case "", "local":
		return NewLocalStore(configs.UploadDir, configs.PublicBaseURL+"/uploads")
	case "oss":
		return NewOSSStoreFromEnv(configs.GetEnv("ALI_OSS_PREFIX", "housetrack"))
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", configs.StorageDriver)
	}
}

// HouseActivityImageKey builds "house-activities/{id}/{yyyymmdd_hhmmss}_{rand}.webp".
func HouseActivityImageKey(houseActivityID uuid.UUID, now time.Time) string {
	return path.Join(
		"house-activities",
		houseActivityID.String(),
		fmt.Sprintf("%s_%s.webp", now.UTC().Format("20060102_150405"), randHex(4)),
	)
}

func randHex(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// cleanKey rejects traversal and absolute keys.
func cleanKey(key string) (string, error) {
	k := path.Clean("/" + strings.TrimSpace(key))[1:]
	if k == "" || k == "." || strings.HasPrefix(k, "..") {
		return "", fmt.Errorf("invalid object key %q", key)
	}
	return k, nil
}
