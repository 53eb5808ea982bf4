package blob

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/chai2010/webp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x += 7 {
		for y := 0; y < h; y += 5 {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestConvertToWebP_DownscalesKeepingAspect(t *testing.T) {
	out, err := ConvertToWebP(bytes.NewReader(pngBytes(t, 1200, 400)), WebPOptions{MaxW: 600, MaxH: 600, Quality: 70})
	require.NoError(t, err)

	cfg, err := webp.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 600, cfg.Width)
	assert.Equal(t, 200, cfg.Height)
}

func TestConvertToWebP_SmallImageUntouched(t *testing.T) {
	out, err := ConvertToWebP(bytes.NewReader(pngBytes(t, 40, 30)), WebPOptions{MaxW: 600, MaxH: 600})
	require.NoError(t, err)

	cfg, err := webp.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 40, cfg.Width)
	assert.Equal(t, 30, cfg.Height)
}

func TestConvertToWebP_Rejects(t *testing.T) {
	_, err := ConvertToWebP(strings.NewReader("definitely not an image"), WebPOptions{})
	assert.ErrorIs(t, err, ErrUnsupportedImage)

	_, err = ConvertToWebP(bytes.NewReader(nil), WebPOptions{})
	assert.ErrorIs(t, err, ErrEmptyImage)
}

func TestLocalStore_PutDelete(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStore(dir, "http://localhost:3000/uploads/")
	require.NoError(t, err)

	key := HouseActivityImageKey(uuid.New(), time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC))
	url, err := s.Put(context.Background(), key, strings.NewReader("data"), "image/webp")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3000/uploads/"+key, url)

	got, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(key)))
	require.NoError(t, err)
	assert.Equal(t, "data", string(got))

	require.NoError(t, s.Delete(context.Background(), key))
	require.NoError(t, s.Delete(context.Background(), key), "second delete is a no-op")
}

func TestLocalStore_RejectsTraversal(t *testing.T) {
	s, err := NewLocalStore(t.TempDir(), "")
	require.NoError(t, err)

	_, err = s.Put(context.Background(), "../../etc/passwd", strings.NewReader("x"), "")
	require.NoError(t, err, "traversal is clamped under the store root")

	_, err = s.Put(context.Background(), "", strings.NewReader("x"), "")
	assert.Error(t, err)
}

func TestHouseActivityImageKey(t *testing.T) {
	id := uuid.MustParse("6f1c1c5e-3f43-4b0e-9e7b-1f3f0f1b2a10")
	key := HouseActivityImageKey(id, time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC))
	assert.True(t, strings.HasPrefix(key, "house-activities/"+id.String()+"/20240501_103000_"))
	assert.True(t, strings.HasSuffix(key, ".webp"))
}
