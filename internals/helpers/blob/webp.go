package blob

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"math"
	"net/http"
	"strings"

	"housetrack_backend/internals/configs"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
)

var (
	ErrEmptyImage       = errors.New("empty image")
	ErrUnsupportedImage = errors.New("unsupported image format")
)

/* =======================================================================
   Konfigurasi WebP (ENV-Driven)
======================================================================= */

type WebPOptions struct {
	MaxW        int     // batas lebar (resize keep-aspect)
	MaxH        int     // batas tinggi
	Quality     float32 // dipakai saat TargetKB=0
	TargetKB    int     // target ukuran; 0 = non-aktif
	MinQ        float32
	MaxQ        float32
	ToleranceKB int
}

func WebPOptionsFromEnv() WebPOptions {
	return WebPOptions{
		MaxW:        configs.GetEnvInt("IMAGE_WEBP_MAX_W", 1600),
		MaxH:        configs.GetEnvInt("IMAGE_WEBP_MAX_H", 1600),
		Quality:     float32(configs.GetEnvInt("IMAGE_WEBP_QUALITY", 80)),
		TargetKB:    configs.GetEnvInt("IMAGE_WEBP_TARGET_KB", 0),
		MinQ:        float32(configs.GetEnvInt("IMAGE_WEBP_MIN_Q", 45)),
		MaxQ:        float32(configs.GetEnvInt("IMAGE_WEBP_MAX_Q", 85)),
		ToleranceKB: configs.GetEnvInt("IMAGE_WEBP_TOLERANCE_KB", 8),
	}
}

// decode sniffs the first bytes; jpeg/png/gif/bmp go through imaging so EXIF
// orientation is applied, webp goes through chai2010/webp.
func decode(all []byte) (image.Image, error) {
	if len(all) == 0 {
		return nil, ErrEmptyImage
	}
	ct := http.DetectContentType(all)
	switch {
	case strings.Contains(ct, "webp"):
		img, err := webp.Decode(bytes.NewReader(all))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
		}
		return img, nil
	case strings.HasPrefix(ct, "image/"):
		img, err := imaging.Decode(bytes.NewReader(all), imaging.AutoOrientation(true))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
		}
		return img, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedImage, ct)
	}
}

func downscale(src image.Image, maxW, maxH int) image.Image {
	b := src.Bounds()
	if (maxW <= 0 || b.Dx() <= maxW) && (maxH <= 0 || b.Dy() <= maxH) {
		return src
	}
	if maxW <= 0 {
		maxW = b.Dx()
	}
	if maxH <= 0 {
		maxH = b.Dy()
	}
	return imaging.Fit(src, maxW, maxH, imaging.CatmullRom)
}

func encodeQ(img image.Image, q float32) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := webp.Encode(buf, img, &webp.Options{Quality: q}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// encode: TargetKB > 0 → binary search quality hingga <= target+tol, else sekali dengan Quality.
func encode(img image.Image, opt WebPOptions) ([]byte, error) {
	if opt.TargetKB <= 0 {
		q := opt.Quality
		if q <= 0 {
			q = 80
		}
		return encodeQ(img, q)
	}

	limit := (opt.TargetKB + max(opt.ToleranceKB, 0)) * 1024
	low, high := opt.MinQ, opt.MaxQ
	if low <= 0 {
		low = 45
	}
	if high <= 0 {
		high = 85
	}
	if low > high {
		low, high = high, low
	}

	var best []byte
	for i := 0; i < 7; i++ {
		q := float32(math.Round(float64(low+high) / 2))
		data, err := encodeQ(img, q)
		if err != nil {
			return nil, err
		}
		if len(data) <= limit {
			best = data
			low = q // masih muat → coba quality lebih tinggi
		} else {
			high = q
		}
		if high-low <= 1 {
			break
		}
	}
	if best != nil {
		return best, nil
	}
	// target tidak tercapai → pakai quality minimum
	return encodeQ(img, low)
}

// ConvertToWebP reads an image (jpeg/png/gif/bmp/webp), fits it inside the
// configured bounds and re-encodes it as WebP.
func ConvertToWebP(r io.Reader, opt WebPOptions) ([]byte, error) {
	all, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	img, err := decode(all)
	if err != nil {
		return nil, err
	}
	return encode(downscale(img, opt.MaxW, opt.MaxH), opt)
}
