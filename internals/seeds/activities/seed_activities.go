package activities

import (
	_ "embed"
	"fmt"
	"os"

	"housetrack_backend/internals/configs"
	activityDTO "housetrack_backend/internals/features/construction/activities/dto"
	activityModel "housetrack_backend/internals/features/construction/activities/model"
	helper "housetrack_backend/internals/helpers"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

//go:embed activities.yaml
var defaultActivities []byte

type ActivitySeed struct {
	Number       int     `yaml:"number"`
	Phase        string  `yaml:"phase"`
	SubPhase     *string `yaml:"subPhase"`
	Name         string  `yaml:"name"`
	Dependencies []int   `yaml:"dependencies"`
	IsActive     *bool   `yaml:"isActive"`
}

type activityFile struct {
	Activities []ActivitySeed `yaml:"activities"`
}

// ParseActivities decodes and validates a template file.
func ParseActivities(raw []byte) ([]activityDTO.CreateActivityRequest, error) {
	var f activityFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("decode activities yaml: %w", err)
	}

	seen := map[int]bool{}
	out := make([]activityDTO.CreateActivityRequest, 0, len(f.Activities))
	for _, s := range f.Activities {
		req := activityDTO.CreateActivityRequest{
			Number:       s.Number,
			Phase:        s.Phase,
			SubPhase:     s.SubPhase,
			Name:         s.Name,
			Dependencies: s.Dependencies,
			IsActive:     s.IsActive,
		}
		req.Normalize()
		if err := helper.Validator().Struct(&req); err != nil {
			return nil, fmt.Errorf("activity %d: %w", s.Number, err)
		}
		if seen[req.Number] {
			return nil, fmt.Errorf("activity %d: duplicate number", req.Number)
		}
		seen[req.Number] = true
		out = append(out, req)
	}
	return out, nil
}

// SeedActivities inserts templates whose number is not taken yet. An empty path
// uses the embedded default checklist.
func SeedActivities(db *gorm.DB, filePath string) (inserted, skipped int, err error) {
	raw := defaultActivities
	if filePath != "" {
		configs.Log.Info("📥 reading activity templates", zap.String("file", filePath))
		if raw, err = os.ReadFile(filePath); err != nil {
			return 0, 0, err
		}
	}

	reqs, err := ParseActivities(raw)
	if err != nil {
		return 0, 0, err
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		for _, req := range reqs {
			var n int64
			if err := tx.Model(&activityModel.ActivityModel{}).
				Where("activity_number = ?", req.Number).
				Count(&n).Error; err != nil {
				return err
			}
			if n > 0 {
				skipped++
				continue
			}
			m, err := req.ToModel()
			if err != nil {
				return fmt.Errorf("activity %d: %w", req.Number, err)
			}
			if err := tx.Create(m).Error; err != nil {
				return err
			}
			inserted++
		}
		return nil
	})
	if err != nil {
		return 0, 0, err
	}

	configs.Log.Info("✅ activity templates seeded", zap.Int("inserted", inserted), zap.Int("skipped", skipped))
	return inserted, skipped, nil
}
