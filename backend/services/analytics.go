package services

import (
	"fmt"
	"math"
	"sort"

	"pathtracker/backend/models"

	"gorm.io/gorm"
)

// AnalyticsService derives read-only rollups over a user's full tree. It
// recounts isComplete flags instead of trusting the stored aggregates and
// never writes anything.
type AnalyticsService struct {
	DB *gorm.DB
}

func NewAnalyticsService(db *gorm.DB) *AnalyticsService {
	return &AnalyticsService{DB: db}
}

const (
	bestPathThreshold  = 70
	worstPathThreshold = 30
	rankingLimit       = 5
)

// LoadTree fetches the user's paths with modules and items eagerly loaded,
// children ordered by their explicit position.
func (s *AnalyticsService) LoadTree(user *models.User) ([]models.LearningPath, error) {
	var paths []models.LearningPath
	err := s.DB.
		Preload("Modules", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Modules.Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("owner_external_id = ?", user.ExternalID).
		Find(&paths).Error
	if err != nil {
		return nil, fmt.Errorf("loading learning paths: %w", err)
	}
	return paths, nil
}

// Summarize totals the supplied tree. An empty tree yields the all-zero
// summary; there is no error path of its own.
func (s *AnalyticsService) Summarize(paths []models.LearningPath) models.LearningAnalytics {
	analytics := models.LearningAnalytics{
		BestLearningPaths:        []models.PathStanding{},
		WorstLearningPaths:       []models.PathStanding{},
		LearningTypeDistribution: map[string]int{},
		TotalLearningPaths:       len(paths),
	}

	for _, path := range paths {
		pathItems := 0
		pathCompleted := 0

		for _, module := range path.Modules {
			analytics.TotalModules++
			for _, item := range module.Items {
				analytics.TotalItems++
				pathItems++
				if item.IsComplete {
					analytics.CompletedItems++
					pathCompleted++
				}
				if item.Type != "" {
					analytics.LearningTypeDistribution[item.Type]++
				}
			}
		}

		pct := 0
		if pathItems > 0 {
			pct = int(math.Round(100 * float64(pathCompleted) / float64(pathItems)))
		}

		standing := models.PathStanding{
			ID:             path.ID,
			Title:          path.Title,
			Progress:       pct,
			CompletedItems: pathCompleted,
			TotalItems:     pathItems,
			CreatedAt:      path.CreatedAt,
		}

		// Item-less paths rank in neither list.
		if pct >= bestPathThreshold && pathItems > 0 {
			analytics.BestLearningPaths = append(analytics.BestLearningPaths, standing)
		} else if pct < worstPathThreshold && pathItems > 0 {
			analytics.WorstLearningPaths = append(analytics.WorstLearningPaths, standing)
		}
	}

	sort.SliceStable(analytics.BestLearningPaths, func(i, j int) bool {
		return analytics.BestLearningPaths[i].Progress > analytics.BestLearningPaths[j].Progress
	})
	sort.SliceStable(analytics.WorstLearningPaths, func(i, j int) bool {
		return analytics.WorstLearningPaths[i].Progress < analytics.WorstLearningPaths[j].Progress
	})

	if len(analytics.BestLearningPaths) > rankingLimit {
		analytics.BestLearningPaths = analytics.BestLearningPaths[:rankingLimit]
	}
	if len(analytics.WorstLearningPaths) > rankingLimit {
		analytics.WorstLearningPaths = analytics.WorstLearningPaths[:rankingLimit]
	}
	return analytics
}
