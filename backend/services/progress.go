package services

import (
	"errors"
	"fmt"
	"math"
	"time"

	"pathtracker/backend/models"

	"gorm.io/gorm"
)

// ProgressService restores the progress invariants after a leaf-level
// change, recomputing bottom-up: item -> module -> path.
//
// Two rollup variants exist on purpose. ApplyContinuous averages the items'
// progress fields; ApplyBoolean takes the fraction of completed items. An
// item at 40% that is not complete contributes 40 under the first formula
// and 0 under the second, so whichever entry point last touched a module
// decides its stored value. Both call sites are kept distinct rather than
// unified; see the aggregation tests.
type ProgressService struct {
	DB *gorm.DB
}

func NewProgressService(db *gorm.DB) *ProgressService {
	return &ProgressService{DB: db}
}

// ApplyContinuous records a caller-supplied completion percentage on an
// item and rolls the mean-of-progress formula up both levels.
func (s *ProgressService) ApplyContinuous(user *models.User, itemID string, progress float64) (*models.LearningItem, error) {
	if !validProgress(progress) {
		return nil, fmt.Errorf("%w: progress must be a number between 0 and 100", ErrInvalidInput)
	}

	item, err := s.ownedItem(user, itemID)
	if err != nil {
		return nil, err
	}

	isComplete := progress >= 100
	updates := map[string]interface{}{
		"progress":    progress,
		"is_complete": isComplete,
	}
	// Stamp the first completion only; dropping below 100 through this
	// entry point leaves any earlier stamp in place.
	var completedAt *time.Time
	if isComplete && item.CompletedAt == nil {
		now := time.Now()
		completedAt = &now
		updates["completed_at"] = now
	}

	if err := s.DB.Model(&models.LearningItem{}).Where("id = ?", item.ID).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("updating item progress: %w", err)
	}
	item.Progress = progress
	item.IsComplete = isComplete
	if completedAt != nil {
		item.CompletedAt = completedAt
	}

	if err := s.rollupModuleMean(item.ModuleID); err != nil {
		return nil, err
	}
	if err := s.rollupPath(item.ModuleID); err != nil {
		return nil, err
	}
	return item, nil
}

// ApplyBoolean toggles an item's completion checkbox and rolls the
// fraction-complete formula up both levels. The item's progress field is
// left untouched.
func (s *ProgressService) ApplyBoolean(user *models.User, itemID string, isComplete bool) (*models.LearningItem, error) {
	item, err := s.ownedItem(user, itemID)
	if err != nil {
		return nil, err
	}

	var completedAt *time.Time
	if isComplete {
		now := time.Now()
		completedAt = &now
	}
	updates := map[string]interface{}{
		"is_complete":  isComplete,
		"completed_at": completedAt,
	}
	if err := s.DB.Model(&models.LearningItem{}).Where("id = ?", item.ID).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("updating item completion: %w", err)
	}
	item.IsComplete = isComplete
	item.CompletedAt = completedAt

	if err := s.rollupModuleBoolean(item.ModuleID); err != nil {
		return nil, err
	}
	if err := s.rollupPath(item.ModuleID); err != nil {
		return nil, err
	}
	return item, nil
}

// ownedItem resolves an item through its module and path, scoped to the
// acting user. A missing item and a foreign one both come back as NotFound.
func (s *ProgressService) ownedItem(user *models.User, itemID string) (*models.LearningItem, error) {
	var item models.LearningItem
	err := s.DB.
		Select("learning_items.*").
		Joins("JOIN modules ON modules.id = learning_items.module_id").
		Joins("JOIN learning_paths ON learning_paths.id = modules.learning_path_id").
		Where("learning_items.id = ? AND learning_paths.owner_external_id = ?", itemID, user.ExternalID).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: learning item", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("resolving learning item: %w", err)
	}
	return &item, nil
}

func (s *ProgressService) rollupModuleMean(moduleID string) error {
	var items []models.LearningItem
	if err := s.DB.Where("module_id = ?", moduleID).Find(&items).Error; err != nil {
		return fmt.Errorf("loading module items: %w", err)
	}

	progress := 0.0
	if len(items) > 0 {
		var sum float64
		for _, it := range items {
			sum += it.Progress
		}
		progress = sum / float64(len(items))
	}
	return s.writeModuleProgress(moduleID, progress)
}

func (s *ProgressService) rollupModuleBoolean(moduleID string) error {
	var items []models.LearningItem
	if err := s.DB.Where("module_id = ?", moduleID).Find(&items).Error; err != nil {
		return fmt.Errorf("loading module items: %w", err)
	}

	progress := 0.0
	if len(items) > 0 {
		completed := 0
		for _, it := range items {
			if it.IsComplete {
				completed++
			}
		}
		progress = math.Round(100 * float64(completed) / float64(len(items)))
	}
	return s.writeModuleProgress(moduleID, progress)
}

func (s *ProgressService) writeModuleProgress(moduleID string, progress float64) error {
	if err := s.DB.Model(&models.Module{}).Where("id = ?", moduleID).Update("progress", progress).Error; err != nil {
		return fmt.Errorf("updating module progress: %w", err)
	}
	return nil
}

// rollupPath recomputes the path owning the given module as the mean of all
// its modules' stored progress.
func (s *ProgressService) rollupPath(moduleID string) error {
	var module models.Module
	if err := s.DB.First(&module, "id = ?", moduleID).Error; err != nil {
		return fmt.Errorf("loading module: %w", err)
	}

	var modules []models.Module
	if err := s.DB.Where("learning_path_id = ?", module.LearningPathID).Find(&modules).Error; err != nil {
		return fmt.Errorf("loading path modules: %w", err)
	}

	progress := 0.0
	if len(modules) > 0 {
		var sum float64
		for _, m := range modules {
			sum += m.Progress
		}
		progress = sum / float64(len(modules))
	}
	if err := s.DB.Model(&models.LearningPath{}).Where("id = ?", module.LearningPathID).Update("progress", progress).Error; err != nil {
		return fmt.Errorf("updating path progress: %w", err)
	}
	return nil
}

func validProgress(p float64) bool {
	return !math.IsNaN(p) && !math.IsInf(p, 0) && p >= 0 && p <= 100
}
