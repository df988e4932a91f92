package services

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"pathtracker/backend/models"

	"gorm.io/gorm"
)

// PathService owns the plain CRUD over the path/module/item tree and the
// dashboard read queries. Everything is scoped by the acting user's external
// id before any read or write; a foreign id always resolves as not-found.
type PathService struct {
	DB *gorm.DB
}

func NewPathService(db *gorm.DB) *PathService {
	return &PathService{DB: db}
}

type ModuleInput struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Order       int     `json:"order"`
}

type ItemInput struct {
	Title string  `json:"title"`
	URL   *string `json:"url"`
	Type  string  `json:"type"`
	Order int     `json:"order"`
}

func (s *PathService) Create(user *models.User, title string, description *string) (*models.LearningPath, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if description != nil {
		trimmed := strings.TrimSpace(*description)
		if trimmed == "" {
			description = nil
		} else {
			description = &trimmed
		}
	}

	path := models.LearningPath{
		OwnerExternalID: user.ExternalID,
		Title:           title,
		Description:     description,
	}
	if err := s.DB.Create(&path).Error; err != nil {
		return nil, fmt.Errorf("creating learning path: %w", err)
	}
	return &path, nil
}

// List returns the user's full trees, most recently updated path first.
func (s *PathService) List(user *models.User) ([]models.LearningPath, error) {
	var paths []models.LearningPath
	err := s.DB.
		Preload("Modules", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Modules.Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("owner_external_id = ?", user.ExternalID).
		Order("updated_at DESC").
		Find(&paths).Error
	if err != nil {
		return nil, fmt.Errorf("listing learning paths: %w", err)
	}
	return paths, nil
}

func (s *PathService) Get(user *models.User, id string) (*models.LearningPath, error) {
	var path models.LearningPath
	err := s.DB.
		Preload("Modules", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Modules.Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("id = ? AND owner_external_id = ?", id, user.ExternalID).
		First(&path).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: learning path", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("loading learning path: %w", err)
	}
	return &path, nil
}

// Delete removes a path and everything under it in one transaction: notes,
// items, modules, then the path itself.
func (s *PathService) Delete(user *models.User, id string) error {
	if _, err := s.ownedPath(user, id); err != nil {
		return err
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		moduleIDs := tx.Model(&models.Module{}).Select("id").Where("learning_path_id = ?", id)
		itemIDs := tx.Model(&models.LearningItem{}).Select("id").Where("module_id IN (?)", moduleIDs)

		if err := tx.Where("learning_item_id IN (?)", itemIDs).Delete(&models.Note{}).Error; err != nil {
			return fmt.Errorf("deleting notes: %w", err)
		}
		if err := tx.Where("module_id IN (?)", moduleIDs).Delete(&models.LearningItem{}).Error; err != nil {
			return fmt.Errorf("deleting items: %w", err)
		}
		if err := tx.Where("learning_path_id = ?", id).Delete(&models.Module{}).Error; err != nil {
			return fmt.Errorf("deleting modules: %w", err)
		}
		if err := tx.Delete(&models.LearningPath{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("deleting learning path: %w", err)
		}
		return nil
	})
}

func (s *PathService) CreateModule(user *models.User, pathID string, in ModuleInput) (*models.Module, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if _, err := s.ownedPath(user, pathID); err != nil {
		return nil, err
	}

	module := models.Module{
		LearningPathID: pathID,
		Title:          strings.TrimSpace(in.Title),
		Description:    in.Description,
		Position:       in.Order,
	}
	if err := s.DB.Create(&module).Error; err != nil {
		return nil, fmt.Errorf("creating module: %w", err)
	}
	return &module, nil
}

func (s *PathService) CreateItem(user *models.User, pathID, moduleID string, in ItemInput) (*models.LearningItem, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if !models.ValidItemType(in.Type) {
		return nil, fmt.Errorf("%w: unknown item type %q", ErrInvalidInput, in.Type)
	}

	var module models.Module
	err := s.DB.
		Select("modules.*").
		Joins("JOIN learning_paths ON learning_paths.id = modules.learning_path_id").
		Where("modules.id = ? AND modules.learning_path_id = ? AND learning_paths.owner_external_id = ?",
			moduleID, pathID, user.ExternalID).
		First(&module).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: module", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("resolving module: %w", err)
	}

	item := models.LearningItem{
		ModuleID: module.ID,
		Title:    strings.TrimSpace(in.Title),
		URL:      in.URL,
		Type:     in.Type,
		Position: in.Order,
	}
	if err := s.DB.Create(&item).Error; err != nil {
		return nil, fmt.Errorf("creating learning item: %w", err)
	}
	return &item, nil
}

// Overview summarizes the stored path aggregates: average progress across
// all paths plus completed / in-progress / not-started counts.
func (s *PathService) Overview(user *models.User) (*models.ProgressOverview, error) {
	var paths []models.LearningPath
	if err := s.DB.Where("owner_external_id = ?", user.ExternalID).Find(&paths).Error; err != nil {
		return nil, fmt.Errorf("loading learning paths: %w", err)
	}

	overview := models.ProgressOverview{TotalPaths: len(paths)}
	if len(paths) == 0 {
		return &overview, nil
	}

	var total float64
	for _, p := range paths {
		total += p.Progress
		switch {
		case p.Progress >= 100:
			overview.CompletedPaths++
		case p.Progress > 0:
			overview.InProgressPaths++
		default:
			overview.NotStartedPaths++
		}
	}
	overview.AverageProgress = math.Round(total/float64(len(paths))*100) / 100
	return &overview, nil
}

// DailyRecords averages the progress of the items behind each day's notes
// and returns the last seven days that have any, oldest first.
func (s *PathService) DailyRecords(user *models.User) ([]models.DailyRecord, error) {
	var rows []struct {
		Day      string
		Progress float64
	}
	err := s.DB.Table("notes").
		Select("notes.day AS day, learning_items.progress AS progress").
		Joins("JOIN learning_items ON learning_items.id = notes.learning_item_id").
		Joins("JOIN modules ON modules.id = learning_items.module_id").
		Joins("JOIN learning_paths ON learning_paths.id = modules.learning_path_id").
		Where("learning_paths.owner_external_id = ?", user.ExternalID).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("loading learning records: %w", err)
	}

	type bucket struct {
		total float64
		count int
	}
	byDay := map[string]*bucket{}
	for _, r := range rows {
		b := byDay[r.Day]
		if b == nil {
			b = &bucket{}
			byDay[r.Day] = b
		}
		b.total += r.Progress
		b.count++
	}

	records := make([]models.DailyRecord, 0, len(byDay))
	for day, b := range byDay {
		records = append(records, models.DailyRecord{
			Date:     day,
			Progress: int(math.Round(b.total / float64(b.count))),
		})
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Date < records[j].Date })
	if len(records) > 7 {
		records = records[len(records)-7:]
	}
	return records, nil
}

// RecentActivity renders the ten newest notes as feed entries.
func (s *PathService) RecentActivity(user *models.User) ([]models.ActivityItem, error) {
	var rows []struct {
		ID        string
		Content   string
		CreatedAt time.Time
		Progress  float64
		PathTitle string
	}
	err := s.DB.Table("notes").
		Select("notes.id, notes.content, notes.created_at, learning_items.progress, learning_paths.title AS path_title").
		Joins("JOIN learning_items ON learning_items.id = notes.learning_item_id").
		Joins("JOIN modules ON modules.id = learning_items.module_id").
		Joins("JOIN learning_paths ON learning_paths.id = modules.learning_path_id").
		Where("learning_paths.owner_external_id = ?", user.ExternalID).
		Order("notes.created_at DESC").
		Limit(10).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("loading recent activity: %w", err)
	}

	activities := make([]models.ActivityItem, 0, len(rows))
	for _, r := range rows {
		title := r.Content
		if runes := []rune(title); len(runes) > 50 {
			title = string(runes[:50]) + "..."
		}
		activities = append(activities, models.ActivityItem{
			ID:        r.ID,
			Title:     title,
			Type:      "Note",
			Progress:  r.Progress,
			Date:      r.CreatedAt.Format(time.RFC3339),
			PathTitle: r.PathTitle,
		})
	}
	return activities, nil
}

func (s *PathService) ownedPath(user *models.User, id string) (*models.LearningPath, error) {
	var path models.LearningPath
	err := s.DB.Where("id = ? AND owner_external_id = ?", id, user.ExternalID).First(&path).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: learning path", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("loading learning path: %w", err)
	}
	return &path, nil
}
