package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"pathtracker/backend/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RecordService attaches dated free-text notes to learning items, one per
// item per calendar day, and hands the supplied progress to the continuous
// aggregation path.
type RecordService struct {
	DB       *gorm.DB
	Progress *ProgressService
}

func NewRecordService(db *gorm.DB, progress *ProgressService) *RecordService {
	return &RecordService{DB: db, Progress: progress}
}

type RecordInput struct {
	LearningItemID string    `json:"learningItemId"`
	Content        string    `json:"content"`
	Progress       float64   `json:"progress"`
	Date           time.Time `json:"date"`
}

// UnmarshalJSON accepts the date as either a full RFC3339 timestamp or a
// bare calendar date, which lands on midnight.
func (in *RecordInput) UnmarshalJSON(data []byte) error {
	type recordInput RecordInput
	aux := struct {
		Date string `json:"date"`
		*recordInput
	}{recordInput: (*recordInput)(in)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.Date == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, aux.Date); err == nil {
			in.Date = t
			return nil
		}
	}
	return fmt.Errorf("%w: date must be RFC3339 or YYYY-MM-DD", ErrInvalidInput)
}

// Upsert writes the note for (item, day), overwriting same-day content in
// place, then always runs the continuous rollup with the given progress,
// even when the note itself was only updated.
func (s *RecordService) Upsert(user *models.User, in RecordInput) error {
	if in.LearningItemID == "" || strings.TrimSpace(in.Content) == "" {
		return fmt.Errorf("%w: missing required fields", ErrInvalidInput)
	}
	if !validProgress(in.Progress) {
		return fmt.Errorf("%w: progress must be a number between 0 and 100", ErrInvalidInput)
	}
	date := in.Date
	if date.IsZero() {
		date = time.Now()
	}

	var item models.LearningItem
	err := s.DB.First(&item, "id = ?", in.LearningItemID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: learning item", ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("resolving learning item: %w", err)
	}

	// This entry point reports ownership failures explicitly instead of
	// masking them as not-found.
	var owned int64
	err = s.DB.Model(&models.Module{}).
		Joins("JOIN learning_paths ON learning_paths.id = modules.learning_path_id").
		Where("modules.id = ? AND learning_paths.owner_external_id = ?", item.ModuleID, user.ExternalID).
		Count(&owned).Error
	if err != nil {
		return fmt.Errorf("checking item ownership: %w", err)
	}
	if owned == 0 {
		return fmt.Errorf("%w: learning item belongs to another user", ErrAccessDenied)
	}

	// (item, day) is a unique key, so the conflict clause turns the
	// lookup-then-insert race into a single write. Only the content moves
	// on a same-day resubmission; the note keeps its original timestamp.
	note := models.Note{
		LearningItemID: item.ID,
		Day:            date.Format("2006-01-02"),
		Content:        in.Content,
		CreatedAt:      date,
	}
	err = s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "learning_item_id"}, {Name: "day"}},
		DoUpdates: clause.AssignmentColumns([]string{"content", "updated_at"}),
	}).Create(&note).Error
	if err != nil {
		return fmt.Errorf("upserting note: %w", err)
	}

	_, err = s.Progress.ApplyContinuous(user, item.ID, in.Progress)
	return err
}
