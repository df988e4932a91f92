package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Learning item types mirror the kinds of content a user can track.
const (
	TypeVideo         = "VIDEO"
	TypeArticle       = "ARTICLE"
	TypeCourse        = "COURSE"
	TypeBook          = "BOOK"
	TypeTutorial      = "TUTORIAL"
	TypeDocumentation = "DOCUMENTATION"
	TypeExercise      = "EXERCISE"
	TypeProject       = "PROJECT"
)

var itemTypes = map[string]bool{
	TypeVideo:         true,
	TypeArticle:       true,
	TypeCourse:        true,
	TypeBook:          true,
	TypeTutorial:      true,
	TypeDocumentation: true,
	TypeExercise:      true,
	TypeProject:       true,
}

func ValidItemType(t string) bool {
	return itemTypes[t]
}

type LearningPath struct {
	ID              string    `gorm:"primaryKey;size:36" json:"id"`
	OwnerExternalID string    `gorm:"index;not null" json:"-"`
	Title           string    `gorm:"not null" json:"title"`
	Description     *string   `json:"description"`
	Progress        float64   `gorm:"default:0" json:"progress"`
	Modules         []Module  `json:"modules"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func (p *LearningPath) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

type Module struct {
	ID             string  `gorm:"primaryKey;size:36" json:"id"`
	LearningPathID string  `gorm:"index;not null" json:"learningPathId"`
	Title          string  `gorm:"not null" json:"title"`
	Description    *string `json:"description"`
	// Position is the explicit sort order within the path ("order" is
	// reserved in SQL, hence the column name).
	Position  int            `gorm:"not null;default:0" json:"order"`
	Progress  float64        `gorm:"default:0" json:"progress"`
	Items     []LearningItem `json:"learningItems"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

func (m *Module) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

type LearningItem struct {
	ID          string     `gorm:"primaryKey;size:36" json:"id"`
	ModuleID    string     `gorm:"index;not null" json:"moduleId"`
	Title       string     `gorm:"not null" json:"title"`
	URL         *string    `json:"url"`
	Type        string     `gorm:"not null" json:"type"`
	Position    int        `gorm:"not null;default:0" json:"order"`
	Progress    float64    `gorm:"default:0" json:"progress"`
	IsComplete  bool       `gorm:"default:false" json:"isComplete"`
	CompletedAt *time.Time `json:"completedAt"`
	Notes       []Note     `json:"notes,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func (i *LearningItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

// Note is a dated free-text record attached to one item. The (item, day)
// pair is unique: a second submission on the same calendar day overwrites
// the content instead of inserting a duplicate.
type Note struct {
	ID             string    `gorm:"primaryKey;size:36" json:"id"`
	LearningItemID string    `gorm:"not null;uniqueIndex:idx_note_item_day" json:"learningItemId"`
	Day            string    `gorm:"size:10;not null;uniqueIndex:idx_note_item_day" json:"-"`
	Content        string    `gorm:"not null" json:"content"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (n *Note) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return nil
}
