package models

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"github.com/ryanuber/go-glob"
	"gorm.io/gorm"
)

// CategoryRule automatically assigns a category to new transactions whose
// note matches a glob pattern, e.g. "REWE*" or "*Spotify*".
type CategoryRule struct {
	DefaultModel
	Priority   uint
	Match      string
	CategoryID uuid.UUID
	Category   Category `json:"-"`
}

func (r *CategoryRule) BeforeSave(_ *gorm.DB) error {
	r.Match = strings.TrimSpace(r.Match)
	if r.Match == "" {
		return ErrCategoryRuleMatchNotSet
	}

	return nil
}

func (r *CategoryRule) BeforeCreate(tx *gorm.DB) error {
	_ = r.DefaultModel.BeforeCreate(tx)

	// Validation in BeforeSave has already failed, do not add more errors
	if tx.Error != nil {
		return nil
	}

	toSave := tx.Statement.Dest.(*CategoryRule)
	return r.checkIntegrity(tx, *toSave)
}

func (r *CategoryRule) BeforeUpdate(tx *gorm.DB) error {
	toSave := tx.Statement.Dest.(CategoryRule)
	if tx.Statement.Changed("CategoryID") {
		return r.checkIntegrity(tx, toSave)
	}

	return nil
}

// checkIntegrity verifies references to other resources
func (r *CategoryRule) checkIntegrity(tx *gorm.DB, toSave CategoryRule) error {
	return tx.First(&Category{}, toSave.CategoryID).Error
}

// matchCategory returns the category ID of the first rule matching the note,
// checked in ascending priority order. Returns nil if no rule matches.
func matchCategory(db *gorm.DB, note string) (*uuid.UUID, error) {
	var rules []CategoryRule
	err := db.Order("priority ASC, match ASC").Find(&rules).Error
	if err != nil {
		return nil, err
	}

	for _, rule := range rules {
		if glob.Glob(rule.Match, note) {
			id := rule.CategoryID
			return &id, nil
		}
	}

	return nil, nil
}

// Export returns all category rules on this instance for export.
func (CategoryRule) Export() (json.RawMessage, error) {
	var rules []CategoryRule
	err := DB.Unscoped().Where(&CategoryRule{}).Find(&rules).Error
	if err != nil {
		return nil, err
	}

	j, err := json.Marshal(&rules)
	if err != nil {
		return json.RawMessage{}, err
	}
	return json.RawMessage(j), nil
}
