package models

import (
	"encoding/json"
	"strings"

	"gorm.io/gorm"
)

// Direction tells whether money flows in or out.
type Direction string

const (
	DirectionIncome  Direction = "income"
	DirectionExpense Direction = "expense"
)

// Category groups transactions and bills by purpose.
//
// System categories ship with the backend. Their name and icon are locked,
// only the color can be changed.
type Category struct {
	DefaultModel
	Name      string    `gorm:"uniqueIndex:category_direction_name"`
	Note      string
	Direction Direction `gorm:"uniqueIndex:category_direction_name"`
	Icon      string
	Color     string
	System    bool
	Archived  bool
}

func (c *Category) BeforeSave(_ *gorm.DB) error {
	c.Name = strings.TrimSpace(c.Name)
	c.Note = strings.TrimSpace(c.Note)
	c.Icon = strings.TrimSpace(c.Icon)
	c.Color = strings.TrimSpace(c.Color)

	if c.Direction != DirectionIncome && c.Direction != DirectionExpense {
		return ErrCategoryDirectionInvalid
	}

	return nil
}

// BeforeUpdate locks name and icon of system categories.
func (c *Category) BeforeUpdate(tx *gorm.DB) error {
	if !c.System {
		return nil
	}

	if tx.Statement.Changed("Name") || tx.Statement.Changed("Icon") || tx.Statement.Changed("Direction") {
		return ErrSystemCategoryImmutable
	}

	return nil
}

// defaultCategories are created on first startup.
var defaultCategories = []Category{
	{Name: "Groceries", Direction: DirectionExpense, Icon: "cart", Color: "#4caf50", System: true},
	{Name: "Housing", Direction: DirectionExpense, Icon: "home", Color: "#795548", System: true},
	{Name: "Transport", Direction: DirectionExpense, Icon: "bus", Color: "#2196f3", System: true},
	{Name: "Leisure", Direction: DirectionExpense, Icon: "popcorn", Color: "#9c27b0", System: true},
	{Name: "Health", Direction: DirectionExpense, Icon: "heart", Color: "#f44336", System: true},
	{Name: "Salary", Direction: DirectionIncome, Icon: "wallet", Color: "#8bc34a", System: true},
	{Name: "Other income", Direction: DirectionIncome, Icon: "plus", Color: "#607d8b", System: true},
}

// EnsureDefaultCategories creates the system categories if they do not exist
// yet. Existing rows are left untouched so that user color edits survive
// restarts.
func EnsureDefaultCategories(db *gorm.DB) error {
	for _, c := range defaultCategories {
		err := db.Where(Category{Name: c.Name, Direction: c.Direction}).FirstOrCreate(&Category{
			Name:      c.Name,
			Direction: c.Direction,
			Icon:      c.Icon,
			Color:     c.Color,
			System:    true,
		}).Error
		if err != nil {
			return err
		}
	}

	return nil
}

// Export returns all categories on this instance for export.
func (Category) Export() (json.RawMessage, error) {
	var categories []Category
	err := DB.Unscoped().Where(&Category{}).Find(&categories).Error
	if err != nil {
		return nil, err
	}

	j, err := json.Marshal(&categories)
	if err != nil {
		return json.RawMessage{}, err
	}
	return json.RawMessage(j), nil
}
