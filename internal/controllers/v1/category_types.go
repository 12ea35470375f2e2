package v1

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/pennywise/backend/internal/models"
)

type CategoryEditable struct {
	Name      string           `json:"name" example:"Groceries" default:""`     // Name of the category
	Note      string           `json:"note" example:"Daily expenses" default:""` // A longer description
	Direction models.Direction `json:"direction" example:"expense" default:""`  // Whether the category is for income or expenses
	Icon      string           `json:"icon" example:"cart" default:""`          // Icon identifier for display
	Color     string           `json:"color" example:"#4caf50" default:""`      // Display color
	Archived  bool             `json:"archived" example:"true" default:"false"` // Is the category archived?
}

// model returns the database resource for the API representation of the editable fields
func (editable CategoryEditable) model() models.Category {
	return models.Category{
		Name:      editable.Name,
		Note:      editable.Note,
		Direction: editable.Direction,
		Icon:      editable.Icon,
		Color:     editable.Color,
		Archived:  editable.Archived,
	}
}

type CategoryLinks struct {
	Self         string `json:"self" example:"https://example.com/api/v1/categories/3b1ea324-d438-4419-882a-2fc91f71defe"`                     // The Category itself
	Transactions string `json:"transactions" example:"https://example.com/api/v1/transactions?category=3b1ea324-d438-4419-882a-2fc91f71defe"` // Transactions referencing the category
}

type Category struct {
	models.DefaultModel
	CategoryEditable
	System bool          `json:"system" example:"true"` // System categories allow only color edits
	Links  CategoryLinks `json:"links"`
}

// newCategory returns the API v1 representation of the resource
func newCategory(c *gin.Context, model models.Category) Category {
	url := c.GetString(string(models.DBContextURL))

	return Category{
		DefaultModel: model.DefaultModel,
		CategoryEditable: CategoryEditable{
			Name:      model.Name,
			Note:      model.Note,
			Direction: model.Direction,
			Icon:      model.Icon,
			Color:     model.Color,
			Archived:  model.Archived,
		},
		System: model.System,
		Links: CategoryLinks{
			Self:         fmt.Sprintf("%s/v1/categories/%s", url, model.ID),
			Transactions: fmt.Sprintf("%s/v1/transactions?category=%s", url, model.ID),
		},
	}
}

type CategoryListResponse struct {
	Data       []Category  `json:"data"`                                                          // List of resources
	Error      *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination `json:"pagination"`                                                    // Pagination information
}

type CategoryCreateResponse struct {
	Error *string            `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  []CategoryResponse `json:"data"`                                                          // List of created resources
}

func (t *CategoryCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	t.Data = append(t.Data, CategoryResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type CategoryResponse struct {
	Error *string   `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  *Category `json:"data"`                                                          // The resource
}

type CategoryQueryFilter struct {
	Name      string           `form:"name" filterField:"false"`   // Fuzzy filter for the name
	Note      string           `form:"note" filterField:"false"`   // Fuzzy filter for the note
	Search    string           `form:"search" filterField:"false"` // By string in name or note
	Direction models.Direction `form:"direction"`                  // By direction
	System    bool             `form:"system"`                     // Is this a system category?
	Archived  bool             `form:"archived"`                   // Is the category archived?
	Offset    uint             `form:"offset" filterField:"false"` // The offset of the first category returned. Defaults to 0.
	Limit     int              `form:"limit" filterField:"false"`  // Maximum number of categories to return. Defaults to 50.
}

func (f CategoryQueryFilter) model() (models.Category, error) {
	return models.Category{
		Direction: f.Direction,
		System:    f.System,
		Archived:  f.Archived,
	}, nil
}
