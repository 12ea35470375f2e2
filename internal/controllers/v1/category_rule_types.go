package v1

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pennywise/backend/internal/models"
	pw_uuid "github.com/pennywise/backend/internal/uuid"
)

type CategoryRuleEditable struct {
	Priority   uint      `json:"priority" example:"1" default:"0"`                          // Rules are checked in ascending priority order, the first match wins
	Match      string    `json:"match" example:"*Spotify*" default:""`                      // Glob pattern matched against the transaction note
	CategoryID uuid.UUID `json:"categoryId" example:"3b1ea324-d438-4419-882a-2fc91f71defe"` // The category to assign on match
}

// model returns the database resource for the API representation of the editable fields
func (editable CategoryRuleEditable) model() models.CategoryRule {
	return models.CategoryRule{
		Priority:   editable.Priority,
		Match:      editable.Match,
		CategoryID: editable.CategoryID,
	}
}

type CategoryRuleLinks struct {
	Self     string `json:"self" example:"https://example.com/api/v1/category-rules/1b7c29c5-d34a-4d5e-a0a1-59c1c4b0b4ad"`    // The category rule itself
	Category string `json:"category" example:"https://example.com/api/v1/categories/3b1ea324-d438-4419-882a-2fc91f71defe"` // The category the rule assigns
}

type CategoryRule struct {
	models.DefaultModel
	CategoryRuleEditable
	Links CategoryRuleLinks `json:"links"`
}

// newCategoryRule returns the API v1 representation of the resource
func newCategoryRule(c *gin.Context, model models.CategoryRule) CategoryRule {
	url := c.GetString(string(models.DBContextURL))

	return CategoryRule{
		DefaultModel: model.DefaultModel,
		CategoryRuleEditable: CategoryRuleEditable{
			Priority:   model.Priority,
			Match:      model.Match,
			CategoryID: model.CategoryID,
		},
		Links: CategoryRuleLinks{
			Self:     fmt.Sprintf("%s/v1/category-rules/%s", url, model.ID),
			Category: fmt.Sprintf("%s/v1/categories/%s", url, model.CategoryID),
		},
	}
}

type CategoryRuleListResponse struct {
	Data       []CategoryRule `json:"data"`                                                          // List of resources
	Error      *string        `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination    `json:"pagination"`                                                    // Pagination information
}

type CategoryRuleCreateResponse struct {
	Error *string                `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  []CategoryRuleResponse `json:"data"`                                                          // List of created resources
}

func (t *CategoryRuleCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	t.Data = append(t.Data, CategoryRuleResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type CategoryRuleResponse struct {
	Error *string       `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  *CategoryRule `json:"data"`                                                          // The resource
}

type CategoryRuleQueryFilter struct {
	Match      string       `form:"match" filterField:"false"`  // Fuzzy filter for the glob pattern
	CategoryID pw_uuid.UUID `form:"category"`                   // By category ID
	Offset     uint         `form:"offset" filterField:"false"` // The offset of the first rule returned. Defaults to 0.
	Limit      int          `form:"limit" filterField:"false"`  // Maximum number of rules to return. Defaults to 50.
}

func (f CategoryRuleQueryFilter) model() (models.CategoryRule, error) {
	return models.CategoryRule{
		CategoryID: f.CategoryID.UUID,
	}, nil
}
