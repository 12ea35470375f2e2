package v1

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pennywise/backend/internal/models"
	pw_uuid "github.com/pennywise/backend/internal/uuid"
	"github.com/shopspring/decimal"
)

type SavingsGoalEditable struct {
	Name         string          `json:"name" example:"Emergency fund" default:""`                                                          // Name of the savings goal
	Note         string          `json:"note" example:"Three months of expenses" default:""`                                                // A longer description
	TargetAmount decimal.Decimal `json:"targetAmount" example:"5000" minimum:"0.00000001" maximum:"999999999999.99999999" multipleOf:"0.00000001"` // The amount to be reached
	TargetDate   *time.Time      `json:"targetDate" example:"2025-12-31T00:00:00Z"`                                                         // When the goal should be reached
	AccountID    uuid.UUID       `json:"accountId" example:"af892e10-7e0a-4fb8-b1bc-4b6d88401ed2"`                                          // The account whose balance counts towards the goal
	Archived     bool            `json:"archived" example:"true" default:"false"`                                                           // Is the goal archived?
}

// model returns the database resource for the API representation of the editable fields
func (editable SavingsGoalEditable) model() models.SavingsGoal {
	return models.SavingsGoal{
		Name:         editable.Name,
		Note:         editable.Note,
		TargetAmount: editable.TargetAmount,
		TargetDate:   editable.TargetDate,
		AccountID:    editable.AccountID,
		Archived:     editable.Archived,
	}
}

type SavingsGoalLinks struct {
	Self    string `json:"self" example:"https://example.com/api/v1/savings-goals/49c8b9d2-88b4-4f65-a37e-bb6dfa02e416"`  // The savings goal itself
	Account string `json:"account" example:"https://example.com/api/v1/accounts/af892e10-7e0a-4fb8-b1bc-4b6d88401ed2"` // The account the goal references
}

type SavingsGoal struct {
	models.DefaultModel
	SavingsGoalEditable
	Progress decimal.Decimal  `json:"progress" example:"62.5"` // How much of the target is reached, as a percentage clamped to [0, 100]
	Links    SavingsGoalLinks `json:"links"`
}

// newSavingsGoal returns the API v1 representation of the resource. The
// progress is read from the linked account.
func newSavingsGoal(c *gin.Context, model models.SavingsGoal) (SavingsGoal, error) {
	url := c.GetString(string(models.DBContextURL))

	progress, err := model.Progress(models.DB)
	if err != nil {
		return SavingsGoal{}, err
	}

	return SavingsGoal{
		DefaultModel: model.DefaultModel,
		SavingsGoalEditable: SavingsGoalEditable{
			Name:         model.Name,
			Note:         model.Note,
			TargetAmount: model.TargetAmount,
			TargetDate:   model.TargetDate,
			AccountID:    model.AccountID,
			Archived:     model.Archived,
		},
		Progress: progress,
		Links: SavingsGoalLinks{
			Self:    fmt.Sprintf("%s/v1/savings-goals/%s", url, model.ID),
			Account: fmt.Sprintf("%s/v1/accounts/%s", url, model.AccountID),
		},
	}, nil
}

type SavingsGoalListResponse struct {
	Data       []SavingsGoal `json:"data"`                                                          // List of resources
	Error      *string       `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination   `json:"pagination"`                                                    // Pagination information
}

type SavingsGoalCreateResponse struct {
	Error *string               `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  []SavingsGoalResponse `json:"data"`                                                          // List of created resources
}

func (t *SavingsGoalCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	t.Data = append(t.Data, SavingsGoalResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type SavingsGoalResponse struct {
	Error *string      `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  *SavingsGoal `json:"data"`                                                          // The resource
}

type SavingsGoalQueryFilter struct {
	Name      string       `form:"name" filterField:"false"`   // Fuzzy filter for the name
	Note      string       `form:"note" filterField:"false"`   // Fuzzy filter for the note
	Search    string       `form:"search" filterField:"false"` // By string in name or note
	AccountID pw_uuid.UUID `form:"account"`                    // By account ID
	Archived  bool         `form:"archived"`                   // Is the goal archived?
	Offset    uint         `form:"offset" filterField:"false"` // The offset of the first goal returned. Defaults to 0.
	Limit     int          `form:"limit" filterField:"false"`  // Maximum number of goals to return. Defaults to 50.
}

func (f SavingsGoalQueryFilter) model() (models.SavingsGoal, error) {
	return models.SavingsGoal{
		AccountID: f.AccountID.UUID,
		Archived:  f.Archived,
	}, nil
}
