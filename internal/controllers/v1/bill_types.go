package v1

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pennywise/backend/internal/forecast"
	"github.com/pennywise/backend/internal/models"
	pw_uuid "github.com/pennywise/backend/internal/uuid"
	"github.com/shopspring/decimal"
)

type BillEditable struct {
	Name        string                   `json:"name" example:"Rent" default:""`                                                                    // Name of the bill
	Note        string                   `json:"note" example:"Increases every year" default:""`                                                    // A longer description
	Amount      decimal.Decimal          `json:"amount" example:"850" minimum:"0.00000001" maximum:"999999999999.99999999" multipleOf:"0.00000001"` // Amount due per occurrence
	Direction   models.Direction         `json:"direction" example:"expense" default:"expense"`                                                     // Whether the bill is income or an expense
	Pattern     models.RecurrencePattern `json:"pattern" example:"monthly" default:"monthly"`                                                       // The recurrence pattern
	SpecificDay *int                     `json:"specificDay" example:"1"`                                                                           // Day of the period the bill is due, required for monthly and yearly bills
	StartDate   time.Time                `json:"startDate" example:"2023-01-01T00:00:00Z"`                                                          // Date of the first occurrence
	AccountID   uuid.UUID                `json:"accountId" example:"af892e10-7e0a-4fb8-b1bc-4b6d88401ed2"`                                          // The account the bill is paid from or received on
	CategoryID  *uuid.UUID               `json:"categoryId" example:"3b1ea324-d438-4419-882a-2fc91f71defe"`                                         // The category of the bill
	Archived    bool                     `json:"archived" example:"true" default:"false"`                                                           // Is the bill deactivated?
}

// model returns the database resource for the API representation of the editable fields
func (editable BillEditable) model() models.Bill {
	return models.Bill{
		Name:        editable.Name,
		Note:        editable.Note,
		Amount:      editable.Amount,
		Direction:   editable.Direction,
		Pattern:     editable.Pattern,
		SpecificDay: editable.SpecificDay,
		StartDate:   editable.StartDate,
		AccountID:   editable.AccountID,
		CategoryID:  editable.CategoryID,
		Archived:    editable.Archived,
	}
}

type BillLinks struct {
	Self    string `json:"self" example:"https://example.com/api/v1/bills/2c3e4b94-365c-4c50-86dc-8fcdbcb1f2d1"` // The Bill itself
	Account string `json:"account" example:"https://example.com/api/v1/accounts/af892e10-7e0a-4fb8-b1bc-4b6d88401ed2"` // The account the bill references
}

type Bill struct {
	models.DefaultModel
	BillEditable
	Links BillLinks `json:"links"`
}

// newBill returns the API v1 representation of the resource
func newBill(c *gin.Context, model models.Bill) Bill {
	url := c.GetString(string(models.DBContextURL))

	return Bill{
		DefaultModel: model.DefaultModel,
		BillEditable: BillEditable{
			Name:        model.Name,
			Note:        model.Note,
			Amount:      model.Amount,
			Direction:   model.Direction,
			Pattern:     model.Pattern,
			SpecificDay: model.SpecificDay,
			StartDate:   model.StartDate,
			AccountID:   model.AccountID,
			CategoryID:  model.CategoryID,
			Archived:    model.Archived,
		},
		Links: BillLinks{
			Self:    fmt.Sprintf("%s/v1/bills/%s", url, model.ID),
			Account: fmt.Sprintf("%s/v1/accounts/%s", url, model.AccountID),
		},
	}
}

type BillListResponse struct {
	Data       []Bill      `json:"data"`                                                          // List of resources
	Error      *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination `json:"pagination"`                                                    // Pagination information
}

type BillCreateResponse struct {
	Error *string        `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  []BillResponse `json:"data"`                                                          // List of created resources
}

func (t *BillCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	t.Data = append(t.Data, BillResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type BillResponse struct {
	Error *string `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  *Bill   `json:"data"`                                                          // The resource
}

type BillQueryFilter struct {
	Name      string                   `form:"name" filterField:"false"`   // Fuzzy filter for the name
	Note      string                   `form:"note" filterField:"false"`   // Fuzzy filter for the note
	Search    string                   `form:"search" filterField:"false"` // By string in name or note
	Direction models.Direction         `form:"direction"`                  // By direction
	Pattern   models.RecurrencePattern `form:"pattern"`                    // By recurrence pattern
	AccountID pw_uuid.UUID             `form:"account"`                    // By account ID
	Archived  bool                     `form:"archived"`                   // Is the bill deactivated?
	Offset    uint                     `form:"offset" filterField:"false"` // The offset of the first bill returned. Defaults to 0.
	Limit     int                      `form:"limit" filterField:"false"`  // Maximum number of bills to return. Defaults to 50.
}

func (f BillQueryFilter) model() (models.Bill, error) {
	return models.Bill{
		Direction: f.Direction,
		Pattern:   f.Pattern,
		AccountID: f.AccountID.UUID,
		Archived:  f.Archived,
	}, nil
}

// ProjectionResponse is the yearly projection of all active bills.
type ProjectionResponse struct {
	Error *string              `json:"error" example:"the year query parameter must be a four digit year"` // The error, if any occurred
	Data  *forecast.Projection `json:"data"`                                                               // The projection
}
