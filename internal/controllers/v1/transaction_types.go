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

type TransactionEditable struct {
	Date                 time.Time              `json:"date" example:"2024-02-20T14:00:00Z"`                                                                // Date of the transaction
	Amount               decimal.Decimal        `json:"amount" example:"14.50" minimum:"0.00000001" maximum:"999999999999.99999999" multipleOf:"0.00000001"` // The amount, always positive
	Type                 models.TransactionType `json:"type" example:"expense" default:"expense"`                                                           // One of expense, income, transfer
	Note                 string                 `json:"note" example:"Groceries at the market" default:""`                                                  // A longer description
	Tags                 string                 `json:"tags" example:"food,market" default:""`                                                              // Comma separated tags
	PhotoURL             string                 `json:"photoUrl" example:"" default:""`                                                                     // URL of a receipt photo
	CategoryID           *uuid.UUID             `json:"categoryId" example:"3b1ea324-d438-4419-882a-2fc91f71defe"`                                          // The category. When empty, category rules are applied on creation.
	SourceAccountID      *uuid.UUID             `json:"sourceAccountId" example:"af892e10-7e0a-4fb8-b1bc-4b6d88401ed2"`                                     // The account money leaves
	DestinationAccountID *uuid.UUID             `json:"destinationAccountId" example:"a6f66d1a-c4d5-4bf5-b105-5e2c02eda504"`                                // The account money arrives on
}

// model returns the database resource for the API representation of the editable fields
func (editable TransactionEditable) model() models.Transaction {
	return models.Transaction{
		Date:                 editable.Date,
		Amount:               editable.Amount,
		Type:                 editable.Type,
		Note:                 editable.Note,
		Tags:                 editable.Tags,
		PhotoURL:             editable.PhotoURL,
		CategoryID:           editable.CategoryID,
		SourceAccountID:      editable.SourceAccountID,
		DestinationAccountID: editable.DestinationAccountID,
	}
}

type TransactionLinks struct {
	Self string `json:"self" example:"https://example.com/api/v1/transactions/d430d7c3-d14c-4712-9336-ee56965a6673"` // The transaction itself
}

type Transaction struct {
	models.DefaultModel
	TransactionEditable
	Links TransactionLinks `json:"links"`
}

// newTransaction returns the API v1 representation of the resource
func newTransaction(c *gin.Context, model models.Transaction) Transaction {
	url := c.GetString(string(models.DBContextURL))

	return Transaction{
		DefaultModel: model.DefaultModel,
		TransactionEditable: TransactionEditable{
			Date:                 model.Date,
			Amount:               model.Amount,
			Type:                 model.Type,
			Note:                 model.Note,
			Tags:                 model.Tags,
			PhotoURL:             model.PhotoURL,
			CategoryID:           model.CategoryID,
			SourceAccountID:      model.SourceAccountID,
			DestinationAccountID: model.DestinationAccountID,
		},
		Links: TransactionLinks{
			Self: fmt.Sprintf("%s/v1/transactions/%s", url, model.ID),
		},
	}
}

type TransactionListResponse struct {
	Data       []Transaction `json:"data"`                                                          // List of resources
	Error      *string       `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination   `json:"pagination"`                                                    // Pagination information
}

type TransactionCreateResponse struct {
	Error *string               `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  []TransactionResponse `json:"data"`                                                          // List of created resources
}

func (t *TransactionCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	t.Data = append(t.Data, TransactionResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type TransactionResponse struct {
	Error *string      `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  *Transaction `json:"data"`                                                          // The resource
}

type TransactionQueryFilter struct {
	Date                 string                 `form:"date" filterField:"false"`              // Transactions on this day (ignores the time)
	FromDate             string                 `form:"fromDate" filterField:"false"`          // Transactions on or after this day
	UntilDate            string                 `form:"untilDate" filterField:"false"`         // Transactions on or before this day
	AmountLessOrEqual    decimal.Decimal        `form:"amountLessOrEqual" filterField:"false"` // Amount less than or equal to this
	AmountMoreOrEqual    decimal.Decimal        `form:"amountMoreOrEqual" filterField:"false"` // Amount more than or equal to this
	Type                 models.TransactionType `form:"type"`                                  // By transaction type
	Note                 string                 `form:"note" filterField:"false"`              // Fuzzy filter for the note
	CategoryID           pw_uuid.UUID           `form:"category"`                              // By category ID
	SourceAccountID      pw_uuid.UUID           `form:"source"`                                // By source account ID
	DestinationAccountID pw_uuid.UUID           `form:"destination"`                           // By destination account ID
	AccountID            pw_uuid.UUID           `form:"account" filterField:"false"`           // By account ID, regardless of direction
	Offset               uint                   `form:"offset" filterField:"false"`            // The offset of the first transaction returned. Defaults to 0.
	Limit                int                    `form:"limit" filterField:"false"`             // Maximum number of transactions to return. Defaults to 50.
}

func (f TransactionQueryFilter) model() (models.Transaction, error) {
	transaction := models.Transaction{
		Type: f.Type,
	}

	if f.CategoryID != pw_uuid.Nil {
		id := f.CategoryID.UUID
		transaction.CategoryID = &id
	}

	if f.SourceAccountID != pw_uuid.Nil {
		id := f.SourceAccountID.UUID
		transaction.SourceAccountID = &id
	}

	if f.DestinationAccountID != pw_uuid.Nil {
		id := f.DestinationAccountID.UUID
		transaction.DestinationAccountID = &id
	}

	return transaction, nil
}
