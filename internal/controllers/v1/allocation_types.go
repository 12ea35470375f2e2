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

type AllocationEditable struct {
	InvestmentAccountID uuid.UUID       `json:"investmentAccountId" example:"d1397e5f-45e4-44e6-84cd-22381a4a5e85"`                          // The investment account the allocation belongs to
	AssetID             uuid.UUID       `json:"assetId" example:"5ca24282-fd9a-44ba-ba64-a8f1a30e9d9a"`                                      // The allocated asset
	Percentage          decimal.Decimal `json:"percentage" example:"25" minimum:"0" maximum:"100" multipleOf:"0.00000001" default:"0"`       // Percentage of the deposit pool
	PurchasePrice       decimal.Decimal `json:"purchasePrice" example:"150.30" minimum:"0" multipleOf:"0.00000001" default:"0"`              // Asset price at purchase
	InvestedAmount      decimal.Decimal `json:"investedAmount" example:"2500" minimum:"0" multipleOf:"0.00000001" default:"0"`               // Amount invested at the purchase price
	StartDate           time.Time       `json:"startDate" example:"2023-06-01T00:00:00Z"`                                                    // Date of the purchase. Defaults to now.
}

// model returns the database resource for the API representation of the editable fields
func (editable AllocationEditable) model() models.Allocation {
	return models.Allocation{
		InvestmentAccountID: editable.InvestmentAccountID,
		AssetID:             editable.AssetID,
		Percentage:          editable.Percentage,
		PurchasePrice:       editable.PurchasePrice,
		InvestedAmount:      editable.InvestedAmount,
		StartDate:           editable.StartDate,
	}
}

type AllocationLinks struct {
	Self    string `json:"self" example:"https://example.com/api/v1/allocations/c4cd4c40-f39f-442a-9ab1-78c54e6a6b8a"`           // The allocation itself
	Account string `json:"account" example:"https://example.com/api/v1/investment-accounts/d1397e5f-45e4-44e6-84cd-22381a4a5e85"` // The investment account
	Asset   string `json:"asset" example:"https://example.com/api/v1/assets/5ca24282-fd9a-44ba-ba64-a8f1a30e9d9a"`                // The allocated asset
}

type Allocation struct {
	models.DefaultModel
	AllocationEditable
	Active    bool             `json:"active" example:"true"`              // Is the allocation active? Sold allocations are inactive.
	SoldPrice *decimal.Decimal `json:"soldPrice" example:"180.10"`         // The asset price the allocation was sold at
	SoldAt    *time.Time       `json:"soldAt" example:"2024-01-05T00:00:00Z"` // When the allocation was sold
	Links     AllocationLinks  `json:"links"`
}

// newAllocation returns the API v1 representation of the resource
func newAllocation(c *gin.Context, model models.Allocation) Allocation {
	url := c.GetString(string(models.DBContextURL))

	return Allocation{
		DefaultModel: model.DefaultModel,
		AllocationEditable: AllocationEditable{
			InvestmentAccountID: model.InvestmentAccountID,
			AssetID:             model.AssetID,
			Percentage:          model.Percentage,
			PurchasePrice:       model.PurchasePrice,
			InvestedAmount:      model.InvestedAmount,
			StartDate:           model.StartDate,
		},
		Active:    model.Active,
		SoldPrice: model.SoldPrice,
		SoldAt:    model.SoldAt,
		Links: AllocationLinks{
			Self:    fmt.Sprintf("%s/v1/allocations/%s", url, model.ID),
			Account: fmt.Sprintf("%s/v1/investment-accounts/%s", url, model.InvestmentAccountID),
			Asset:   fmt.Sprintf("%s/v1/assets/%s", url, model.AssetID),
		},
	}
}

type AllocationListResponse struct {
	Data       []Allocation `json:"data"`                                                          // List of resources
	Error      *string      `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination  `json:"pagination"`                                                    // Pagination information
}

type AllocationCreateResponse struct {
	Error *string              `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  []AllocationResponse `json:"data"`                                                          // List of created resources
}

func (t *AllocationCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	t.Data = append(t.Data, AllocationResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type AllocationResponse struct {
	Error *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  *Allocation `json:"data"`                                                          // The resource
}

type AllocationQueryFilter struct {
	InvestmentAccountID pw_uuid.UUID `form:"account"`                    // By investment account ID
	AssetID             pw_uuid.UUID `form:"asset"`                      // By asset ID
	Active              bool         `form:"active"`                     // Is the allocation active?
	Offset              uint         `form:"offset" filterField:"false"` // The offset of the first allocation returned. Defaults to 0.
	Limit               int          `form:"limit" filterField:"false"`  // Maximum number of allocations to return. Defaults to 50.
}

func (f AllocationQueryFilter) model() (models.Allocation, error) {
	return models.Allocation{
		InvestmentAccountID: f.InvestmentAccountID.UUID,
		AssetID:             f.AssetID.UUID,
		Active:              f.Active,
	}, nil
}

// SellEditable is the body for selling an allocation.
type SellEditable struct {
	Price decimal.Decimal `json:"price" example:"180.10" minimum:"0" multipleOf:"0.00000001"` // The asset price the allocation is sold at
	At    *time.Time      `json:"at" example:"2024-01-05T00:00:00Z"`                          // When the allocation was sold. Defaults to now.
}
