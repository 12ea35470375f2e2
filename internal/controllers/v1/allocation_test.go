package v1_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	v1 "github.com/pennywise/backend/internal/controllers/v1"
	"github.com/pennywise/backend/internal/models"
	"github.com/pennywise/backend/test"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// TestAllocationsDBClosed verifies that errors are processed correctly when
// the database is closed.
func (suite *TestSuiteStandard) TestAllocationsDBClosed() {
	tests := []struct {
		name string             // Name of the test
		test func(t *testing.T) // Code to run
	}{
		{
			"Creation fails",
			func(t *testing.T) {
				createTestAllocation(t, v1.AllocationEditable{InvestmentAccountID: uuid.New(), AssetID: uuid.New()}, http.StatusInternalServerError)
			},
		},
		{
			"GET fails",
			func(t *testing.T) {
				recorder := test.Request(t, http.MethodGet, "http://example.com/v1/allocations", "")
				test.AssertHTTPStatus(t, &recorder, http.StatusInternalServerError)

				var response v1.AllocationListResponse
				test.DecodeResponse(t, &recorder, &response)
				assert.Contains(t, *response.Error, models.ErrGeneral.Error())
			},
		},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			suite.CloseDB()

			tt.test(t)
		})
	}
}

// TestAllocationsOptions verifies that OPTIONS requests are handled correctly.
func (suite *TestSuiteStandard) TestAllocationsOptions() {
	allocation := createTestAllocation(suite.T(), v1.AllocationEditable{})

	tests := []struct {
		name   string
		path   string
		status int    // Expected HTTP status code
		allow  string // Expected allow header
	}{
		{"No Allocation with this ID", uuid.New().String(), http.StatusNotFound, ""},
		{"Not a valid UUID", "NotParseableAsUUID", http.StatusBadRequest, ""},
		{"Allocation exists", allocation.Data.ID.String(), http.StatusNoContent, "OPTIONS, GET, PATCH, DELETE"},
		{"Sell", fmt.Sprintf("%s/sell", allocation.Data.ID), http.StatusNoContent, "OPTIONS, POST"},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			path := fmt.Sprintf("%s/%s", "http://example.com/v1/allocations", tt.path)
			r := test.Request(t, http.MethodOptions, path, "")
			test.AssertHTTPStatus(t, &r, tt.status)

			if tt.status == http.StatusNoContent {
				assert.Equal(t, tt.allow, r.Header().Get("allow"))
			}
		})
	}
}

func (suite *TestSuiteStandard) TestAllocationsGetFilter() {
	account := createTestInvestmentAccount(suite.T(), v1.InvestmentAccountEditable{})
	asset := createTestAsset(suite.T(), v1.AssetEditable{Symbol: "AAPL"})

	first := createTestAllocation(suite.T(), v1.AllocationEditable{
		InvestmentAccountID: account.Data.ID,
		AssetID:             asset.Data.ID,
		Percentage:          decimal.NewFromInt(25),
	})

	_ = createTestAllocation(suite.T(), v1.AllocationEditable{
		InvestmentAccountID: account.Data.ID,
		Percentage:          decimal.NewFromInt(25),
	})

	// An allocation in another account
	_ = createTestAllocation(suite.T(), v1.AllocationEditable{})

	// Sell the first allocation so that an inactive one exists
	r := test.Request(suite.T(), http.MethodPost, fmt.Sprintf("http://example.com/v1/allocations/%s/sell", first.Data.ID), v1.SellEditable{Price: decimal.NewFromInt(180)})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	tests := []struct {
		name  string
		query string
		len   int
	}{
		{"Account", fmt.Sprintf("account=%s", account.Data.ID), 2},
		{"Asset", fmt.Sprintf("asset=%s", asset.Data.ID), 1},
		{"Active", "active=true", 2},
		{"Limit 1", "limit=1", 1},
		{"Offset 2", "offset=2", 1},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			var re v1.AllocationListResponse
			r := test.Request(t, http.MethodGet, fmt.Sprintf("/v1/allocations?%s", tt.query), "")
			test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
			test.DecodeResponse(t, &r, &re)

			assert.Equal(t, tt.len, len(re.Data), "Request ID: %s", r.Result().Header.Get("x-request-id"))
		})
	}
}

// TestAllocationsSorted verifies that allocations are returned with the most
// recent purchase first.
func (suite *TestSuiteStandard) TestAllocationsSorted() {
	account := createTestInvestmentAccount(suite.T(), v1.InvestmentAccountEditable{})

	oldest := createTestAllocation(suite.T(), v1.AllocationEditable{
		InvestmentAccountID: account.Data.ID,
		StartDate:           time.Date(2022, 1, 10, 0, 0, 0, 0, time.UTC),
	})
	newest := createTestAllocation(suite.T(), v1.AllocationEditable{
		InvestmentAccountID: account.Data.ID,
		StartDate:           time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	})

	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/allocations", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.AllocationListResponse
	test.DecodeResponse(suite.T(), &r, &response)

	if !assert.Len(suite.T(), response.Data, 2) {
		assert.FailNow(suite.T(), "Response does not have exactly 2 items")
	}

	assert.Equal(suite.T(), newest.Data.ID, response.Data[0].ID)
	assert.Equal(suite.T(), oldest.Data.ID, response.Data[1].ID)
}

func (suite *TestSuiteStandard) TestAllocationsCreateFails() {
	account := createTestInvestmentAccount(suite.T(), v1.InvestmentAccountEditable{})
	asset := createTestAsset(suite.T(), v1.AssetEditable{})

	_ = createTestAllocation(suite.T(), v1.AllocationEditable{
		InvestmentAccountID: account.Data.ID,
		AssetID:             asset.Data.ID,
	})

	tests := []struct {
		name     string
		body     any
		status   int // expected HTTP status
		testFunc func(t *testing.T, r v1.AllocationCreateResponse)
	}{
		{
			"Broken Body", `[{ "percentage": "invalid" }]`, http.StatusBadRequest,
			nil,
		},
		{
			"No body", "", http.StatusBadRequest,
			func(t *testing.T, r v1.AllocationCreateResponse) {
				assert.Equal(t, "the request body must not be empty", *r.Error)
			},
		},
		{
			"Negative percentage",
			[]v1.AllocationEditable{{InvestmentAccountID: account.Data.ID, Percentage: decimal.NewFromInt(-5)}},
			http.StatusBadRequest,
			func(t *testing.T, r v1.AllocationCreateResponse) {
				assert.Equal(t, models.ErrAllocationPercentNegative.Error(), *r.Data[0].Error)
			},
		},
		{
			"Non-existing account",
			[]v1.AllocationEditable{{InvestmentAccountID: uuid.New(), AssetID: asset.Data.ID}},
			http.StatusNotFound,
			func(t *testing.T, r v1.AllocationCreateResponse) {
				assert.Equal(t, "there is no investment account matching your query", *r.Data[0].Error)
			},
		},
		{
			"Non-existing asset",
			[]v1.AllocationEditable{{InvestmentAccountID: account.Data.ID, AssetID: uuid.New()}},
			http.StatusNotFound,
			func(t *testing.T, r v1.AllocationCreateResponse) {
				assert.Equal(t, "there is no asset matching your query", *r.Data[0].Error)
			},
		},
		{
			"Asset already allocated",
			[]v1.AllocationEditable{{InvestmentAccountID: account.Data.ID, AssetID: asset.Data.ID}},
			http.StatusBadRequest,
			func(t *testing.T, r v1.AllocationCreateResponse) {
				assert.Equal(t, models.ErrAllocationAssetAllocated.Error(), *r.Data[0].Error)
			},
		},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodPost, "http://example.com/v1/allocations", tt.body)
			test.AssertHTTPStatus(t, &r, tt.status)

			var response v1.AllocationCreateResponse
			test.DecodeResponse(t, &r, &response)

			if tt.testFunc != nil {
				tt.testFunc(t, response)
			}
		})
	}
}

// TestAllocationsSell verifies the sale flow: the allocation is deactivated,
// sale price and date are recorded and a second sale fails.
func (suite *TestSuiteStandard) TestAllocationsSell() {
	allocation := createTestAllocation(suite.T(), v1.AllocationEditable{
		PurchasePrice:  decimal.NewFromInt(150),
		InvestedAmount: decimal.NewFromInt(1500),
	})

	soldAt := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	path := fmt.Sprintf("http://example.com/v1/allocations/%s/sell", allocation.Data.ID)

	r := test.Request(suite.T(), http.MethodPost, path, v1.SellEditable{
		Price: decimal.RequireFromString("180.10"),
		At:    &soldAt,
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var sold v1.AllocationResponse
	test.DecodeResponse(suite.T(), &r, &sold)

	assert.False(suite.T(), sold.Data.Active)
	if assert.NotNil(suite.T(), sold.Data.SoldPrice) {
		assert.True(suite.T(), sold.Data.SoldPrice.Equal(decimal.RequireFromString("180.10")))
	}
	if assert.NotNil(suite.T(), sold.Data.SoldAt) {
		assert.True(suite.T(), soldAt.Equal(*sold.Data.SoldAt))
	}

	// Selling twice does not work
	r = test.Request(suite.T(), http.MethodPost, path, v1.SellEditable{Price: decimal.NewFromInt(200)})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

	var response v1.AllocationResponse
	test.DecodeResponse(suite.T(), &r, &response)
	assert.Equal(suite.T(), models.ErrAllocationNotActive.Error(), *response.Error)
}

func (suite *TestSuiteStandard) TestAllocationsUpdate() {
	allocation := createTestAllocation(suite.T(), v1.AllocationEditable{Percentage: decimal.NewFromInt(10)})

	r := test.Request(suite.T(), http.MethodPatch, allocation.Data.Links.Self, map[string]any{
		"percentage":     "35",
		"investedAmount": "4000",
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var updated v1.AllocationResponse
	test.DecodeResponse(suite.T(), &r, &updated)

	assert.True(suite.T(), updated.Data.Percentage.Equal(decimal.NewFromInt(35)))
	assert.True(suite.T(), updated.Data.InvestedAmount.Equal(decimal.NewFromInt(4000)))
}

func (suite *TestSuiteStandard) TestAllocationsUpdateFails() {
	tests := []struct {
		name   string
		id     string
		body   any
		status int // expected response status
	}{
		{"Invalid type", "", `{"percentage": "not a number"}`, http.StatusBadRequest},
		{"Broken JSON", "", `{ "percentage": 2" }`, http.StatusBadRequest},
		{"Non-existing Allocation", uuid.New().String(), `{"percentage": "10"}`, http.StatusNotFound},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			var recorder httptest.ResponseRecorder

			if tt.id == "" {
				allocation := createTestAllocation(suite.T(), v1.AllocationEditable{})
				tt.id = allocation.Data.ID.String()
			}

			recorder = test.Request(t, http.MethodPatch, fmt.Sprintf("http://example.com/v1/allocations/%s", tt.id), tt.body)
			test.AssertHTTPStatus(t, &recorder, tt.status)
		})
	}
}

// TestAllocationsDelete verifies all cases for Allocation deletions.
func (suite *TestSuiteStandard) TestAllocationsDelete() {
	tests := []struct {
		name   string
		id     string
		status int // expected response status
	}{
		{"Success", "", http.StatusNoContent},
		{"Non-existing Allocation", uuid.New().String(), http.StatusNotFound},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			var recorder httptest.ResponseRecorder

			if tt.id == "" {
				allocation := createTestAllocation(t, v1.AllocationEditable{})
				tt.id = allocation.Data.ID.String()
			}

			recorder = test.Request(t, http.MethodDelete, fmt.Sprintf("http://example.com/v1/allocations/%s", tt.id), "")
			test.AssertHTTPStatus(t, &recorder, tt.status)
		})
	}
}
