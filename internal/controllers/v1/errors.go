package v1

import (
	"errors"
	"net/http"

	"github.com/pennywise/backend/internal/httputil"
	"github.com/pennywise/backend/internal/models"
)

type httpError struct {
	Error string `json:"error" example:"An ID specified in the query string was not a valid UUID"`
}

// status returns the appropriate status for a database error
func status(err error) int {
	if errors.Is(err, models.ErrGeneral) {
		return http.StatusInternalServerError
	}

	if errors.Is(err, models.ErrResourceNotFound) {
		return http.StatusNotFound
	}

	if errors.Is(err, httputil.ErrRequestBodyEmpty) || errors.Is(err, httputil.ErrRequestBodyInvalid) {
		return http.StatusBadRequest
	}

	return http.StatusBadRequest
}

// Cleanup errors
var errCleanupConfirmation = errors.New("the confirmation for the cleanup API call was incorrect")

// Projection errors
var errProjectionYearInvalid = errors.New("the year query parameter must be a four digit year")

// Rebalancing errors
var errRebalancePercentagesMissing = errors.New("a percentage must be provided for every active allocation")

// Transaction errors
var errTransactionDateInvalid = errors.New("date filters must be RFC3339 timestamps")
