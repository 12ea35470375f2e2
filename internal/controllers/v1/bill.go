package v1

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pennywise/backend/internal/forecast"
	"github.com/pennywise/backend/internal/httputil"
	"github.com/pennywise/backend/internal/models"
	"golang.org/x/exp/slices"
)

func RegisterBillRoutes(r *gin.RouterGroup) {
	{
		r.OPTIONS("", OptionsBills)
		r.GET("", GetBills)
		r.POST("", CreateBills)
	}
	{
		r.OPTIONS("/projection", OptionsBillProjection)
		r.GET("/projection", GetBillProjection)
	}
	{
		r.OPTIONS("/:id", OptionsBillDetail)
		r.GET("/:id", GetBill)
		r.PATCH("/:id", UpdateBill)
		r.DELETE("/:id", DeleteBill)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Bills
// @Success		204
// @Router			/v1/bills [options]
func OptionsBills(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Bills
// @Success		204
// @Router			/v1/bills/projection [options]
func OptionsBillProjection(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Bills
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/bills/{id} [options]
func OptionsBillDetail(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.First(&models.Bill{}, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// @Summary		Create bills
// @Description	Creates new bills
// @Tags			Bills
// @Produce		json
// @Success		201		{object}	BillCreateResponse
// @Failure		400		{object}	BillCreateResponse
// @Failure		404		{object}	BillCreateResponse
// @Failure		500		{object}	BillCreateResponse
// @Param			bills	body		[]BillEditable	true	"Bills"
// @Router			/v1/bills [post]
func CreateBills(c *gin.Context) {
	var bills []BillEditable

	// Bind data and return error if not possible
	err := httputil.BindData(c, &bills)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BillCreateResponse{
			Error: &e,
		})
		return
	}

	// The final http status. Will be modified when errors occur
	s := http.StatusCreated
	r := BillCreateResponse{}

	for _, editable := range bills {
		bill := editable.model()
		err = models.DB.Create(&bill).Error
		if err != nil {
			s = r.appendError(err, s)
			continue
		}

		apiResource := newBill(c, bill)
		r.Data = append(r.Data, BillResponse{Data: &apiResource})
	}

	c.JSON(s, r)
}

// @Summary		List bills
// @Description	Returns a list of bills
// @Tags			Bills
// @Produce		json
// @Success		200	{object}	BillListResponse
// @Failure		400	{object}	BillListResponse
// @Failure		500	{object}	BillListResponse
// @Router			/v1/bills [get]
// @Param			name		query	string	false	"Filter by name"
// @Param			note		query	string	false	"Filter by note"
// @Param			search		query	string	false	"Search for this text in name and note"
// @Param			direction	query	string	false	"Filter by direction"
// @Param			pattern		query	string	false	"Filter by recurrence pattern"
// @Param			account		query	string	false	"Filter by account ID"
// @Param			archived	query	bool	false	"Is the bill deactivated?"
// @Param			offset		query	uint	false	"The offset of the first bill returned. Defaults to 0."
// @Param			limit		query	int		false	"Maximum number of bills to return. Defaults to 50."
func GetBills(c *gin.Context) {
	var filter BillQueryFilter

	if err := c.Bind(&filter); err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, BillListResponse{
			Error: &s,
		})
		return
	}

	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	where, err := filter.model()
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BillListResponse{
			Error: &s,
		})
		return
	}

	q := models.DB.
		Order("bills.name ASC").
		Where(&where, queryFields...)

	q = stringFilters(models.DB, q, setFields, filter.Name, filter.Note, filter.Search)

	q = q.Offset(int(filter.Offset))

	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var bills []models.Bill
	err = q.Find(&bills).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BillListResponse{
			Error: &s,
		})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BillListResponse{
			Error: &e,
		})
		return
	}

	// Transform resources to their API representation
	data := make([]Bill, 0, len(bills))
	for _, bill := range bills {
		data = append(data, newBill(c, bill))
	}

	c.JSON(http.StatusOK, BillListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Project bills
// @Description	Projects all active bills onto the 12 months of a year and returns per-bill, per-month and per-year totals
// @Tags			Bills
// @Produce		json
// @Success		200		{object}	ProjectionResponse
// @Failure		400		{object}	ProjectionResponse
// @Failure		500		{object}	ProjectionResponse
// @Param			year	query		int	false	"The year to project. Defaults to the current year."
// @Router			/v1/bills/projection [get]
func GetBillProjection(c *gin.Context) {
	year := time.Now().Year()

	if yearString, ok := c.GetQuery("year"); ok {
		parsed, err := strconv.Atoi(yearString)
		if err != nil || parsed < 1000 || parsed > 9999 {
			e := errProjectionYearInvalid.Error()
			c.JSON(http.StatusBadRequest, ProjectionResponse{
				Error: &e,
			})
			return
		}

		year = parsed
	}

	var bills []models.Bill
	err := models.DB.Where("archived = ?", false).Find(&bills).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ProjectionResponse{
			Error: &e,
		})
		return
	}

	projection := forecast.Project(year, bills)
	c.JSON(http.StatusOK, ProjectionResponse{Data: &projection})
}

// @Summary		Get bill
// @Description	Returns a specific bill
// @Tags			Bills
// @Produce		json
// @Success		200	{object}	BillResponse
// @Failure		400	{object}	BillResponse
// @Failure		404	{object}	BillResponse
// @Failure		500	{object}	BillResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/bills/{id} [get]
func GetBill(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BillResponse{
			Error: &e,
		})
		return
	}

	var bill models.Bill
	err = models.DB.First(&bill, uri.ID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BillResponse{
			Error: &e,
		})
		return
	}

	apiResource := newBill(c, bill)
	c.JSON(http.StatusOK, BillResponse{Data: &apiResource})
}

// @Summary		Update bill
// @Description	Updates an existing bill. Only values to be updated need to be specified.
// @Tags			Bills
// @Accept			json
// @Produce		json
// @Success		200		{object}	BillResponse
// @Failure		400		{object}	BillResponse
// @Failure		404		{object}	BillResponse
// @Failure		500		{object}	BillResponse
// @Param			id		path		URIID			true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			bill	body		BillEditable	true	"Bill"
// @Router			/v1/bills/{id} [patch]
func UpdateBill(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BillResponse{
			Error: &e,
		})
		return
	}

	var bill models.Bill
	err = models.DB.First(&bill, uri.ID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BillResponse{
			Error: &e,
		})
		return
	}

	// Get the fields that are set to be updated
	updateFields, err := httputil.GetBodyFields(c, BillEditable{})
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BillResponse{
			Error: &e,
		})
		return
	}

	// Bind the data for the patch
	var data BillEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BillResponse{
			Error: &e,
		})
		return
	}

	err = models.DB.Model(&bill).Select("", updateFields...).Updates(data.model()).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BillResponse{
			Error: &e,
		})
		return
	}

	apiResource := newBill(c, bill)
	c.JSON(http.StatusOK, BillResponse{Data: &apiResource})
}

// @Summary		Delete bill
// @Description	Deletes a bill
// @Tags			Bills
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/bills/{id} [delete]
func DeleteBill(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	var bill models.Bill
	err = models.DB.First(&bill, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.Delete(&bill).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
