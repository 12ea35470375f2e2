package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pennywise/backend/internal/httputil"
	"github.com/pennywise/backend/internal/models"
	"github.com/pennywise/backend/internal/portfolio"
	pw_uuid "github.com/pennywise/backend/internal/uuid"
)

func RegisterAssetRoutes(r *gin.RouterGroup) {
	{
		r.OPTIONS("", OptionsAssets)
		r.GET("", GetAssets)
		r.POST("", CreateAssets)
	}
	{
		r.OPTIONS("/:id", OptionsAssetDetail)
		r.GET("/:id", GetAsset)
		r.PATCH("/:id", UpdateAsset)
		r.DELETE("/:id", DeleteAsset)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Assets
// @Success		204
// @Router			/v1/assets [options]
func OptionsAssets(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Assets
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/assets/{id} [options]
func OptionsAssetDetail(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.First(&models.Asset{}, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// @Summary		Create assets
// @Description	Creates new assets in the asset catalog
// @Tags			Assets
// @Produce		json
// @Success		201		{object}	AssetCreateResponse
// @Failure		400		{object}	AssetCreateResponse
// @Failure		500		{object}	AssetCreateResponse
// @Param			assets	body		[]AssetEditable	true	"Assets"
// @Router			/v1/assets [post]
func CreateAssets(c *gin.Context) {
	var assets []AssetEditable

	// Bind data and return error if not possible
	err := httputil.BindData(c, &assets)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AssetCreateResponse{
			Error: &e,
		})
		return
	}

	// The final http status. Will be modified when errors occur
	s := http.StatusCreated
	r := AssetCreateResponse{}

	for _, editable := range assets {
		asset := editable.model()
		err = models.DB.Create(&asset).Error
		if err != nil {
			s = r.appendError(err, s)
			continue
		}

		apiResource := newAsset(c, asset)
		r.Data = append(r.Data, AssetResponse{Data: &apiResource})
	}

	c.JSON(s, r)
}

// @Summary		Search assets
// @Description	Searches the asset catalog. Filters and ordering are applied in memory on the full catalog.
// @Tags			Assets
// @Produce		json
// @Success		200	{object}	AssetListResponse
// @Failure		400	{object}	AssetListResponse
// @Failure		500	{object}	AssetListResponse
// @Router			/v1/assets [get]
// @Param			search		query	string		false	"Case-insensitive substring match on name or symbol"
// @Param			types		query	[]string	false	"Asset types to include. Empty means all types."
// @Param			excludeFor	query	string		false	"Exclude assets already allocated in this investment account"
// @Param			popular		query	bool		false	"Only return popular assets"
// @Param			sortBy		query	string		false	"One of name, priceAsc, priceDesc, marketCap, volume, gainers, losers. Defaults to name."
func GetAssets(c *gin.Context) {
	var filter AssetQueryFilter

	if err := c.Bind(&filter); err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, AssetListResponse{
			Error: &s,
		})
		return
	}

	var assets []models.Asset
	err := models.DB.Order("assets.symbol ASC").Find(&assets).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), AssetListResponse{
			Error: &s,
		})
		return
	}

	// Assets already allocated in the target account are excluded from
	// the results so that they cannot be allocated twice
	var exclude []uuid.UUID
	if filter.ExcludeFor != pw_uuid.Nil {
		var account models.InvestmentAccount
		err = models.DB.First(&account, filter.ExcludeFor).Error
		if err != nil {
			s := err.Error()
			c.JSON(status(err), AssetListResponse{
				Error: &s,
			})
			return
		}

		allocations, err := account.ActiveAllocations(models.DB)
		if err != nil {
			s := err.Error()
			c.JSON(status(err), AssetListResponse{
				Error: &s,
			})
			return
		}

		for _, allocation := range allocations {
			exclude = append(exclude, allocation.AssetID)
		}
	}

	assets = portfolio.Search(assets, portfolio.SearchOptions{
		Query:           filter.Search,
		Types:           filter.Types,
		ExcludeAssetIDs: exclude,
		PopularOnly:     filter.Popular,
		SortBy:          filter.SortBy,
	})

	// Transform resources to their API representation
	data := make([]Asset, 0, len(assets))
	for _, asset := range assets {
		data = append(data, newAsset(c, asset))
	}

	c.JSON(http.StatusOK, AssetListResponse{
		Data: data,
	})
}

// @Summary		Get asset
// @Description	Returns a specific asset
// @Tags			Assets
// @Produce		json
// @Success		200	{object}	AssetResponse
// @Failure		400	{object}	AssetResponse
// @Failure		404	{object}	AssetResponse
// @Failure		500	{object}	AssetResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/assets/{id} [get]
func GetAsset(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AssetResponse{
			Error: &e,
		})
		return
	}

	var asset models.Asset
	err = models.DB.First(&asset, uri.ID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AssetResponse{
			Error: &e,
		})
		return
	}

	apiResource := newAsset(c, asset)
	c.JSON(http.StatusOK, AssetResponse{Data: &apiResource})
}

// @Summary		Update asset
// @Description	Updates an existing asset. Only values to be updated need to be specified.
// @Tags			Assets
// @Accept			json
// @Produce		json
// @Success		200		{object}	AssetResponse
// @Failure		400		{object}	AssetResponse
// @Failure		404		{object}	AssetResponse
// @Failure		500		{object}	AssetResponse
// @Param			id		path		URIID			true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			asset	body		AssetEditable	true	"Asset"
// @Router			/v1/assets/{id} [patch]
func UpdateAsset(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AssetResponse{
			Error: &e,
		})
		return
	}

	var asset models.Asset
	err = models.DB.First(&asset, uri.ID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AssetResponse{
			Error: &e,
		})
		return
	}

	// Get the fields that are set to be updated
	updateFields, err := httputil.GetBodyFields(c, AssetEditable{})
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AssetResponse{
			Error: &e,
		})
		return
	}

	// Bind the data for the patch
	var data AssetEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AssetResponse{
			Error: &e,
		})
		return
	}

	err = models.DB.Model(&asset).Select("", updateFields...).Updates(data.model()).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AssetResponse{
			Error: &e,
		})
		return
	}

	apiResource := newAsset(c, asset)
	c.JSON(http.StatusOK, AssetResponse{Data: &apiResource})
}

// @Summary		Delete asset
// @Description	Deletes an asset
// @Tags			Assets
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/assets/{id} [delete]
func DeleteAsset(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	var asset models.Asset
	err = models.DB.First(&asset, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.Delete(&asset).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
