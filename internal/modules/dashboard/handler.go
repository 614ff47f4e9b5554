package dashboard

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"careboard/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Handler struct {
	service *Service
	now     func() time.Time
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service, now: time.Now}
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	protected.GET("/regions", h.ListRegions)
	protected.GET("/regions/:region/branches", h.ListBranches)
	protected.GET("/branches/:branch/units", h.ListUnits)
	protected.GET("/branches/:branch/units/export", h.ExportUnits)
	protected.GET("/units", h.LookupUnits)
	protected.GET("/units/:unit_id", h.GetUnit)
}

func (h *Handler) ListRegions(c *gin.Context) {
	regions, err := h.service.Regions(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"regions": regions})
}

func (h *Handler) ListBranches(c *gin.Context) {
	branches, err := h.service.Branches(c.Request.Context(), c.Param("region"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"branches": branches})
}

// ListUnits returns the CARE-eligible units of a branch.
// @Summary		Eligible units for a branch
// @Tags		Dashboard
// @Param		branch	path	string	true	"Branch name"
// @Success		200	{object}	BranchUnitsResponse
// @Failure		404	{object}	map[string]interface{}
// @Router		/branches/{branch}/units [GET]
func (h *Handler) ListUnits(c *gin.Context) {
	ctx := c.Request.Context()
	branch := c.Param("branch")
	now := h.now()

	units, err := h.service.EligibleUnits(ctx, branch, now)
	if err != nil {
		h.writeError(c, err)
		return
	}
	code, err := h.service.BranchCode(ctx, branch)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, BranchUnitsResponse{
		Branch:     branch,
		BranchCode: code,
		Cutoff:     h.service.Params().Cutoff(now).Format(dateLayout),
		Count:      len(units),
		Units:      units,
	})
}

func (h *Handler) ExportUnits(c *gin.Context) {
	branch := c.Param("branch")
	data, err := h.service.ExportEligibleUnits(c.Request.Context(), branch, h.now())
	if err != nil {
		h.writeError(c, err)
		return
	}

	filename := fmt.Sprintf("care_units_%s.xlsx", h.now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}

// LookupUnits serves either view from one query: ?branch= for the eligible
// list or ?unit_id= for a single unit. Exactly one must be given.
// @Summary		Eligible units or a single unit
// @Tags		Dashboard
// @Param		branch	query	string	false	"Branch name"
// @Param		unit_id	query	string	false	"Unit serial number"
// @Success		200	{object}	LookupResult
// @Failure		400	{object}	map[string]interface{}
// @Router		/units [GET]
func (h *Handler) LookupUnits(c *gin.Context) {
	var sel Selector
	if err := c.ShouldBindQuery(&sel); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	result, err := h.service.Lookup(c.Request.Context(), sel, h.now())
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

func (h *Handler) GetUnit(c *gin.Context) {
	unit, err := h.service.UnitDetails(c.Request.Context(), c.Param("unit_id"), h.now())
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"unit": unit})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrBranchNotFound):
		response.Error(c, http.StatusNotFound, "BRANCH_NOT_FOUND", "Branch not found")
	case errors.Is(err, ErrUnitNotFound):
		response.Error(c, http.StatusNotFound, "UNIT_NOT_FOUND", "Unit not found or already submitted")
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load dashboard data")
	}
}
