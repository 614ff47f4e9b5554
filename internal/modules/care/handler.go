package care

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"careboard/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
	now     func() time.Time
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service, now: time.Now}
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	careGroup := protected.Group("/care")
	{
		careGroup.GET("/form", h.GetForm)
		careGroup.POST("/submissions", h.Submit)
		careGroup.GET("/submissions/:unit_id/pending", h.GetPending)
		careGroup.POST("/submissions/:unit_id/approve", h.Approve)
	}
}

func (h *Handler) request(c *gin.Context) Request {
	return Request{ActorEmail: c.GetString("user_email"), Now: h.now()}
}

// GetForm returns pre-fill data for the CARE form.
// @Summary		CARE form pre-fill
// @Tags		CARE
// @Param		unit_id			query	string	true	"Unit serial number"
// @Param		rvp_approval	query	string	false	"True to open the approval view"
// @Success		200	{object}	PrefillResponse
// @Failure		403	{object}	map[string]interface{}
// @Failure		404	{object}	map[string]interface{}
// @Router		/care/form [GET]
func (h *Handler) GetForm(c *gin.Context) {
	unitID := c.Query("unit_id")
	if strings.TrimSpace(unitID) == "" {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "unit_id is required")
		return
	}
	rvpMode := strings.EqualFold(c.Query("rvp_approval"), "true")

	resp, err := h.service.Prefill(c.Request.Context(), h.request(c), unitID, rvpMode)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp)
}

// Submit records a pending submission and notifies the approvers.
// @Summary		Submit a CARE form
// @Tags		CARE
// @Param		request	body	SubmissionForm	true	"Form fields"
// @Success		201	{object}	SubmitResult
// @Failure		400	{object}	map[string]interface{}
// @Failure		404	{object}	map[string]interface{}
// @Router		/care/submissions [POST]
func (h *Handler) Submit(c *gin.Context) {
	var form SubmissionForm
	if err := c.ShouldBindJSON(&form); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	res, err := h.service.Submit(c.Request.Context(), h.request(c), form)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, res)
}

func (h *Handler) GetPending(c *gin.Context) {
	p, err := h.service.Pending(c.Request.Context(), c.Param("unit_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"pending": p})
}

// Approve completes a pending submission. Only RVPs may call it.
// @Summary		Approve a CARE submission
// @Tags		CARE
// @Param		unit_id	path	string			true	"Unit serial number"
// @Param		request	body	SubmissionForm	true	"Form fields including rvp_approval_date and approval_by_rvp"
// @Success		201	{object}	domain.Submission
// @Failure		403	{object}	map[string]interface{}
// @Failure		409	{object}	map[string]interface{}
// @Failure		422	{object}	map[string]interface{}
// @Router		/care/submissions/{unit_id}/approve [POST]
func (h *Handler) Approve(c *gin.Context) {
	var form SubmissionForm
	if err := c.ShouldBindJSON(&form); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	unitID := c.Param("unit_id")
	if form.UnitID == "" {
		form.UnitID = unitID
	}
	if strings.TrimSpace(form.UnitID) != unitID {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "unit_id does not match the path")
		return
	}

	sub, err := h.service.Approve(c.Request.Context(), h.request(c), form)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"submission": sub})
}

func writeError(c *gin.Context, err error) {
	var fields FieldErrors
	switch {
	case errors.As(err, &fields):
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid form fields", map[string]string(fields))
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrUnauthorizedApprover):
		response.Error(c, http.StatusForbidden, "NOT_RVP", "Only an RVP can approve CARE submissions")
	case errors.Is(err, ErrIncompleteApproval):
		response.Error(c, http.StatusUnprocessableEntity, "APPROVAL_INCOMPLETE", "RVP approval date and approver name are required")
	case errors.Is(err, ErrUnitNotFound):
		response.Error(c, http.StatusNotFound, "UNIT_NOT_FOUND", "Unit not found or already submitted")
	case errors.Is(err, ErrNoPendingSubmission):
		response.Error(c, http.StatusNotFound, "NO_PENDING_SUBMISSION", "No pending submission for this unit")
	case errors.Is(err, ErrAlreadyApproved):
		response.Error(c, http.StatusConflict, "ALREADY_APPROVED", "This unit has already been approved")
	case errors.Is(err, ErrApprovalInProgress):
		response.Error(c, http.StatusConflict, "APPROVAL_IN_PROGRESS", "Another approval for this unit is in progress")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to process CARE submission")
	}
}
