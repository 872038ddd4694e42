package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-portal/internal/models"
	appErrors "github.com/noah-isme/sma-portal/pkg/errors"
	"github.com/noah-isme/sma-portal/pkg/response"
)

type recordService interface {
	List(ctx context.Context, kind models.Kind, caller *models.JWTClaims, filter models.ListFilter) ([]models.Record, error)
	Update(ctx context.Context, kind models.Kind, id string, payload map[string]any) (*models.Record, error)
	Delete(ctx context.Context, kind models.Kind, id string) error
}

// RecordHandler serves every record kind under /api/:kind.
type RecordHandler struct {
	service recordService
}

// NewRecordHandler creates a record handler.
func NewRecordHandler(svc recordService) *RecordHandler {
	return &RecordHandler{service: svc}
}

// List godoc
// @Summary List records
// @Description Returns the records of a kind visible to the caller. Staff may filter by grade.
// @Tags Records
// @Produce json
// @Param kind path string true "Record kind" Enums(grades,timetable,assignments,exams,library,fees,transport,messages,profile)
// @Param userType query string false "Role filter" Enums(student,teacher,admin)
// @Param grade query string false "Grade filter, e.g. 9 or All Grades"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /{kind} [get]
func (h *RecordHandler) List(c *gin.Context) {
	kind, ok := kindParam(c)
	if !ok {
		return
	}

	filter := models.ListFilter{Grade: strings.TrimSpace(c.Query("grade"))}
	if raw := c.Query("userType"); raw != "" {
		role, ok := models.ParseRole(raw)
		if !ok {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unknown userType "+raw))
			return
		}
		filter.UserType = role
	}

	records, err := h.service.List(c.Request.Context(), kind, claimsFromContext(c), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, records)
}

// Update godoc
// @Summary Replace a record
// @Description Replaces every field of the record. The id in the body, when present, must match the path.
// @Tags Records
// @Accept json
// @Produce json
// @Param kind path string true "Record kind"
// @Param id path string true "Record id"
// @Param payload body map[string]interface{} true "Full field map"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /{kind}/{id} [put]
func (h *RecordHandler) Update(c *gin.Context) {
	kind, ok := kindParam(c)
	if !ok {
		return
	}

	var payload map[string]any
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid record payload"))
		return
	}

	rec, err := h.service.Update(c.Request.Context(), kind, c.Param("id"), payload)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rec)
}

// Delete godoc
// @Summary Delete a record
// @Tags Records
// @Produce json
// @Param kind path string true "Record kind"
// @Param id path string true "Record id"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /{kind}/{id} [delete]
func (h *RecordHandler) Delete(c *gin.Context) {
	kind, ok := kindParam(c)
	if !ok {
		return
	}

	id := c.Param("id")
	if err := h.service.Delete(c.Request.Context(), kind, id); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"deleted": id})
}

func kindParam(c *gin.Context) (models.Kind, bool) {
	raw := c.Param("kind")
	kind, ok := models.ParseKind(raw)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "unknown record kind "+raw))
		return "", false
	}
	return kind, true
}
