package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/mishab-ka/fleetwave-portal-sub002/internal/calendar"
	"github.com/mishab-ka/fleetwave-portal-sub002/internal/http/middleware"
	"github.com/mishab-ka/fleetwave-portal-sub002/internal/model"
	"github.com/mishab-ka/fleetwave-portal-sub002/internal/service"
)

type Handler struct {
	attendance *service.AttendanceService
	exports    *service.ExportService
	log        zerolog.Logger
}

func NewHandler(attendance *service.AttendanceService, exports *service.ExportService, log zerolog.Logger) *Handler {
	return &Handler{attendance: attendance, exports: exports, log: log}
}

func (h *Handler) Register(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	protected := router.Group("/attendance")
	protected.Use(authMiddleware)
	protected.GET("/status", h.getStatus)
	protected.PUT("/overrides", h.setOverride)
	protected.GET("/overrides/history", h.overrideHistory)
	protected.GET("/weekly", h.weeklyGrid)
	protected.GET("/weekly/export", h.exportWeekly)
	protected.GET("/weekly/export/pdf", h.exportWeeklyPDF)
}

type slotQuery struct {
	Vehicle string `form:"vehicle" binding:"required"`
	Date    string `form:"date" binding:"required"`
	Shift   string `form:"shift" binding:"required"`
}

func (h *Handler) getStatus(c *gin.Context) {
	if _, ok := middleware.MustPrincipal(c); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	var query slotQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	date, err := calendar.ParseDate(query.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
		return
	}

	cell, err := h.attendance.GetCell(c.Request.Context(), service.StatusQuery{
		VehicleCode: query.Vehicle,
		Date:        date,
		Shift:       parseShift(query.Shift),
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, cell)
}

type setOverrideRequest struct {
	VehicleCode string `json:"vehicle_code" binding:"required"`
	Date        string `json:"date" binding:"required"`
	Shift       string `json:"shift" binding:"required"`
	Status      string `json:"status" binding:"required"`
	Notes       string `json:"notes"`
}

func (h *Handler) setOverride(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	var req setOverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	date, err := calendar.ParseDate(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
		return
	}

	saved, err := h.attendance.SetOverride(c.Request.Context(), service.SetOverrideInput{
		VehicleCode: req.VehicleCode,
		Date:        date,
		Shift:       parseShift(req.Shift),
		Status:      model.OperatingStatus(strings.ToLower(strings.TrimSpace(req.Status))),
		Notes:       req.Notes,
		Principal:   principal,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

func (h *Handler) overrideHistory(c *gin.Context) {
	if _, ok := middleware.MustPrincipal(c); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	var query slotQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	date, err := calendar.ParseDate(query.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
		return
	}

	revisions, err := h.attendance.OverrideHistory(c.Request.Context(), query.Vehicle, date, parseShift(query.Shift))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": revisions})
}

func (h *Handler) weeklyGrid(c *gin.Context) {
	if _, ok := middleware.MustPrincipal(c); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	input, err := parseWeeklyInput(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid week_offset"})
		return
	}

	grid, err := h.attendance.GetWeeklyGrid(c.Request.Context(), input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, grid)
}

func (h *Handler) exportWeekly(c *gin.Context) {
	h.export(c, service.ExportFormatXLSX)
}

func (h *Handler) exportWeeklyPDF(c *gin.Context) {
	h.export(c, service.ExportFormatPDF)
}

func (h *Handler) export(c *gin.Context, format service.ExportFormat) {
	if _, ok := middleware.MustPrincipal(c); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	input, err := parseWeeklyInput(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid week_offset"})
		return
	}

	result, err := h.exports.ExportWeekly(c.Request.Context(), input, format)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Header("Content-Type", result.ContentType)
	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, result.ContentType, result.Content)
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrStoreUnavailable):
		h.log.Error().Err(err).Str("path", c.FullPath()).Msg("record store unavailable")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": service.ErrStoreUnavailable.Error()})
	default:
		h.log.Error().Err(err).Str("path", c.FullPath()).Msg("attendance request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// parseWeeklyInput reads week_offset and the comma separated vehicles filter. A missing
// vehicles parameter selects every vehicle; an empty one selects none.
func parseWeeklyInput(c *gin.Context) (service.WeeklyGridInput, error) {
	var input service.WeeklyGridInput

	if raw := strings.TrimSpace(c.Query("week_offset")); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil {
			return service.WeeklyGridInput{}, err
		}
		input.WeekOffset = offset
	}

	raw, present := c.GetQuery("vehicles")
	if !present {
		input.AllVehicles = true
		return input, nil
	}
	input.VehicleCodes = strings.Split(raw, ",")
	return input, nil
}

func parseShift(raw string) model.Shift {
	return model.Shift(strings.ToLower(strings.TrimSpace(raw)))
}
