package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/tedas/villa_api/internal/models"
	"github.com/tedas/villa_api/internal/mykafka"
	"github.com/tedas/villa_api/internal/util"
)

type Response struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type VillaHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
}

func errorResponse(c echo.Context, code int, err error) error {
	return c.JSON(code, Response{
		Status:  "error",
		Message: err.Error(),
	})
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

func (h *VillaHandler) publish(c echo.Context, event map[string]any) {
	if h.Producer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "villa_events", fmt.Sprint(event["villa_id"]), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

func (h *VillaHandler) GetVilla(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	var villa models.Villa
	if err := h.DB.First(&villa, id).Error; err != nil {
		return errorResponse(c, http.StatusNotFound, fmt.Errorf("villa %d not found", id))
	}

	return c.JSON(http.StatusOK, villa)
}

func (h *VillaHandler) GetVillas(c echo.Context) error {
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	occupancy := parseIntDefault(c.QueryParam("occupancy"), 0)

	offset, limit := util.Calculate(page, size)

	q := h.DB.Model(&models.Villa{})
	if occupancy > 0 {
		q = q.Where("occupancy = ?", occupancy)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	var items []models.Villa
	if err := q.Order("id ASC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": items,
		"meta": map[string]any{
			"page":        page,
			"size":        limit,
			"total":       total,
			"total_pages": (total + int64(limit) - 1) / int64(limit),
			"has_prev":    page > 1,
			"has_next":    int64(offset+limit) < total,
		},
	})
}

type villaRequest struct {
	Name      string  `json:"name"`
	Details   string  `json:"details"`
	Rate      float64 `json:"rate"`
	Occupancy int     `json:"occupancy"`
	Sqft      int     `json:"sqft"`
	Amenity   string  `json:"amenity"`
}

func (h *VillaHandler) CreateVilla(c echo.Context) error {
	var req villaRequest
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}

	villa := models.Villa{
		Name:      req.Name,
		Details:   req.Details,
		Rate:      req.Rate,
		Occupancy: req.Occupancy,
		Sqft:      req.Sqft,
		Amenity:   req.Amenity,
	}
	if err := h.DB.Create(&villa).Error; err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	h.publish(c, map[string]any{
		"type":     "villa_created",
		"villa_id": villa.ID,
		"name":     villa.Name,
	})

	return c.JSON(http.StatusCreated, villa)
}

func (h *VillaHandler) PatchVilla(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	// pointer fields distinguish "omitted" from "set to zero"
	var req struct {
		Name      *string  `json:"name"`
		Details   *string  `json:"details"`
		Rate      *float64 `json:"rate"`
		Occupancy *int     `json:"occupancy"`
		Sqft      *int     `json:"sqft"`
		Amenity   *string  `json:"amenity"`
	}
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	var villa models.Villa
	if err := h.DB.First(&villa, id).Error; err != nil {
		return errorResponse(c, http.StatusNotFound, fmt.Errorf("villa %d not found", id))
	}

	if req.Name != nil {
		villa.Name = *req.Name
	}
	if req.Details != nil {
		villa.Details = *req.Details
	}
	if req.Rate != nil {
		villa.Rate = *req.Rate
	}
	if req.Occupancy != nil {
		villa.Occupancy = *req.Occupancy
	}
	if req.Sqft != nil {
		villa.Sqft = *req.Sqft
	}
	if req.Amenity != nil {
		villa.Amenity = *req.Amenity
	}

	if err := h.DB.Save(&villa).Error; err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	h.publish(c, map[string]any{
		"type":     "villa_updated",
		"villa_id": villa.ID,
		"name":     villa.Name,
	})

	return c.JSON(http.StatusOK, villa)
}

func (h *VillaHandler) DeleteVilla(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}
	res := h.DB.Delete(&models.Villa{}, id)
	if res.Error != nil {
		return errorResponse(c, http.StatusInternalServerError, res.Error)
	}
	if res.RowsAffected == 0 {
		return errorResponse(c, http.StatusNotFound, fmt.Errorf("villa %d not found", id))
	}

	h.publish(c, map[string]any{
		"type":     "villa_deleted",
		"villa_id": id,
	})

	return c.NoContent(http.StatusNoContent)
}
