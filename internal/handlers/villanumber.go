package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/tedas/villa_api/internal/models"
)

type VillaNumberHandler struct {
	DB *gorm.DB
}

func (h *VillaNumberHandler) GetVillaNumber(c echo.Context) error {
	no, err := strconv.Atoi(c.Param("no"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	var vn models.VillaNumber
	if err := h.DB.First(&vn, "villa_no = ?", no).Error; err != nil {
		return errorResponse(c, http.StatusNotFound, fmt.Errorf("villa number %d not found", no))
	}

	return c.JSON(http.StatusOK, vn)
}

func (h *VillaNumberHandler) GetVillaNumbers(c echo.Context) error {
	var items []models.VillaNumber
	if err := h.DB.Order("villa_no ASC").Find(&items).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, items)
}

type villaNumberRequest struct {
	VillaNo        int    `json:"villa_no"`
	VillaID        int    `json:"villa_id"`
	SpecialDetails string `json:"special_details"`
}

func (h *VillaNumberHandler) CreateVillaNumber(c echo.Context) error {
	var req villaNumberRequest
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}
	if req.VillaNo <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "villa_no must be positive")
	}

	// A room must belong to an existing villa.
	var villa models.Villa
	if err := h.DB.First(&villa, req.VillaID).Error; err != nil {
		return errorResponse(c, http.StatusBadRequest, fmt.Errorf("villa %d does not exist", req.VillaID))
	}

	var existing models.VillaNumber
	if err := h.DB.First(&existing, "villa_no = ?", req.VillaNo).Error; err == nil {
		return echo.NewHTTPError(http.StatusConflict, "villa number already exists")
	}

	vn := models.VillaNumber{
		VillaNo:        req.VillaNo,
		VillaID:        req.VillaID,
		SpecialDetails: req.SpecialDetails,
	}
	if err := h.DB.Create(&vn).Error; err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	return c.JSON(http.StatusCreated, vn)
}

func (h *VillaNumberHandler) PatchVillaNumber(c echo.Context) error {
	no, err := strconv.Atoi(c.Param("no"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	var req struct {
		VillaID        *int    `json:"villa_id"`
		SpecialDetails *string `json:"special_details"`
	}
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	var vn models.VillaNumber
	if err := h.DB.First(&vn, "villa_no = ?", no).Error; err != nil {
		return errorResponse(c, http.StatusNotFound, fmt.Errorf("villa number %d not found", no))
	}

	if req.VillaID != nil && *req.VillaID != vn.VillaID {
		var villa models.Villa
		if err := h.DB.First(&villa, *req.VillaID).Error; err != nil {
			return errorResponse(c, http.StatusBadRequest, fmt.Errorf("villa %d does not exist", *req.VillaID))
		}
		vn.VillaID = *req.VillaID
	}
	if req.SpecialDetails != nil {
		vn.SpecialDetails = *req.SpecialDetails
	}

	if err := h.DB.Save(&vn).Error; err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	return c.JSON(http.StatusOK, vn)
}

func (h *VillaNumberHandler) DeleteVillaNumber(c echo.Context) error {
	no, err := strconv.Atoi(c.Param("no"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}
	res := h.DB.Delete(&models.VillaNumber{}, "villa_no = ?", no)
	if res.Error != nil {
		return errorResponse(c, http.StatusInternalServerError, res.Error)
	}
	if res.RowsAffected == 0 {
		return errorResponse(c, http.StatusNotFound, fmt.Errorf("villa number %d not found", no))
	}
	return c.NoContent(http.StatusNoContent)
}
