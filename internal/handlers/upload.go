package handlers

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/tedas/villa_api/internal/models"
)

type UploadHandler struct {
	DB       *gorm.DB
	ImageDir string
}

// UploadVillaImage stores a multipart "image" file on disk and points the
// villa's ImageURL at the served path.
func (h *UploadHandler) UploadVillaImage(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	var villa models.Villa
	if err := h.DB.First(&villa, id).Error; err != nil {
		return errorResponse(c, http.StatusNotFound, fmt.Errorf("villa %d not found", id))
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "image file is required")
	}

	ext := filepath.Ext(fileHeader.Filename)
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp":
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "unsupported image type")
	}

	src, err := fileHeader.Open()
	if err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}
	defer src.Close()

	if err := os.MkdirAll(h.ImageDir, 0o755); err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	name := fmt.Sprintf("villa_%d%s", villa.ID, ext)
	dst, err := os.Create(filepath.Join(h.ImageDir, name))
	if err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	villa.ImageURL = path.Join("/images", name)
	if err := h.DB.Save(&villa).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	return c.JSON(http.StatusOK, villa)
}
