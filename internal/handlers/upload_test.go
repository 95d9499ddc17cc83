package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/tedas/villa_api/internal/models"
)

func TestUploadVillaImage(t *testing.T) {
	db := initTestDB(t)
	dir := t.TempDir()
	h := &UploadHandler{DB: db, ImageDir: dir}
	e := echo.New()

	villa := models.Villa{Name: "Royal Villa", Rate: 100}
	require.NoError(t, db.Create(&villa).Error)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("image", "pool.jpg")
	require.NoError(t, err)
	_, err = fw.Write([]byte("fake image bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set(echo.HeaderContentType, mw.FormDataContentType())
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(villa.ID))

	require.NoError(t, h.UploadVillaImage(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var updated models.Villa
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	require.Equal(t, fmt.Sprintf("/images/villa_%d.jpg", villa.ID), updated.ImageURL)

	saved, err := os.ReadFile(filepath.Join(dir, fmt.Sprintf("villa_%d.jpg", villa.ID)))
	require.NoError(t, err)
	require.Equal(t, []byte("fake image bytes"), saved)
}

func TestUploadVillaImageRejectsBadType(t *testing.T) {
	db := initTestDB(t)
	h := &UploadHandler{DB: db, ImageDir: t.TempDir()}
	e := echo.New()

	villa := models.Villa{Name: "Royal Villa", Rate: 100}
	require.NoError(t, db.Create(&villa).Error)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("image", "malware.exe")
	require.NoError(t, err)
	_, err = fw.Write([]byte("nope"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set(echo.HeaderContentType, mw.FormDataContentType())
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(villa.ID))

	err = h.UploadVillaImage(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusBadRequest, he.Code)
}
