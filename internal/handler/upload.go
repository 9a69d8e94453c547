package handler

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cinesaas/movie-booking-api/internal/model"
	"github.com/cinesaas/movie-booking-api/internal/repository"
	"github.com/cinesaas/movie-booking-api/internal/utils"
)

// maxUploadBytes caps a single image upload.
const maxUploadBytes = 10 << 20

// maxBatchFiles caps files per multi-upload request.
const maxBatchFiles = 10

// Extensions accepted for upload; everything is re-encoded to JPEG on
// disk regardless.
var allowedImageExt = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".gif": true,
}

// ImageStore is the slice of the asset store the upload handler needs.
// repository.ImageRepo satisfies it.
type ImageStore interface {
	Insert(ctx context.Context, a *model.ImageAsset) error
	GetByID(ctx context.Context, id string) (model.ImageAsset, error)
	List(ctx context.Context, clientID uint64, category string, limit int) ([]model.ImageAsset, error)
	CountByClient(ctx context.Context, clientID uint64) (int, error)
	Delete(ctx context.Context, id string) error
}

// ClientStore resolves tenant quotas for uploads.  repository.ClientRepo
// satisfies it.
type ClientStore interface {
	GetByID(ctx context.Context, id uint64) (model.Client, error)
}

// UploadHandler serves image upload, listing and deletion.  Files live on
// local disk under Dir and are served statically under /uploads.
type UploadHandler struct {
	Images  ImageStore
	Clients ClientStore
	Dir     string
}

func NewUploadHandler(images ImageStore, clients ClientStore, dir string) *UploadHandler {
	return &UploadHandler{Images: images, Clients: clients, Dir: dir}
}

type uploadResp struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	URL     string `json:"url"`
	Message string `json:"message"`
}

func validUpload(fh *multipart.FileHeader) bool {
	if fh.Size <= 0 || fh.Size > maxUploadBytes {
		return false
	}
	return allowedImageExt[strings.ToLower(filepath.Ext(fh.Filename))]
}

// saveUpload writes one validated file to disk, optimizes it, and records
// the asset.  Optimization failures keep the original bytes; the upload
// still succeeds.
func (h *UploadHandler) saveUpload(c echo.Context, fh *multipart.FileHeader, clientID uint64, category, altText string) (uploadResp, error) {
	id, err := utils.RandomHex(16)
	if err != nil {
		return uploadResp{}, err
	}
	filename := id + strings.ToLower(filepath.Ext(fh.Filename))
	path := filepath.Join(h.Dir, filename)

	src, err := fh.Open()
	if err != nil {
		return uploadResp{}, err
	}
	defer src.Close()

	if err := os.MkdirAll(h.Dir, 0o755); err != nil {
		return uploadResp{}, err
	}
	dst, err := os.Create(path)
	if err != nil {
		return uploadResp{}, err
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		_ = os.Remove(path)
		return uploadResp{}, err
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(path)
		return uploadResp{}, err
	}

	size := fh.Size
	if n, err := utils.OptimizeImage(path); err != nil {
		c.Logger().Warnf("image optimize failed for %s: %v", filename, err)
	} else {
		size = n
	}

	if altText == "" {
		altText = fh.Filename
	}
	asset := model.ImageAsset{
		ID:        id,
		ClientID:  clientID,
		Name:      fh.Filename,
		URL:       "/uploads/" + filename,
		AltText:   altText,
		Category:  category,
		SizeBytes: size,
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Images.Insert(ctx, &asset); err != nil {
		_ = os.Remove(path)
		return uploadResp{}, err
	}
	return uploadResp{ID: asset.ID, Name: asset.Name, URL: asset.URL, Message: "image uploaded"}, nil
}

// checkQuota verifies the client exists and has room for n more images.
func (h *UploadHandler) checkQuota(c echo.Context, clientID uint64, n int) (int, string) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	cl, err := h.Clients.GetByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return http.StatusNotFound, "client not found"
		}
		return http.StatusInternalServerError, "query failed"
	}
	have, err := h.Images.CountByClient(ctx, clientID)
	if err != nil {
		return http.StatusInternalServerError, "query failed"
	}
	if have+n > cl.MaxImages {
		return http.StatusForbidden, "image limit reached for subscription tier"
	}
	return 0, ""
}

// UploadImage stores a single image for a client.
func (h *UploadHandler) UploadImage(c echo.Context) error {
	clientID, err := strconv.ParseUint(c.FormValue("client_id"), 10, 64)
	if err != nil || clientID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "client_id required"})
	}
	category := c.FormValue("category")
	if category == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "category required"})
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "file required"})
	}
	if !validUpload(fh) {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "invalid file: only jpg, png, webp and gif under 10MB are accepted",
		})
	}

	if code, msg := h.checkQuota(c, clientID, 1); code != 0 {
		return c.JSON(code, echo.Map{"error": msg})
	}

	resp, err := h.saveUpload(c, fh, clientID, category, c.FormValue("alt_text"))
	if err != nil {
		c.Logger().Errorf("upload failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "upload failed"})
	}
	return c.JSON(http.StatusCreated, resp)
}

// UploadMultiple stores up to ten images in one request.  Invalid files
// are skipped with a per-file message rather than failing the batch.
func (h *UploadHandler) UploadMultiple(c echo.Context) error {
	clientID, err := strconv.ParseUint(c.FormValue("client_id"), 10, 64)
	if err != nil || clientID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "client_id required"})
	}
	category := c.FormValue("category")
	if category == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "category required"})
	}

	form, err := c.MultipartForm()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "multipart form required"})
	}
	files := form.File["files"]
	if len(files) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "files required"})
	}
	if len(files) > maxBatchFiles {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "at most 10 files per upload"})
	}

	if code, msg := h.checkQuota(c, clientID, len(files)); code != 0 {
		return c.JSON(code, echo.Map{"error": msg})
	}

	results := make([]uploadResp, 0, len(files))
	for _, fh := range files {
		if !validUpload(fh) {
			results = append(results, uploadResp{Name: fh.Filename, Message: "skipped: invalid file format or size"})
			continue
		}
		r, err := h.saveUpload(c, fh, clientID, category, "")
		if err != nil {
			c.Logger().Errorf("upload failed for %s: %v", fh.Filename, err)
			results = append(results, uploadResp{Name: fh.Filename, Message: "failed"})
			continue
		}
		results = append(results, r)
	}
	return c.JSON(http.StatusCreated, results)
}

// ListImages returns uploaded assets, optionally filtered by client and
// category.
func (h *UploadHandler) ListImages(c echo.Context) error {
	var clientID uint64
	if s := c.QueryParam("client_id"); s != "" {
		v, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid client_id"})
		}
		clientID = v
	}
	limit := 50
	if s := c.QueryParam("limit"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 && v <= 200 {
			limit = v
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	images, err := h.Images.List(ctx, clientID, c.QueryParam("category"), limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if images == nil {
		images = []model.ImageAsset{}
	}
	return c.JSON(http.StatusOK, echo.Map{"images": images, "total": len(images)})
}

// GetImage returns one asset record.
func (h *UploadHandler) GetImage(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	a, err := h.Images.GetByID(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "image not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, a)
}

// DeleteImage removes the asset record and its file.  A missing file is
// not an error; the record is authoritative.
func (h *UploadHandler) DeleteImage(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	a, err := h.Images.GetByID(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "image not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	if err := h.Images.Delete(ctx, a.ID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete image failed"})
	}
	if name := filepath.Base(a.URL); name != "." && name != "/" {
		if err := os.Remove(filepath.Join(h.Dir, name)); err != nil && !os.IsNotExist(err) {
			c.Logger().Warnf("image file remove failed: %v", err)
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "image deleted"})
}
