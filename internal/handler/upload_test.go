package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinesaas/movie-booking-api/internal/model"
	"github.com/cinesaas/movie-booking-api/internal/repository"
)

// fakeImageStore keeps assets in memory.
type fakeImageStore struct {
	assets []model.ImageAsset
}

func (f *fakeImageStore) Insert(_ context.Context, a *model.ImageAsset) error {
	f.assets = append(f.assets, *a)
	return nil
}

func (f *fakeImageStore) GetByID(_ context.Context, id string) (model.ImageAsset, error) {
	for _, a := range f.assets {
		if a.ID == id {
			return a, nil
		}
	}
	return model.ImageAsset{}, repository.ErrNotFound
}

func (f *fakeImageStore) List(_ context.Context, clientID uint64, category string, _ int) ([]model.ImageAsset, error) {
	var out []model.ImageAsset
	for _, a := range f.assets {
		if clientID != 0 && a.ClientID != clientID {
			continue
		}
		if category != "" && a.Category != category {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeImageStore) CountByClient(_ context.Context, clientID uint64) (int, error) {
	n := 0
	for _, a := range f.assets {
		if a.ClientID == clientID {
			n++
		}
	}
	return n, nil
}

func (f *fakeImageStore) Delete(_ context.Context, id string) error {
	for i, a := range f.assets {
		if a.ID == id {
			f.assets = append(f.assets[:i], f.assets[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

// fakeClientStore serves one client with a fixed image quota.
type fakeClientStore struct {
	client model.Client
}

func (f *fakeClientStore) GetByID(_ context.Context, id uint64) (model.Client, error) {
	if id == f.client.ID {
		return f.client, nil
	}
	return model.Client{}, repository.ErrNotFound
}

func newUploadTest(t *testing.T, maxImages int) (*UploadHandler, *fakeImageStore) {
	t.Helper()
	images := &fakeImageStore{}
	clients := &fakeClientStore{client: model.Client{ID: 1, Name: "acme", MaxImages: maxImages, IsActive: true}}
	return NewUploadHandler(images, clients, t.TempDir()), images
}

// pngBytes encodes a small valid PNG.
func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func multipartUpload(t *testing.T, path string, fields map[string]string, files map[string][]byte) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for name, content := range files {
		field := "file"
		if path == "/api/uploads/multiple" {
			field = "files"
		}
		fw, err := mw.CreateFormFile(field, name)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set(echo.HeaderContentType, mw.FormDataContentType())
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestUploadImage(t *testing.T) {
	h, images := newUploadTest(t, 10)

	c, rec := multipartUpload(t, "/api/uploads/image",
		map[string]string{"client_id": "1", "category": "poster", "alt_text": "hero shot"},
		map[string][]byte{"poster.png": pngBytes(t, 8, 8)})
	require.NoError(t, h.UploadImage(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp uploadResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "poster.png", resp.Name)
	assert.True(t, strings.HasPrefix(resp.URL, "/uploads/"))

	require.Len(t, images.assets, 1)
	assert.Equal(t, uint64(1), images.assets[0].ClientID)
	assert.Equal(t, "hero shot", images.assets[0].AltText)

	// the file landed on disk under the asset's URL name
	_, err := os.Stat(filepath.Join(h.Dir, filepath.Base(resp.URL)))
	assert.NoError(t, err)
}

func TestUploadImageRejectsBadExtension(t *testing.T) {
	h, images := newUploadTest(t, 10)

	c, rec := multipartUpload(t, "/api/uploads/image",
		map[string]string{"client_id": "1", "category": "poster"},
		map[string][]byte{"malware.exe": []byte("MZ")})
	require.NoError(t, h.UploadImage(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, images.assets)
}

func TestUploadImageRequiresFields(t *testing.T) {
	h, _ := newUploadTest(t, 10)

	c, rec := multipartUpload(t, "/api/uploads/image",
		map[string]string{"category": "poster"},
		map[string][]byte{"a.png": pngBytes(t, 4, 4)})
	require.NoError(t, h.UploadImage(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	c, rec = multipartUpload(t, "/api/uploads/image",
		map[string]string{"client_id": "1"},
		map[string][]byte{"a.png": pngBytes(t, 4, 4)})
	require.NoError(t, h.UploadImage(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadImageUnknownClient(t *testing.T) {
	h, _ := newUploadTest(t, 10)

	c, rec := multipartUpload(t, "/api/uploads/image",
		map[string]string{"client_id": "99", "category": "poster"},
		map[string][]byte{"a.png": pngBytes(t, 4, 4)})
	require.NoError(t, h.UploadImage(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUploadImageQuotaEnforced(t *testing.T) {
	h, images := newUploadTest(t, 1)

	c, rec := multipartUpload(t, "/api/uploads/image",
		map[string]string{"client_id": "1", "category": "poster"},
		map[string][]byte{"a.png": pngBytes(t, 4, 4)})
	require.NoError(t, h.UploadImage(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	c, rec = multipartUpload(t, "/api/uploads/image",
		map[string]string{"client_id": "1", "category": "poster"},
		map[string][]byte{"b.png": pngBytes(t, 4, 4)})
	require.NoError(t, h.UploadImage(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "image limit reached")
	assert.Len(t, images.assets, 1)
}

func TestUploadMultipleSkipsInvalidFiles(t *testing.T) {
	h, images := newUploadTest(t, 10)

	c, rec := multipartUpload(t, "/api/uploads/multiple",
		map[string]string{"client_id": "1", "category": "gallery"},
		map[string][]byte{
			"one.png":  pngBytes(t, 4, 4),
			"bad.tiff": {0x49, 0x49},
		})
	require.NoError(t, h.UploadMultiple(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var results []uploadResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &results))
	require.Len(t, results, 2)

	uploaded, skipped := 0, 0
	for _, r := range results {
		if strings.Contains(r.Message, "skipped") {
			skipped++
			assert.Empty(t, r.ID)
		} else {
			uploaded++
			assert.NotEmpty(t, r.ID)
		}
	}
	assert.Equal(t, 1, uploaded)
	assert.Equal(t, 1, skipped)
	assert.Len(t, images.assets, 1)
}

func TestUploadMultipleQuotaCountsWholeBatch(t *testing.T) {
	h, images := newUploadTest(t, 1)

	c, rec := multipartUpload(t, "/api/uploads/multiple",
		map[string]string{"client_id": "1", "category": "gallery"},
		map[string][]byte{
			"one.png": pngBytes(t, 4, 4),
			"two.png": pngBytes(t, 4, 4),
		})
	require.NoError(t, h.UploadMultiple(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, images.assets, "batch rejected before any file is stored")
}

func TestValidUploadBounds(t *testing.T) {
	ok := &multipart.FileHeader{Filename: "a.jpg", Size: 1024}
	assert.True(t, validUpload(ok))

	tooBig := &multipart.FileHeader{Filename: "a.jpg", Size: maxUploadBytes + 1}
	assert.False(t, validUpload(tooBig))

	empty := &multipart.FileHeader{Filename: "a.jpg", Size: 0}
	assert.False(t, validUpload(empty))

	wrongExt := &multipart.FileHeader{Filename: "a.svg", Size: 1024}
	assert.False(t, validUpload(wrongExt))

	upperExt := &multipart.FileHeader{Filename: "a.JPG", Size: 1024}
	assert.True(t, validUpload(upperExt))
}

func TestDeleteImageRemovesRecordAndFile(t *testing.T) {
	h, images := newUploadTest(t, 10)

	c, rec := multipartUpload(t, "/api/uploads/image",
		map[string]string{"client_id": "1", "category": "poster"},
		map[string][]byte{"a.png": pngBytes(t, 4, 4)})
	require.NoError(t, h.UploadImage(c))
	require.Equal(t, http.StatusCreated, rec.Code)
	var created uploadResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	e := echo.New()
	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	drec := httptest.NewRecorder()
	dc := e.NewContext(req, drec)
	dc.SetParamNames("id")
	dc.SetParamValues(created.ID)
	require.NoError(t, h.DeleteImage(dc))
	assert.Equal(t, http.StatusOK, drec.Code)
	assert.Empty(t, images.assets)

	_, err := os.Stat(filepath.Join(h.Dir, filepath.Base(created.URL)))
	assert.True(t, os.IsNotExist(err))
}
