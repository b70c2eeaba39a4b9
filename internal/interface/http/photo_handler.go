package handlers

import (
	"mime"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/photo-gallery/internal/application"
	"github.com/oksasatya/photo-gallery/internal/interface/middleware"
	"github.com/oksasatya/photo-gallery/pkg/response"
)

type PhotoHandler struct {
	Svc    *application.PhotoService
	Logger *logrus.Logger
}

func NewPhotoHandler(svc *application.PhotoService, logger *logrus.Logger) *PhotoHandler {
	return &PhotoHandler{Svc: svc, Logger: logger}
}

func (h *PhotoHandler) List(c *gin.Context) {
	page, err := h.Svc.List(c.Request.Context(), pageParam(c))
	if err != nil {
		writeError(c, h.Logger, err, nil)
		return
	}
	response.Success(c, http.StatusOK, toPhotos(page.Items), "photos", pageMeta(page))
}

func (h *PhotoHandler) Search(c *gin.Context) {
	q := c.Query("q")
	items, err := h.Svc.Search(c.Request.Context(), q)
	if err != nil {
		writeError(c, h.Logger, err, nil)
		return
	}
	response.Success(c, http.StatusOK, toPhotos(items), "search results", gin.H{"query": q, "count": len(items)})
}

func (h *PhotoHandler) Show(c *gin.Context) {
	p, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.Logger, err, nil)
		return
	}
	response.Success(c, http.StatusOK, toPhoto(p), "photo", nil)
}

// Upload expects multipart/form-data with title, description and an image file.
func (h *PhotoHandler) Upload(c *gin.Context) {
	in := application.UploadInput{
		PhotoInput: application.PhotoInput{
			Title:       c.PostForm("title"),
			Description: c.PostForm("description"),
		},
		Size: -1,
	}
	if fh, err := c.FormFile("image"); err == nil {
		f, err := fh.Open()
		if err != nil {
			writeError(c, h.Logger, err, nil)
			return
		}
		defer func() { _ = f.Close() }()
		in.Filename, in.Size, in.Content = fh.Filename, fh.Size, f
	}

	p, err := h.Svc.Upload(c.Request.Context(), middleware.ActorFrom(c), in)
	if err != nil {
		writeError(c, h.Logger, err, in.PhotoInput)
		return
	}
	response.Success(c, http.StatusCreated, toPhoto(p), "Photo uploaded successfully!", nil)
}

func (h *PhotoHandler) Update(c *gin.Context) {
	var in application.PhotoInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badPayload(c, err)
		return
	}
	p, err := h.Svc.Update(c.Request.Context(), middleware.ActorFrom(c), c.Param("id"), in)
	if err != nil {
		writeError(c, h.Logger, err, in)
		return
	}
	response.Success(c, http.StatusOK, toPhoto(p), "Photo updated successfully!", nil)
}

func (h *PhotoHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), middleware.ActorFrom(c), c.Param("id")); err != nil {
		writeError(c, h.Logger, err, nil)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "Photo deleted successfully!", nil)
}

// Download serves the original to signed-in users and a watermarked copy to guests.
func (h *PhotoHandler) Download(c *gin.Context) {
	r, err := h.Svc.Download(c.Request.Context(), middleware.ActorFrom(c), c.Param("id"))
	if err != nil {
		writeError(c, h.Logger, err, nil)
		return
	}
	c.Header("Cache-Control", "private, no-store")
	serveImage(c, r, "attachment")
}

// Watermarked serves the corner marked rendition used by the gallery grid.
func (h *PhotoHandler) Watermarked(c *gin.Context) {
	r, err := h.Svc.Display(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.Logger, err, nil)
		return
	}
	c.Header("Cache-Control", "public, max-age=31536000")
	serveImage(c, r, "inline")
}

func serveImage(c *gin.Context, r *application.Rendered, disposition string) {
	if cd := mime.FormatMediaType(disposition, map[string]string{"filename": r.Filename}); cd != "" {
		c.Header("Content-Disposition", cd)
	}
	c.Header("X-Watermarked", strconv.FormatBool(r.Watermarked))
	c.Data(http.StatusOK, r.ContentType, r.Data)
}
