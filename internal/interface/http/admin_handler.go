package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/photo-gallery/internal/application"
	"github.com/oksasatya/photo-gallery/internal/interface/middleware"
	"github.com/oksasatya/photo-gallery/pkg/response"
)

type AdminHandler struct {
	Svc    *application.AdminService
	Logger *logrus.Logger
}

func NewAdminHandler(svc *application.AdminService, logger *logrus.Logger) *AdminHandler {
	return &AdminHandler{Svc: svc, Logger: logger}
}

func (h *AdminHandler) Stats(c *gin.Context) {
	st, err := h.Svc.Stats(c.Request.Context(), middleware.ActorFrom(c))
	if err != nil {
		writeError(c, h.Logger, err, nil)
		return
	}
	response.Success(c, http.StatusOK, toStats(st), "stats", nil)
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	page, err := h.Svc.ListUsers(c.Request.Context(), middleware.ActorFrom(c), pageParam(c))
	if err != nil {
		writeError(c, h.Logger, err, nil)
		return
	}
	response.Success(c, http.StatusOK, toUserSummaries(page.Items), "users", pageMeta(page))
}

func (h *AdminHandler) ShowUser(c *gin.Context) {
	u, err := h.Svc.GetUser(c.Request.Context(), middleware.ActorFrom(c), c.Param("id"))
	if err != nil {
		writeError(c, h.Logger, err, nil)
		return
	}
	response.Success(c, http.StatusOK, toUser(u), "user", nil)
}

func (h *AdminHandler) CreateUser(c *gin.Context) {
	var in application.UserInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badPayload(c, err)
		return
	}
	u, err := h.Svc.CreateUser(c.Request.Context(), middleware.ActorFrom(c), in)
	if err != nil {
		in.Password = ""
		writeError(c, h.Logger, err, in)
		return
	}
	response.Success(c, http.StatusCreated, toUser(u), "User created successfully!", nil)
}

func (h *AdminHandler) UpdateUser(c *gin.Context) {
	var in application.UserInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badPayload(c, err)
		return
	}
	u, err := h.Svc.UpdateUser(c.Request.Context(), middleware.ActorFrom(c), c.Param("id"), in)
	if err != nil {
		in.Password = ""
		writeError(c, h.Logger, err, in)
		return
	}
	response.Success(c, http.StatusOK, toUser(u), "User updated successfully!", nil)
}

func (h *AdminHandler) DeleteUser(c *gin.Context) {
	if err := h.Svc.DeleteUser(c.Request.Context(), middleware.ActorFrom(c), c.Param("id")); err != nil {
		writeError(c, h.Logger, err, nil)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "User deleted successfully!", nil)
}

func (h *AdminHandler) ListPhotos(c *gin.Context) {
	page, err := h.Svc.ListPhotos(c.Request.Context(), middleware.ActorFrom(c), pageParam(c))
	if err != nil {
		writeError(c, h.Logger, err, nil)
		return
	}
	response.Success(c, http.StatusOK, toPhotos(page.Items), "photos", pageMeta(page))
}

func (h *AdminHandler) ShowPhoto(c *gin.Context) {
	p, err := h.Svc.GetPhoto(c.Request.Context(), middleware.ActorFrom(c), c.Param("id"))
	if err != nil {
		writeError(c, h.Logger, err, nil)
		return
	}
	response.Success(c, http.StatusOK, toPhoto(p), "photo", nil)
}

func (h *AdminHandler) UpdatePhoto(c *gin.Context) {
	var in application.PhotoInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badPayload(c, err)
		return
	}
	p, err := h.Svc.UpdatePhoto(c.Request.Context(), middleware.ActorFrom(c), c.Param("id"), in)
	if err != nil {
		writeError(c, h.Logger, err, in)
		return
	}
	response.Success(c, http.StatusOK, toPhoto(p), "Photo updated successfully!", nil)
}

func (h *AdminHandler) DeletePhoto(c *gin.Context) {
	if err := h.Svc.DeletePhoto(c.Request.Context(), middleware.ActorFrom(c), c.Param("id")); err != nil {
		writeError(c, h.Logger, err, nil)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "Photo deleted successfully!", nil)
}
