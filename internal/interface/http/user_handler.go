package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	userapp "github.com/oksasatya/photo-gallery/internal/application"
	"github.com/oksasatya/photo-gallery/internal/interface/middleware"
	"github.com/oksasatya/photo-gallery/pkg/helpers"
	"github.com/oksasatya/photo-gallery/pkg/response"
)

// UserHandler serves registration, sessions and the caller's own account.
type UserHandler struct {
	Svc     *userapp.Service
	Photos  *userapp.PhotoService
	Logger  *logrus.Logger
	Cookies *helpers.Manager
}

func NewUserHandler(svc *userapp.Service, photos *userapp.PhotoService, logger *logrus.Logger, cookieDomain string, cookieSecure bool) *UserHandler {
	return &UserHandler{Svc: svc, Photos: photos, Logger: logger, Cookies: helpers.NewCookie(cookieDomain, cookieSecure)}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type deleteAccountRequest struct {
	Password string `json:"password" binding:"required"`
}

func (h *UserHandler) Register(c *gin.Context) {
	var in userapp.RegisterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badPayload(c, err)
		return
	}
	u, err := h.Svc.Register(c.Request.Context(), in)
	if err != nil {
		in.Password = ""
		writeError(c, h.Logger, err, in)
		return
	}
	pair, err := h.Svc.IssueTokens(c.Request.Context(), u)
	if err != nil {
		writeError(c, h.Logger, err, nil)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success(c, http.StatusCreated, toUser(u), "registered", nil)
}

func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	res, pair, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, h.Logger, err, nil)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success(c, http.StatusOK, res, "login successful", gin.H{"access_expires_at": pair.AccessTokenExpiry, "refresh_expires_at": pair.RefreshTokenExpiry})
}

func (h *UserHandler) Refresh(c *gin.Context) {
	refresh, err := c.Cookie(helpers.RefreshCookie)
	if err != nil || refresh == "" {
		response.Error[any](c, http.StatusUnauthorized, "missing refresh token", nil)
		return
	}
	pair, _, err := h.Svc.Refresh(c.Request.Context(), refresh)
	if errors.Is(err, userapp.ErrSessionUnavailable) {
		writeError(c, h.Logger, err, nil)
		return
	}
	if err != nil {
		response.Error[any](c, http.StatusUnauthorized, "invalid refresh token", nil)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success(c, http.StatusOK, gin.H{"refreshed": true}, "token refreshed", gin.H{"access_expires_at": pair.AccessTokenExpiry, "refresh_expires_at": pair.RefreshTokenExpiry})
}

func (h *UserHandler) Logout(c *gin.Context) {
	h.Svc.Logout(c.Request.Context(), middleware.ActorFrom(c).UserID)
	h.Cookies.Clear(c)
	response.Success(c, http.StatusOK, gin.H{"logged_out": true}, "logged out", nil)
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	u, err := h.Svc.GetProfile(c.Request.Context(), middleware.ActorFrom(c))
	if err != nil {
		writeError(c, h.Logger, err, nil)
		return
	}
	response.Success(c, http.StatusOK, toUser(u), "profile", nil)
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var in userapp.ProfileInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badPayload(c, err)
		return
	}
	u, err := h.Svc.UpdateProfile(c.Request.Context(), middleware.ActorFrom(c), in)
	if err != nil {
		in.Password = ""
		writeError(c, h.Logger, err, in)
		return
	}
	response.Success(c, http.StatusOK, toUser(u), "profile updated", nil)
}

func (h *UserHandler) DeleteAccount(c *gin.Context) {
	var req deleteAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	if err := h.Svc.DeleteAccount(c.Request.Context(), middleware.ActorFrom(c), req.Password); err != nil {
		writeError(c, h.Logger, err, nil)
		return
	}
	h.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, nil, "account deleted", nil)
}

// Dashboard lists the caller's own uploads.
func (h *UserHandler) Dashboard(c *gin.Context) {
	page, err := h.Photos.Dashboard(c.Request.Context(), middleware.ActorFrom(c), pageParam(c))
	if err != nil {
		writeError(c, h.Logger, err, nil)
		return
	}
	response.Success(c, http.StatusOK, toPhotos(page.Items), "dashboard", pageMeta(page))
}
