package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/redconnect/redconnect-api/internal/handler"
	"github.com/redconnect/redconnect-api/internal/middleware"
	"github.com/redconnect/redconnect-api/internal/model"
	"github.com/redconnect/redconnect-api/internal/service/auth"
	apperrors "github.com/redconnect/redconnect-api/pkg/errors"
)

type Handler struct {
	svc *auth.Service
}

func NewHandler(svc *auth.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, authMW *middleware.AuthMiddleware) {
	grp := r.Group("/auth")
	{
		grp.POST("/register/donor", h.RegisterDonor)
		grp.POST("/register/hospital", h.RegisterHospital)
		grp.POST("/register/camp", h.RegisterCamp)
		grp.POST("/register/patient", h.RegisterPatient)
		grp.POST("/login", h.Login)
		grp.POST("/refresh", h.Refresh)

		grp.POST("/logout", authMW.Authenticate(), h.Logout)
		grp.GET("/profile", authMW.Authenticate(), h.Profile)
	}
}

func (h *Handler) RegisterDonor(c *gin.Context) {
	var req model.RegisterDonorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Error(c, apperrors.Validation(err.Error(), err))
		return
	}

	user, err := h.svc.RegisterDonor(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(user))
}

func (h *Handler) RegisterHospital(c *gin.Context) {
	var req model.RegisterHospitalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Error(c, apperrors.Validation(err.Error(), err))
		return
	}

	user, err := h.svc.RegisterHospital(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(user))
}

func (h *Handler) RegisterCamp(c *gin.Context) {
	var req model.RegisterCampRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Error(c, apperrors.Validation(err.Error(), err))
		return
	}

	user, err := h.svc.RegisterCamp(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(user))
}

func (h *Handler) RegisterPatient(c *gin.Context) {
	var req model.RegisterPatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Error(c, apperrors.Validation(err.Error(), err))
		return
	}

	user, err := h.svc.RegisterPatient(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(user))
}

func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Error(c, apperrors.Validation(err.Error(), err))
		return
	}

	tokens, err := h.svc.Login(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(tokens))
}

func (h *Handler) Refresh(c *gin.Context) {
	var req model.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Error(c, apperrors.Validation(err.Error(), err))
		return
	}

	tokens, err := h.svc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(tokens))
}

func (h *Handler) Logout(c *gin.Context) {
	var req model.LogoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Error(c, apperrors.Validation(err.Error(), err))
		return
	}

	if err := h.svc.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse("logged out successfully"))
}

func (h *Handler) Profile(c *gin.Context) {
	profile, err := h.svc.Profile(c.Request.Context(), handler.Claims(c))
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(profile))
}
