package hospital

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/redconnect/redconnect-api/internal/handler"
	"github.com/redconnect/redconnect-api/internal/model"
	"github.com/redconnect/redconnect-api/internal/service/hospital"
	apperrors "github.com/redconnect/redconnect-api/pkg/errors"
)

type Handler struct {
	svc *hospital.Service
}

func NewHandler(svc *hospital.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	grp := r.Group("/hospital")
	{
		grp.GET("/dashboard", h.Dashboard)

		grp.GET("/stock", h.Stock)
		grp.PUT("/stock", h.UpdateStock)

		grp.GET("/requests", h.PatientRequests)

		grp.POST("/alerts", h.CreateAlert)
		grp.GET("/alerts/responses", h.AlertResponses)
		grp.POST("/alerts/responses/review", h.ReviewAlertResponse)

		grp.GET("/network", h.Network)
		grp.GET("/exchanges/partners", h.Partners)
		grp.GET("/exchanges", h.Exchanges)
		grp.POST("/exchanges", h.CreateExchange)
		grp.POST("/exchanges/respond", h.RespondExchange)
	}
}

func (h *Handler) Dashboard(c *gin.Context) {
	dashboard, err := h.svc.Dashboard(c.Request.Context(), handler.Claims(c).UserID)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(dashboard))
}

func (h *Handler) Stock(c *gin.Context) {
	stock, err := h.svc.Stock(c.Request.Context(), handler.Claims(c).UserID)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(stock))
}

func (h *Handler) UpdateStock(c *gin.Context) {
	var req model.UpdateStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Error(c, apperrors.Validation(err.Error(), err))
		return
	}

	entry, err := h.svc.UpdateStock(c.Request.Context(), handler.Claims(c).UserID, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(entry))
}

func (h *Handler) PatientRequests(c *gin.Context) {
	requests, err := h.svc.PatientRequests(c.Request.Context(), handler.Claims(c).UserID)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(requests))
}

func (h *Handler) CreateAlert(c *gin.Context) {
	var req model.CreateAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Error(c, apperrors.Validation(err.Error(), err))
		return
	}

	alert, err := h.svc.CreateAlert(c.Request.Context(), handler.Claims(c).UserID, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(alert))
}

func (h *Handler) AlertResponses(c *gin.Context) {
	responses, err := h.svc.AlertResponses(c.Request.Context(), handler.Claims(c).UserID)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(responses))
}

func (h *Handler) ReviewAlertResponse(c *gin.Context) {
	var req model.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Error(c, apperrors.Validation(err.Error(), err))
		return
	}

	if err := h.svc.ReviewAlertResponse(c.Request.Context(), handler.Claims(c).UserID, &req); err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse("review recorded"))
}

func (h *Handler) Network(c *gin.Context) {
	hospitals, err := h.svc.Network(c.Request.Context(), handler.Claims(c).UserID)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(hospitals))
}

func (h *Handler) Partners(c *gin.Context) {
	partners, err := h.svc.Partners(c.Request.Context(), handler.Claims(c).UserID)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(partners))
}

func (h *Handler) Exchanges(c *gin.Context) {
	exchanges, err := h.svc.Exchanges(c.Request.Context(), handler.Claims(c).UserID)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(exchanges))
}

func (h *Handler) CreateExchange(c *gin.Context) {
	var req model.CreateExchangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Error(c, apperrors.Validation(err.Error(), err))
		return
	}

	exchange, err := h.svc.CreateExchange(c.Request.Context(), handler.Claims(c).UserID, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(exchange))
}

func (h *Handler) RespondExchange(c *gin.Context) {
	var req model.RespondExchangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Error(c, apperrors.Validation(err.Error(), err))
		return
	}

	exchange, err := h.svc.RespondExchange(c.Request.Context(), handler.Claims(c).UserID, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(exchange))
}
