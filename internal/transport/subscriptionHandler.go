package transport

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dlotsss/brondau-server/internal/entity"
	"github.com/dlotsss/brondau-server/internal/service"
)

type SubscriptionHandler struct {
	notificationService service.NotificationService
}

func NewSubscriptionHandler(notificationService service.NotificationService) *SubscriptionHandler {
	return &SubscriptionHandler{notificationService: notificationService}
}

// SubscribeRequest представляет запрос на подписку на уведомления.
// Админ подписывается на ресторан, гость — на свой номер телефона.
type SubscribeRequest struct {
	Endpoint     string `json:"endpoint" binding:"required"`
	ChatID       string `json:"chat_id" binding:"required"`
	Role         string `json:"role" binding:"required,oneof=ADMIN GUEST"`
	RestaurantID *int64 `json:"restaurant_id"`
	GuestPhone   string `json:"guest_phone"`
}

func (h *SubscriptionHandler) Subscribe(c *gin.Context) {
	var req SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Error: err.Error()})
		return
	}

	role := entity.SubscriberRole(req.Role)
	if role == entity.SubscriberRoleAdmin && req.RestaurantID == nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Error: "restaurant_id is required for admin subscription"})
		return
	}
	if role == entity.SubscriberRoleGuest && req.GuestPhone == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Error: "guest_phone is required for guest subscription"})
		return
	}

	sub := &entity.PushSubscription{
		Endpoint:     req.Endpoint,
		ChatID:       req.ChatID,
		Role:         role,
		RestaurantID: req.RestaurantID,
		GuestPhone:   req.GuestPhone,
	}

	if err := h.notificationService.Subscribe(c.Request.Context(), sub); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Success: false, Error: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, SuccessResponse{
		Success: true,
		Message: "Subscription saved",
	})
}

func (h *SubscriptionHandler) Unsubscribe(c *gin.Context) {
	var req struct {
		Endpoint string `json:"endpoint" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Error: err.Error()})
		return
	}

	if err := h.notificationService.Unsubscribe(c.Request.Context(), req.Endpoint); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Success: false, Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Message: "Subscription removed",
	})
}
