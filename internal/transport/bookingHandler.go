package transport

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dlotsss/brondau-server/internal/entity"
	"github.com/dlotsss/brondau-server/internal/service"
)

type BookingHandler struct {
	bookingService service.BookingService
}

func NewBookingHandler(bookingService service.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

// SuccessResponse представляет успешный ответ
type SuccessResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Meta    interface{} `json:"meta,omitempty"`
}

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Reason  string `json:"reason,omitempty"`
}

// SubmitBooking принимает гостевую заявку на бронирование стола.
// Конфликт по столу или гостю — это 409 с машинным кодом причины,
// а не 500: повтор того же запроса даст тот же исход.
func (h *BookingHandler) SubmitBooking(c *gin.Context) {
	restaurantID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Error: "invalid restaurant id"})
		return
	}

	var req service.SubmitBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Error: err.Error()})
		return
	}

	req.RestaurantID = restaurantID
	req.Origin = service.OriginGuest

	booking, err := h.bookingService.SubmitBooking(c.Request.Context(), &req)
	if err != nil {
		h.writeBookingError(c, err)
		return
	}

	c.JSON(http.StatusCreated, SuccessResponse{
		Success: true,
		Message: "Booking request accepted",
		Data:    booking,
	})
}

// SubmitStaffBooking создает бронь от имени персонала: проверки
// приёма пропускаются, бронь сразу подтверждена.
func (h *BookingHandler) SubmitStaffBooking(c *gin.Context) {
	restaurantID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Error: "invalid restaurant id"})
		return
	}

	var req service.SubmitBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Error: err.Error()})
		return
	}

	req.RestaurantID = restaurantID
	req.Origin = service.OriginStaff

	booking, err := h.bookingService.SubmitBooking(c.Request.Context(), &req)
	if err != nil {
		h.writeBookingError(c, err)
		return
	}

	c.JSON(http.StatusCreated, SuccessResponse{
		Success: true,
		Message: "Booking created",
		Data:    booking,
	})
}

// UpdateStatus переводит бронь в новый статус жизненного цикла.
func (h *BookingHandler) UpdateStatus(c *gin.Context) {
	bookingID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Error: "invalid booking id"})
		return
	}

	var patch entity.StatusPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Error: err.Error()})
		return
	}

	booking, err := h.bookingService.UpdateBookingStatus(c.Request.Context(), bookingID, patch)
	if err != nil {
		h.writeBookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Message: "Booking status updated",
		Data:    booking,
	})
}

func (h *BookingHandler) GetBooking(c *gin.Context) {
	bookingID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Error: "invalid booking id"})
		return
	}

	booking, err := h.bookingService.GetBooking(c.Request.Context(), bookingID)
	if err != nil {
		h.writeBookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Message: "Booking retrieved successfully",
		Data:    booking,
	})
}

// GetRestaurantBookings возвращает брони ресторана с пагинацией
func (h *BookingHandler) GetRestaurantBookings(c *gin.Context) {
	restaurantID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Error: "invalid restaurant id"})
		return
	}

	// Получаем параметры пагинации
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}

	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	// Получаем фильтр по статусу
	status := c.Query("status")

	bookings, err := h.bookingService.GetRestaurantBookings(c.Request.Context(), restaurantID)
	if err != nil {
		h.writeBookingError(c, err)
		return
	}

	// Фильтруем по статусу если указан
	if status != "" {
		bookingStatus := entity.BookingStatus(status)
		if !bookingStatus.Valid() {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Success: false,
				Error:   "Invalid booking status",
			})
			return
		}

		filtered := make([]*entity.Booking, 0)
		for _, booking := range bookings {
			if booking.Status == bookingStatus {
				filtered = append(filtered, booking)
			}
		}
		bookings = filtered
	}

	// Применяем пагинацию
	start := offset
	if start > len(bookings) {
		start = len(bookings)
	}
	end := start + limit
	if end > len(bookings) {
		end = len(bookings)
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Message: "Bookings retrieved successfully",
		Data:    bookings[start:end],
		Meta: map[string]interface{}{
			"restaurant_id": restaurantID,
			"total":         len(bookings),
			"limit":         limit,
			"offset":        offset,
			"has_more":      end < len(bookings),
		},
	})
}

// SweepExpired вручную запускает автоотмену просроченных заявок.
// Тот же путь, что и у планировщика, поэтому запуск в любой момент безопасен.
func (h *BookingHandler) SweepExpired(c *gin.Context) {
	swept, err := h.bookingService.SweepExpired(c.Request.Context())
	if err != nil {
		h.writeBookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Message: "Expired bookings swept",
		Data:    swept,
		Meta: map[string]interface{}{
			"swept": len(swept),
		},
	})
}

// writeBookingError транслирует ошибки сервисного слоя в HTTP-статусы.
func (h *BookingHandler) writeBookingError(c *gin.Context, err error) {
	if ae, ok := entity.AsAdmissionError(err); ok {
		c.JSON(http.StatusConflict, ErrorResponse{
			Success: false,
			Error:   ae.Message,
			Reason:  string(ae.Reason),
		})
		return
	}

	switch {
	case errors.Is(err, entity.ErrBookingNotFound), errors.Is(err, entity.ErrRestaurantNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Success: false, Error: err.Error()})
	case errors.Is(err, entity.ErrInvalidTransition),
		errors.Is(err, entity.ErrInvalidStatus),
		errors.Is(err, entity.ErrPhoneRequired),
		errors.Is(err, entity.ErrEmailRequired),
		errors.Is(err, entity.ErrGuestCountRequired):
		c.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Error: err.Error()})
	case errors.Is(err, entity.ErrTxSerialization), errors.Is(err, entity.ErrStoreTimeout):
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Success: false, Error: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Success: false, Error: err.Error()})
	}
}
