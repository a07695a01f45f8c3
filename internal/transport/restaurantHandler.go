package transport

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dlotsss/brondau-server/internal/entity"
	"github.com/dlotsss/brondau-server/internal/service"
)

type RestaurantHandler struct {
	restaurantService service.RestaurantService
}

func NewRestaurantHandler(restaurantService service.RestaurantService) *RestaurantHandler {
	return &RestaurantHandler{restaurantService: restaurantService}
}

func (h *RestaurantHandler) CreateRestaurant(c *gin.Context) {
	var req service.CreateRestaurantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Error: err.Error()})
		return
	}

	restaurant, err := h.restaurantService.CreateRestaurant(c.Request.Context(), &req)
	if err != nil {
		h.writeRestaurantError(c, err)
		return
	}

	c.JSON(http.StatusCreated, SuccessResponse{
		Success: true,
		Message: "Restaurant created",
		Data:    restaurant,
	})
}

func (h *RestaurantHandler) GetRestaurant(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Error: "invalid restaurant id"})
		return
	}

	restaurant, err := h.restaurantService.GetRestaurant(c.Request.Context(), id)
	if err != nil {
		h.writeRestaurantError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Message: "Restaurant retrieved successfully",
		Data:    restaurant,
	})
}

func (h *RestaurantHandler) GetAllRestaurants(c *gin.Context) {
	restaurants, err := h.restaurantService.GetAllRestaurants(c.Request.Context())
	if err != nil {
		h.writeRestaurantError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Message: "Restaurants retrieved successfully",
		Data:    restaurants,
		Meta: map[string]interface{}{
			"total": len(restaurants),
		},
	})
}

// UpdateLayout частично обновляет схему зала: непереданные поля не трогаем.
func (h *RestaurantHandler) UpdateLayout(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Error: "invalid restaurant id"})
		return
	}

	var patch entity.LayoutPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Error: err.Error()})
		return
	}

	restaurant, err := h.restaurantService.UpdateLayout(c.Request.Context(), id, patch)
	if err != nil {
		h.writeRestaurantError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Message: "Restaurant layout updated",
		Data:    restaurant,
	})
}

func (h *RestaurantHandler) UpdateHours(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Error: "invalid restaurant id"})
		return
	}

	var patch entity.HoursPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Error: err.Error()})
		return
	}

	restaurant, err := h.restaurantService.UpdateHours(c.Request.Context(), id, patch)
	if err != nil {
		h.writeRestaurantError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Message: "Restaurant work hours updated",
		Data:    restaurant,
	})
}

func (h *RestaurantHandler) writeRestaurantError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, entity.ErrRestaurantNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Success: false, Error: err.Error()})
	case errors.Is(err, entity.ErrInvalidWorkHours):
		c.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Error: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Success: false, Error: err.Error()})
	}
}
