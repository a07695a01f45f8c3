package service

import (
	"context"
	"encoding/json"
	"fmt"

	repository "github.com/dlotsss/brondau-server/internal/database/postgres"
	"github.com/dlotsss/brondau-server/internal/entity"
	"github.com/dlotsss/brondau-server/internal/pkg/shift"
)

// CreateRestaurantRequest представляет данные нового ресторана
type CreateRestaurantRequest struct {
	Name       string `json:"name" binding:"required"`
	Address    string `json:"address"`
	PhotoURL   string `json:"photo_url"`
	WorkStarts string `json:"work_starts"`
	WorkEnds   string `json:"work_ends"`
}

type restaurantService struct {
	restaurantRepo repository.RestaurantRepository
}

func NewRestaurantService(restaurantRepo repository.RestaurantRepository) RestaurantService {
	return &restaurantService{restaurantRepo: restaurantRepo}
}

func (s *restaurantService) CreateRestaurant(ctx context.Context, req *CreateRestaurantRequest) (*entity.Restaurant, error) {
	if req.WorkStarts != "" || req.WorkEnds != "" {
		if _, err := shift.ParseWorkHours(req.WorkStarts, req.WorkEnds); err != nil {
			return nil, fmt.Errorf("%w: %v", entity.ErrInvalidWorkHours, err)
		}
	}

	restaurant := &entity.Restaurant{
		Name:       req.Name,
		Address:    req.Address,
		PhotoURL:   req.PhotoURL,
		WorkStarts: req.WorkStarts,
		WorkEnds:   req.WorkEnds,
		Layout:     json.RawMessage("[]"),
	}

	if err := s.restaurantRepo.Create(ctx, restaurant); err != nil {
		return nil, err
	}
	return restaurant, nil
}

func (s *restaurantService) GetRestaurant(ctx context.Context, id int64) (*entity.Restaurant, error) {
	return s.restaurantRepo.GetByID(ctx, id)
}

func (s *restaurantService) GetAllRestaurants(ctx context.Context) ([]*entity.Restaurant, error) {
	return s.restaurantRepo.GetAll(ctx)
}

func (s *restaurantService) UpdateLayout(ctx context.Context, id int64, patch entity.LayoutPatch) (*entity.Restaurant, error) {
	if patch.Layout == nil && patch.Floors == nil {
		return s.restaurantRepo.GetByID(ctx, id)
	}
	return s.restaurantRepo.UpdateLayout(ctx, id, patch)
}

// UpdateHours валидирует формат часов до записи: кривые часы сломали бы
// резолв смены для всех будущих заявок.
func (s *restaurantService) UpdateHours(ctx context.Context, id int64, patch entity.HoursPatch) (*entity.Restaurant, error) {
	if patch.WorkStarts != nil {
		if _, err := shift.ParseTimeOfDay(*patch.WorkStarts); err != nil {
			return nil, fmt.Errorf("%w: %v", entity.ErrInvalidWorkHours, err)
		}
	}
	if patch.WorkEnds != nil {
		if _, err := shift.ParseTimeOfDay(*patch.WorkEnds); err != nil {
			return nil, fmt.Errorf("%w: %v", entity.ErrInvalidWorkHours, err)
		}
	}
	return s.restaurantRepo.UpdateHours(ctx, id, patch)
}
