package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dlotsss/brondau-server/internal/entity"
)

func newRestaurantFake() *fakeRestaurantRepo {
	return &fakeRestaurantRepo{restaurants: make(map[int64]*entity.Restaurant)}
}

// TestCreateRestaurantValidatesHours тестирует валидацию часов работы
func TestCreateRestaurantValidatesHours(t *testing.T) {
	svc := NewRestaurantService(newRestaurantFake())
	ctx := context.Background()

	tests := []struct {
		name    string
		starts  string
		ends    string
		wantErr bool
	}{
		{name: "both empty falls back to defaults", starts: "", ends: ""},
		{name: "valid day shift", starts: "10:00", ends: "23:00"},
		{name: "valid overnight shift", starts: "22:00", ends: "03:00"},
		{name: "bad hour", starts: "25:00", ends: "23:00", wantErr: true},
		{name: "bad format", starts: "10am", ends: "23:00", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateRestaurant(ctx, &CreateRestaurantRequest{
				Name:       "Eterna",
				WorkStarts: tt.starts,
				WorkEnds:   tt.ends,
			})
			if tt.wantErr {
				assert.ErrorIs(t, err, entity.ErrInvalidWorkHours)
				return
			}
			assert.NoError(t, err)
		})
	}
}

// TestUpdateHoursValidation: кривые часы не должны попасть в хранилище
func TestUpdateHoursValidation(t *testing.T) {
	repo := newRestaurantFake()
	repo.restaurants[1] = &entity.Restaurant{ID: 1, Name: "Eterna", WorkStarts: "10:00", WorkEnds: "23:00"}
	svc := NewRestaurantService(repo)
	ctx := context.Background()

	bad := "24:99"
	_, err := svc.UpdateHours(ctx, 1, entity.HoursPatch{WorkStarts: &bad})
	assert.ErrorIs(t, err, entity.ErrInvalidWorkHours)

	good := "09:00"
	_, err = svc.UpdateHours(ctx, 1, entity.HoursPatch{WorkStarts: &good})
	assert.NoError(t, err)
}

// TestUpdateLayoutNoopPatch: пустой патч не трогает хранилище и
// возвращает текущее состояние.
func TestUpdateLayoutNoopPatch(t *testing.T) {
	repo := newRestaurantFake()
	repo.restaurants[1] = &entity.Restaurant{ID: 1, Name: "Eterna"}
	svc := NewRestaurantService(repo)

	restaurant, err := svc.UpdateLayout(context.Background(), 1, entity.LayoutPatch{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), restaurant.ID)
}
