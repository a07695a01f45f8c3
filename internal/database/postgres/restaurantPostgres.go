package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dlotsss/brondau-server/internal/entity"
)

const restaurantColumns = `
	id, name, address, photo_url, work_starts, work_ends, layout, floors, created_at`

type restaurantRepository struct {
	db *sql.DB
}

func NewRestaurantRepository(db *sql.DB) RestaurantRepository {
	return &restaurantRepository{db: db}
}

func (r *restaurantRepository) Create(ctx context.Context, restaurant *entity.Restaurant) error {
	if restaurant.Layout == nil {
		restaurant.Layout = json.RawMessage("[]")
	}

	query := `
		INSERT INTO restaurants (name, address, photo_url, work_starts, work_ends, layout, floors)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		restaurant.Name,
		nullString(restaurant.Address),
		nullString(restaurant.PhotoURL),
		nullString(restaurant.WorkStarts),
		nullString(restaurant.WorkEnds),
		[]byte(restaurant.Layout),
		nullBytes(restaurant.Floors),
	).Scan(&restaurant.ID, &restaurant.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create restaurant: %w", mapTxError(err))
	}
	return nil
}

func (r *restaurantRepository) GetByID(ctx context.Context, id int64) (*entity.Restaurant, error) {
	query := `SELECT ` + restaurantColumns + ` FROM restaurants WHERE id = $1`

	restaurant, err := scanRestaurant(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrRestaurantNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get restaurant: %w", mapTxError(err))
	}
	return restaurant, nil
}

func (r *restaurantRepository) GetAll(ctx context.Context) ([]*entity.Restaurant, error) {
	query := `SELECT ` + restaurantColumns + ` FROM restaurants ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query restaurants: %w", mapTxError(err))
	}
	defer rows.Close()

	var restaurants []*entity.Restaurant
	for rows.Next() {
		restaurant, err := scanRestaurant(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan restaurant: %w", err)
		}
		restaurants = append(restaurants, restaurant)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating restaurants: %w", err)
	}

	return restaurants, nil
}

// UpdateLayout применяет явный патч: nil-поле не трогается. Никакой
// динамической сборки списка колонок.
func (r *restaurantRepository) UpdateLayout(ctx context.Context, id int64, patch entity.LayoutPatch) (*entity.Restaurant, error) {
	query := `
		UPDATE restaurants
		SET layout = COALESCE($1, layout),
		    floors = COALESCE($2, floors)
		WHERE id = $3
		RETURNING ` + restaurantColumns

	restaurant, err := scanRestaurant(r.db.QueryRowContext(ctx, query,
		nullBytes(patch.Layout), nullBytes(patch.Floors), id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrRestaurantNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update layout: %w", mapTxError(err))
	}
	return restaurant, nil
}

func (r *restaurantRepository) UpdateHours(ctx context.Context, id int64, patch entity.HoursPatch) (*entity.Restaurant, error) {
	query := `
		UPDATE restaurants
		SET work_starts = COALESCE($1, work_starts),
		    work_ends = COALESCE($2, work_ends)
		WHERE id = $3
		RETURNING ` + restaurantColumns

	restaurant, err := scanRestaurant(r.db.QueryRowContext(ctx, query,
		patch.WorkStarts, patch.WorkEnds, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrRestaurantNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update work hours: %w", mapTxError(err))
	}
	return restaurant, nil
}

func scanRestaurant(row rowScanner) (*entity.Restaurant, error) {
	var restaurant entity.Restaurant
	var address, photoURL, starts, ends sql.NullString
	var layout, floors []byte

	err := row.Scan(
		&restaurant.ID,
		&restaurant.Name,
		&address,
		&photoURL,
		&starts,
		&ends,
		&layout,
		&floors,
		&restaurant.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	restaurant.Address = address.String
	restaurant.PhotoURL = photoURL.String
	restaurant.WorkStarts = starts.String
	restaurant.WorkEnds = ends.String
	restaurant.Layout = json.RawMessage(layout)
	if floors != nil {
		restaurant.Floors = json.RawMessage(floors)
	}
	return &restaurant, nil
}

func nullBytes(b json.RawMessage) interface{} {
	if b == nil {
		return nil
	}
	return []byte(b)
}
