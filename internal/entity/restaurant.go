package entity

import (
	"encoding/json"
	"time"
)

// Restaurant хранит план зала как JSON, часы работы — строками "HH:MM".
// Пустые часы означают дефолтную смену 10:00-23:00 (применяется сервисом).
type Restaurant struct {
	ID         int64           `json:"id" db:"id"`
	Name       string          `json:"name" db:"name"`
	Address    string          `json:"address,omitempty" db:"address"`
	PhotoURL   string          `json:"photo_url,omitempty" db:"photo_url"`
	WorkStarts string          `json:"work_starts" db:"work_starts"`
	WorkEnds   string          `json:"work_ends" db:"work_ends"`
	Layout     json.RawMessage `json:"layout" db:"layout"`
	Floors     json.RawMessage `json:"floors,omitempty" db:"floors"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
}

// LayoutPatch явно перечисляет изменяемые поля плана зала:
// nil-поле не трогается, непустое перезаписывается целиком.
type LayoutPatch struct {
	Layout json.RawMessage `json:"layout,omitempty"`
	Floors json.RawMessage `json:"floors,omitempty"`
}

// HoursPatch обновляет часы работы ресторана.
type HoursPatch struct {
	WorkStarts *string `json:"work_starts,omitempty"`
	WorkEnds   *string `json:"work_ends,omitempty"`
}
