package models

import "time"

type Season struct {
	ID          int        `json:"id" db:"id"`
	Name        string     `json:"name" db:"name"`
	StartDate   time.Time  `json:"start_date" db:"start_date"`
	EndDate     time.Time  `json:"end_date" db:"end_date"`
	IsActive    bool       `json:"is_active" db:"is_active"`
	ActivatedAt *time.Time `json:"activated_at,omitempty" db:"activated_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}
