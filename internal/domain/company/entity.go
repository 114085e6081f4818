package company

import "time"

type Company struct {
	ID           string
	Name         string
	IsActive     bool
	MaxEmployees int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
