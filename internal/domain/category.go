package domain

import "time"

// Category classifies tickets. Names are unique.
type Category struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
