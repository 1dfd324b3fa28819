package domain

import "time"

// Package is a bundled offering (e.g. a gym starter kit). Packages carry no
// stock ceiling: quantity limits apply to products only.
type Package struct {
	ID          int
	Name        string
	Description string
	Price       float64
	Image       string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type TrainingProgram struct {
	ID            int
	Title         string
	Price         float64
	Image         string
	DurationWeeks int
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
