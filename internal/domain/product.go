package domain

import "time"

type Product struct {
	ID          int
	Name        string
	Description string
	Price       float64
	Stock       *int
	Image       string
	Category    string
	IsActive    bool
	IsDeleted   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (p Product) AvailableStock() int {
	if p.Stock == nil {
		return 0
	}
	if *p.Stock < 0 {
		return 0
	}
	return *p.Stock
}
