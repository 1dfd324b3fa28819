package dto

type ProductDTO struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       *int    `json:"stock"`
	Image       string  `json:"image"`
	Category    string  `json:"category"`
	IsActive    bool    `json:"isActive"`
}

type PackageDTO struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Image       string  `json:"image"`
	IsActive    bool    `json:"isActive"`
}

type TrainingProgramDTO struct {
	ID            int     `json:"id"`
	Title         string  `json:"title"`
	Price         float64 `json:"price"`
	Image         string  `json:"image"`
	DurationWeeks int     `json:"durationWeeks"`
	IsActive      bool    `json:"isActive"`
}

type ProductListDTO struct {
	Products []ProductDTO `json:"products"`
	Total    int          `json:"total"`
	Page     int          `json:"page"`
	PerPage  int          `json:"perPage"`
}
