package dto

import "time"

type AddCartItemRequest struct {
	UserID   string `json:"userId"`
	ItemKind string `json:"itemKind"`
	ItemID   int    `json:"itemId"`
}

type ChangeQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type CartEntryDTO struct {
	ID         int64     `json:"id"`
	UserID     string    `json:"userId"`
	ItemKind   string    `json:"itemKind"`
	ItemID     int       `json:"itemId"`
	Title      string    `json:"title"`
	Image      string    `json:"image"`
	UnitPrice  float64   `json:"unitPrice"`
	Quantity   int       `json:"quantity"`
	IsSelected bool      `json:"isSelected"`
	CreatedAt  time.Time `json:"createdAt"`
}

type CartDTO struct {
	Entries []CartEntryDTO `json:"entries"`
	Count   int            `json:"count"`
}

type CartCountDTO struct {
	Count int `json:"count"`
}
