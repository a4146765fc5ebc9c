package models

import "time"

const (
	MinRating = 1
	MaxRating = 5
)

type Opinion struct {
	ID        int64     `json:"id"`
	OrderID   int64     `json:"order_id"`
	Rating    int       `json:"rating"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type OpinionRequest struct {
	Rating  int    `json:"rating"`
	Content string `json:"content"`
}
