package post

import (
	"time"

	"github.com/google/uuid"
)

type Post struct {
	ID        uuid.UUID `json:"id"`
	AccountID uuid.UUID `json:"user"`
	Text      string    `json:"text"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"date"`
}
