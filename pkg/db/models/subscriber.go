package models

import (
	"time"

	"github.com/google/uuid"
)

// Subscriber is a newsletter signup. Insert-if-absent by email.
type Subscriber struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Email     string    `gorm:"column:email;type:text;not null;uniqueIndex"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
