package domain

import "time"

type Message struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	User      string    `bson:"user" json:"user" validate:"required,max=50"`
	Message   string    `bson:"message" json:"message" validate:"required,max=100"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}
