package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Upload records a generated storage path in the MongoDB manifest
type Upload struct {
	ID           primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Path         string             `json:"path" bson:"path"`
	Category     string             `json:"category" bson:"category"`
	OriginalName string             `json:"original_name" bson:"original_name"`
	OwnerID      uint               `json:"owner_id" bson:"owner_id"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
}
