package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Category is an admin-managed apparel category. Keywords drive both image
// analysis and slot classification.
type Category struct {
	DocID     primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	ID        string             `bson:"id" json:"id"` // e.g. "tops", "bottoms"
	Label     string             `bson:"label" json:"label"`
	Color     string             `bson:"color" json:"color"`
	Order     int                `bson:"order" json:"order"`
	Keywords  []string           `bson:"keywords" json:"keywords"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
}

// Occasion is an admin-managed occasion type. Keywords always include the
// occasion's own id and label so tag matching never misses the obvious case.
type Occasion struct {
	DocID     primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	ID        string             `bson:"id" json:"id"` // e.g. "casual", "formal"
	Label     string             `bson:"label" json:"label"`
	Color     string             `bson:"color" json:"color"`
	Order     int                `bson:"order" json:"order"`
	Keywords  []string           `bson:"keywords" json:"keywords"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
}
