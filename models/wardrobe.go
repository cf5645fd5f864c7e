package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WardrobeItem represents a single garment or accessory in a user's wardrobe.
// Category and occasion tags are produced by the image-analysis pipeline on
// upload and can be re-tagged by the user afterwards.
type WardrobeItem struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	User         primitive.ObjectID `bson:"user" json:"user"`
	Name         string             `bson:"name" json:"name"`
	Category     string             `bson:"category" json:"category"`
	Image        string             `bson:"image" json:"image"`
	Tags         []string           `bson:"tags" json:"tags"`
	OccasionTags []string           `bson:"occasionTags" json:"occasionTags"`
	Color        string             `bson:"color,omitempty" json:"color,omitempty"`
	Colors       string             `bson:"colors,omitempty" json:"colors,omitempty"`
	Description  string             `bson:"description,omitempty" json:"description,omitempty"`
	Style        string             `bson:"style,omitempty" json:"style,omitempty"`
	Confidence   float64            `bson:"confidence" json:"confidence"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}
