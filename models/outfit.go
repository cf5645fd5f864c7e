package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OutfitItem is a denormalized snapshot of a wardrobe item as it looked when
// an outfit was composed. It carries only display fields plus the source item
// id; it is not interchangeable with a live WardrobeItem.
type OutfitItem struct {
	ItemID   string   `bson:"_id,omitempty" json:"_id,omitempty"`
	Name     string   `bson:"name" json:"name"`
	Category string   `bson:"category" json:"category"`
	Image    string   `bson:"image" json:"image"`
	Tags     []string `bson:"tags" json:"tags"`
}

// Outfit is a saved outfit, either confirmed from a recommendation or
// composed manually by the user.
type Outfit struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	User       primitive.ObjectID `bson:"user" json:"user"`
	Name       string             `bson:"name" json:"name"`
	Items      []OutfitItem       `bson:"items" json:"items"`
	Occasion   string             `bson:"occasion,omitempty" json:"occasion,omitempty"`
	Confidence float64            `bson:"confidence" json:"confidence"`
	LastWorn   *time.Time         `bson:"lastWorn,omitempty" json:"lastWorn,omitempty"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}

// PlannedOutfit assigns an outfit to a calendar date. At most one plan exists
// per user per date; planning the same date again overwrites the existing one.
type PlannedOutfit struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	User      primitive.ObjectID  `bson:"user" json:"user"`
	Date      time.Time           `bson:"date" json:"date"`
	Outfit    *primitive.ObjectID `bson:"outfit,omitempty" json:"outfit,omitempty"`
	Name      string              `bson:"name" json:"name"`
	Occasion  string              `bson:"occasion" json:"occasion"`
	Items     []OutfitItem        `bson:"items" json:"items"`
	Notes     string              `bson:"notes" json:"notes"`
	CreatedAt time.Time           `bson:"createdAt" json:"createdAt"`
}
