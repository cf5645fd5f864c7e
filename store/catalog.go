// Package store is the MongoDB persistence layer. It exposes the read surface
// the recommendation engine needs and the write operations the API handlers
// use directly.
package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/styleit-app/styleit-backend/models"
	"github.com/styleit-app/styleit-backend/recommend"
	"github.com/styleit-app/styleit-backend/utils"
)

// Collection names follow the original deployment's pluralized lowercase
// convention so an existing database keeps working.
const (
	ColUsers          = "users"
	ColWardrobeItems  = "wardrobeitems"
	ColOutfits        = "outfits"
	ColPlannedOutfits = "plannedoutfits"
	ColCategories     = "categories"
	ColOccasions      = "occasions"
	ColFeedback       = "feedbacks"
)

// Mongo implements recommend.Catalog and recommend.TaxonomyProvider on top of
// the shared client in utils.
type Mongo struct{}

func NewMongo() *Mongo {
	return &Mongo{}
}

func (m *Mongo) ListWardrobeItems(ctx context.Context, userID string) ([]models.WardrobeItem, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id: %w", err)
	}

	cur, err := utils.GetCollection(ColWardrobeItems).Find(ctx, bson.M{"user": uid},
		options.Find().SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		return nil, fmt.Errorf("querying wardrobe items: %w", err)
	}
	var items []models.WardrobeItem
	if err := cur.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decoding wardrobe items: %w", err)
	}
	return items, nil
}

func (m *Mongo) ListOutfits(ctx context.Context, userID string) ([]models.Outfit, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id: %w", err)
	}

	cur, err := utils.GetCollection(ColOutfits).Find(ctx, bson.M{"user": uid},
		options.Find().SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		return nil, fmt.Errorf("querying outfits: %w", err)
	}
	var outfits []models.Outfit
	if err := cur.All(ctx, &outfits); err != nil {
		return nil, fmt.Errorf("decoding outfits: %w", err)
	}
	return outfits, nil
}

func (m *Mongo) ListPlannedOutfits(ctx context.Context, userID string) ([]models.PlannedOutfit, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id: %w", err)
	}

	cur, err := utils.GetCollection(ColPlannedOutfits).Find(ctx, bson.M{"user": uid},
		options.Find().SetSort(bson.M{"date": 1}))
	if err != nil {
		return nil, fmt.Errorf("querying planned outfits: %w", err)
	}
	var plans []models.PlannedOutfit
	if err := cur.All(ctx, &plans); err != nil {
		return nil, fmt.Errorf("decoding planned outfits: %w", err)
	}
	return plans, nil
}

// Taxonomy loads the current categories and occasions in display order.
func (m *Mongo) Taxonomy(ctx context.Context) (recommend.Taxonomy, error) {
	var tax recommend.Taxonomy

	cur, err := utils.GetCollection(ColCategories).Find(ctx, bson.M{},
		options.Find().SetSort(bson.M{"order": 1}))
	if err != nil {
		return tax, fmt.Errorf("querying categories: %w", err)
	}
	if err := cur.All(ctx, &tax.Categories); err != nil {
		return tax, fmt.Errorf("decoding categories: %w", err)
	}

	cur, err = utils.GetCollection(ColOccasions).Find(ctx, bson.M{},
		options.Find().SetSort(bson.M{"order": 1}))
	if err != nil {
		return tax, fmt.Errorf("querying occasions: %w", err)
	}
	if err := cur.All(ctx, &tax.Occasions); err != nil {
		return tax, fmt.Errorf("decoding occasions: %w", err)
	}

	return tax, nil
}

// FindUserByEmail returns mongo.ErrNoDocuments when the user does not exist.
func (m *Mongo) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := utils.GetCollection(ColUsers).FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (m *Mongo) FindUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := utils.GetCollection(ColUsers).FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

var _ recommend.Catalog = (*Mongo)(nil)
var _ recommend.TaxonomyProvider = (*Mongo)(nil)
