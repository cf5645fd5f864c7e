package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/styleit-app/styleit-backend/config"
	"github.com/styleit-app/styleit-backend/models"
	"github.com/styleit-app/styleit-backend/utils"
)

var defaultCategories = []models.Category{
	{
		ID: "tops", Label: "Tops", Color: "#3b82f6", Order: 1,
		Keywords: []string{"shirt", "t-shirt", "top", "blouse", "sweater", "hoodie", "active shirt", "dress shirt", "polo", "tank top", "tank", "crop top", "cardigan", "vest", "jumper"},
	},
	{
		ID: "bottoms", Label: "Bottoms", Color: "#f59e0b", Order: 2,
		Keywords: []string{"pants", "jeans", "trousers", "shorts", "skirt", "denim", "slacks", "chino", "khaki", "leggings", "capri", "cargo pants"},
	},
	{
		ID: "shoes", Label: "Shoes", Color: "#8b5cf6", Order: 3,
		Keywords: []string{"shoe", "footwear", "sneaker", "boot", "sneakers", "boots", "dress shoe", "oxford", "loafer", "pump", "heel", "sandal", "flip flop", "slipper", "athletic shoe", "running shoe", "trainer"},
	},
	{
		ID: "outerwear", Label: "Outerwear", Color: "#8B9DC3", Order: 4,
		Keywords: []string{"jacket", "coat", "blazer", "windbreaker", "parka", "bomber", "bomber jacket", "trench", "trench coat", "raincoat", "rain coat", "outerwear", "hoodie", "sweater", "cardigan", "vest", "pullover"},
	},
	{
		ID: "accessories", Label: "Accessories", Color: "#6b7280", Order: 5,
		Keywords: []string{"watch", "hat", "cap", "bag", "belt", "tie", "necktie", "bow tie", "bowtie", "sunglasses", "necklace", "ring", "bracelet", "earrings", "earring", "accessory", "jewelry", "backpack", "purse", "handbag", "briefcase", "wallet", "scarf", "gloves"},
	},
}

var defaultOccasions = []models.Occasion{
	{
		ID: "casual", Label: "Casual", Color: "#3b82f6", Order: 1,
		Keywords: []string{"casual", "everyday", "relaxed", "comfortable", "informal", "street", "weekend", "leisure", "sneaker", "canvas", "flat", "slip-on", "t-shirt", "cotton", "jeans", "denim", "hat", "cap", "bag", "backpack", "sunglasses"},
	},
	{
		ID: "formal", Label: "Formal", Color: "#8b5cf6", Order: 2,
		Keywords: []string{"formal", "dress", "elegant", "suit", "tuxedo", "evening", "gala", "black tie", "cocktail", "sophisticated", "dress shoe", "oxford", "loafer", "heel", "pump", "dress shirt", "blouse", "dress pants", "slacks", "trousers", "watch", "belt", "jewelry", "necklace", "ring", "bracelet"},
	},
	{
		ID: "work", Label: "Work", Color: "#f59e0b", Order: 3,
		Keywords: []string{"work", "office", "professional", "business", "corporate", "smart casual", "business casual", "workplace", "dress shoe", "oxford", "loafer", "button", "polo", "blazer", "khaki", "chino", "dress pants", "watch", "belt", "bag", "briefcase"},
	},
	{
		ID: "sporty", Label: "Sporty", Color: "#ef4444", Order: 4,
		Keywords: []string{"sport", "athletic", "active", "gym", "fitness", "running", "workout", "exercise", "training", "sports", "sneaker", "trainer", "shorts", "hat", "cap", "sunglasses"},
	},
}

// SeedTaxonomy upserts the default categories and occasions. Keywords are
// always refreshed so built-in keyword improvements reach existing databases;
// label, color and order only apply on first insert to preserve admin edits.
func SeedTaxonomy(ctx context.Context) error {
	opts := options.Update().SetUpsert(true)

	categories := utils.GetCollection(ColCategories)
	for _, cat := range defaultCategories {
		_, err := categories.UpdateOne(ctx, bson.M{"id": cat.ID}, bson.M{
			"$setOnInsert": bson.M{
				"label":      cat.Label,
				"color":      cat.Color,
				"order":      cat.Order,
				"created_at": time.Now(),
			},
			"$set": bson.M{"keywords": cat.Keywords},
		}, opts)
		if err != nil {
			return fmt.Errorf("seeding category %s: %w", cat.ID, err)
		}
	}

	occasions := utils.GetCollection(ColOccasions)
	for _, occ := range defaultOccasions {
		_, err := occasions.UpdateOne(ctx, bson.M{"id": occ.ID}, bson.M{
			"$setOnInsert": bson.M{
				"label":      occ.Label,
				"color":      occ.Color,
				"order":      occ.Order,
				"created_at": time.Now(),
			},
			"$set": bson.M{"keywords": occ.Keywords},
		}, opts)
		if err != nil {
			return fmt.Errorf("seeding occasion %s: %w", occ.ID, err)
		}
	}

	utils.Log.Info("taxonomy seeded",
		zap.Int("categories", len(defaultCategories)),
		zap.Int("occasions", len(defaultOccasions)))
	return nil
}

// EnsureAdmin creates the default admin account on first boot.
func EnsureAdmin(ctx context.Context) error {
	users := utils.GetCollection(ColUsers)

	err := users.FindOne(ctx, bson.M{"email": config.AdminEmail}).Err()
	if err == nil {
		return nil
	}
	if err != mongo.ErrNoDocuments {
		return fmt.Errorf("checking admin user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(config.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing admin password: %w", err)
	}

	_, err = users.InsertOne(ctx, models.User{
		Email:     config.AdminEmail,
		Password:  string(hash),
		Name:      "Admin",
		Role:      models.RoleAdmin,
		CreatedAt: time.Now(),
	})
	if err != nil {
		return fmt.Errorf("creating admin user: %w", err)
	}

	utils.Log.Warn("default admin user created, change the password in production",
		zap.String("email", config.AdminEmail))
	return nil
}
