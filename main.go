package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/styleit-app/styleit-backend/api"
	"github.com/styleit-app/styleit-backend/config"
	"github.com/styleit-app/styleit-backend/recommend"
	"github.com/styleit-app/styleit-backend/store"
	"github.com/styleit-app/styleit-backend/utils"
)

func main() {
	config.LoadConfig()

	logger, err := utils.InitLogger(os.Getenv("APP_ENV") != "production")
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if err := utils.ConnectMongo(config.MongoURI); err != nil {
		logger.Fatal("connecting to MongoDB", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		utils.DisconnectMongo(ctx)
	}()

	seedCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := store.SeedTaxonomy(seedCtx); err != nil {
		logger.Fatal("seeding taxonomy", zap.Error(err))
	}
	if err := store.EnsureAdmin(seedCtx); err != nil {
		logger.Fatal("creating default admin", zap.Error(err))
	}

	if config.AWSBucketName != "" {
		if err := utils.InitS3(); err != nil {
			logger.Warn("S3 init failed, uploads fall back to local disk", zap.Error(err))
		}
	}

	catalog := store.NewMongo()
	var tips recommend.TipWriter
	if config.GeminiAPIKey != "" {
		tips = utils.NewGeminiTips()
	}
	api.Engine = recommend.NewEngine(catalog, catalog, tips, nil, nil, logger)

	mux := http.NewServeMux()

	// Health and connectivity checks
	mux.HandleFunc("GET /api/health", api.HealthHandler)
	mux.HandleFunc("GET /api/test", api.TestHandler)
	mux.HandleFunc("POST /api/test", api.TestHandler)

	// Auth
	mux.HandleFunc("POST /api/auth/signup", api.SignupHandler)
	mux.HandleFunc("POST /api/auth/login", api.LoginHandler)
	mux.HandleFunc("GET /api/auth/me", api.AuthMiddleware(api.MeHandler))
	mux.HandleFunc("PUT /api/auth/profile", api.AuthMiddleware(api.UpdateProfileHandler))
	mux.HandleFunc("DELETE /api/auth/account", api.AuthMiddleware(api.DeleteAccountHandler))
	mux.HandleFunc("GET /api/auth/google/login", api.GoogleLoginHandler)
	mux.HandleFunc("GET /api/auth/google/callback", api.GoogleCallbackHandler)

	// Wardrobe
	mux.HandleFunc("GET /api/wardrobe", api.AuthMiddleware(api.ListWardrobeHandler))
	mux.HandleFunc("POST /api/wardrobe", api.AuthMiddleware(api.CreateWardrobeItemHandler))
	mux.HandleFunc("PUT /api/wardrobe/{id}", api.AuthMiddleware(api.UpdateWardrobeItemHandler))
	mux.HandleFunc("DELETE /api/wardrobe/{id}", api.AuthMiddleware(api.DeleteWardrobeItemHandler))

	// Outfits
	mux.HandleFunc("GET /api/outfits", api.AuthMiddleware(api.ListOutfitsHandler))
	mux.HandleFunc("POST /api/outfits", api.AuthMiddleware(api.CreateOutfitHandler))
	mux.HandleFunc("DELETE /api/outfits/{id}", api.AuthMiddleware(api.DeleteOutfitHandler))
	mux.HandleFunc("POST /api/outfits/{id}/wear", api.AuthMiddleware(api.WearOutfitHandler))

	// Planner
	mux.HandleFunc("GET /api/planned-outfits", api.AuthMiddleware(api.ListPlannedOutfitsHandler))
	mux.HandleFunc("POST /api/planned-outfits", api.AuthMiddleware(api.PlanOutfitHandler))
	mux.HandleFunc("PUT /api/planned-outfits/{id}", api.AuthMiddleware(api.UpdatePlannedOutfitHandler))
	mux.HandleFunc("DELETE /api/planned-outfits/{id}", api.AuthMiddleware(api.DeletePlannedOutfitHandler))

	// Recommendation engine
	mux.HandleFunc("GET /api/recommend-outfit/{occasion}", api.AuthMiddleware(api.RecommendOutfitHandler))
	mux.HandleFunc("POST /api/recommend-outfit-gemini", api.AuthMiddleware(api.GeminiRecommendHandler))

	// Image pipeline
	mux.HandleFunc("POST /api/analyze-image", api.AnalyzeImageHandler)
	mux.HandleFunc("POST /api/remove-background", api.RemoveBackgroundHandler)

	// Taxonomy
	mux.HandleFunc("GET /api/categories", api.ListCategoriesHandler)
	mux.HandleFunc("GET /api/occasions", api.ListOccasionsHandler)
	mux.HandleFunc("POST /api/admin/categories", api.RequireAdmin(api.CreateCategoryHandler))
	mux.HandleFunc("PUT /api/admin/categories/{id}", api.RequireAdmin(api.UpdateCategoryHandler))
	mux.HandleFunc("DELETE /api/admin/categories/{id}", api.RequireAdmin(api.DeleteCategoryHandler))
	mux.HandleFunc("POST /api/admin/occasions", api.RequireAdmin(api.CreateOccasionHandler))
	mux.HandleFunc("PUT /api/admin/occasions/{id}", api.RequireAdmin(api.UpdateOccasionHandler))
	mux.HandleFunc("DELETE /api/admin/occasions/{id}", api.RequireAdmin(api.DeleteOccasionHandler))

	// Admin
	mux.HandleFunc("GET /api/admin/users", api.RequireAdmin(api.AdminListUsersHandler))
	mux.HandleFunc("DELETE /api/admin/users/{id}", api.RequireAdmin(api.AdminDeleteUserHandler))
	mux.HandleFunc("PUT /api/admin/users/{id}/role", api.RequireAdmin(api.AdminSetRoleHandler))
	mux.HandleFunc("GET /api/admin/stats", api.RequireAdmin(api.AdminStatsHandler))
	mux.HandleFunc("GET /api/admin/users/{userId}/wardrobe", api.RequireAdmin(api.AdminListUserWardrobeHandler))
	mux.HandleFunc("GET /api/admin/users/{userId}/outfits", api.RequireAdmin(api.AdminListUserOutfitsHandler))
	mux.HandleFunc("GET /api/admin/users/{userId}/planned-outfits", api.RequireAdmin(api.AdminListUserPlansHandler))
	mux.HandleFunc("DELETE /api/admin/users/{userId}/wardrobe/{itemId}", api.RequireAdmin(api.AdminDeleteUserWardrobeItemHandler))
	mux.HandleFunc("DELETE /api/admin/users/{userId}/outfits/{outfitId}", api.RequireAdmin(api.AdminDeleteUserOutfitHandler))
	mux.HandleFunc("DELETE /api/admin/users/{userId}/planned-outfits/{outfitId}", api.RequireAdmin(api.AdminDeleteUserPlanHandler))

	// Feedback
	mux.HandleFunc("POST /api/feedback", api.FeedbackHandler)

	// Locally stored uploads
	mux.Handle("/uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(config.UploadDir))))

	handler := api.CORS(api.RequestLogger(mux))

	logger.Info("server starting", zap.String("port", config.Port))
	if err := http.ListenAndServe(":"+config.Port, handler); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}
