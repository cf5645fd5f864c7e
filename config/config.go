package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

var (
	MongoURI      string
	DatabaseName  string
	Port          string
	JWTSecret     string
	UploadDir     string
	AdminEmail    string
	AdminPassword string

	GeminiAPIKey    string
	VisionAPIKey    string
	RembgServiceURL string
	SendGridAPIKey  string
	FeedbackToEmail string

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string

	AWSRegion     string
	AWSBucketName string
)

// LoadConfig loads environment variables from .env file
func LoadConfig() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	MongoURI = getEnv("MONGODB_URI", "mongodb://localhost:27017/")
	DatabaseName = getEnv("MONGODB_DATABASE", "styleit")
	Port = getEnv("PORT", "5000")
	JWTSecret = os.Getenv("JWT_SECRET")
	UploadDir = getEnv("UPLOAD_DIR", "uploads")

	AdminEmail = getEnv("ADMIN_EMAIL", "admin@styleit.com")
	AdminPassword = getEnv("ADMIN_PASSWORD", "admin123")

	GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	VisionAPIKey = os.Getenv("GOOGLE_VISION_API_KEY")
	RembgServiceURL = getEnv("REMBG_SERVICE_URL", "http://localhost:5001")
	SendGridAPIKey = os.Getenv("SENDGRID_API_KEY")
	FeedbackToEmail = getEnv("FEEDBACK_TO_EMAIL", AdminEmail)

	GoogleClientID = os.Getenv("GOOGLE_CLIENT_ID")
	GoogleClientSecret = os.Getenv("GOOGLE_CLIENT_SECRET")
	GoogleRedirectURL = getEnv("GOOGLE_REDIRECT_URL", "http://localhost:5000/api/auth/google/callback")

	AWSRegion = getEnv("AWS_REGION", "us-east-1")
	AWSBucketName = os.Getenv("AWS_BUCKET_NAME")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
