package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/styleit-app/styleit-backend/config"
	"github.com/styleit-app/styleit-backend/models"
	"github.com/styleit-app/styleit-backend/store"
	"github.com/styleit-app/styleit-backend/utils"
)

type FeedbackRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Message     string `json:"message"`
	ContactBack bool   `json:"contactBack"`
}

// FeedbackHandler stores the feedback and notifies the admin inbox. The mail
// is best-effort; a SendGrid outage never loses the feedback itself.
func FeedbackHandler(w http.ResponseWriter, r *http.Request) {
	var req FeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Message == "" {
		utils.RespondError(w, http.StatusBadRequest, "Message is required")
		return
	}

	feedback := models.Feedback{
		Name:        req.Name,
		Email:       req.Email,
		Message:     req.Message,
		ContactBack: req.ContactBack,
		CreatedAt:   time.Now(),
	}
	if userID := UserIDFromContext(r.Context()); userID != "" {
		if uid, err := primitive.ObjectIDFromHex(userID); err == nil {
			feedback.UserID = uid
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	res, err := utils.GetCollection(store.ColFeedback).InsertOne(ctx, feedback)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to save feedback")
		return
	}
	feedback.ID = res.InsertedID.(primitive.ObjectID)

	if config.FeedbackToEmail != "" {
		go notifyFeedback(feedback)
	}

	utils.RespondJSON(w, http.StatusCreated, map[string]interface{}{
		"message":  "Thanks for the feedback!",
		"feedback": feedback,
	})
}

func notifyFeedback(f models.Feedback) {
	subject := "New StyleIt feedback"
	if f.Name != "" {
		subject += " from " + f.Name
	}
	text := fmt.Sprintf("From: %s <%s>\nContact back: %v\n\n%s", f.Name, f.Email, f.ContactBack, f.Message)
	html := fmt.Sprintf("<p><b>From:</b> %s &lt;%s&gt;</p><p><b>Contact back:</b> %v</p><p>%s</p>",
		f.Name, f.Email, f.ContactBack, f.Message)

	if err := utils.SendEmail("StyleIt Admin", config.FeedbackToEmail, subject, text, html); err != nil {
		utils.Log.Warn("feedback notification failed", zap.Error(err))
	}
}
