package utils

import (
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"

	"github.com/styleit-app/styleit-backend/config"
)

// SendEmail sends an email using SendGrid.
func SendEmail(toName, toEmail, subject, textContent, htmlContent string) error {
	if config.SendGridAPIKey == "" {
		return fmt.Errorf("SENDGRID_API_KEY is not set")
	}

	from := mail.NewEmail("StyleIt", "no-reply@styleit.app")
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, textContent, htmlContent)
	client := sendgrid.NewSendClient(config.SendGridAPIKey)

	response, err := client.Send(message)
	if err != nil {
		Log.Error("sending email", zap.String("to", toEmail), zap.Error(err))
		return err
	}
	if response.StatusCode >= 400 {
		Log.Error("SendGrid API error",
			zap.Int("status", response.StatusCode),
			zap.String("body", response.Body))
		return fmt.Errorf("failed to send email, status code: %d", response.StatusCode)
	}

	Log.Info("email sent", zap.String("to", toEmail), zap.Int("status", response.StatusCode))
	return nil
}
