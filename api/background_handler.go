package api

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/styleit-app/styleit-backend/config"
	"github.com/styleit-app/styleit-backend/utils"
)

// RemoveBackgroundHandler proxies an image to the external rembg microservice
// and streams back the cutout PNG. Accepts either a JSON body with base64
// imageData or a multipart "image" file.
func RemoveBackgroundHandler(w http.ResponseWriter, r *http.Request) {
	if config.RembgServiceURL == "" {
		utils.RespondError(w, http.StatusServiceUnavailable, "Background removal service not configured")
		return
	}

	var (
		imageBytes  []byte
		filename    = "image.jpg"
		contentType = "image/jpeg"
	)

	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var req struct {
			ImageData string `json:"imageData"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ImageData == "" {
			utils.RespondError(w, http.StatusBadRequest, "Image data is required")
			return
		}
		decoded, err := base64.StdEncoding.DecodeString(req.ImageData)
		if err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid base64 image data")
			return
		}
		imageBytes = decoded
	} else {
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Error processing image file")
			return
		}
		file, header, err := r.FormFile("image")
		if err != nil {
			utils.RespondError(w, http.StatusBadRequest, "No image file provided")
			return
		}
		defer file.Close()
		imageBytes, err = io.ReadAll(file)
		if err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Error reading image file")
			return
		}
		filename = header.Filename
		if ct := header.Header.Get("Content-Type"); ct != "" {
			contentType = ct
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
	defer cancel()

	processed, err := forwardToRembg(ctx, imageBytes, filename, contentType)
	if err != nil {
		utils.Log.Error("rembg proxy failed", zap.Error(err))
		utils.RespondError(w, http.StatusInternalServerError, "Background removal failed")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(processed)
}

func forwardToRembg(ctx context.Context, image []byte, filename, contentType string) ([]byte, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="image"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(image); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		strings.TrimSuffix(config.RembgServiceURL, "/")+"/remove-background", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	client := &http.Client{Timeout: 60 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &rembgError{status: resp.StatusCode, body: string(payload)}
	}
	return io.ReadAll(resp.Body)
}

type rembgError struct {
	status int
	body   string
}

func (e *rembgError) Error() string {
	return "rembg service returned status " + http.StatusText(e.status) + ": " + e.body
}
