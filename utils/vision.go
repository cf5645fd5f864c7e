package utils

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/styleit-app/styleit-backend/config"
)

const visionEndpoint = "https://vision.googleapis.com/v1/images:annotate"

// VisionObject is a localized object detection (e.g. "Shirt", 0.92).
type VisionObject struct {
	Name  string
	Score float64
}

// VisionLabel is a whole-image label (e.g. "Denim", 0.88).
type VisionLabel struct {
	Description string
	Score       float64
}

// VisionResult is the subset of the annotate response the wardrobe analyzer
// consumes.
type VisionResult struct {
	Objects []VisionObject
	Labels  []VisionLabel
}

type visionResponse struct {
	Responses []struct {
		LocalizedObjectAnnotations []struct {
			Name  string  `json:"name"`
			Score float64 `json:"score"`
		} `json:"localizedObjectAnnotations"`
		LabelAnnotations []struct {
			Description string  `json:"description"`
			Score       float64 `json:"score"`
		} `json:"labelAnnotations"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	} `json:"responses"`
}

// AnnotateImage runs object localization and label detection on an image via
// the Google Vision REST API. imageData is the raw image bytes.
func AnnotateImage(ctx context.Context, imageData []byte) (*VisionResult, error) {
	if config.VisionAPIKey == "" {
		return nil, fmt.Errorf("VISION_API_KEY is not set")
	}

	payload := map[string]interface{}{
		"requests": []map[string]interface{}{{
			"image": map[string]string{
				"content": base64.StdEncoding.EncodeToString(imageData),
			},
			"features": []map[string]interface{}{
				{"type": "OBJECT_LOCALIZATION", "maxResults": 10},
				{"type": "LABEL_DETECTION", "maxResults": 10},
			},
		}},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		visionEndpoint+"?key="+config.VisionAPIKey, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("vision request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("vision API status %d: %s", resp.StatusCode, respBody)
	}

	var parsed visionResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("parsing vision response: %w", err)
	}
	if len(parsed.Responses) == 0 {
		return nil, fmt.Errorf("empty vision response")
	}
	if parsed.Responses[0].Error != nil {
		return nil, fmt.Errorf("vision API: %s", parsed.Responses[0].Error.Message)
	}

	result := &VisionResult{}
	for _, obj := range parsed.Responses[0].LocalizedObjectAnnotations {
		result.Objects = append(result.Objects, VisionObject{Name: obj.Name, Score: obj.Score})
	}
	for _, label := range parsed.Responses[0].LabelAnnotations {
		result.Labels = append(result.Labels, VisionLabel{Description: label.Description, Score: label.Score})
	}
	return result, nil
}
