package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yildizm/ColorSeason/internal/capture"
	"github.com/yildizm/ColorSeason/internal/logger"
	"github.com/yildizm/ColorSeason/internal/season"
)

// AnalysisClient sends images to the classification service
type AnalysisClient struct {
	*base
}

// NewAnalysisClient creates an analysis client
func NewAnalysisClient(config *Config, log *logger.Logger) (*AnalysisClient, error) {
	b, err := newBase(config, log)
	if err != nil {
		return nil, err
	}
	return &AnalysisClient{base: b}, nil
}

type colorPayload struct {
	Name string `json:"name"`
	Hex  string `json:"hex"`
	RGB  []int  `json:"rgb,omitempty"`
}

type analysisResponse struct {
	Season   string `json:"season"`
	Palettes struct {
		Primary   []colorPayload `json:"primary"`
		Secondary []colorPayload `json:"secondary"`
	} `json:"palettes"`
	Confidence         float64                   `json:"confidence"`
	AllProbabilities   map[string]float64        `json:"all_probabilities"`
	Description        *season.SeasonDescription `json:"description,omitempty"`
	FaceMaskingApplied bool                      `json:"face_masking_applied"`
}

type errorResponse struct {
	Detail json.RawMessage `json:"detail"`
}

// Analyze uploads img once and returns the classification. It never retries;
// cancelling ctx aborts the request.
func (c *AnalysisClient) Analyze(ctx context.Context, img *capture.EncodedImage) (*season.AnalysisResult, error) {
	if img == nil || len(img.Data) == 0 {
		return nil, season.NewNetworkAnalysisError(errors.New("no image to analyze"))
	}

	requestID := uuid.NewString()
	log := c.log.WithOperation("analyze", requestID)

	body, contentType, err := multipartBody(img)
	if err != nil {
		return nil, season.NewNetworkAnalysisError(err)
	}

	endpoint := c.baseURL.JoinPath(analyzePath)
	if c.config.IncludeDescription {
		q := endpoint.Query()
		q.Set("include_description", "true")
		endpoint.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), body)
	if err != nil {
		return nil, season.NewNetworkAnalysisError(err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		log.WarnWithFields("analysis request failed", []logger.Field{logger.Error(err)})
		return nil, season.NewNetworkAnalysisError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := errorDetail(resp)
		log.WarnWithFields("analysis rejected", []logger.Field{logger.Status(resp.StatusCode), logger.F("detail", msg)})
		return nil, season.NewAnalysisError(msg, resp.StatusCode)
	}

	var payload analysisResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		log.WarnWithFields("undecodable analysis response", []logger.Field{logger.Error(err)})
		return nil, &season.AnalysisError{Message: season.MsgAnalysisFailed, StatusCode: resp.StatusCode, Cause: err}
	}
	if strings.TrimSpace(payload.Season) == "" {
		log.Warn("analysis response without a season")
		return nil, &season.AnalysisError{
			Message:    season.MsgAnalysisFailed,
			StatusCode: resp.StatusCode,
			Cause:      errors.New("response has no season"),
		}
	}

	log.InfoWithFields("analysis complete", []logger.Field{
		logger.F("season", payload.Season),
		logger.F("confidence", payload.Confidence),
		logger.Duration(time.Since(start)),
	})

	return &season.AnalysisResult{
		Season:             payload.Season,
		PrimaryPalette:     projectColors(payload.Palettes.Primary),
		SecondaryPalette:   projectColors(payload.Palettes.Secondary),
		Confidence:         payload.Confidence,
		AllProbabilities:   payload.AllProbabilities,
		Description:        payload.Description,
		FaceMaskingApplied: payload.FaceMaskingApplied,
		RequestID:          requestID,
	}, nil
}

// HealthCheck checks that the service answers on its health endpoint
func (c *AnalysisClient) HealthCheck(ctx context.Context) (map[string]interface{}, error) {
	endpoint := c.baseURL.JoinPath(healthPath)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create health request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("service unreachable at %s: %w", c.config.BaseURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("health check failed with status %d", resp.StatusCode)
	}

	status := make(map[string]interface{})
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode health response: %w", err)
	}
	return status, nil
}

func multipartBody(img *capture.EncodedImage) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	part, err := w.CreateFormFile("image", UploadFilename)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(img.Data); err != nil {
		return nil, "", fmt.Errorf("failed to write image: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finish form: %w", err)
	}
	return body, w.FormDataContentType(), nil
}

// errorDetail extracts the message for a failed response: the detail field
// when present, "Unknown error" when the body is not JSON, and
// "API error: <status>" for JSON without a detail. Structured details
// (validation error lists) are passed through as compact JSON.
func errorDetail(resp *http.Response) string {
	var e errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&e); err != nil {
		return season.MsgUnknownError
	}

	raw := bytes.TrimSpace(e.Detail)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return fmt.Sprintf("API error: %d", resp.StatusCode)
	}

	var detail string
	if err := json.Unmarshal(raw, &detail); err != nil {
		var compact bytes.Buffer
		if json.Compact(&compact, raw) == nil {
			return compact.String()
		}
		return string(raw)
	}
	if detail == "" {
		return fmt.Sprintf("API error: %d", resp.StatusCode)
	}
	return detail
}

func projectColors(in []colorPayload) []season.Color {
	out := make([]season.Color, 0, len(in))
	for _, c := range in {
		out = append(out, season.Color{Name: c.Name, Hex: c.Hex})
	}
	return out
}
