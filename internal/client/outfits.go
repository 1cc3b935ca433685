package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/yildizm/ColorSeason/internal/logger"
	"github.com/yildizm/ColorSeason/internal/season"
)

// OutfitClient fetches clothing images that match a palette
type OutfitClient struct {
	*base
}

// NewOutfitClient creates an outfit client
func NewOutfitClient(config *Config, log *logger.Logger) (*OutfitClient, error) {
	b, err := newBase(config, log)
	if err != nil {
		return nil, err
	}
	return &OutfitClient{base: b}, nil
}

type outfitResponse struct {
	MatchedCount int      `json:"matched_count"`
	Images       []string `json:"images"`
}

// FetchMatches returns the image URLs matching the query's primary colors.
// A gender-filtered request the service rejects as unsupported is retried
// once without the filter.
func (c *OutfitClient) FetchMatches(ctx context.Context, query season.OutfitQuery) ([]string, error) {
	images, status, err := c.fetch(ctx, query)
	if err == nil {
		return images, nil
	}

	if query.Filtered() && filterUnsupported(status) {
		c.log.WarnWithFields("gender filter rejected, falling back to unfiltered outfits", []logger.Field{
			logger.F("gender", string(query.Gender)),
			logger.Status(status),
		})
		unfiltered := season.OutfitQuery{PrimaryHexColors: query.PrimaryHexColors, Gender: season.GenderAll}
		images, _, err = c.fetch(ctx, unfiltered)
		if err == nil {
			return images, nil
		}
	}

	return nil, err
}

func (c *OutfitClient) fetch(ctx context.Context, query season.OutfitQuery) ([]string, int, error) {
	endpoint := c.baseURL.JoinPath(outfitsPath)
	if query.Filtered() {
		q := endpoint.Query()
		q.Set("gender", string(query.Gender))
		endpoint.RawQuery = q.Encode()
	}

	colors := query.PrimaryHexColors
	if colors == nil {
		colors = []string{}
	}
	body, err := json.Marshal(colors)
	if err != nil {
		return nil, 0, season.NewOutfitFetchError(0, fmt.Errorf("failed to marshal colors: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return nil, 0, season.NewOutfitFetchError(0, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, season.NewOutfitFetchError(0, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		cause := errors.New(errorDetail(resp))
		return nil, resp.StatusCode, season.NewOutfitFetchError(resp.StatusCode, cause)
	}

	var payload outfitResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, resp.StatusCode, season.NewOutfitFetchError(resp.StatusCode, fmt.Errorf("failed to decode response: %w", err))
	}

	c.log.DebugWithFields("outfits fetched", []logger.Field{
		logger.Count(len(payload.Images)),
		logger.F("gender", string(query.Gender)),
	})

	if payload.Images == nil {
		return []string{}, resp.StatusCode, nil
	}
	return payload.Images, resp.StatusCode, nil
}

func filterUnsupported(status int) bool {
	switch status {
	case http.StatusBadRequest, http.StatusNotFound, http.StatusUnprocessableEntity:
		return true
	default:
		return false
	}
}
