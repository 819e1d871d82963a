package raindrop

import (
	"context"
	"encoding/json"
	"net/http"
)

type HighlightService struct {
	client *Client
}

func (s *HighlightService) List(ctx context.Context, raindropID int64) (json.RawMessage, error) {
	return s.client.do(ctx, request{
		method:     http.MethodGet,
		route:      "/raindrop/{id}/highlights",
		pathParams: map[string]string{"id": formatID(raindropID)},
	})
}

func (s *HighlightService) Create(ctx context.Context, raindropID int64, params CreateHighlightParams) (json.RawMessage, error) {
	return s.client.do(ctx, request{
		method:     http.MethodPost,
		route:      "/raindrop/{id}/highlight",
		pathParams: map[string]string{"id": formatID(raindropID)},
		body:       params,
	})
}

func (s *HighlightService) Delete(ctx context.Context, raindropID int64, highlightID string) (json.RawMessage, error) {
	return s.client.do(ctx, request{
		method: http.MethodDelete,
		route:  "/raindrop/{id}/highlight/{highlightId}",
		pathParams: map[string]string{
			"id":          formatID(raindropID),
			"highlightId": highlightID,
		},
	})
}
