package raindrop

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
)

type TagService struct {
	client *Client
}

// List returns tags for a collection; nil means all collections.
func (s *TagService) List(ctx context.Context, collectionID *int64) (json.RawMessage, error) {
	return s.client.do(ctx, request{
		method:     http.MethodGet,
		route:      "/tags/{collectionId}",
		pathParams: map[string]string{"collectionId": formatID(collectionOrDefault(collectionID))},
	})
}

// Delete removes a tag everywhere. The name is path-escaped.
func (s *TagService) Delete(ctx context.Context, name string) (json.RawMessage, error) {
	if name == "" {
		return nil, errors.New("tag name is required")
	}
	return s.client.do(ctx, request{
		method:     http.MethodDelete,
		route:      "/tag/{name}",
		pathParams: map[string]string{"name": name},
	})
}
