package raindrop

import (
	"context"
	"encoding/json"
	"net/http"
)

type FilterService struct {
	client *Client
}

func (s *FilterService) List(ctx context.Context, collectionID *int64) (json.RawMessage, error) {
	return s.client.do(ctx, request{
		method:     http.MethodGet,
		route:      "/filters/{collectionId}",
		pathParams: map[string]string{"collectionId": formatID(collectionOrDefault(collectionID))},
	})
}

// Suggested narrows the facets by a search query when one is given. An empty
// query is still sent as search=.
func (s *FilterService) Suggested(ctx context.Context, collectionID *int64, search *string) (json.RawMessage, error) {
	var query map[string]string
	if search != nil {
		query = map[string]string{"search": *search}
	}
	return s.client.do(ctx, request{
		method:     http.MethodGet,
		route:      "/filters/suggested/{collectionId}",
		pathParams: map[string]string{"collectionId": formatID(collectionOrDefault(collectionID))},
		query:      query,
	})
}
