package raindrop

import (
	"context"
	"encoding/json"
	"net/http"
)

type CollectionService struct {
	client *Client
}

func (s *CollectionService) ListRoot(ctx context.Context) (json.RawMessage, error) {
	return s.client.do(ctx, request{method: http.MethodGet, route: "/collections"})
}

func (s *CollectionService) ListChildren(ctx context.Context) (json.RawMessage, error) {
	return s.client.do(ctx, request{method: http.MethodGet, route: "/collections/childrens"})
}

func (s *CollectionService) Get(ctx context.Context, id int64) (json.RawMessage, error) {
	return s.client.do(ctx, request{
		method:     http.MethodGet,
		route:      "/collection/{id}",
		pathParams: map[string]string{"id": formatID(id)},
	})
}

func (s *CollectionService) Create(ctx context.Context, params CreateCollectionParams) (json.RawMessage, error) {
	return s.client.do(ctx, request{
		method: http.MethodPost,
		route:  "/collection",
		body:   params,
	})
}

func (s *CollectionService) Update(ctx context.Context, id int64, params UpdateCollectionParams) (json.RawMessage, error) {
	return s.client.do(ctx, request{
		method:     http.MethodPut,
		route:      "/collection/{id}",
		pathParams: map[string]string{"id": formatID(id)},
		body:       params,
	})
}

func (s *CollectionService) Delete(ctx context.Context, id int64) (json.RawMessage, error) {
	return s.client.do(ctx, request{
		method:     http.MethodDelete,
		route:      "/collection/{id}",
		pathParams: map[string]string{"id": formatID(id)},
	})
}
