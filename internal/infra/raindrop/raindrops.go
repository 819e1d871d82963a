package raindrop

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"raindrop-mcp/internal/domain"
	"raindrop-mcp/internal/infra/telemetry"
)

const routeRaindrops = "/raindrops/{collectionId}"

type RaindropService struct {
	client *Client
}

// List fetches every raindrop in a collection, walking pages of
// DefaultPageSize until a short page comes back. Pages are requested one at
// a time and items keep their remote order.
func (s *RaindropService) List(ctx context.Context, params ListRaindropsParams) (json.RawMessage, error) {
	collectionID := collectionOrDefault(params.CollectionID)

	items := make([]json.RawMessage, 0, domain.DefaultPageSize)
	pages := 0
	for pageIndex := 0; ; pageIndex++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		query := map[string]string{
			"page":    strconv.Itoa(pageIndex),
			"perpage": strconv.Itoa(domain.DefaultPageSize),
		}
		if params.Search != nil && *params.Search != "" {
			query["search"] = *params.Search
		}
		if params.Sort != nil && *params.Sort != "" {
			query["sort"] = *params.Sort
		}

		raw, err := s.client.do(ctx, request{
			method:     http.MethodGet,
			route:      routeRaindrops,
			pathParams: map[string]string{"collectionId": formatID(collectionID)},
			query:      query,
		})
		if err != nil {
			return nil, err
		}
		pages++

		var current page
		if err := json.Unmarshal(raw, &current); err != nil {
			return nil, fmt.Errorf("decode raindrops page %d: %w", pageIndex, err)
		}
		items = append(items, current.Items...)
		if len(current.Items) < domain.DefaultPageSize {
			break
		}
	}

	s.client.metrics.ObservePages(routeRaindrops, pages)
	telemetry.LoggerWithRequest(ctx, s.client.logger).Debug("raindrops listed",
		zap.Int64("collection_id", collectionID),
		zap.Int("pages", pages),
		zap.Int("items", len(items)),
	)

	return joinItems(items), nil
}

// joinItems concatenates raw items into one JSON array without re-encoding
// them, so the remote bytes come back untouched.
func joinItems(items []json.RawMessage) json.RawMessage {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, item := range items {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.Write(item)
	}
	buf.WriteByte(']')
	return buf.Bytes()
}

func (s *RaindropService) Get(ctx context.Context, id int64) (json.RawMessage, error) {
	return s.client.do(ctx, request{
		method:     http.MethodGet,
		route:      "/raindrop/{id}",
		pathParams: map[string]string{"id": formatID(id)},
	})
}

func (s *RaindropService) Create(ctx context.Context, params CreateRaindropParams) (json.RawMessage, error) {
	return s.client.do(ctx, request{
		method: http.MethodPost,
		route:  "/raindrop",
		body:   params,
	})
}

func (s *RaindropService) Update(ctx context.Context, id int64, params UpdateRaindropParams) (json.RawMessage, error) {
	return s.client.do(ctx, request{
		method:     http.MethodPut,
		route:      "/raindrop/{id}",
		pathParams: map[string]string{"id": formatID(id)},
		body:       params,
	})
}

func (s *RaindropService) Delete(ctx context.Context, id int64) (json.RawMessage, error) {
	return s.client.do(ctx, request{
		method:     http.MethodDelete,
		route:      "/raindrop/{id}",
		pathParams: map[string]string{"id": formatID(id)},
	})
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func collectionOrDefault(id *int64) int64 {
	if id == nil {
		return domain.DefaultCollectionID
	}
	return *id
}
