package tools

import (
	"context"
	"encoding/json"

	"raindrop-mcp/internal/infra/raindrop"
)

type RaindropAPI interface {
	List(ctx context.Context, params raindrop.ListRaindropsParams) (json.RawMessage, error)
	Get(ctx context.Context, id int64) (json.RawMessage, error)
	Create(ctx context.Context, params raindrop.CreateRaindropParams) (json.RawMessage, error)
	Update(ctx context.Context, id int64, params raindrop.UpdateRaindropParams) (json.RawMessage, error)
	Delete(ctx context.Context, id int64) (json.RawMessage, error)
}

type CollectionAPI interface {
	ListRoot(ctx context.Context) (json.RawMessage, error)
	ListChildren(ctx context.Context) (json.RawMessage, error)
	Get(ctx context.Context, id int64) (json.RawMessage, error)
	Create(ctx context.Context, params raindrop.CreateCollectionParams) (json.RawMessage, error)
	Update(ctx context.Context, id int64, params raindrop.UpdateCollectionParams) (json.RawMessage, error)
	Delete(ctx context.Context, id int64) (json.RawMessage, error)
}

type TagAPI interface {
	List(ctx context.Context, collectionID *int64) (json.RawMessage, error)
	Delete(ctx context.Context, name string) (json.RawMessage, error)
}

type UserAPI interface {
	Get(ctx context.Context) (json.RawMessage, error)
}

type HighlightAPI interface {
	List(ctx context.Context, raindropID int64) (json.RawMessage, error)
	Create(ctx context.Context, raindropID int64, params raindrop.CreateHighlightParams) (json.RawMessage, error)
	Delete(ctx context.Context, raindropID int64, highlightID string) (json.RawMessage, error)
}

type FilterAPI interface {
	List(ctx context.Context, collectionID *int64) (json.RawMessage, error)
	Suggested(ctx context.Context, collectionID *int64, search *string) (json.RawMessage, error)
}

// Backend groups the resource modules the dispatcher routes to.
type Backend struct {
	Raindrops   RaindropAPI
	Collections CollectionAPI
	Tags        TagAPI
	User        UserAPI
	Highlights  HighlightAPI
	Filters     FilterAPI
}

func NewBackend(client *raindrop.Client) Backend {
	return Backend{
		Raindrops:   client.Raindrops(),
		Collections: client.Collections(),
		Tags:        client.Tags(),
		User:        client.User(),
		Highlights:  client.Highlights(),
		Filters:     client.Filters(),
	}
}

func (b Backend) complete() bool {
	return b.Raindrops != nil && b.Collections != nil && b.Tags != nil &&
		b.User != nil && b.Highlights != nil && b.Filters != nil
}
