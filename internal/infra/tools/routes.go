package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"raindrop-mcp/internal/domain"
	"raindrop-mcp/internal/infra/raindrop"
)

type handlerFunc func(ctx context.Context, args json.RawMessage) (json.RawMessage, error)

// bind decodes the validated argument object into T before calling fn.
func bind[T any](fn func(ctx context.Context, args T) (json.RawMessage, error)) handlerFunc {
	return func(ctx context.Context, raw json.RawMessage) (json.RawMessage, error) {
		var args T
		if err := json.Unmarshal(raw, &args); err != nil {
			return nil, domain.E(domain.CodeInvalidArgument, "", fmt.Sprintf("invalid arguments: %v", err), domain.ErrInvalidArgument)
		}
		return fn(ctx, args)
	}
}

type listRaindropsArgs struct {
	CollectionID *int64  `json:"collectionId"`
	Search       *string `json:"search"`
	Sort         *string `json:"sort"`
}

type raindropIDArgs struct {
	RaindropID int64 `json:"raindropId"`
}

type updateRaindropArgs struct {
	RaindropID int64 `json:"raindropId"`
	raindrop.UpdateRaindropParams
}

type collectionIDArgs struct {
	CollectionID int64 `json:"collectionId"`
}

type optionalCollectionArgs struct {
	CollectionID *int64 `json:"collectionId"`
}

type updateCollectionArgs struct {
	CollectionID int64 `json:"collectionId"`
	raindrop.UpdateCollectionParams
}

type deleteTagArgs struct {
	TagName string `json:"tagName"`
}

type createHighlightArgs struct {
	RaindropID int64 `json:"raindropId"`
	raindrop.CreateHighlightParams
}

type deleteHighlightArgs struct {
	RaindropID  int64  `json:"raindropId"`
	HighlightID string `json:"highlightId"`
}

type suggestedFiltersArgs struct {
	CollectionID *int64  `json:"collectionId"`
	Search       *string `json:"search"`
}

type noArgs struct{}

func routingTable(b Backend) map[string]handlerFunc {
	return map[string]handlerFunc{
		ToolGetRaindrops: bind(func(ctx context.Context, a listRaindropsArgs) (json.RawMessage, error) {
			return b.Raindrops.List(ctx, raindrop.ListRaindropsParams{
				CollectionID: a.CollectionID,
				Search:       a.Search,
				Sort:         a.Sort,
			})
		}),
		ToolGetRaindrop: bind(func(ctx context.Context, a raindropIDArgs) (json.RawMessage, error) {
			return b.Raindrops.Get(ctx, a.RaindropID)
		}),
		ToolCreateRaindrop: bind(func(ctx context.Context, a raindrop.CreateRaindropParams) (json.RawMessage, error) {
			return b.Raindrops.Create(ctx, a)
		}),
		ToolUpdateRaindrop: bind(func(ctx context.Context, a updateRaindropArgs) (json.RawMessage, error) {
			return b.Raindrops.Update(ctx, a.RaindropID, a.UpdateRaindropParams)
		}),
		ToolDeleteRaindrop: bind(func(ctx context.Context, a raindropIDArgs) (json.RawMessage, error) {
			return b.Raindrops.Delete(ctx, a.RaindropID)
		}),
		ToolGetCollections: bind(func(ctx context.Context, _ noArgs) (json.RawMessage, error) {
			return b.Collections.ListRoot(ctx)
		}),
		ToolGetChildCollections: bind(func(ctx context.Context, _ noArgs) (json.RawMessage, error) {
			return b.Collections.ListChildren(ctx)
		}),
		ToolGetCollection: bind(func(ctx context.Context, a collectionIDArgs) (json.RawMessage, error) {
			return b.Collections.Get(ctx, a.CollectionID)
		}),
		ToolCreateCollection: bind(func(ctx context.Context, a raindrop.CreateCollectionParams) (json.RawMessage, error) {
			return b.Collections.Create(ctx, a)
		}),
		ToolUpdateCollection: bind(func(ctx context.Context, a updateCollectionArgs) (json.RawMessage, error) {
			return b.Collections.Update(ctx, a.CollectionID, a.UpdateCollectionParams)
		}),
		ToolDeleteCollection: bind(func(ctx context.Context, a collectionIDArgs) (json.RawMessage, error) {
			return b.Collections.Delete(ctx, a.CollectionID)
		}),
		ToolGetTags: bind(func(ctx context.Context, a optionalCollectionArgs) (json.RawMessage, error) {
			return b.Tags.List(ctx, a.CollectionID)
		}),
		ToolDeleteTag: bind(func(ctx context.Context, a deleteTagArgs) (json.RawMessage, error) {
			return b.Tags.Delete(ctx, a.TagName)
		}),
		ToolGetUser: bind(func(ctx context.Context, _ noArgs) (json.RawMessage, error) {
			return b.User.Get(ctx)
		}),
		ToolGetHighlights: bind(func(ctx context.Context, a raindropIDArgs) (json.RawMessage, error) {
			return b.Highlights.List(ctx, a.RaindropID)
		}),
		ToolCreateHighlight: bind(func(ctx context.Context, a createHighlightArgs) (json.RawMessage, error) {
			return b.Highlights.Create(ctx, a.RaindropID, a.CreateHighlightParams)
		}),
		ToolDeleteHighlight: bind(func(ctx context.Context, a deleteHighlightArgs) (json.RawMessage, error) {
			return b.Highlights.Delete(ctx, a.RaindropID, a.HighlightID)
		}),
		ToolGetFilters: bind(func(ctx context.Context, a optionalCollectionArgs) (json.RawMessage, error) {
			return b.Filters.List(ctx, a.CollectionID)
		}),
		ToolGetSuggestedFilters: bind(func(ctx context.Context, a suggestedFiltersArgs) (json.RawMessage, error) {
			return b.Filters.Suggested(ctx, a.CollectionID, a.Search)
		}),
	}
}
