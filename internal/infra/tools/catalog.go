package tools

import (
	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Tool names. The catalog and the dispatcher routing table are both keyed by these.
const (
	ToolGetRaindrops        = "get_raindrops"
	ToolGetRaindrop         = "get_raindrop"
	ToolCreateRaindrop      = "create_raindrop"
	ToolUpdateRaindrop      = "update_raindrop"
	ToolDeleteRaindrop      = "delete_raindrop"
	ToolGetCollections      = "get_collections"
	ToolGetChildCollections = "get_child_collections"
	ToolGetCollection       = "get_collection"
	ToolCreateCollection    = "create_collection"
	ToolUpdateCollection    = "update_collection"
	ToolDeleteCollection    = "delete_collection"
	ToolGetTags             = "get_tags"
	ToolDeleteTag           = "delete_tag"
	ToolGetUser             = "get_user"
	ToolGetHighlights       = "get_highlights"
	ToolCreateHighlight     = "create_highlight"
	ToolDeleteHighlight     = "delete_highlight"
	ToolGetFilters          = "get_filters"
	ToolGetSuggestedFilters = "get_suggested_filters"
)

type property struct {
	name   string
	schema *jsonschema.Schema
}

func integerProp(name, description string) property {
	return property{name: name, schema: &jsonschema.Schema{Type: "integer", Description: description}}
}

func stringProp(name, description string) property {
	return property{name: name, schema: &jsonschema.Schema{Type: "string", Description: description}}
}

func boolProp(name, description string) property {
	return property{name: name, schema: &jsonschema.Schema{Type: "boolean", Description: description}}
}

func stringListProp(name, description string) property {
	return property{name: name, schema: &jsonschema.Schema{
		Type:        "array",
		Description: description,
		Items:       &jsonschema.Schema{Type: "string"},
	}}
}

func object(required []string, props ...property) *jsonschema.Schema {
	schema := &jsonschema.Schema{
		Type:       "object",
		Properties: make(map[string]*jsonschema.Schema, len(props)),
		Required:   required,
	}
	for _, prop := range props {
		schema.Properties[prop.name] = prop.schema
	}
	return schema
}

func raindropFields() []property {
	return []property{
		stringProp("title", "Title"),
		stringProp("excerpt", "Description"),
		stringProp("note", "Note"),
		stringListProp("tags", "Tags"),
		integerProp("collection", "Collection ID"),
	}
}

func collectionFields() []property {
	return []property{
		stringProp("title", "Collection title"),
		stringProp("description", "Description"),
		integerProp("parent", "Parent collection ID"),
		stringProp("view", "View type"),
		integerProp("sort", "Sort order"),
		boolProp("public", "Public collection"),
	}
}

func raindropIDProp() property {
	return integerProp("raindropId", "Raindrop ID")
}

func collectionIDProp() property {
	return integerProp("collectionId", "Collection ID")
}

func with(first []property, rest ...property) []property {
	return append(append([]property(nil), first...), rest...)
}

// Catalog returns the fixed tool catalog in advertised order.
// Each call builds fresh values so callers may not mutate shared state.
func Catalog() []*mcp.Tool {
	return []*mcp.Tool{
		{
			Name:        ToolGetRaindrops,
			Description: "Get all raindrops (bookmarks) from a collection",
			InputSchema: object(nil,
				integerProp("collectionId", "Collection ID (0 for all)"),
				stringProp("search", "Search query"),
				stringProp("sort", "Sort order"),
			),
		},
		{
			Name:        ToolGetRaindrop,
			Description: "Get a single raindrop by ID",
			InputSchema: object([]string{"raindropId"}, raindropIDProp()),
		},
		{
			Name:        ToolCreateRaindrop,
			Description: "Create a new raindrop (bookmark)",
			InputSchema: object([]string{"link"},
				with([]property{stringProp("link", "URL to bookmark")}, raindropFields()...)...),
		},
		{
			Name:        ToolUpdateRaindrop,
			Description: "Update a raindrop",
			InputSchema: object([]string{"raindropId"}, with([]property{raindropIDProp()}, raindropFields()...)...),
		},
		{
			Name:        ToolDeleteRaindrop,
			Description: "Delete a raindrop",
			InputSchema: object([]string{"raindropId"}, raindropIDProp()),
		},
		{
			Name:        ToolGetCollections,
			Description: "Get root collections",
			InputSchema: object(nil),
		},
		{
			Name:        ToolGetChildCollections,
			Description: "Get child collections",
			InputSchema: object(nil),
		},
		{
			Name:        ToolGetCollection,
			Description: "Get a single collection by ID",
			InputSchema: object([]string{"collectionId"}, collectionIDProp()),
		},
		{
			Name:        ToolCreateCollection,
			Description: "Create a new collection",
			InputSchema: object([]string{"title"}, collectionFields()...),
		},
		{
			Name:        ToolUpdateCollection,
			Description: "Update a collection",
			InputSchema: object([]string{"collectionId"}, with([]property{collectionIDProp()}, collectionFields()...)...),
		},
		{
			Name:        ToolDeleteCollection,
			Description: "Delete a collection",
			InputSchema: object([]string{"collectionId"}, collectionIDProp()),
		},
		{
			Name:        ToolGetTags,
			Description: "Get all tags",
			InputSchema: object(nil, collectionIDProp()),
		},
		{
			Name:        ToolDeleteTag,
			Description: "Delete a tag",
			InputSchema: object([]string{"tagName"}, stringProp("tagName", "Tag name")),
		},
		{
			Name:        ToolGetUser,
			Description: "Get authenticated user information",
			InputSchema: object(nil),
		},
		{
			Name:        ToolGetHighlights,
			Description: "Get highlights for a raindrop",
			InputSchema: object([]string{"raindropId"}, raindropIDProp()),
		},
		{
			Name:        ToolCreateHighlight,
			Description: "Create a highlight",
			InputSchema: object([]string{"raindropId", "text"},
				raindropIDProp(),
				stringProp("text", "Highlighted text"),
				stringProp("color", "Highlight color"),
				stringProp("note", "Note"),
			),
		},
		{
			Name:        ToolDeleteHighlight,
			Description: "Delete a highlight",
			InputSchema: object([]string{"raindropId", "highlightId"},
				raindropIDProp(),
				stringProp("highlightId", "Highlight ID"),
			),
		},
		{
			Name:        ToolGetFilters,
			Description: "Get filters for a collection",
			InputSchema: object(nil, collectionIDProp()),
		},
		{
			Name:        ToolGetSuggestedFilters,
			Description: "Get suggested filters",
			InputSchema: object(nil, collectionIDProp(), stringProp("search", "Search query")),
		},
	}
}

// CatalogNames returns the tool names in advertised order.
func CatalogNames() []string {
	catalog := Catalog()
	names := make([]string, 0, len(catalog))
	for _, tool := range catalog {
		names = append(names, tool.Name)
	}
	return names
}
