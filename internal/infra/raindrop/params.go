package raindrop

// Optional fields are pointers so that unset values are left out of the
// outbound body, while explicit zero values such as "tags": [] are kept.

type ListRaindropsParams struct {
	CollectionID *int64
	Search       *string
	Sort         *string
}

type CreateRaindropParams struct {
	Link       string    `json:"link"`
	Title      *string   `json:"title,omitempty"`
	Excerpt    *string   `json:"excerpt,omitempty"`
	Note       *string   `json:"note,omitempty"`
	Tags       *[]string `json:"tags,omitempty"`
	Collection *int64    `json:"collection,omitempty"`
}

type UpdateRaindropParams struct {
	Title      *string   `json:"title,omitempty"`
	Excerpt    *string   `json:"excerpt,omitempty"`
	Note       *string   `json:"note,omitempty"`
	Tags       *[]string `json:"tags,omitempty"`
	Collection *int64    `json:"collection,omitempty"`
}

type CreateCollectionParams struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	Parent      *int64  `json:"parent,omitempty"`
	View        *string `json:"view,omitempty"`
	Sort        *int64  `json:"sort,omitempty"`
	Public      *bool   `json:"public,omitempty"`
}

type UpdateCollectionParams struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Parent      *int64  `json:"parent,omitempty"`
	View        *string `json:"view,omitempty"`
	Sort        *int64  `json:"sort,omitempty"`
	Public      *bool   `json:"public,omitempty"`
}

type CreateHighlightParams struct {
	Text  string  `json:"text"`
	Color *string `json:"color,omitempty"`
	Note  *string `json:"note,omitempty"`
}
