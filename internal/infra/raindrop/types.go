package raindrop

import "encoding/json"

// page is the envelope of one raindrop listing page.
type page struct {
	Items []json.RawMessage `json:"items"`
}
