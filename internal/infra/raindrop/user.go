package raindrop

import (
	"context"
	"encoding/json"
	"net/http"
)

type UserService struct {
	client *Client
}

func (s *UserService) Get(ctx context.Context) (json.RawMessage, error) {
	return s.client.do(ctx, request{method: http.MethodGet, route: "/user"})
}
