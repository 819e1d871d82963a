package raindrop

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"raindrop-mcp/internal/domain"
	"raindrop-mcp/internal/infra/telemetry"
)

// Test-local decode targets for the response bodies asserted below.
type Raindrop struct {
	ID int64 `json:"_id"`
}

type User struct {
	FullName string `json:"fullName"`
	Pro      bool   `json:"pro"`
}

type recordedRequest struct {
	Method      string
	Path        string
	EscapedPath string
	Query       map[string][]string
	Header      http.Header
	Body        []byte
}

type stubAPI struct {
	mu       sync.Mutex
	requests []recordedRequest
}

func (s *stubAPI) record(r *http.Request) recordedRequest {
	body, _ := io.ReadAll(r.Body)
	rec := recordedRequest{
		Method:      r.Method,
		Path:        r.URL.Path,
		EscapedPath: r.URL.EscapedPath(),
		Query:       r.URL.Query(),
		Header:      r.Header.Clone(),
		Body:        body,
	}
	s.mu.Lock()
	s.requests = append(s.requests, rec)
	s.mu.Unlock()
	return rec
}

func (s *stubAPI) all() []recordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]recordedRequest(nil), s.requests...)
}

func newTestClient(t *testing.T, handler func(w http.ResponseWriter, r *http.Request, rec recordedRequest)) (*Client, *stubAPI) {
	t.Helper()
	stub := &stubAPI{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := stub.record(r)
		handler(w, r, rec)
	}))
	t.Cleanup(server.Close)

	client, err := NewClient(ClientOptions{
		Token:   "secret-token",
		BaseURL: server.URL,
		Logger:  zap.NewNop(),
	})
	require.NoError(t, err)
	return client, stub
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func pageBody(start, count int) string {
	items := make([]string, 0, count)
	for i := 0; i < count; i++ {
		items = append(items, fmt.Sprintf(`{"_id":%d,"title":"item %d"}`, start+i, start+i))
	}
	return `{"result":true,"items":[` + strings.Join(items, ",") + `]}`
}

func pagedHandler(sizes []int) func(w http.ResponseWriter, r *http.Request, rec recordedRequest) {
	return func(w http.ResponseWriter, r *http.Request, rec recordedRequest) {
		var index int
		_, _ = fmt.Sscanf(r.URL.Query().Get("page"), "%d", &index)
		if index >= len(sizes) {
			writeJSON(w, http.StatusOK, pageBody(0, 0))
			return
		}
		start := 0
		for _, size := range sizes[:index] {
			start += size
		}
		writeJSON(w, http.StatusOK, pageBody(start, sizes[index]))
	}
}

func TestNewClient_RequiresToken(t *testing.T) {
	_, err := NewClient(ClientOptions{Token: "   "})
	require.ErrorIs(t, err, domain.ErrMissingToken)
}

func TestRaindropsList_StopsOnShortPage(t *testing.T) {
	client, stub := newTestClient(t, pagedHandler([]int{50, 50, 20}))

	raw, err := client.Raindrops().List(context.Background(), ListRaindropsParams{})
	require.NoError(t, err)

	var items []Raindrop
	require.NoError(t, json.Unmarshal(raw, &items))
	require.Len(t, items, 120)
	for i, item := range items {
		require.Equal(t, int64(i), item.ID)
	}

	requests := stub.all()
	require.Len(t, requests, 3)
	for i, req := range requests {
		assert.Equal(t, http.MethodGet, req.Method)
		assert.Equal(t, "/raindrops/0", req.Path)
		assert.Equal(t, fmt.Sprint(i), req.Query["page"][0])
		assert.Equal(t, "50", req.Query["perpage"][0])
		assert.NotContains(t, req.Query, "search")
		assert.NotContains(t, req.Query, "sort")
	}
}

func TestRaindropsList_StopsOnEmptyPage(t *testing.T) {
	client, stub := newTestClient(t, pagedHandler([]int{50, 50, 0}))

	raw, err := client.Raindrops().List(context.Background(), ListRaindropsParams{})
	require.NoError(t, err)

	var items []json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &items))
	require.Len(t, items, 100)
	require.Len(t, stub.all(), 3)
}

func TestRaindropsList_EmptyCollectionReturnsEmptyArray(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request, _ recordedRequest) {
		writeJSON(w, http.StatusOK, `{"result":true}`)
	})

	raw, err := client.Raindrops().List(context.Background(), ListRaindropsParams{})
	require.NoError(t, err)
	require.JSONEq(t, `[]`, string(raw))
}

func TestRaindropsList_KeepsItemBytes(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request, _ recordedRequest) {
		writeJSON(w, http.StatusOK, `{"result":true,"items":[{"link":"https://x.io/?a=1&b=2","title":"<b>"}]}`)
	})

	raw, err := client.Raindrops().List(context.Background(), ListRaindropsParams{})
	require.NoError(t, err)
	require.Equal(t, `[{"link":"https://x.io/?a=1&b=2","title":"<b>"}]`, string(raw))
}

func TestRaindropsList_ForwardsFilters(t *testing.T) {
	client, stub := newTestClient(t, pagedHandler([]int{3}))

	collection := int64(42)
	search := "golang"
	sort := "-created"
	_, err := client.Raindrops().List(context.Background(), ListRaindropsParams{
		CollectionID: &collection,
		Search:       &search,
		Sort:         &sort,
	})
	require.NoError(t, err)

	requests := stub.all()
	require.Len(t, requests, 1)
	require.Equal(t, "/raindrops/42", requests[0].Path)
	require.Equal(t, "golang", requests[0].Query["search"][0])
	require.Equal(t, "-created", requests[0].Query["sort"][0])
}

func TestRaindropsList_FailsWholeListingOnPageError(t *testing.T) {
	client, stub := newTestClient(t, func(w http.ResponseWriter, r *http.Request, _ recordedRequest) {
		if r.URL.Query().Get("page") == "1" {
			writeJSON(w, http.StatusInternalServerError, `{"result":false,"errorMessage":"boom"}`)
			return
		}
		writeJSON(w, http.StatusOK, pageBody(0, 50))
	})

	raw, err := client.Raindrops().List(context.Background(), ListRaindropsParams{})
	require.Error(t, err)
	require.Nil(t, raw)
	require.Contains(t, err.Error(), "boom")
	require.Len(t, stub.all(), 2)
}

func TestRaindropsList_CanceledContext(t *testing.T) {
	client, stub := newTestClient(t, pagedHandler([]int{50}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Raindrops().List(ctx, ListRaindropsParams{})
	require.ErrorIs(t, err, context.Canceled)
	require.Empty(t, stub.all())
}

func TestRaindropsCreate_OmitsUnsetFields(t *testing.T) {
	client, stub := newTestClient(t, func(w http.ResponseWriter, _ *http.Request, _ recordedRequest) {
		writeJSON(w, http.StatusOK, `{"result":true,"item":{"_id":1,"link":"https://example.com"}}`)
	})

	ctx, meta := telemetry.EnsureRequestMeta(context.Background(), "")
	_, err := client.Raindrops().Create(ctx, CreateRaindropParams{Link: "https://example.com"})
	require.NoError(t, err)

	requests := stub.all()
	require.Len(t, requests, 1)
	req := requests[0]
	require.Equal(t, http.MethodPost, req.Method)
	require.Equal(t, "/raindrop", req.Path)
	require.JSONEq(t, `{"link":"https://example.com"}`, string(req.Body))
	require.Equal(t, "Bearer secret-token", req.Header.Get("Authorization"))
	require.Contains(t, req.Header.Get("Content-Type"), "application/json")
	require.Equal(t, meta.RequestID, req.Header.Get(telemetry.RequestIDHeader))
	require.Equal(t, domain.DefaultServerName, req.Header.Get("User-Agent"))
}

func TestRaindropsUpdate_SendsOnlyProvidedFields(t *testing.T) {
	client, stub := newTestClient(t, func(w http.ResponseWriter, _ *http.Request, _ recordedRequest) {
		writeJSON(w, http.StatusOK, `{"result":true}`)
	})

	title := "renamed"
	collection := int64(9)
	_, err := client.Raindrops().Update(context.Background(), 7, UpdateRaindropParams{
		Title:      &title,
		Tags:       &[]string{"a", "b"},
		Collection: &collection,
	})
	require.NoError(t, err)

	req := stub.all()[0]
	require.Equal(t, http.MethodPut, req.Method)
	require.Equal(t, "/raindrop/7", req.Path)
	require.JSONEq(t, `{"title":"renamed","tags":["a","b"],"collection":9}`, string(req.Body))
}

func TestRaindropsUpdate_SendsExplicitEmptyTags(t *testing.T) {
	client, stub := newTestClient(t, func(w http.ResponseWriter, _ *http.Request, _ recordedRequest) {
		writeJSON(w, http.StatusOK, `{"result":true}`)
	})

	_, err := client.Raindrops().Update(context.Background(), 5, UpdateRaindropParams{Tags: &[]string{}})
	require.NoError(t, err)
	require.JSONEq(t, `{"tags":[]}`, string(stub.all()[0].Body))
}

func TestRaindropsGet_ReturnsBodyUnchanged(t *testing.T) {
	body := `{"result":true,"item":{"_id":5,"title":"héllo","nested":{"x":[1,2,{"y":null}]}}}`
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request, _ recordedRequest) {
		writeJSON(w, http.StatusOK, body)
	})

	raw, err := client.Raindrops().Get(context.Background(), 5)
	require.NoError(t, err)
	require.Equal(t, body, string(raw))
}

func TestAPIError_NotFound(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request, _ recordedRequest) {
		writeJSON(w, http.StatusNotFound, `{"result":false,"error":"not_found","errorMessage":"Collection not found"}`)
	})

	_, err := client.Collections().Get(context.Background(), 11)
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	require.Equal(t, "/collection/{id}", apiErr.Path)
	require.Contains(t, err.Error(), "404")
	require.Contains(t, err.Error(), "Collection not found")

	code, ok := domain.CodeFrom(err)
	require.True(t, ok)
	require.Equal(t, domain.CodeNotFound, code)
}

func TestAPIError_PlainBody(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request, _ recordedRequest) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = io.WriteString(w, "upstream down")
	})

	_, err := client.User().Get(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "502")
}

func TestCollections_Endpoints(t *testing.T) {
	client, stub := newTestClient(t, func(w http.ResponseWriter, _ *http.Request, _ recordedRequest) {
		writeJSON(w, http.StatusOK, `{"result":true}`)
	})
	ctx := context.Background()

	_, err := client.Collections().ListRoot(ctx)
	require.NoError(t, err)
	_, err = client.Collections().ListChildren(ctx)
	require.NoError(t, err)
	_, err = client.Collections().Create(ctx, CreateCollectionParams{Title: "Reading"})
	require.NoError(t, err)
	public := false
	_, err = client.Collections().Update(ctx, 3, UpdateCollectionParams{Public: &public})
	require.NoError(t, err)
	_, err = client.Collections().Delete(ctx, 3)
	require.NoError(t, err)

	requests := stub.all()
	require.Len(t, requests, 5)
	require.Equal(t, "GET /collections", requests[0].Method+" "+requests[0].Path)
	require.Equal(t, "GET /collections/childrens", requests[1].Method+" "+requests[1].Path)
	require.Equal(t, "POST /collection", requests[2].Method+" "+requests[2].Path)
	require.JSONEq(t, `{"title":"Reading"}`, string(requests[2].Body))
	require.Equal(t, "PUT /collection/3", requests[3].Method+" "+requests[3].Path)
	require.JSONEq(t, `{"public":false}`, string(requests[3].Body))
	require.Equal(t, "DELETE /collection/3", requests[4].Method+" "+requests[4].Path)
}

func TestTags_DefaultCollectionAndEscaping(t *testing.T) {
	client, stub := newTestClient(t, func(w http.ResponseWriter, _ *http.Request, _ recordedRequest) {
		writeJSON(w, http.StatusOK, `{"result":true,"items":[{"_id":"go","count":2}]}`)
	})
	ctx := context.Background()

	_, err := client.Tags().List(ctx, nil)
	require.NoError(t, err)
	_, err = client.Tags().Delete(ctx, "read later/now")
	require.NoError(t, err)

	requests := stub.all()
	require.Equal(t, "/tags/0", requests[0].Path)
	require.Equal(t, http.MethodDelete, requests[1].Method)
	require.Equal(t, "/tag/read later/now", requests[1].Path)
	require.Equal(t, "/tag/read%20later%2Fnow", requests[1].EscapedPath)
}

func TestHighlights_Endpoints(t *testing.T) {
	client, stub := newTestClient(t, func(w http.ResponseWriter, _ *http.Request, _ recordedRequest) {
		writeJSON(w, http.StatusOK, `{"result":true}`)
	})
	ctx := context.Background()

	_, err := client.Highlights().List(ctx, 5)
	require.NoError(t, err)
	color := "yellow"
	_, err = client.Highlights().Create(ctx, 5, CreateHighlightParams{Text: "quote", Color: &color})
	require.NoError(t, err)
	_, err = client.Highlights().Delete(ctx, 5, "62388e9e48b63606f41e44a6")
	require.NoError(t, err)

	requests := stub.all()
	require.Equal(t, "/raindrop/5/highlights", requests[0].Path)
	require.Equal(t, "/raindrop/5/highlight", requests[1].Path)
	require.JSONEq(t, `{"text":"quote","color":"yellow"}`, string(requests[1].Body))
	require.Equal(t, "/raindrop/5/highlight/62388e9e48b63606f41e44a6", requests[2].Path)
}

func TestFilters_Endpoints(t *testing.T) {
	client, stub := newTestClient(t, func(w http.ResponseWriter, _ *http.Request, _ recordedRequest) {
		writeJSON(w, http.StatusOK, `{"result":true,"tags":[]}`)
	})
	ctx := context.Background()

	_, err := client.Filters().List(ctx, nil)
	require.NoError(t, err)
	collection := int64(12)
	search := "#go"
	_, err = client.Filters().Suggested(ctx, &collection, &search)
	require.NoError(t, err)
	_, err = client.Filters().Suggested(ctx, nil, nil)
	require.NoError(t, err)
	empty := ""
	_, err = client.Filters().Suggested(ctx, nil, &empty)
	require.NoError(t, err)

	requests := stub.all()
	require.Equal(t, "/filters/0", requests[0].Path)
	require.Equal(t, "/filters/suggested/12", requests[1].Path)
	require.Equal(t, "#go", requests[1].Query["search"][0])
	require.Equal(t, "/filters/suggested/0", requests[2].Path)
	require.NotContains(t, requests[2].Query, "search")
	require.Equal(t, []string{""}, requests[3].Query["search"])
}

func TestUser_Get(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request, _ recordedRequest) {
		writeJSON(w, http.StatusOK, `{"result":true,"user":{"_id":1,"fullName":"Ada","pro":true}}`)
	})

	raw, err := client.User().Get(context.Background())
	require.NoError(t, err)

	var envelope struct {
		User User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(raw, &envelope))
	require.Equal(t, "Ada", envelope.User.FullName)
	require.True(t, envelope.User.Pro)
}
