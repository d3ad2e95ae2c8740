// Package api is a minimal client for OpenAI-compatible inference APIs, used
// to diagnose which models an API key can access.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/brandbuilder/smokecheck/internal/trace"
	"github.com/google/go-querystring/query"
	"github.com/klauspost/compress/gzhttp"
	"github.com/rs/zerolog/log"
)

// isJSONContentType checks if the content type indicates a JSON response.
// Handles cases like "application/json" and "application/json; charset=utf-8"
func isJSONContentType(contentType string) bool {
	contentType = strings.TrimSpace(strings.ToLower(contentType))

	return strings.HasPrefix(contentType, "application/json")
}

type Client struct {
	client   *http.Client
	endpoint string
}

// Model is one entry of the hosted model list.
type Model struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Created int64  `json:"created"`
	OwnedBy string `json:"owned_by"`
}

// CreatedAt converts the unix creation stamp to a time.Time.
func (m Model) CreatedAt() time.Time {
	return time.Unix(m.Created, 0)
}

type ListModelsReq struct {
	Limit int    `url:"limit,omitempty"`
	After string `url:"after,omitempty"`
}

type ListModelsResp struct {
	Object string  `json:"object"`
	Data   []Model `json:"data"`
}

// NewClient builds a client for the given endpoint, injecting the key as a
// bearer token on every request.
func NewClient(ctx context.Context, version, endpoint, apiKey string) Client {
	client := &http.Client{}

	client.Transport = gzhttp.Transport(roundTripperFunc(
		func(req *http.Request) (*http.Response, error) {
			req = req.Clone(req.Context())
			req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", apiKey))
			req.Header.Set("User-Agent", fmt.Sprint("smokecheck/", version))
			req.Header.Set("Accept", "application/json")
			req.Header.Set("Accept-Encoding", "gzip, deflate, br")
			return http.DefaultTransport.RoundTrip(req)
		}),
	)

	return Client{client: client, endpoint: strings.TrimSuffix(endpoint, "/")}
}

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (fn roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return fn(r)
}

// ListModels returns the models the configured API key has access to, sorted
// by ID.
func (c Client) ListModels(ctx context.Context, listReq ListModelsReq) (ListModelsResp, error) {
	ctx, span := trace.Start(ctx, "Client.ListModels")
	defer span.End()

	var resp ListModelsResp

	queryParams, err := query.Values(listReq)
	if err != nil {
		return resp, trace.NewError(span, "failed to marshal query params: %w", err)
	}

	u, err := url.Parse(fmt.Sprintf("%s/models", c.endpoint))
	if err != nil {
		return resp, trace.NewError(span, "failed to parse url: %w", err)
	}

	u.RawQuery = queryParams.Encode()

	log.Debug().Str("url", u.String()).Msg("listing models")

	res, resp, err := doRequest[ListModelsResp](ctx, c.client, http.MethodGet, u.String())
	if err != nil {
		return resp, trace.NewError(span, "failed to do request: %w", err)
	}

	switch res.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		// the whole point of this client is key diagnosis, call this out
		return resp, trace.NewError(span, "api key rejected: %s", res.Status)
	default:
		return resp, trace.NewError(span, "failed to list models: %s", res.Status)
	}

	sort.Slice(resp.Data, func(i, j int) bool {
		return resp.Data[i].ID < resp.Data[j].ID
	})

	return resp, nil
}

func doRequest[V any](ctx context.Context, client *http.Client, method string, url string) (res *http.Response, resp V, err error) {
	ctx, span := trace.Start(ctx, "DoRequest")
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, method, url, http.NoBody)
	if err != nil {
		return nil, resp, trace.NewError(span, "failed to create request: %w", err)
	}

	res, err = client.Do(req)
	if err != nil {
		return nil, resp, trace.NewError(span, "failed to do request: %w", err)
	}

	defer func() {
		if res != nil && res.Body != nil {
			_ = res.Body.Close()
		}
	}()

	// Don't return an error for 4xx codes, callers translate those
	if res.StatusCode >= 500 {
		return res, resp, trace.NewError(span, "request failed with status: %s", res.Status)
	}

	contentType := res.Header.Get("Content-Type")
	if !isJSONContentType(contentType) {
		return res, resp, trace.NewError(span, "unexpected content type: %s", contentType)
	}

	if err = json.NewDecoder(res.Body).Decode(&resp); err != nil {
		return nil, resp, trace.NewError(span, "failed to decode response body: %w", err)
	}

	return res, resp, nil
}
