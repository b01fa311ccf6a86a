// Package recommend talks to the external style-recommendation service and keeps
// the state of the personalization tool.
package recommend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/nikolayk812/stitchstyle/internal/domain"
	"github.com/nikolayk812/stitchstyle/internal/port"
)

const (
	keywordFlow        = "suggestStyleGuideFlow"
	recommendationFlow = "generatePersonalizedRecommendationsFlow"
)

// Client calls flows hosted by the text-generation service.
// Each flow is POST {baseURL}/{flow} with {"data": input}, answered by {"result": output}.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) port.Recommender {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type flowRequest struct {
	Data any `json:"data"`
}

type flowResponse[T any] struct {
	Result T `json:"result"`
}

func (c *Client) SuggestKeywords(ctx context.Context, req domain.KeywordRequest) (domain.KeywordResult, error) {
	result, err := call[domain.KeywordResult](ctx, c, keywordFlow, req)
	if err != nil {
		return domain.KeywordResult{}, err
	}

	if len(result.Keywords) > domain.MaxKeywords {
		result.Keywords = result.Keywords[:domain.MaxKeywords]
	}

	return result, nil
}

func (c *Client) Recommend(ctx context.Context, req domain.RecommendationRequest) (domain.RecommendationResult, error) {
	result, err := call[domain.RecommendationResult](ctx, c, recommendationFlow, req)
	if err != nil {
		return domain.RecommendationResult{}, err
	}

	if len(result.Recommendations) > domain.MaxRecommendations {
		result.Recommendations = result.Recommendations[:domain.MaxRecommendations]
	}

	return result, nil
}

func call[T any](ctx context.Context, c *Client, flow string, input any) (T, error) {
	var zero T

	fail := func(err error) (T, error) {
		return zero, &domain.RecommendationServiceError{Flow: flow, Err: err}
	}

	body, err := json.Marshal(flowRequest{Data: input})
	if err != nil {
		return fail(fmt.Errorf("json.Marshal: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+flow, bytes.NewReader(body))
	if err != nil {
		return fail(fmt.Errorf("http.NewRequestWithContext: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fail(fmt.Errorf("httpClient.Do: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fail(fmt.Errorf("status %d: %s", resp.StatusCode, bytes.TrimSpace(msg)))
	}

	var out flowResponse[T]
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return fail(fmt.Errorf("json.Decode: %w", err))
	}

	return out.Result, nil
}
