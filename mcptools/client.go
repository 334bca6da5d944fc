package mcptools

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/lllpei/ofacpartyapi/models"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// ToolResult is the uniform envelope every tool invocation resolves to,
// regardless of whether the underlying REST call failed at the transport,
// HTTP or business level.
type ToolResult struct {
	Status  string      `json:"status"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

func successResult(data interface{}) ToolResult {
	return ToolResult{Status: StatusSuccess, Data: data}
}

func errorResult(message string) ToolResult {
	return ToolResult{Status: StatusError, Message: message}
}

// apiEnvelope mirrors the REST layer's response body.
type apiEnvelope struct {
	ResultCd bool            `json:"resultCd"`
	Data     json.RawMessage `json:"data"`
	Message  string          `json:"message"`
}

// Client calls the REST endpoint layer over HTTP. It holds no business
// logic: request shaping and response normalization only.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient constructs a Client targeting baseURL with a fixed per-call
// request timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// GetPartyInfo fetches a single party detail via GET /ofacParty.
func (c *Client) GetPartyInfo(ctx context.Context, partyID int64) ToolResult {
	params := url.Values{}
	params.Set("partyId", strconv.FormatInt(partyID, 10))
	return c.get(ctx, c.baseURL+"/ofacParty", params)
}

// SearchParty runs the unified search via GET /ofacParty/search.
func (c *Client) SearchParty(ctx context.Context, searchParams models.SearchParams) ToolResult {
	params := url.Values{}
	params.Set("q", searchParams.Query)
	params.Set("scope", searchParams.Scope)
	params.Set("limit", strconv.Itoa(searchParams.Limit))
	if searchParams.Country != "" {
		params.Set("country", searchParams.Country)
	}
	if searchParams.City != "" {
		params.Set("city", searchParams.City)
	}
	if searchParams.Fuzzy {
		params.Set("fuzzy", "true")
	}
	return c.get(ctx, c.baseURL+"/ofacParty/search", params)
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values) ToolResult {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return errorResult(err.Error())
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("Error: request to %s failed: %v", endpoint, err)
		return errorResult(err.Error())
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Printf("Error: reading response from %s failed: %v", endpoint, err)
		return errorResult(err.Error())
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := extractErrorMessage(resp.StatusCode, body)
		log.Printf("Warning: %s returned %d: %s", endpoint, resp.StatusCode, msg)
		return errorResult(msg)
	}

	var envelope apiEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		log.Printf("Error: unexpected response body from %s: %v", endpoint, err)
		return errorResult(fmt.Sprintf("invalid response body: %v", err))
	}
	if !envelope.ResultCd {
		msg := envelope.Message
		if msg == "" {
			msg = "API returned error"
		}
		return errorResult(msg)
	}

	var data interface{}
	if len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, &data); err != nil {
			return errorResult(fmt.Sprintf("invalid response data: %v", err))
		}
	}
	return successResult(data)
}

// extractErrorMessage pulls the envelope message out of a non-2xx body when
// it parses as one, else falls back to a status-code message.
func extractErrorMessage(statusCode int, body []byte) string {
	var envelope apiEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Message != "" {
		return envelope.Message
	}
	msg := fmt.Sprintf("API Error: %d - %s", statusCode, string(body))
	if len(msg) > 300 {
		msg = msg[:300]
	}
	return msg
}
