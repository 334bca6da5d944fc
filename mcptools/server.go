package mcptools

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cast"

	"github.com/lllpei/ofacpartyapi/models"
)

const serverName = "ofac_party_service"
const serverVersion = "1.0.0"

// NewServer builds the MCP server exposing the two party tools. Both tools
// proxy to the REST endpoint layer through the given client.
func NewServer(client *Client) *mcpserver.MCPServer {
	srv := mcpserver.NewMCPServer(serverName, serverVersion)

	getPartyTool := mcp.NewTool("get_ofac_party_info",
		mcp.WithDescription("Fetch a single sanctioned party record by party_id"),
		mcp.WithNumber("party_id", mcp.Required(), mcp.Description("Numeric party identifier")),
	)
	srv.AddTool(getPartyTool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := req.GetArguments()
		if _, ok := args["party_id"]; !ok {
			return toolResponse(errorResult("party_id is required"))
		}
		partyID := cast.ToInt64(args["party_id"])
		log.Printf("get_ofac_party_info start: party_id=%d", partyID)
		return toolResponse(client.GetPartyInfo(ctx, partyID))
	})

	searchTool := mcp.NewTool("search_party",
		mcp.WithDescription("Unified search over names, aliases and addresses of sanctioned parties"),
		mcp.WithString("q", mcp.Required(), mcp.Description("Search text, at least 2 characters")),
		mcp.WithString("scope", mcp.Description("One of all, name, alias, address (default all)")),
		mcp.WithString("country", mcp.Description("Restrict to parties with an address in this country")),
		mcp.WithString("city", mcp.Description("Restrict to parties with an address in this exact city")),
		mcp.WithNumber("limit", mcp.Description("Maximum rows to return, clamped to [1,1000] (default 100)")),
		mcp.WithBoolean("fuzzy", mcp.Description("Reserved; accepted but has no effect")),
	)
	srv.AddTool(searchTool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := req.GetArguments()

		q := strings.TrimSpace(cast.ToString(args["q"]))
		if utf8.RuneCountInString(q) < models.MinQueryLength {
			return toolResponse(errorResult("q must be at least 2 characters"))
		}

		scope := strings.ToLower(strings.TrimSpace(cast.ToString(args["scope"])))
		if scope == "" {
			scope = models.ScopeAll
		}
		if !models.IsValidScope(scope) {
			return toolResponse(errorResult(fmt.Sprintf("scope must be one of %s, %s, %s, %s",
				models.ScopeAll, models.ScopeName, models.ScopeAlias, models.ScopeAddress)))
		}

		limit := models.DefaultSearchLimit
		if _, ok := args["limit"]; ok {
			limit = models.ClampLimit(cast.ToInt(args["limit"]))
		}

		params := models.SearchParams{
			Query:   q,
			Scope:   scope,
			Country: cast.ToString(args["country"]),
			City:    cast.ToString(args["city"]),
			Limit:   limit,
			Fuzzy:   cast.ToBool(args["fuzzy"]),
		}
		log.Printf("search_party start: q=%q scope=%s", q, scope)
		return toolResponse(client.SearchParty(ctx, params))
	})

	return srv
}

// NewSSEHandler wraps the MCP server in its SSE transport for mounting on
// the shared HTTP listener (endpoints <basePath>/sse and <basePath>/message).
func NewSSEHandler(srv *mcpserver.MCPServer, basePath string) http.Handler {
	return mcpserver.NewSSEServer(srv, mcpserver.WithStaticBasePath(basePath))
}

func toolResponse(result ToolResult) (*mcp.CallToolResult, error) {
	payload, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tool result: %w", err)
	}
	return mcp.NewToolResultText(string(payload)), nil
}
