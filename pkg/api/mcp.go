package api

import (
	"context"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hazyhaar/gazetteer/pkg/kit"
)

// NewMCPServer creates an MCP server exposing the gazetteer tools.
func NewMCPServer(svc *Service, version string) *server.MCPServer {
	srv := server.NewMCPServer("axixa-gazetteer", version, server.WithToolCapabilities(false))
	RegisterMCPTools(srv, NewEndpoints(svc))
	return srv
}

// RegisterMCPTools registers the three gazetteer MCP tools on the server.
func RegisterMCPTools(srv *server.MCPServer, ep *Endpoints) {
	registerResolveQuery(srv, ep)
	registerListCategory(srv, ep)
	registerListCategories(srv, ep)
}

func registerResolveQuery(srv *server.MCPServer, ep *Endpoints) {
	tool := mcp.NewTool("resolve_query",
		mcp.WithDescription("Resolve a Portuguese question about Axixá to one place (school, store, church, landmark...) or to a short listing of a category."),
		mcp.WithString("query", mcp.Required(), mcp.Description("The user's question, e.g. \"Onde fica a Igreja da Luz?\"")),
	)

	kit.RegisterMCPTool(srv, tool, ep.Resolve, func(req mcp.CallToolRequest) (any, error) {
		query, _ := req.GetArguments()["query"].(string)
		if query == "" {
			return nil, errors.New("query is required")
		}
		return &resolveReq{Query: query}, nil
	})
}

func registerListCategory(srv *server.MCPServer, ep *Endpoints) {
	tool := mcp.NewTool("list_category",
		mcp.WithDescription("List the first entities of one category, in dataset order."),
		mcp.WithString("category", mcp.Required(), mcp.Description("Category name (schools, stores, ...) or source key (escolas, lojas, ...)")),
		mcp.WithNumber("limit", mcp.Description("Maximum entities to return (default 4, max 100)")),
	)

	kit.RegisterMCPTool(srv, tool, ep.ListCategory, func(req mcp.CallToolRequest) (any, error) {
		args := req.GetArguments()
		category, _ := args["category"].(string)
		if category == "" {
			return nil, errors.New("category is required")
		}
		limit := 0
		if v, ok := args["limit"].(float64); ok {
			limit = min(int(v), 100)
		}
		return &categoryReq{Category: category, Limit: limit}, nil
	})
}

func registerListCategories(srv *server.MCPServer, ep *Endpoints) {
	tool := mcp.NewTool("list_categories",
		mcp.WithDescription("List all categories of the loaded dataset with their entity counts."),
	)

	kit.RegisterMCPTool(srv, tool, ep.ListCategories, func(_ mcp.CallToolRequest) (any, error) {
		return nil, nil
	})
}

// StdioContext marks calls arriving over the stdio transport.
func StdioContext(ctx context.Context) context.Context {
	return kit.WithTransport(ctx, kit.TransportStdio)
}
