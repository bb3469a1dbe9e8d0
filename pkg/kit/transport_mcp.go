package kit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// MCPDecoder turns tool arguments into the endpoint's request value.
type MCPDecoder func(mcp.CallToolRequest) (any, error)

// RegisterMCPTool exposes endpoint as the MCP tool described by tool.
// The JSON-encoded response becomes the tool's text result; decode and
// endpoint errors become tool errors rather than protocol errors.
func RegisterMCPTool(srv *server.MCPServer, tool mcp.Tool, endpoint Endpoint, decode MCPDecoder) {
	srv.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		request, err := decode(req)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		ctx = mcpContext(ctx)

		resp, err := endpoint(ctx, request)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		data, err := json.Marshal(resp)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("encode result: %v", err)), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	})
}

// mcpContext keeps a stdio transport set by the session and gives each
// call its own request id. Calls arriving over the HTTP mount carry the
// router's http tag and are retagged as mcp.
func mcpContext(ctx context.Context) context.Context {
	if t, ok := transportOf(ctx); !ok || t == TransportHTTP {
		ctx = WithTransport(ctx, TransportMCP)
	}
	return WithRequestID(ctx, uuid.NewString())
}
