package main

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/orotools/oro-mcp/internal/catalog"
	"github.com/orotools/oro-mcp/internal/client"
	"github.com/orotools/oro-mcp/internal/common"
)

// registerTools registers one MCP tool per catalogued endpoint, plus the
// meta tools for browsing the catalog and calling uncatalogued endpoints.
func registerTools(s *server.MCPServer, oro *client.OroClient, cat *catalog.Catalog, logger *common.Logger) {
	for _, td := range cat.Tools() {
		s.AddTool(catalog.BuildMCPTool(td), handleEndpointTool(oro, td))
	}

	s.AddTool(createListEndpointsTool(), handleListEndpoints(cat))
	s.AddTool(createDescribeEndpointTool(), handleDescribeEndpoint(cat))
	s.AddTool(createAPIRequestTool(), handleAPIRequest(oro))
	s.AddTool(createGetVersionTool(), handleGetVersion(cat))
	s.AddTool(createGetDiagnosticsTool(), handleGetDiagnostics(logger))
}

// --- Meta tool definitions ---

func createListEndpointsTool() mcp.Tool {
	return mcp.NewTool("list_endpoints",
		mcp.WithDescription("List the API endpoints exposed as tools. Filter by tag or keyword to narrow large catalogs."),
		mcp.WithString("tag", mcp.Description("Only include endpoints carrying this schema tag (e.g., 'accounts')")),
		mcp.WithString("keyword", mcp.Description("Only include endpoints whose name, description, or path contains this text")),
	)
}

func createDescribeEndpointTool() mcp.Tool {
	return mcp.NewTool("describe_endpoint",
		mcp.WithDescription("Show full detail for one catalogued endpoint: method, path, parameters, request body, and documented responses."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Tool name of the endpoint (as returned by list_endpoints)")),
	)
}

func createAPIRequestTool() mcp.Tool {
	return mcp.NewTool("api_request",
		mcp.WithDescription("Call an arbitrary API path directly. Escape hatch for endpoints not present in the catalog."),
		mcp.WithString("method", mcp.Required(), mcp.Description("HTTP method (GET, POST, PUT, PATCH, DELETE)")),
		mcp.WithString("path", mcp.Required(), mcp.Description("API path relative to the base URL (e.g., '/admin/api/accounts')")),
		mcp.WithObject("query", mcp.Description("Query parameters as a flat object of string values")),
		mcp.WithObject("body", mcp.Description("JSON request body for POST/PUT/PATCH")),
	)
}

func createGetVersionTool() mcp.Tool {
	return mcp.NewTool("get_version",
		mcp.WithDescription("Get the MCP server version and catalog size. Use this to verify connectivity."),
	)
}

func createGetDiagnosticsTool() mcp.Tool {
	return mcp.NewTool("get_diagnostics",
		mcp.WithDescription("Retrieve recent server log entries, optionally scoped to one request's correlation ID."),
		mcp.WithString("correlation_id", mcp.Description("Correlation ID of a specific API dispatch")),
		mcp.WithNumber("limit", mcp.Description("Maximum log entries to return (default: 50)")),
	)
}
