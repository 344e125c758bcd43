package main

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/orotools/oro-mcp/internal/catalog"
	"github.com/orotools/oro-mcp/internal/client"
	"github.com/orotools/oro-mcp/internal/common"
	"github.com/orotools/oro-mcp/internal/swagger"
)

// --- Helpers ---

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(text),
		},
	}
}

func errorResult(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(message),
		},
		IsError: true,
	}
}

// buildCallArgs partitions the tool arguments into path params, query
// params, and the request body, using the endpoint's parameter locations.
func buildCallArgs(ep swagger.EndpointDescriptor, args map[string]any) client.CallArgs {
	call := client.CallArgs{
		PathParams:  map[string]string{},
		QueryParams: map[string]string{},
	}
	for _, param := range ep.Parameters {
		value, ok := args[param.Name]
		if !ok || value == nil {
			continue
		}
		switch param.In {
		case "path":
			call.PathParams[param.Name] = stringifyArg(value)
		case "query":
			call.QueryParams[param.Name] = stringifyArg(value)
		}
	}
	if body, ok := args["requestBody"]; ok && body != nil {
		call.Body = body
	}
	return call
}

// stringifyArg renders a tool argument as a URL-safe string. Integers
// arrive from JSON as float64 and must not gain a decimal point.
func stringifyArg(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		if v == float64(int64(v)) {
			return fmt.Sprintf("%d", int64(v))
		}
		return fmt.Sprintf("%g", v)
	case bool:
		return fmt.Sprintf("%t", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// --- Handlers ---

// handleEndpointTool dispatches one catalogued endpoint.
func handleEndpointTool(oro *client.OroClient, td catalog.ToolDescriptor) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := buildCallArgs(td.Endpoint, request.GetArguments())
		result := oro.Execute(ctx, td.Endpoint, args)

		text := formatCallResult(result)
		if !result.Success {
			return errorResult(text), nil
		}
		return textResult(text), nil
	}
}

func handleListEndpoints(cat *catalog.Catalog) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		tag := request.GetString("tag", "")
		keyword := request.GetString("keyword", "")

		tools := cat.Filter(tag, keyword)
		if len(tools) == 0 {
			return textResult("No endpoints match the given filter."), nil
		}

		var sb strings.Builder
		sb.WriteString("# API Endpoints\n\n")
		sb.WriteString("| Tool | Method | Path |\n")
		sb.WriteString("|------|--------|------|\n")
		for _, td := range tools {
			sb.WriteString(fmt.Sprintf("| %s | %s | %s |\n", td.Name, td.Endpoint.Method, td.Endpoint.Path))
		}
		sb.WriteString(fmt.Sprintf("\n%d endpoint(s). Use `describe_endpoint` for parameter detail.\n", len(tools)))
		return textResult(sb.String()), nil
	}
}

func handleDescribeEndpoint(cat *catalog.Catalog) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name, err := request.RequireString("name")
		if err != nil || name == "" {
			return errorResult("Error: name parameter is required"), nil
		}

		td, ok := cat.Get(name)
		if !ok {
			return errorResult(fmt.Sprintf("Error: no endpoint named '%s'. Use list_endpoints to browse the catalog.", name)), nil
		}

		ep := td.Endpoint
		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("# %s\n\n", td.Name))
		sb.WriteString(fmt.Sprintf("**%s %s**\n\n", ep.Method, ep.Path))
		if ep.Summary != "" {
			sb.WriteString(ep.Summary + "\n\n")
		}
		if ep.Description != "" && ep.Description != ep.Summary {
			sb.WriteString(ep.Description + "\n\n")
		}

		if len(ep.Parameters) > 0 {
			sb.WriteString("## Parameters\n\n")
			sb.WriteString("| Name | In | Type | Required | Description |\n")
			sb.WriteString("|------|----|------|----------|-------------|\n")
			for _, param := range ep.Parameters {
				sb.WriteString(fmt.Sprintf("| %s | %s | %s | %t | %s |\n",
					param.Name, param.In, param.Type, param.Required, param.Description))
			}
			sb.WriteString("\n")
		}

		if ep.RequestBody != nil {
			sb.WriteString("## Request Body\n\n")
			sb.WriteString(fmt.Sprintf("- Required: %t\n", ep.RequestBody.Required))
			if ep.RequestBody.Description != "" {
				sb.WriteString(fmt.Sprintf("- %s\n", ep.RequestBody.Description))
			}
			if len(ep.RequestBody.ContentTypes) > 0 {
				sb.WriteString(fmt.Sprintf("- Content types: %s\n", strings.Join(ep.RequestBody.ContentTypes, ", ")))
			}
			sb.WriteString("\n")
		}

		if len(ep.Responses) > 0 {
			sb.WriteString("## Responses\n\n")
			codes := make([]string, 0, len(ep.Responses))
			for code := range ep.Responses {
				codes = append(codes, code)
			}
			sort.Strings(codes)
			for _, code := range codes {
				sb.WriteString(fmt.Sprintf("- **%s**: %s\n", code, ep.Responses[code]))
			}
		}

		return textResult(sb.String()), nil
	}
}

func handleAPIRequest(oro *client.OroClient) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		method, err := request.RequireString("method")
		if err != nil || method == "" {
			return errorResult("Error: method parameter is required"), nil
		}
		path, err := request.RequireString("path")
		if err != nil || path == "" {
			return errorResult("Error: path parameter is required"), nil
		}
		if !strings.HasPrefix(path, "/") {
			path = "/" + path
		}

		args := request.GetArguments()
		call := client.CallArgs{QueryParams: map[string]string{}}
		if query, ok := args["query"].(map[string]any); ok {
			for name, value := range query {
				call.QueryParams[name] = stringifyArg(value)
			}
		}
		if body, ok := args["body"]; ok && body != nil {
			call.Body = body
		}

		result := oro.ExecuteRaw(ctx, method, path, call)
		text := formatCallResult(result)
		if !result.Success {
			return errorResult(text), nil
		}
		return textResult(text), nil
	}
}

func handleGetVersion(cat *catalog.Catalog) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result := fmt.Sprintf("Oro MCP Server\nVersion: %s\nBuild: %s\nCommit: %s\nCatalog: %d tools\nStatus: OK",
			common.GetVersion(), common.GetBuild(), common.GetGitCommit(), cat.Len())
		return textResult(result), nil
	}
}

func handleGetDiagnostics(logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var (
			entries map[string]string
			err     error
		)
		if cid := request.GetString("correlation_id", ""); cid != "" {
			entries, err = logger.GetMemoryLogsForCorrelation(cid)
		} else {
			limit := request.GetInt("limit", 50)
			entries, err = logger.GetMemoryLogsWithLimit(limit)
		}
		if err != nil {
			return errorResult(fmt.Sprintf("Error reading logs: %v", err)), nil
		}
		if len(entries) == 0 {
			return textResult("No log entries recorded."), nil
		}

		keys := make([]string, 0, len(entries))
		for k := range entries {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		var sb strings.Builder
		sb.WriteString("# Server Diagnostics\n\n")
		sb.WriteString(fmt.Sprintf("Version: %s (build %s)\n\n", common.GetVersion(), common.GetBuild()))
		for _, k := range keys {
			sb.WriteString(entries[k])
			sb.WriteString("\n")
		}
		return textResult(sb.String()), nil
	}
}
