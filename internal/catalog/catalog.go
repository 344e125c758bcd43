// Package catalog synthesizes MCP tool descriptors from enumerated API
// endpoints and indexes them by name for dispatch.
package catalog

import (
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/orotools/oro-mcp/internal/common"
	"github.com/orotools/oro-mcp/internal/swagger"
)

// requestBodyArg is the reserved input-schema property carrying an
// operation's request body as an opaque object.
const requestBodyArg = "requestBody"

// PropertySchema is one property of a tool input schema.
type PropertySchema struct {
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
}

// InputSchema is the JSON-schema-shaped argument description for a tool.
type InputSchema struct {
	Type       string                    `json:"type"`
	Properties map[string]PropertySchema `json:"properties"`
	Required   []string                  `json:"required,omitempty"`
}

// ToolDescriptor is a named, schema-described callable derived 1:1 from
// an endpoint.
type ToolDescriptor struct {
	Name        string
	Description string
	InputSchema InputSchema
	Endpoint    swagger.EndpointDescriptor
}

// SynthesizeTools converts endpoint descriptors into tool descriptors.
// The conversion is pure and collision-prone — name collisions are the
// index's problem, not this function's.
func SynthesizeTools(endpoints []swagger.EndpointDescriptor) []ToolDescriptor {
	tools := make([]ToolDescriptor, 0, len(endpoints))
	for _, ep := range endpoints {
		tools = append(tools, ToolDescriptor{
			Name:        ToolName(ep.OperationID),
			Description: describeEndpoint(ep),
			InputSchema: buildInputSchema(ep),
			Endpoint:    ep,
		})
	}
	return tools
}

// buildInputSchema builds the argument schema from the endpoint's path
// and query parameters, plus the opaque requestBody property when the
// body is required. Header and cookie parameters are not exposed.
func buildInputSchema(ep swagger.EndpointDescriptor) InputSchema {
	schema := InputSchema{
		Type:       "object",
		Properties: make(map[string]PropertySchema),
	}

	for _, p := range ep.Parameters {
		if p.In != "path" && p.In != "query" {
			continue
		}
		schema.Properties[p.Name] = PropertySchema{
			Type:        p.Type,
			Description: p.Description,
		}
		if p.Required {
			schema.Required = append(schema.Required, p.Name)
		}
	}

	if ep.RequestBody != nil && ep.RequestBody.Required {
		desc := ep.RequestBody.Description
		if desc == "" {
			desc = "JSON request body for this operation"
		}
		schema.Properties[requestBodyArg] = PropertySchema{
			Type:        swagger.TypeObject,
			Description: desc,
		}
		schema.Required = append(schema.Required, requestBodyArg)
	}

	return schema
}

// describeEndpoint derives the tool description: operation summary, or
// description, or a synthesized one, plus a trailing block naming the
// method, path template, and tags.
func describeEndpoint(ep swagger.EndpointDescriptor) string {
	desc := ep.Summary
	if desc == "" {
		desc = ep.Description
	}
	if desc == "" {
		desc = fmt.Sprintf("%s %s from the API", ep.Method, lastPathSegment(ep.Path))
	}

	var sb strings.Builder
	sb.WriteString(desc)
	sb.WriteString("\n\n")
	sb.WriteString(fmt.Sprintf("Method: %s\nPath: %s", ep.Method, ep.Path))
	if len(ep.Tags) > 0 {
		sb.WriteString(fmt.Sprintf("\nTags: %s", strings.Join(ep.Tags, ", ")))
	}
	return sb.String()
}

func lastPathSegment(path string) string {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	if len(segments) == 0 {
		return path
	}
	return segments[len(segments)-1]
}

// Catalog is the immutable tool catalog: the deduplicated tool list and
// a name index. Built once at startup.
type Catalog struct {
	tools  []ToolDescriptor
	byName map[string]ToolDescriptor
}

// NewCatalog indexes tool descriptors by name. On a name collision the
// first descriptor wins and the duplicate is logged and skipped, so a
// collision never silently shadows an earlier tool.
func NewCatalog(tools []ToolDescriptor, logger *common.Logger) *Catalog {
	c := &Catalog{
		tools:  make([]ToolDescriptor, 0, len(tools)),
		byName: make(map[string]ToolDescriptor, len(tools)),
	}
	for _, td := range tools {
		if prev, exists := c.byName[td.Name]; exists {
			logger.Warn().
				Str("tool", td.Name).
				Str("kept", prev.Endpoint.Method+" "+prev.Endpoint.Path).
				Str("skipped", td.Endpoint.Method+" "+td.Endpoint.Path).
				Msg("tool name collision, keeping first endpoint")
			continue
		}
		c.byName[td.Name] = td
		c.tools = append(c.tools, td)
	}
	return c
}

// Get looks up a tool descriptor by name.
func (c *Catalog) Get(name string) (ToolDescriptor, bool) {
	td, ok := c.byName[name]
	return td, ok
}

// Tools returns all indexed tool descriptors in catalog order.
func (c *Catalog) Tools() []ToolDescriptor {
	return c.tools
}

// Len returns the number of indexed tools.
func (c *Catalog) Len() int {
	return len(c.tools)
}

// Filter returns the tools matching the given tag and keyword. An empty
// tag matches everything; the keyword is matched case-insensitively
// against the tool name, description, and path template.
func (c *Catalog) Filter(tag, keyword string) []ToolDescriptor {
	keyword = strings.ToLower(keyword)
	var out []ToolDescriptor
	for _, td := range c.tools {
		if tag != "" && !hasTag(td.Endpoint.Tags, tag) {
			continue
		}
		if keyword != "" && !matchesKeyword(td, keyword) {
			continue
		}
		out = append(out, td)
	}
	return out
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

func matchesKeyword(td ToolDescriptor, keyword string) bool {
	return strings.Contains(strings.ToLower(td.Name), keyword) ||
		strings.Contains(strings.ToLower(td.Description), keyword) ||
		strings.Contains(strings.ToLower(td.Endpoint.Path), keyword)
}

// BuildMCPTool converts a ToolDescriptor into an mcp.Tool.
func BuildMCPTool(td ToolDescriptor) mcp.Tool {
	required := make(map[string]bool, len(td.InputSchema.Required))
	for _, name := range td.InputSchema.Required {
		required[name] = true
	}

	opts := []mcp.ToolOption{mcp.WithDescription(td.Description)}
	for name, prop := range td.InputSchema.Properties {
		opts = append(opts, buildParamOption(name, prop, required[name]))
	}
	return mcp.NewTool(td.Name, opts...)
}

// buildParamOption maps one input-schema property to the appropriate
// mcp-go tool option.
func buildParamOption(name string, prop PropertySchema, required bool) mcp.ToolOption {
	var opts []mcp.PropertyOption
	if prop.Description != "" {
		opts = append(opts, mcp.Description(prop.Description))
	}
	if required {
		opts = append(opts, mcp.Required())
	}

	switch prop.Type {
	case swagger.TypeInteger, swagger.TypeNumber:
		return mcp.WithNumber(name, opts...)
	case swagger.TypeBoolean:
		return mcp.WithBoolean(name, opts...)
	case swagger.TypeObject:
		return mcp.WithObject(name, opts...)
	default:
		return mcp.WithString(name, opts...)
	}
}
