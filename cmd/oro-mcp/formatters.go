package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/orotools/oro-mcp/internal/client"
)

// previewLimit caps how many list items the summary enumerates before
// collapsing the remainder into a count.
const previewLimit = 3

// previewFields are tried in order when summarizing an item; the first
// present field labels the item in the preview line.
var previewFields = []string{"id", "name", "title", "sku", "email", "status"}

// formatCallResult renders an upstream call outcome as markdown for the
// MCP client.
func formatCallResult(result client.CallResult) string {
	var sb strings.Builder

	if !result.Success {
		status := "Unknown"
		if result.HTTPStatus != 0 {
			status = fmt.Sprintf("%d", result.HTTPStatus)
		}
		sb.WriteString(fmt.Sprintf("# Request Failed: %s %s\n\n", result.Method, result.Path))
		sb.WriteString(fmt.Sprintf("**Status:** %s\n", status))
		sb.WriteString(fmt.Sprintf("**Error:** %s\n", result.Error))
		return sb.String()
	}

	sb.WriteString(fmt.Sprintf("# %s %s\n\n", result.Method, result.Path))
	sb.WriteString(fmt.Sprintf("**Status:** %d\n\n", result.HTTPStatus))

	payload := unwrapDataEnvelope(result.Data)
	switch data := payload.(type) {
	case nil:
		sb.WriteString("No data returned.\n")
	case []any:
		sb.WriteString(fmt.Sprintf("Returned %d item(s).\n", len(data)))
		for i, item := range data {
			if i >= previewLimit {
				sb.WriteString(fmt.Sprintf("- ...and %d more items\n", len(data)-previewLimit))
				break
			}
			sb.WriteString("- " + summarizeItem(item) + "\n")
		}
	case map[string]any:
		sb.WriteString(summarizeItem(data) + "\n")
	default:
		sb.WriteString(fmt.Sprintf("%v\n", data))
	}

	return sb.String()
}

// unwrapDataEnvelope strips the top-level JSON:API data wrapper so list
// and item previews work on the records themselves.
func unwrapDataEnvelope(payload any) any {
	obj, ok := payload.(map[string]any)
	if !ok {
		return payload
	}
	inner, ok := obj["data"]
	if !ok {
		return payload
	}
	return inner
}

// summarizeItem renders one record as a short "key: value" line. JSON:API
// resources keep most fields under attributes, so those are merged in.
func summarizeItem(item any) string {
	obj, ok := item.(map[string]any)
	if !ok {
		return fmt.Sprintf("%v", item)
	}

	fields := map[string]any{}
	for k, v := range obj {
		fields[k] = v
	}
	if attrs, ok := obj["attributes"].(map[string]any); ok {
		for k, v := range attrs {
			if _, exists := fields[k]; !exists {
				fields[k] = v
			}
		}
	}

	var parts []string
	for _, name := range previewFields {
		if len(parts) >= previewLimit {
			break
		}
		if v, ok := fields[name]; ok && v != nil {
			parts = append(parts, fmt.Sprintf("%s: %v", name, v))
		}
	}
	if len(parts) > 0 {
		return strings.Join(parts, ", ")
	}

	// No preferred field present: show the first few keys deterministically.
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for i, k := range keys {
		if i >= previewLimit {
			break
		}
		parts = append(parts, fmt.Sprintf("%s: %v", k, fields[k]))
	}
	if len(parts) == 0 {
		return "(empty object)"
	}
	return strings.Join(parts, ", ")
}
