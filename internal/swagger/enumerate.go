package swagger

import (
	"encoding/json"
	"sort"
	"strings"
)

// Parameter type vocabulary. Every OpenAPI schema fragment collapses to
// one of these five when a tool input schema is built.
const (
	TypeString  = "string"
	TypeInteger = "integer"
	TypeNumber  = "number"
	TypeBoolean = "boolean"
	TypeObject  = "object"
)

// pathItemSkipKeys are path-item keys that are never operations.
var pathItemSkipKeys = map[string]bool{
	"parameters":  true,
	"servers":     true,
	"summary":     true,
	"description": true,
	"$ref":        true,
}

// EndpointDescriptor describes one (path, method) pair from the schema
// document. Built once at load time and immutable thereafter.
type EndpointDescriptor struct {
	Path        string
	Method      string // normalized to uppercase
	OperationID string
	Summary     string
	Description string
	Tags        []string
	Parameters  []ParameterDescriptor
	RequestBody *BodyDescriptor
	Responses   map[string]string // status code -> description
}

// ParameterDescriptor is one parameter of an endpoint with its schema
// fragment already collapsed to the closed type vocabulary.
type ParameterDescriptor struct {
	Name        string
	In          string // query, path, header, cookie
	Required    bool
	Type        string
	Description string
}

// BodyDescriptor describes an endpoint's request body.
type BodyDescriptor struct {
	Required     bool
	Description  string
	ContentTypes []string // sorted media types
}

// ParamType collapses a schema fragment to the closed type vocabulary:
// the explicit type when it is one of the five known ones, else integer
// for int32/int64 formats, else string.
func ParamType(s SchemaFragment) string {
	switch s.Type {
	case TypeString, TypeInteger, TypeNumber, TypeBoolean, TypeObject:
		return s.Type
	}
	switch s.Format {
	case "int32", "int64":
		return TypeInteger
	}
	return TypeString
}

// FallbackOperationID synthesizes an operation ID for operations the
// document left anonymous: "{method}_{sanitizedPath}" with every
// non-alphanumeric path character replaced by an underscore.
func FallbackOperationID(method, path string) string {
	return method + "_" + sanitize(path)
}

func sanitize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

// Enumerate walks the document's paths and produces one EndpointDescriptor
// per (path, method) pair. OPTIONS and HEAD are dropped; every other
// method token — including non-standard verbs — is retained. Results are
// sorted by path then method so the catalog is deterministic.
func Enumerate(doc *Document) []EndpointDescriptor {
	var endpoints []EndpointDescriptor

	for path, item := range doc.Paths {
		for key, raw := range item {
			if pathItemSkipKeys[strings.ToLower(key)] {
				continue
			}

			var op Operation
			if err := json.Unmarshal(raw, &op); err != nil {
				continue // not an operation object
			}

			method := strings.ToUpper(key)
			if method == "OPTIONS" || method == "HEAD" {
				continue
			}

			endpoints = append(endpoints, buildDescriptor(path, method, &op))
		}
	}

	sort.Slice(endpoints, func(i, j int) bool {
		if endpoints[i].Path != endpoints[j].Path {
			return endpoints[i].Path < endpoints[j].Path
		}
		return endpoints[i].Method < endpoints[j].Method
	})
	return endpoints
}

func buildDescriptor(path, method string, op *Operation) EndpointDescriptor {
	opID := op.OperationID
	if opID == "" {
		opID = FallbackOperationID(method, path)
	}

	params := make([]ParameterDescriptor, 0, len(op.Parameters))
	for _, p := range op.Parameters {
		params = append(params, ParameterDescriptor{
			Name:        p.Name,
			In:          p.In,
			Required:    p.Required,
			Type:        ParamType(p.Schema),
			Description: p.Description,
		})
	}

	var body *BodyDescriptor
	if op.RequestBody != nil {
		contentTypes := make([]string, 0, len(op.RequestBody.Content))
		for ct := range op.RequestBody.Content {
			contentTypes = append(contentTypes, ct)
		}
		sort.Strings(contentTypes)
		body = &BodyDescriptor{
			Required:     op.RequestBody.Required,
			Description:  op.RequestBody.Description,
			ContentTypes: contentTypes,
		}
	}

	responses := make(map[string]string, len(op.Responses))
	for code, resp := range op.Responses {
		responses[code] = resp.Description
	}

	return EndpointDescriptor{
		Path:        path,
		Method:      method,
		OperationID: opID,
		Summary:     op.Summary,
		Description: op.Description,
		Tags:        op.Tags,
		Parameters:  params,
		RequestBody: body,
		Responses:   responses,
	}
}
