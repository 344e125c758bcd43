// Package swagger loads an OpenAPI 3.x JSON document and enumerates the
// API endpoints it describes.
package swagger

import (
	"encoding/json"
	"fmt"
	"os"
)

// ParseError indicates the schema document could not be parsed.
// It is fatal at startup — there is no recovery path.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("swagger: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("swagger: %s", e.Reason)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Document is the in-memory form of an OpenAPI document. Path items are
// kept as raw maps so non-standard method keys survive the decode.
type Document struct {
	OpenAPI string              `json:"openapi"`
	Swagger string              `json:"swagger"`
	Info    Info                `json:"info"`
	Paths   map[string]PathItem `json:"paths"`
}

// Info holds the document's info block.
type Info struct {
	Title       string `json:"title"`
	Version     string `json:"version"`
	Description string `json:"description"`
}

// PathItem maps a path-item key (usually an HTTP method token, but also
// "parameters" and friends) to its raw JSON value.
type PathItem map[string]json.RawMessage

// Operation is one operation object under a path item.
type Operation struct {
	OperationID string              `json:"operationId"`
	Summary     string              `json:"summary"`
	Description string              `json:"description"`
	Tags        []string            `json:"tags"`
	Parameters  []Parameter         `json:"parameters"`
	RequestBody *RequestBody        `json:"requestBody"`
	Responses   map[string]Response `json:"responses"`
}

// Parameter describes one operation parameter.
type Parameter struct {
	Name        string         `json:"name"`
	In          string         `json:"in"` // query, path, header, cookie
	Required    bool           `json:"required"`
	Description string         `json:"description"`
	Schema      SchemaFragment `json:"schema"`
}

// SchemaFragment is the subset of a JSON-schema fragment the gateway
// inspects when inferring a parameter type.
type SchemaFragment struct {
	Type   string `json:"type"`
	Format string `json:"format"`
}

// RequestBody describes an operation's request body.
type RequestBody struct {
	Required    bool                       `json:"required"`
	Description string                     `json:"description"`
	Content     map[string]json.RawMessage `json:"content"` // keyed by media type
}

// Response holds the description for one status code.
type Response struct {
	Description string `json:"description"`
}

// IsSwagger2 reports whether the document declares a Swagger 2.x version.
// Such documents are not rejected — they enumerate whatever their paths
// block yields — but callers should log the degradation.
func (d *Document) IsSwagger2() bool {
	return d.Swagger != ""
}

// Load parses raw bytes into a Document. It fails with a ParseError when
// the bytes are not valid JSON or the top level has no paths field.
func Load(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &ParseError{Reason: "invalid JSON document", Err: err}
	}
	if doc.Paths == nil {
		return nil, &ParseError{Reason: "document has no paths field"}
	}
	return &doc, nil
}

// LoadFile reads and parses the schema document at path.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema document %s: %w", path, err)
	}
	return Load(data)
}
