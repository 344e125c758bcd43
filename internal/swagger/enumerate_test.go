package swagger

import (
	"testing"
)

func mustLoad(t *testing.T, data string) *Document {
	t.Helper()
	doc, err := Load([]byte(data))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return doc
}

func TestEnumerate_OneDescriptorPerPathMethod(t *testing.T) {
	doc := mustLoad(t, `{
		"openapi": "3.0.0",
		"paths": {
			"/accounts": {
				"get": {"operationId": "accounts_list"},
				"post": {"operationId": "accounts_create"}
			},
			"/accounts/{id}": {
				"get": {"operationId": "accounts_get"},
				"patch": {"operationId": "accounts_update"},
				"delete": {"operationId": "accounts_delete"}
			}
		}
	}`)

	endpoints := Enumerate(doc)
	if len(endpoints) != 5 {
		t.Fatalf("expected 5 endpoints, got %d", len(endpoints))
	}
}

func TestEnumerate_DropsOptionsAndHead(t *testing.T) {
	doc := mustLoad(t, `{
		"openapi": "3.0.0",
		"paths": {
			"/widgets": {
				"get": {},
				"options": {},
				"head": {}
			}
		}
	}`)

	endpoints := Enumerate(doc)
	if len(endpoints) != 1 {
		t.Fatalf("expected 1 endpoint, got %d", len(endpoints))
	}
	if endpoints[0].Method != "GET" {
		t.Errorf("expected GET, got %s", endpoints[0].Method)
	}
}

func TestEnumerate_RetainsCustomVerbs(t *testing.T) {
	doc := mustLoad(t, `{
		"openapi": "3.0.0",
		"paths": {
			"/jobs/{id}": {
				"purge": {"operationId": "jobs_purge"}
			}
		}
	}`)

	endpoints := Enumerate(doc)
	if len(endpoints) != 1 {
		t.Fatalf("expected custom verb to be retained, got %d endpoints", len(endpoints))
	}
	if endpoints[0].Method != "PURGE" {
		t.Errorf("expected method PURGE, got %s", endpoints[0].Method)
	}
}

func TestEnumerate_SkipsPathLevelParameters(t *testing.T) {
	doc := mustLoad(t, `{
		"openapi": "3.0.0",
		"paths": {
			"/orders/{id}": {
				"parameters": [{"name": "id", "in": "path", "required": true}],
				"get": {"operationId": "orders_get"}
			}
		}
	}`)

	endpoints := Enumerate(doc)
	if len(endpoints) != 1 {
		t.Fatalf("expected 1 endpoint, got %d", len(endpoints))
	}
}

func TestEnumerate_FallbackOperationID(t *testing.T) {
	doc := mustLoad(t, `{
		"openapi": "3.0.0",
		"paths": {
			"/widgets/{id}": {
				"get": {"summary": "Get a widget"}
			}
		}
	}`)

	endpoints := Enumerate(doc)
	if len(endpoints) != 1 {
		t.Fatalf("expected 1 endpoint, got %d", len(endpoints))
	}
	if endpoints[0].OperationID != "GET__widgets__id_" {
		t.Errorf("unexpected fallback operation ID: %q", endpoints[0].OperationID)
	}
}

func TestEnumerate_SortedByPathThenMethod(t *testing.T) {
	doc := mustLoad(t, `{
		"openapi": "3.0.0",
		"paths": {
			"/b": {"get": {}},
			"/a": {"post": {}, "get": {}}
		}
	}`)

	endpoints := Enumerate(doc)
	if len(endpoints) != 3 {
		t.Fatalf("expected 3 endpoints, got %d", len(endpoints))
	}
	if endpoints[0].Path != "/a" || endpoints[0].Method != "GET" {
		t.Errorf("expected /a GET first, got %s %s", endpoints[0].Method, endpoints[0].Path)
	}
	if endpoints[1].Path != "/a" || endpoints[1].Method != "POST" {
		t.Errorf("expected /a POST second, got %s %s", endpoints[1].Method, endpoints[1].Path)
	}
	if endpoints[2].Path != "/b" {
		t.Errorf("expected /b last, got %s", endpoints[2].Path)
	}
}

func TestEnumerate_CapturesParametersAndBody(t *testing.T) {
	doc := mustLoad(t, `{
		"openapi": "3.0.0",
		"paths": {
			"/products": {
				"post": {
					"operationId": "products_create",
					"tags": ["products", "catalog"],
					"parameters": [
						{"name": "include", "in": "query", "schema": {"type": "string"}, "description": "related resources"}
					],
					"requestBody": {
						"required": true,
						"description": "product payload",
						"content": {"application/vnd.api+json": {"schema": {}}}
					},
					"responses": {
						"201": {"description": "Created"},
						"400": {"description": "Bad request"}
					}
				}
			}
		}
	}`)

	endpoints := Enumerate(doc)
	if len(endpoints) != 1 {
		t.Fatalf("expected 1 endpoint, got %d", len(endpoints))
	}
	ep := endpoints[0]

	if len(ep.Parameters) != 1 || ep.Parameters[0].Name != "include" || ep.Parameters[0].In != "query" {
		t.Errorf("unexpected parameters: %+v", ep.Parameters)
	}
	if ep.RequestBody == nil || !ep.RequestBody.Required {
		t.Fatalf("expected required request body, got %+v", ep.RequestBody)
	}
	if len(ep.RequestBody.ContentTypes) != 1 || ep.RequestBody.ContentTypes[0] != "application/vnd.api+json" {
		t.Errorf("unexpected content types: %v", ep.RequestBody.ContentTypes)
	}
	if ep.Responses["201"] != "Created" {
		t.Errorf("expected 201 response description, got %q", ep.Responses["201"])
	}
	if len(ep.Tags) != 2 {
		t.Errorf("expected 2 tags, got %v", ep.Tags)
	}
}

func TestParamType_ClosedVocabulary(t *testing.T) {
	cases := []struct {
		name string
		in   SchemaFragment
		want string
	}{
		{"explicit string", SchemaFragment{Type: "string"}, TypeString},
		{"explicit integer", SchemaFragment{Type: "integer"}, TypeInteger},
		{"explicit number", SchemaFragment{Type: "number"}, TypeNumber},
		{"explicit boolean", SchemaFragment{Type: "boolean"}, TypeBoolean},
		{"explicit object", SchemaFragment{Type: "object"}, TypeObject},
		{"format int32", SchemaFragment{Format: "int32"}, TypeInteger},
		{"format int64", SchemaFragment{Format: "int64"}, TypeInteger},
		{"format float ignored", SchemaFragment{Format: "float"}, TypeString},
		{"empty fragment", SchemaFragment{}, TypeString},
		{"unknown type falls back", SchemaFragment{Type: "array"}, TypeString},
		{"unknown type with int64 format", SchemaFragment{Type: "array", Format: "int64"}, TypeInteger},
	}
	for _, tc := range cases {
		if got := ParamType(tc.in); got != tc.want {
			t.Errorf("%s: ParamType(%+v) = %q, want %q", tc.name, tc.in, got, tc.want)
		}
	}
}
