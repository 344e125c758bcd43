package swagger

import (
	"errors"
	"testing"
)

func TestLoad_InvalidJSON_ReturnsParseError(t *testing.T) {
	_, err := Load([]byte(`{not json`))
	if err == nil {
		t.Fatal("expected error for invalid JSON")
	}
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %T", err)
	}
}

func TestLoad_MissingPaths_ReturnsParseError(t *testing.T) {
	_, err := Load([]byte(`{"openapi": "3.0.0", "info": {"title": "x"}}`))
	if err == nil {
		t.Fatal("expected error for document without paths")
	}
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %T", err)
	}
}

func TestLoad_EmptyPaths_Succeeds(t *testing.T) {
	doc, err := Load([]byte(`{"openapi": "3.0.0", "paths": {}}`))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(doc.Paths) != 0 {
		t.Errorf("expected 0 paths, got %d", len(doc.Paths))
	}
}

func TestLoad_Swagger2_IsFlaggedNotRejected(t *testing.T) {
	doc, err := Load([]byte(`{"swagger": "2.0", "paths": {}}`))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !doc.IsSwagger2() {
		t.Error("expected IsSwagger2 to be true for a swagger 2.0 document")
	}
}

func TestLoad_ReadsInfoBlock(t *testing.T) {
	doc, err := Load([]byte(`{"openapi": "3.0.0", "info": {"title": "ORO API", "version": "5.1"}, "paths": {}}`))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if doc.Info.Title != "ORO API" {
		t.Errorf("expected title 'ORO API', got %q", doc.Info.Title)
	}
	if doc.Info.Version != "5.1" {
		t.Errorf("expected version '5.1', got %q", doc.Info.Version)
	}
}
