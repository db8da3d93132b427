package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	pkgerrors "github.com/bernardo0921/AgriGuide-Backend/pkg/errors"
)

func TestNewClientRequiresAPIKey(t *testing.T) {
	if _, err := NewClient("  "); err == nil {
		t.Fatal("expected error for blank api key")
	}
}

func TestGenerateContentSuccess(t *testing.T) {
	var captured generateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("key") != "test-key" {
			t.Errorf("missing api key query param")
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]any{
					{"text": "Rotate your maize "},
					{"text": "with legumes."},
				}}},
			},
		})
	}))
	defer server.Close()

	client, err := NewClient("test-key", WithBaseURL(server.URL), WithHTTPClient(server.Client()), WithModel("gemini-2.5-flash"))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	reply, err := client.GenerateContent(context.Background(), "You are a farming assistant.", []Turn{
		{Role: RoleUser, Text: "How do I improve soil fertility?"},
	})
	if err != nil {
		t.Fatalf("generate content: %v", err)
	}
	if reply != "Rotate your maize with legumes." {
		t.Fatalf("unexpected reply %q", reply)
	}

	if captured.SystemInstruction == nil || len(captured.SystemInstruction.Parts) != 1 {
		t.Fatal("system instruction not forwarded")
	}
	if len(captured.Contents) != 1 || captured.Contents[0].Role != RoleUser {
		t.Fatalf("unexpected contents %+v", captured.Contents)
	}
}

func TestGenerateContentSendsHistoryInOrder(t *testing.T) {
	var captured generateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&captured)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]any{{"text": "ok"}}}},
			},
		})
	}))
	defer server.Close()

	client, err := NewClient("test-key", WithBaseURL(server.URL), WithHTTPClient(server.Client()))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	turns := []Turn{
		{Role: RoleUser, Text: "first"},
		{Role: RoleModel, Text: "second"},
		{Role: RoleUser, Text: "third"},
	}
	if _, err := client.GenerateContent(context.Background(), "", turns); err != nil {
		t.Fatalf("generate content: %v", err)
	}

	if len(captured.Contents) != 3 {
		t.Fatalf("expected 3 turns, got %d", len(captured.Contents))
	}
	for i, turn := range turns {
		if captured.Contents[i].Role != turn.Role || captured.Contents[i].Parts[0].Text != turn.Text {
			t.Fatalf("turn %d not preserved: %+v", i, captured.Contents[i])
		}
	}
	if captured.SystemInstruction != nil {
		t.Fatal("blank system instruction should be omitted")
	}
}

func TestGenerateContentUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"quota exceeded"}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	client, err := NewClient("test-key", WithBaseURL(server.URL), WithHTTPClient(server.Client()))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	_, err = client.GenerateContent(context.Background(), "", []Turn{{Role: RoleUser, Text: "hi"}})
	if err == nil {
		t.Fatal("expected upstream error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestGenerateContentEmptyCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"candidates": []any{}})
	}))
	defer server.Close()

	client, err := NewClient("test-key", WithBaseURL(server.URL), WithHTTPClient(server.Client()))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	if _, err := client.GenerateContent(context.Background(), "", []Turn{{Role: RoleUser, Text: "hi"}}); err == nil {
		t.Fatal("expected error for empty candidates")
	}
}

func TestGenerateContentValidation(t *testing.T) {
	client, err := NewClient("test-key")
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	if _, err := client.GenerateContent(context.Background(), "", nil); err == nil {
		t.Fatal("expected error for empty turns")
	}
	if _, err := client.GenerateContent(context.Background(), "", []Turn{{Role: "system", Text: "x"}}); err == nil {
		t.Fatal("expected error for invalid role")
	}
}
