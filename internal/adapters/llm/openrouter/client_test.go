package openrouter_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/randomtoy/arcano/internal/adapters/llm/openrouter"
	"github.com/randomtoy/arcano/internal/domain"
	"github.com/randomtoy/arcano/internal/ports"
)

func testInput() ports.NarrateInput {
	return ports.NarrateInput{
		Spread:   "Tres Cartas",
		Question: "¿Qué me espera?",
		Lang:     "es",
		Cards: []ports.CardInput{
			{Name: "El Loco", Index: 1, Position: "Pasado", Orientation: "upright", Keywords: []string{"inicio"}, Meaning: "Nuevos comienzos"},
			{Name: "El Mago", Index: 2, Position: "Presente", Orientation: "reversed", Keywords: []string{"poder"}, Meaning: "Manipulación"},
			{Name: "La Estrella", Index: 3, Position: "Futuro", Orientation: "upright", Keywords: []string{"esperanza"}, Meaning: "Esperanza"},
		},
		Interpretation: "Pasado: El Loco indica que inicio ha sido una influencia importante.",
	}
}

func chatReply(w http.ResponseWriter, content string) {
	resp := map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func TestClient_Narrate_Success(t *testing.T) {
	llmJSON, _ := json.Marshal(map[string]string{
		"text":       "Una narración reflexiva.",
		"disclaimer": "Solo para reflexión.",
	})

	var gotReq struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/chat/completions" {
			t.Errorf("expected /chat/completions, got %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("bad auth header: %s", r.Header.Get("Authorization"))
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("bad content-type: %s", r.Header.Get("Content-Type"))
		}

		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotReq)
		chatReply(w, string(llmJSON))
	}))
	defer srv.Close()

	client := openrouter.NewClient(srv.Client(), "test-key", srv.URL+"/", "test-model", nil, slog.Default())

	out, err := client.Narrate(context.Background(), testInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out.Text != "Una narración reflexiva." {
		t.Errorf("unexpected text: %s", out.Text)
	}
	if out.Disclaimer != "Solo para reflexión." {
		t.Errorf("unexpected disclaimer: %s", out.Disclaimer)
	}
	if out.Model != "test-model" {
		t.Errorf("unexpected model: %s", out.Model)
	}

	if gotReq.Model != "test-model" {
		t.Errorf("request model: %v", gotReq.Model)
	}
	if len(gotReq.Messages) != 2 {
		t.Fatalf("expected system and user messages, got %d", len(gotReq.Messages))
	}
	if !strings.Contains(gotReq.Messages[0].Content, "Respond entirely in Spanish.") {
		t.Error("system prompt is missing the language instruction")
	}
	user := gotReq.Messages[1].Content
	for _, want := range []string{"2. Presente: El Mago (reversed)", "¿Qué me espera?", "El Loco indica que inicio"} {
		if !strings.Contains(user, want) {
			t.Errorf("user prompt missing %q:\n%s", want, user)
		}
	}
}

func TestClient_Narrate_CodeFence(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		chatReply(w, "```json\n{\"text\":\"Con cerco.\"}\n```")
	}))
	defer srv.Close()

	client := openrouter.NewClient(srv.Client(), "key", srv.URL, "model", nil, slog.Default())

	out, err := client.Narrate(context.Background(), testInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Text != "Con cerco." {
		t.Errorf("unexpected text: %s", out.Text)
	}
	if out.Disclaimer == "" {
		t.Error("expected default disclaimer")
	}
}

func TestClient_Narrate_BadJSON_Retry_Success(t *testing.T) {
	callCount := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		callCount++
		if callCount == 1 {
			chatReply(w, "this is not json at all")
			return
		}
		chatReply(w, `{"text":"Narración corregida."}`)
	}))
	defer srv.Close()

	client := openrouter.NewClient(srv.Client(), "key", srv.URL, "model", nil, slog.Default())

	out, err := client.Narrate(context.Background(), testInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if callCount != 2 {
		t.Errorf("expected 2 calls (first + retry), got %d", callCount)
	}
	if out.Text != "Narración corregida." {
		t.Errorf("unexpected text: %s", out.Text)
	}
}

func TestClient_Narrate_BadJSON_Retry_Failure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		chatReply(w, "still not json")
	}))
	defer srv.Close()

	client := openrouter.NewClient(srv.Client(), "key", srv.URL, "model", nil, slog.Default())

	_, err := client.Narrate(context.Background(), testInput())
	if !errors.Is(err, domain.ErrInvalidLLMJSON) {
		t.Fatalf("expected ErrInvalidLLMJSON, got %v", err)
	}
}

func TestClient_Narrate_EmptyText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		chatReply(w, `{"text":"  "}`)
	}))
	defer srv.Close()

	client := openrouter.NewClient(srv.Client(), "key", srv.URL, "model", nil, slog.Default())

	_, err := client.Narrate(context.Background(), testInput())
	if !errors.Is(err, domain.ErrInvalidLLMJSON) {
		t.Fatalf("expected ErrInvalidLLMJSON, got %v", err)
	}
}

func TestClient_Narrate_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"boom"}`))
	}))
	defer srv.Close()

	client := openrouter.NewClient(srv.Client(), "key", srv.URL, "model", nil, slog.Default())

	_, err := client.Narrate(context.Background(), testInput())
	if !errors.Is(err, domain.ErrUpstreamLLM) {
		t.Fatalf("expected ErrUpstreamLLM, got %v", err)
	}
}

func TestClient_Narrate_FallbackModel(t *testing.T) {
	var models []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Model string `json:"model"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		models = append(models, req.Model)
		if req.Model == "primary" {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		chatReply(w, `{"text":"Desde el respaldo."}`)
	}))
	defer srv.Close()

	client := openrouter.NewClient(srv.Client(), "key", srv.URL, "primary", []string{"backup"}, slog.Default())

	out, err := client.Narrate(context.Background(), testInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Model != "backup" {
		t.Errorf("expected backup model, got %s", out.Model)
	}
	if len(models) != 2 || models[0] != "primary" || models[1] != "backup" {
		t.Errorf("unexpected model order: %v", models)
	}
}
