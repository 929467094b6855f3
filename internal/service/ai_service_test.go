package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"aura-server/internal/config"
	"aura-server/internal/model"
)

func testAIService(apiKey, endpoint string) *AIService {
	svc := NewAIService(&config.AIConfig{GeminiAPIKey: apiKey})
	if endpoint != "" {
		svc.generateEndpoint = endpoint
	}
	svc.intn = func(n int) int { return 0 }
	return svc
}

func aiTestConversation() (*model.Conversation, *model.User) {
	return &model.Conversation{ID: 7, Type: model.ConversationTypeGeneral},
		&model.User{ID: 1, Name: "Carmen"}
}

func TestGenerateReplyWithoutAPIKeyUsesFallback(t *testing.T) {
	svc := testAIService("", "")
	conversation, owner := aiTestConversation()

	result := svc.GenerateReply(context.Background(), conversation, owner, nil, "me siento muy feliz y contento hoy", time.Now())

	if result.Text == "" {
		t.Fatalf("expected a fallback reply, got empty text")
	}
	if !strings.Contains(result.Text, "Carmen") {
		t.Fatalf("fallback reply %q should mention the user", result.Text)
	}
	if result.Sentiment != SentimentPositive {
		t.Fatalf("sentiment = %q, want %q", result.Sentiment, SentimentPositive)
	}
}

func TestGenerateReplyParsesGeminiResponse(t *testing.T) {
	var gotPath string
	var gotBody geminiRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path + "?" + r.URL.RawQuery
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"  ¡Hola Carmen! Qué gusto saludarte.  "}]}}]}`))
	}))
	defer server.Close()

	svc := testAIService("test-key", server.URL)
	conversation, owner := aiTestConversation()

	result := svc.GenerateReply(context.Background(), conversation, owner, nil, "Hola", time.Now())

	if result.Text != "¡Hola Carmen! Qué gusto saludarte." {
		t.Fatalf("text = %q, want trimmed gemini candidate", result.Text)
	}
	if !strings.Contains(gotPath, "key=test-key") {
		t.Fatalf("request should authenticate via query key, got %q", gotPath)
	}
	if len(gotBody.Contents) != 1 || len(gotBody.Contents[0].Parts) != 1 {
		t.Fatalf("request should carry one prompt part, got %+v", gotBody.Contents)
	}
	if gotBody.GenerationConfig.MaxOutputTokens != 1024 {
		t.Fatalf("maxOutputTokens = %d, want 1024", gotBody.GenerationConfig.MaxOutputTokens)
	}
	if len(gotBody.SafetySettings) != 2 {
		t.Fatalf("expected 2 safety settings, got %d", len(gotBody.SafetySettings))
	}
}

func TestGenerateReplyFallsBackOnServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	svc := testAIService("test-key", server.URL)
	conversation, owner := aiTestConversation()

	result := svc.GenerateReply(context.Background(), conversation, owner, nil, "Hola", time.Now())

	if result.Text == "" {
		t.Fatalf("expected a fallback reply on server error")
	}
	if !strings.Contains(result.Text, "Carmen") {
		t.Fatalf("fallback reply %q should mention the user", result.Text)
	}
}

func TestGenerateReplyFallsBackOnTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Hold the response open past the client deadline.
		<-release
	}))
	defer server.Close()
	defer close(release)

	svc := testAIService("test-key", server.URL)
	svc.client.Timeout = 50 * time.Millisecond
	conversation, owner := aiTestConversation()

	start := time.Now()
	result := svc.GenerateReply(context.Background(), conversation, owner, nil, "Hola", time.Now())

	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Fatalf("reply took %v, the client deadline did not fire", elapsed)
	}
	if result.Text == "" {
		t.Fatalf("expected a fallback reply when the call times out")
	}
	if !strings.Contains(result.Text, "Carmen") {
		t.Fatalf("fallback reply %q should mention the user", result.Text)
	}
}

func TestGenerateReplyFallsBackOnEmptyCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer server.Close()

	svc := testAIService("test-key", server.URL)
	conversation, owner := aiTestConversation()

	result := svc.GenerateReply(context.Background(), conversation, owner, nil, "Hola", time.Now())

	if result.Text == "" {
		t.Fatalf("expected a fallback reply on empty candidates")
	}
}

func TestTranscribeAudioWithoutKeyIsUnavailable(t *testing.T) {
	svc := NewAIService(&config.AIConfig{})

	_, err := svc.TranscribeAudio(context.Background(), []byte("audio"), "nota.mp3")
	if err != ErrTranscriptionUnavailable {
		t.Fatalf("err = %v, want ErrTranscriptionUnavailable", err)
	}
}

func TestTranscribeAudioParsesWhisperResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer whisper-key" {
			t.Errorf("Authorization = %q", got)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("expected multipart form: %v", err)
		}
		if got := r.FormValue("model"); got != "whisper-1" {
			t.Errorf("model = %q", got)
		}
		w.Write([]byte(`{"text":"Hoy me sentí muy bien"}`))
	}))
	defer server.Close()

	svc := NewAIService(&config.AIConfig{OpenAIAPIKey: "whisper-key"})
	svc.transcribeEndpoint = server.URL

	text, err := svc.TranscribeAudio(context.Background(), []byte("audio"), "nota.mp3")
	if err != nil {
		t.Fatalf("TranscribeAudio failed: %v", err)
	}
	if text != "Hoy me sentí muy bien" {
		t.Fatalf("text = %q", text)
	}
}
