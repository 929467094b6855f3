package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"math/rand"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"aura-server/internal/config"
	"aura-server/internal/model"
)

const (
	// Gemini generateContent endpoint.
	geminiEndpoint = "https://generativelanguage.googleapis.com/v1beta/models/gemini-1.5-flash:generateContent"

	// Whisper transcription endpoint.
	whisperEndpoint = "https://api.openai.com/v1/audio/transcriptions"

	// Per-request timeout for both external calls.
	aiRequestTimeout = 30 * time.Second
)

// AIService talks to the external generation and transcription services.
// Generation failures are absorbed: every failure path produces a canned
// fallback reply, never an error visible to callers.
type AIService struct {
	cfg    *config.AIConfig
	client *http.Client

	// Overridable in tests.
	generateEndpoint   string
	transcribeEndpoint string
	intn               func(int) int
}

// NewAIService creates an AIService.
func NewAIService(cfg *config.AIConfig) *AIService {
	return &AIService{
		cfg: cfg,
		client: &http.Client{
			Timeout: aiRequestTimeout,
		},
		generateEndpoint:   geminiEndpoint,
		transcribeEndpoint: whisperEndpoint,
		intn:               rand.Intn,
	}
}

// GenerationResult is the outcome of one generation attempt: the reply text
// and the sentiment tag computed over the user's message.
type GenerationResult struct {
	Text      string
	Sentiment string
}

// geminiRequest mirrors the generateContent request body.
type geminiRequest struct {
	Contents         []geminiContent       `json:"contents"`
	GenerationConfig geminiGenConfig       `json:"generationConfig"`
	SafetySettings   []geminiSafetySetting `json:"safetySettings"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenConfig struct {
	Temperature     float64 `json:"temperature"`
	TopK            int     `json:"topK"`
	TopP            float64 `json:"topP"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type geminiSafetySetting struct {
	Category  string `json:"category"`
	Threshold string `json:"threshold"`
}

// geminiResponse mirrors the fields of the generateContent response we read.
type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// GenerateReply produces the AI reply for a new user message. When no API
// key is configured, or when the external call fails in any way, the reply
// comes from the canned fallback set for the conversation type. history must
// be ordered oldest to newest.
func (s *AIService) GenerateReply(ctx context.Context, conversation *model.Conversation, owner *model.User, history []model.Message, userMessage string, now time.Time) GenerationResult {
	result := GenerationResult{
		Sentiment: AnalyzeSentiment(userMessage),
	}

	if s.cfg.GeminiAPIKey == "" {
		log.Printf("[WARN] gemini api key not configured, using fallback responses")
		result.Text = fallbackResponse(conversation.Type, owner.Name, s.intn)
		return result
	}

	prompt := BuildPrompt(conversation, owner, history, userMessage, now)

	text, err := s.callGemini(ctx, prompt)
	if err != nil {
		log.Printf("[ERROR] gemini generation failed for conversation %d: %v", conversation.ID, err)
		result.Text = fallbackResponse(conversation.Type, owner.Name, s.intn)
		return result
	}

	result.Text = text
	return result
}

// callGemini performs one bounded generateContent request and returns the
// trimmed generated text.
func (s *AIService) callGemini(ctx context.Context, prompt string) (string, error) {
	reqBody := geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: prompt}}},
		},
		GenerationConfig: geminiGenConfig{
			Temperature:     0.7,
			TopK:            40,
			TopP:            0.95,
			MaxOutputTokens: 1024,
		},
		SafetySettings: []geminiSafetySetting{
			{Category: "HARM_CATEGORY_HARASSMENT", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
			{Category: "HARM_CATEGORY_HATE_SPEECH", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	url := s.generateEndpoint + "?key=" + s.cfg.GeminiAPIKey
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to call gemini: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini returned status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var geminiResp geminiResponse
	if err := json.Unmarshal(bodyBytes, &geminiResp); err != nil {
		return "", fmt.Errorf("failed to parse gemini response: %w", err)
	}

	if len(geminiResp.Candidates) == 0 || len(geminiResp.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("gemini returned no candidates")
	}

	text := strings.TrimSpace(geminiResp.Candidates[0].Content.Parts[0].Text)
	if text == "" {
		return "", errors.New("gemini returned empty text")
	}

	return text, nil
}

// whisperResponse mirrors the transcription response.
type whisperResponse struct {
	Text string `json:"text"`
}

// ErrTranscriptionUnavailable is returned when transcription is not
// configured or the external call fails.
var ErrTranscriptionUnavailable = errors.New("transcription service unavailable")

// TranscribeAudio forwards a recorded voice note to the Whisper API and
// returns the Spanish transcription. Unlike generation there is no fallback:
// the caller is told to type the entry manually.
func (s *AIService) TranscribeAudio(ctx context.Context, audio []byte, filename string) (string, error) {
	if s.cfg.OpenAIAPIKey == "" {
		return "", ErrTranscriptionUnavailable
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", err
	}
	if _, err := part.Write(audio); err != nil {
		return "", err
	}
	writer.WriteField("model", "whisper-1")
	writer.WriteField("language", "es")
	writer.WriteField("response_format", "json")
	writer.WriteField("prompt", "Este es un audio de diario personal en español. Por favor transcribe con precisión incluyendo emociones y sentimientos.")
	if err := writer.Close(); err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.transcribeEndpoint, &body)
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Authorization", "Bearer "+s.cfg.OpenAIAPIKey)
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := s.client.Do(httpReq)
	if err != nil {
		log.Printf("[ERROR] whisper transcription failed: %v", err)
		return "", ErrTranscriptionUnavailable
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		log.Printf("[ERROR] whisper returned status %d: %s", resp.StatusCode, string(bodyBytes))
		return "", ErrTranscriptionUnavailable
	}

	var whisperResp whisperResponse
	if err := json.Unmarshal(bodyBytes, &whisperResp); err != nil || whisperResp.Text == "" {
		return "", ErrTranscriptionUnavailable
	}

	return whisperResp.Text, nil
}
