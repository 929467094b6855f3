package service

import (
	"strings"
	"testing"
	"time"

	"aura-server/internal/model"
	"aura-server/pkg/util"
)

var promptNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func promptUser(birthDate *time.Time) *model.User {
	return &model.User{
		ID:        1,
		Name:      "María",
		BirthDate: birthDate,
	}
}

func TestBuildPromptIncludesHistoryAndNewTurn(t *testing.T) {
	conversation := &model.Conversation{ID: 1, Type: model.ConversationTypeGeneral}
	owner := promptUser(nil)
	history := []model.Message{
		{Sender: model.MessageSenderUser, Content: "Hola"},
		{Sender: model.MessageSenderAI, Content: "¡Hola María!"},
	}

	prompt := BuildPrompt(conversation, owner, history, "¿Cómo estás?", promptNow)

	if !strings.Contains(prompt, "Historial de conversación:\n") {
		t.Fatalf("prompt missing history header:\n%s", prompt)
	}
	if !strings.Contains(prompt, "María: Hola\n") {
		t.Fatalf("prompt missing user history line:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Asistente: ¡Hola María!\n") {
		t.Fatalf("prompt missing assistant history line:\n%s", prompt)
	}
	if !strings.Contains(prompt, "María: ¿Cómo estás?") {
		t.Fatalf("prompt missing new user turn:\n%s", prompt)
	}
	if !strings.HasSuffix(prompt, "\n\nAsistente:") {
		t.Fatalf("prompt must end with empty assistant turn, got:\n%s", prompt)
	}
}

func TestBuildPromptUsesAgeWhenBirthDateKnown(t *testing.T) {
	birthDate := time.Date(1950, 3, 10, 0, 0, 0, 0, time.UTC)
	owner := promptUser(&birthDate)
	conversation := &model.Conversation{ID: 1, Type: model.ConversationTypeGeneral}

	prompt := BuildPrompt(conversation, owner, nil, "Hola", promptNow)

	if !strings.Contains(prompt, "tiene 75 años") {
		t.Fatalf("prompt should state the derived age:\n%s", prompt)
	}
}

func TestBuildPromptUsesGenericDescriptorWithoutBirthDate(t *testing.T) {
	conversation := &model.Conversation{ID: 1, Type: model.ConversationTypeGeneral}

	prompt := BuildPrompt(conversation, promptUser(nil), nil, "Hola", promptNow)

	if !strings.Contains(prompt, "tiene adulto mayor años") {
		t.Fatalf("prompt should fall back to the generic descriptor:\n%s", prompt)
	}
}

func TestBuildPromptPreambleVariesByType(t *testing.T) {
	owner := promptUser(nil)

	cases := []struct {
		conversationType string
		marker           string
	}{
		{model.ConversationTypeGeneral, "conversación general"},
		{model.ConversationTypeWellness, "bienestar físico y mental"},
		{model.ConversationTypeEmotionalSupport, "apoyo emocional"},
	}

	for _, tc := range cases {
		conversation := &model.Conversation{ID: 1, Type: tc.conversationType}
		prompt := BuildPrompt(conversation, owner, nil, "Hola", promptNow)
		if !strings.Contains(prompt, tc.marker) {
			t.Fatalf("type %s: prompt missing %q:\n%s", tc.conversationType, tc.marker, prompt)
		}
		if !strings.Contains(prompt, "Eres AURA") {
			t.Fatalf("type %s: prompt missing base preamble", tc.conversationType)
		}
	}
}

func TestTruncateRunesKeepsAccentsWhole(t *testing.T) {
	s := strings.Repeat("ñ", 60)
	got := util.TruncateRunes(s, 50)
	if len([]rune(got)) != 50 {
		t.Fatalf("expected 50 runes, got %d", len([]rune(got)))
	}
	for _, r := range got {
		if r != 'ñ' {
			t.Fatalf("truncation split a rune, got %q", got)
		}
	}
}
