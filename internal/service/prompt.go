package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"aura-server/internal/model"
)

// assistantLabel is the speaker label for AI turns in rendered history.
const assistantLabel = "Asistente"

// historyWindow is the number of recent messages included in a prompt.
const historyWindow = 6

// genericElderDescriptor stands in for the age when no birth date is on
// file.
const genericElderDescriptor = "adulto mayor"

// BuildPrompt assembles the full generation prompt for a conversation:
// a type-specific system preamble, the recent history rendered as
// "speaker: content" lines, the new user turn, and an empty assistant turn
// marker. history must already be ordered oldest to newest.
func BuildPrompt(conversation *model.Conversation, owner *model.User, history []model.Message, userMessage string, now time.Time) string {
	userName := owner.Name
	userAge := genericElderDescriptor
	if age := owner.Age(now); age != nil {
		userAge = strconv.Itoa(*age)
	}

	var conversationHistory strings.Builder
	for _, message := range history {
		sender := assistantLabel
		if message.IsFromUser() {
			sender = userName
		}
		conversationHistory.WriteString(fmt.Sprintf("%s: %s\n", sender, message.Content))
	}

	systemPrompt := systemPromptFor(conversation.Type, userName, userAge)

	return fmt.Sprintf("%s\n\nHistorial de conversación:\n%s\n%s: %s\n\nAsistente:",
		systemPrompt, conversationHistory.String(), userName, userMessage)
}

// systemPromptFor returns the system preamble for a conversation type.
func systemPromptFor(conversationType, userName, userAge string) string {
	basePrompt := fmt.Sprintf("Eres AURA, un asistente virtual especializado en acompañar a adultos mayores. "+
		"Tu personalidad es cálida, empática, paciente y respetuosa. Siempre respondes en español de manera "+
		"clara y sencilla. El usuario se llama %s y tiene %s años.", userName, userAge)

	switch conversationType {
	case model.ConversationTypeWellness:
		return basePrompt + " Esta es una conversación sobre bienestar físico y mental. Ofrece consejos de " +
			"salud apropiados para adultos mayores, pero siempre recuerda que no eres un médico y que deben " +
			"consultar con profesionales de la salud para temas serios. Enfócate en actividades suaves, " +
			"nutrición saludable y bienestar emocional."

	case model.ConversationTypeEmotionalSupport:
		return basePrompt + " Esta es una conversación de apoyo emocional. Sé especialmente empático, valida " +
			"los sentimientos del usuario, ofrece palabras de aliento y técnicas simples de relajación o " +
			"mindfulness. Escucha activamente y responde con calidez y comprensión."

	default: // general
		return basePrompt + " Esta es una conversación general. Sé conversacional, amigable y muestra interés " +
			"genuino en la vida del usuario. Puedes hablar sobre hobbies, familia, recuerdos, actividades " +
			"diarias, o cualquier tema que el usuario quiera compartir."
	}
}
