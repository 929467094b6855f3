package service

import (
	"fmt"

	"aura-server/internal/model"
)

// Canned replies used when the generation service is unconfigured or fails.
// Three per conversation type, each interpolating the user's name. Unknown
// types fall back to the general set.
var fallbackResponses = map[string][]string{
	model.ConversationTypeWellness: {
		"Hola %s, me alegra que quieras hablar sobre bienestar. ¿Cómo te has sentido físicamente hoy?",
		"Es maravilloso que te preocupes por tu salud, %s. ¿Has podido hacer alguna actividad física hoy?",
		"Tu bienestar es muy importante, %s. ¿Te gustaría que conversemos sobre algún aspecto específico de tu salud?",
	},
	model.ConversationTypeEmotionalSupport: {
		"Estoy aquí para escucharte, %s. Tus sentimientos son válidos e importantes.",
		"Gracias por confiar en mí, %s. ¿Cómo puedo apoyarte mejor en este momento?",
		"Te entiendo, %s. A veces es bueno hablar sobre lo que sentimos. Estoy aquí para ti.",
	},
	model.ConversationTypeGeneral: {
		"¡Hola %s! Me da mucho gusto conversar contigo. ¿Cómo ha estado tu día?",
		"Es un placer hablar contigo, %s. ¿Hay algo especial que te gustaría compartir conmigo?",
		"¡Qué bueno tenerte aquí, %s! Cuéntame, ¿qué te trae por aquí hoy?",
	},
}

// fallbackResponse picks one canned reply for the conversation type with the
// user's name interpolated. intn supplies the random index so callers can
// seed it; a reply is always produced.
func fallbackResponse(conversationType, userName string, intn func(int) int) string {
	responses, ok := fallbackResponses[conversationType]
	if !ok {
		responses = fallbackResponses[model.ConversationTypeGeneral]
	}
	return fmt.Sprintf(responses[intn(len(responses))], userName)
}
