package service

import (
	"strings"
)

// Sentiment tags attached to AI message metadata.
const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"
)

// Keyword lists for the sentiment heuristic. Matching is by substring
// containment, not tokenization, so "mal" also matches inside longer words.
var (
	positiveWords = []string{
		"bien", "bueno", "feliz", "alegre", "contento",
		"genial", "excelente", "fantástico", "maravilloso",
	}
	negativeWords = []string{
		"mal", "triste", "deprimido", "preocupado",
		"ansioso", "dolor", "enfermo", "cansado",
	}
)

// AnalyzeSentiment classifies text as positive, negative or neutral by
// counting occurrences of the fixed keyword lists. It is computed over the
// user's message and recorded on the AI reply that answers it.
func AnalyzeSentiment(text string) string {
	lowered := strings.ToLower(text)

	positiveCount := 0
	for _, word := range positiveWords {
		if strings.Contains(lowered, word) {
			positiveCount++
		}
	}

	negativeCount := 0
	for _, word := range negativeWords {
		if strings.Contains(lowered, word) {
			negativeCount++
		}
	}

	switch {
	case positiveCount > negativeCount:
		return SentimentPositive
	case negativeCount > positiveCount:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}
