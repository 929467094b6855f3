package service

import "testing"

func TestAnalyzeSentiment(t *testing.T) {
	cases := []struct {
		name string
		text string
		want string
	}{
		{"positive", "me siento muy feliz y contento hoy", SentimentPositive},
		{"negative", "me siento mal y muy cansado", SentimentNegative},
		{"neutral", "hoy fui al mercado por la mañana", SentimentNeutral},
		{"tie is neutral", "estoy bien pero con dolor", SentimentNeutral},
		{"case insensitive", "FELIZ cumpleaños", SentimentPositive},
		{"substring match", "malestar general", SentimentNegative},
		{"empty", "", SentimentNeutral},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := AnalyzeSentiment(tc.text); got != tc.want {
				t.Fatalf("AnalyzeSentiment(%q) = %q, want %q", tc.text, got, tc.want)
			}
		})
	}
}
