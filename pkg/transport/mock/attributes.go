package mock

import (
	"net/http"

	"github.com/matecat/go-dqf/pkg/transport"
)

// DefaultAttributes returns a small but representative basic attributes aggregate.
func DefaultAttributes() map[string][]map[string]any {
	named := func(names ...string) []map[string]any {
		out := make([]map[string]any, 0, len(names))
		for i, name := range names {
			out = append(out, map[string]any{"id": i + 1, "name": name})
		}
		return out
	}

	return map[string][]map[string]any{
		"language": {
			{"id": 1, "localeCode": "it-IT", "name": "Italian (Italy)"},
			{"id": 2, "localeCode": "en-US", "name": "English (United States)"},
			{"id": 3, "localeCode": "fr-FR", "name": "French (France)"},
			{"id": 4, "localeCode": "de-DE", "name": "German (Germany)"},
			{"id": 5, "localeCode": "ja-JP", "name": "Japanese (Japan)"},
		},
		"severity":      named("Neutral", "Minor", "Major", "Critical"),
		"mtEngine":      named("Google Translate", "DeepL", "Microsoft Translator", "Other"),
		"process":       named("MT", "MT+PE", "MT+PE+TM", "HT"),
		"contentType":   named("User Interface Text", "Marketing Material", "Technical Documentation"),
		"segmentOrigin": named("HT", "MT", "TM", "MIX"),
		"catTool":       named("MateCat", "memoQ", "Trados Studio"),
		"industry":      named("Automotive", "Legal", "Medical", "Software"),
		"errorCategory": named("Accuracy", "Fluency", "Terminology", "Style"),
		"qualitylevel":  named("Good Enough", "High Quality"),
	}
}

func (s *Service) getBasicAttributes(_ *transport.Request, _ map[string]any) (int, map[string]any) {
	out := make(map[string]any, len(s.Attributes))
	for kind, records := range s.Attributes {
		out[kind] = records
	}
	return http.StatusOK, out
}
