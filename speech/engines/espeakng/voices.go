package espeakng

import (
	"strings"

	"github.com/vokabel/vokabel/speech"
)

// parseVoices parses `espeak-ng --voices` output. Columns are priority,
// language tag, age/gender, voice name, voice file, plus optional extra
// language mappings:
//
//	Pty Language       Age/Gender VoiceName          File
//	 5  en-gb           --/M      English_(Great_Britain) gmw/en-GB
//
// The language tag doubles as the -v argument and therefore as the voice
// ID. All espeak voices are local. The voice whose tag equals the engine's
// configured language is flagged default.
func parseVoices(out, language string) []speech.Voice {
	var voices []speech.Voice
	seen := make(map[string]bool)

	for i, line := range strings.Split(out, "\n") {
		if i == 0 || strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 4 {
			continue
		}

		tag := strings.ToLower(fields[1])
		if seen[tag] {
			continue
		}
		seen[tag] = true

		name := strings.NewReplacer("_", " ", "(", "", ")", "").Replace(fields[3])
		voices = append(voices, speech.Voice{
			ID:       tag,
			Name:     name,
			Language: tag,
			Local:    true,
			Default:  strings.EqualFold(tag, language),
		})
	}
	return voices
}
