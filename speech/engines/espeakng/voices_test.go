package espeakng

import "testing"

const voicesOutput = `Pty Language       Age/Gender VoiceName          File                 Other Languages
 5  af              --/M      Afrikaans          gmw/af
 5  de              --/M      German             gmw/de
 2  en-gb           --/M      English_(Great_Britain) gmw/en-GB      (en 2)
 5  en-us           --/M      English_(America)  gmw/en-US            (en 3)
 5  en-us           --/M      English_(America)  gmw/en-US-dup
`

func TestParseVoices(t *testing.T) {
	voices := parseVoices(voicesOutput, "en-us")

	if len(voices) != 4 {
		t.Fatalf("parsed %d voices, want 4 (duplicate dropped)", len(voices))
	}

	byID := map[string]int{}
	for i, v := range voices {
		byID[v.ID] = i
		if !v.Local {
			t.Errorf("voice %s not marked local", v.ID)
		}
		if v.Language != v.ID {
			t.Errorf("voice %s language = %s, want %s", v.ID, v.Language, v.ID)
		}
	}

	for _, want := range []string{"af", "de", "en-gb", "en-us"} {
		if _, ok := byID[want]; !ok {
			t.Errorf("voice %s missing", want)
		}
	}

	if got := voices[byID["en-gb"]].Name; got != "English Great Britain" {
		t.Errorf("en-gb name = %q", got)
	}

	for _, v := range voices {
		if v.Default != (v.ID == "en-us") {
			t.Errorf("voice %s default = %v", v.ID, v.Default)
		}
	}
}

func TestParseVoicesEmpty(t *testing.T) {
	if got := parseVoices("", "en"); len(got) != 0 {
		t.Errorf("parsed %d voices from empty output", len(got))
	}
	if got := parseVoices("Pty Language Age/Gender VoiceName File\n", "en"); len(got) != 0 {
		t.Errorf("parsed %d voices from header-only output", len(got))
	}
}
