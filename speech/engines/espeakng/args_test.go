package espeakng

import (
	"slices"
	"testing"

	"github.com/vokabel/vokabel/speech"
)

func TestBuildArgs(t *testing.T) {
	tests := []struct {
		name      string
		req       speech.Request
		wantSpeed string
		wantPitch string
	}{
		{
			name:      "neutral prosody",
			req:       speech.Request{Text: "hello", Rate: 1.0, Pitch: 1.0},
			wantSpeed: "175",
			wantPitch: "50",
		},
		{
			name:      "double speed",
			req:       speech.Request{Text: "hello", Rate: 2.0, Pitch: 1.0},
			wantSpeed: "350",
			wantPitch: "50",
		},
		{
			name:      "rate clamps at the espeak floor",
			req:       speech.Request{Text: "hello", Rate: 0.1, Pitch: 1.0},
			wantSpeed: "80",
			wantPitch: "50",
		},
		{
			name:      "rate clamps at the espeak ceiling",
			req:       speech.Request{Text: "hello", Rate: 10, Pitch: 1.0},
			wantSpeed: "450",
			wantPitch: "50",
		},
		{
			name:      "pitch clamps to 99",
			req:       speech.Request{Text: "hello", Rate: 1.0, Pitch: 2.0},
			wantSpeed: "175",
			wantPitch: "99",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := buildArgs("en-us", tt.req)

			if got := argValue(args, "-s"); got != tt.wantSpeed {
				t.Errorf("-s = %s, want %s", got, tt.wantSpeed)
			}
			if got := argValue(args, "-p"); got != tt.wantPitch {
				t.Errorf("-p = %s, want %s", got, tt.wantPitch)
			}
			if got := argValue(args, "-v"); got != "en-us" {
				t.Errorf("-v = %s, want en-us", got)
			}
			if !slices.Contains(args, "--stdout") {
				t.Error("--stdout missing")
			}
			if args[len(args)-1] != tt.req.Text || args[len(args)-2] != "--" {
				t.Errorf("text not passed after --: %v", args)
			}
		})
	}
}

func argValue(args []string, flag string) string {
	for i, a := range args {
		if a == flag && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

func TestApplyVolume(t *testing.T) {
	pcm := []byte{0x00, 0x40} // 16384

	half := applyVolume(pcm, 0.5)
	if got := int16(uint16(half[0]) | uint16(half[1])<<8); got != 8192 {
		t.Errorf("half volume sample = %d, want 8192", got)
	}

	if got := applyVolume(pcm, 1.0); &got[0] != &pcm[0] {
		t.Error("full volume should not copy")
	}

	muted := applyVolume(pcm, 0)
	if got := int16(uint16(muted[0]) | uint16(muted[1])<<8); got != 0 {
		t.Errorf("muted sample = %d, want 0", got)
	}
}
