// Package engines selects and constructs a speech engine by name.
package engines

import (
	"fmt"

	"github.com/vokabel/vokabel/speech"
	"github.com/vokabel/vokabel/speech/audio"
	"github.com/vokabel/vokabel/speech/engines/espeakng"
	"github.com/vokabel/vokabel/speech/engines/mock"
)

// Options carries the cross-engine construction knobs.
type Options struct {
	Language string
	Binary   string
	CacheDir string
}

// Names lists the recognized engine names.
func Names() []string {
	return []string{"espeak-ng", "mock"}
}

// New builds the named engine. An empty name means espeak-ng. The returned
// error wraps speech.ErrNotSupported when the engine cannot run on this
// machine, so callers can distinguish a missing synthesizer from a bad
// name.
func New(name string, opts Options) (speech.Engine, error) {
	switch name {
	case "", "espeak", "espeak-ng":
		player, err := audio.NewOtoPlayer(audio.Config{
			SampleRate: espeakng.SampleRate,
			Channels:   espeakng.Channels,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", speech.ErrNotSupported, err)
		}
		cfg := espeakng.DefaultConfig(opts.Language)
		cfg.Binary = opts.Binary
		cfg.CacheDir = opts.CacheDir
		engine, err := espeakng.New(cfg, player)
		if err != nil {
			player.Close()
			return nil, fmt.Errorf("%w: %v", speech.ErrNotSupported, err)
		}
		return engine, nil

	case "mock":
		return mock.New(), nil

	default:
		return nil, fmt.Errorf("unknown speech engine %q (have %v)", name, Names())
	}
}
