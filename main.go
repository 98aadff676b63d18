// Package main provides the entry point for the vokabel CLI application.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/vokabel/vokabel/speech"
	"github.com/vokabel/vokabel/speech/engines"
	"github.com/vokabel/vokabel/store"
	"github.com/vokabel/vokabel/ui"
	"github.com/vokabel/vokabel/utils"
	"github.com/vokabel/vokabel/vocab"
)

var (
	// Version as provided by goreleaser.
	Version = ""
	// CommitSHA as provided by goreleaser.
	CommitSHA = ""

	configFile string
	engineName string
	language   string
	voice      string
	rateFlag   float64
	autoSpeak  bool
	mouse      bool

	rootCmd = &cobra.Command{
		Use:   "vokabel [DECK|DIR]",
		Short: "Practice vocabulary pronunciation in the terminal",
		Long: paragraph(fmt.Sprintf(
			"\nPick a vocabulary deck, %s to each word, and take a listen-and-type exam.",
			keyword("listen"))),
		SilenceErrors:    false,
		SilenceUsage:     true,
		TraverseChildren: true,
		Args:             cobra.MaximumNArgs(1),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return validateOptions(cmd)
		},
		RunE: execute,
	}
)

func validateOptions(cmd *cobra.Command) error {
	engineName = viper.GetString("engine")
	language = viper.GetString("language")
	voice = viper.GetString("voice")
	rateFlag = viper.GetFloat64("rate")
	autoSpeak = viper.GetBool("auto-speak")
	mouse = viper.GetBool("mouse")

	if language == "" {
		return errors.New("language must not be empty")
	}
	if rateFlag != 0 && (rateFlag < speech.MinRate || rateFlag > speech.MaxRate) {
		return fmt.Errorf("rate must be between %g and %g, got %g",
			speech.MinRate, speech.MaxRate, rateFlag)
	}

	known := false
	for _, name := range engines.Names() {
		if engineName == "" || engineName == name || engineName == "espeak" {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("unknown engine %q (have %v)", engineName, engines.Names())
	}
	return nil
}

func execute(_ *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("vokabel needs an interactive terminal; try the say subcommand for scripting")
	}

	target := ""
	if len(args) == 1 {
		target = utils.ExpandPath(args[0])
	}
	return runTUI(target)
}

// newController builds the engine and controller from the active
// configuration.
func newController() (*speech.Controller, error) {
	cacheDir := viper.GetString("cache-dir")
	if cacheDir == "" {
		if dir, err := gap.NewScope(gap.User, "vokabel").CacheDir(); err == nil {
			cacheDir = filepath.Join(dir, "audio")
		}
	}

	engine, err := engines.New(engineName, engines.Options{
		Language: language,
		Binary:   viper.GetString("binary"),
		CacheDir: cacheDir,
	})
	if err != nil {
		return nil, err
	}

	cfg := speech.DefaultControllerConfig()
	cfg.Language = language
	if rateFlag != 0 {
		cfg.Settings.Rate = rateFlag
	}
	if pitch := viper.GetFloat64("pitch"); pitch != 0 {
		cfg.Settings.Pitch = pitch
	}
	if vol := viper.GetFloat64("volume"); vol != 0 {
		cfg.Settings.Volume = vol
	}
	cfg.Settings.VoiceID = voice

	ctrl, err := speech.NewController(engine, cfg)
	if err != nil {
		engine.Close()
		return nil, err
	}
	return ctrl, nil
}

func runTUI(target string) error {
	cfg, err := env.ParseAs[ui.Config]()
	if err != nil {
		return fmt.Errorf("error parsing config: %v", err)
	}
	cfg.Engine = engineName
	cfg.Language = language
	cfg.Voice = voice
	cfg.EnableMouse = mouse
	if !cfg.AutoSpeak {
		cfg.AutoSpeak = autoSpeak
	}

	deckDir := target
	if deckDir == "" {
		deckDir = vocab.DefaultDir()
	}
	decks, err := vocab.Discover(deckDir)
	if err != nil {
		return fmt.Errorf("unable to load decks from %s: %w", deckDir, err)
	}

	dataDir := cfg.DataDir
	if dataDir == "" {
		dataDir, err = gap.NewScope(gap.User, "vokabel").DataPath("")
		if err != nil {
			return fmt.Errorf("unable to resolve data directory: %w", err)
		}
	}
	st, err := store.Open(dataDir)
	if err != nil {
		return fmt.Errorf("unable to open data store: %w", err)
	}

	ctrl, err := newController()
	if err != nil {
		if errors.Is(err, speech.ErrNotSupported) {
			return fmt.Errorf("speech is not available on this machine: %w", err)
		}
		return err
	}
	defer ctrl.Close() //nolint:errcheck

	// Restore persisted prosody, unless overridden on the command line.
	var saved speech.Settings
	if ok, err := st.Get("settings", &saved); err == nil && ok {
		patch := speech.SettingsPatch{}
		if rateFlag == 0 {
			patch.Rate = &saved.Rate
			patch.Pitch = &saved.Pitch
			patch.Volume = &saved.Volume
		}
		if voice == "" {
			patch.VoiceID = &saved.VoiceID
		}
		ctrl.UpdateSettings(patch)
	}

	watchDir := deckDir
	if info, err := os.Stat(deckDir); err == nil && !info.IsDir() {
		watchDir = filepath.Dir(deckDir)
	}
	watcher, err := vocab.Watch(watchDir)
	if err != nil {
		log.Warn("deck watching disabled", "err", err)
		watcher = nil
	} else {
		defer watcher.Close() //nolint:errcheck
	}

	if _, err := ui.NewProgram(cfg, ctrl, st, decks, deckDir, watcher).Run(); err != nil {
		return fmt.Errorf("unable to run tui program: %w", err)
	}

	// Persist whatever prosody the session ended with.
	if err := st.Put("settings", ctrl.Settings()); err != nil {
		log.Error("could not save settings", "err", err)
	}
	return nil
}

func main() {
	closer, err := setupLog()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if err := rootCmd.Execute(); err != nil {
		_ = closer()
		os.Exit(1)
	}
	_ = closer()
}

func init() {
	tryLoadConfigFromDefaultPlaces()
	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	if Version == "" {
		Version = "unknown (built from source)"
	}
	rootCmd.Version = Version
	rootCmd.InitDefaultCompletionCmd()

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", fmt.Sprintf("config file (default %s)", viper.GetViper().ConfigFileUsed()))
	rootCmd.PersistentFlags().StringVarP(&engineName, "engine", "e", "", "speech engine (espeak-ng or mock)")
	rootCmd.PersistentFlags().StringVarP(&language, "language", "l", "", "target language tag (e.g. en, de, fr)")
	rootCmd.PersistentFlags().StringVar(&voice, "voice", "", "voice to speak with")
	rootCmd.PersistentFlags().Float64VarP(&rateFlag, "rate", "r", 0, "speaking rate multiplier")
	rootCmd.Flags().BoolVarP(&autoSpeak, "speak", "s", false, "pronounce each word as it is shown")
	rootCmd.Flags().BoolVarP(&mouse, "mouse", "m", false, "enable mouse wheel")
	_ = rootCmd.Flags().MarkHidden("mouse")

	_ = viper.BindPFlag("engine", rootCmd.PersistentFlags().Lookup("engine"))
	_ = viper.BindPFlag("language", rootCmd.PersistentFlags().Lookup("language"))
	_ = viper.BindPFlag("voice", rootCmd.PersistentFlags().Lookup("voice"))
	_ = viper.BindPFlag("rate", rootCmd.PersistentFlags().Lookup("rate"))
	_ = viper.BindPFlag("auto-speak", rootCmd.Flags().Lookup("speak"))
	_ = viper.BindPFlag("mouse", rootCmd.Flags().Lookup("mouse"))

	viper.SetDefault("engine", "espeak-ng")
	viper.SetDefault("language", "en")
	viper.SetDefault("rate", 0)
	viper.SetDefault("pitch", 0)
	viper.SetDefault("volume", 0)
	viper.SetDefault("auto-speak", false)

	rootCmd.AddCommand(configCmd, manCmd, sayCmd, voicesCmd)
}

func tryLoadConfigFromDefaultPlaces() {
	scope := gap.NewScope(gap.User, "vokabel")
	dirs, err := scope.ConfigDirs()
	if err != nil {
		fmt.Println("Could not find configuration directory.")
		os.Exit(1)
	}

	if c := os.Getenv("XDG_CONFIG_HOME"); c != "" {
		dirs = append([]string{filepath.Join(c, "vokabel")}, dirs...)
	}

	if c := os.Getenv("VOKABEL_CONFIG_HOME"); c != "" {
		dirs = append([]string{c}, dirs...)
	}

	for _, v := range dirs {
		viper.AddConfigPath(v)
	}

	viper.SetConfigName("vokabel")
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("vokabel")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Warn("Could not parse configuration file", "err", err)
		}
	}

	if used := viper.ConfigFileUsed(); used != "" {
		log.Debug("Using configuration file", "path", viper.ConfigFileUsed())
		return
	}

	if viper.ConfigFileUsed() == "" {
		configFile = filepath.Join(dirs[0], "vokabel.yml")
	}
	if err := ensureConfigFile(); err != nil {
		log.Error("Could not create default configuration", "error", err)
	}
}
