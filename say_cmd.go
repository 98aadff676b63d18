package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vokabel/vokabel/speech"
)

// sayCmd pronounces its arguments and exits. Handy for scripting and for
// checking an engine works before handing the machine to a class.
var sayCmd = &cobra.Command{
	Use:     "say TEXT...",
	Short:   "Pronounce text and exit",
	Example: paragraph("vokabel say hello world\nvokabel say -l de Schmetterling"),
	Args:    cobra.MinimumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		ctrl, err := newController()
		if err != nil {
			return err
		}
		defer ctrl.Close() //nolint:errcheck

		if err := ctrl.Catalog().WaitReady(time.Second); err != nil {
			log.Warn("no voices announced, using the engine default")
		}

		text := strings.Join(args, " ")
		if err := speech.DefaultRetryPolicy().Speak(ctrl, text); err != nil {
			return fmt.Errorf("unable to speak: %w", err)
		}
		return nil
	},
}

// voicesCmd lists the voices the engine offers for the target language.
var voicesCmd = &cobra.Command{
	Use:   "voices",
	Short: "List available voices",
	Args:  cobra.NoArgs,
	RunE: func(*cobra.Command, []string) error {
		ctrl, err := newController()
		if err != nil {
			return err
		}
		defer ctrl.Close() //nolint:errcheck

		if err := ctrl.Catalog().WaitReady(time.Second); err != nil {
			return fmt.Errorf("no voices for %q: %w", language, err)
		}

		optimal, _ := ctrl.Catalog().SelectOptimal(language)
		for _, v := range ctrl.Voices() {
			marker := " "
			if v.ID == optimal.ID {
				marker = "*"
			}
			fmt.Printf("%s %-16s %s\n", marker, v.ID, v.Name)
		}
		return nil
	},
}
