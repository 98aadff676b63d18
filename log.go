package main

import (
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/viper"

	"github.com/vokabel/vokabel/utils"
)

// setupLog routes logging to the file named by VOKABEL_LOGFILE (or the
// logfile config key), at debug level. Without one, logging is discarded:
// a TUI cannot share its terminal with log lines.
func setupLog() (func() error, error) {
	viper.SetDefault("logfile", "")
	logfile := viper.GetString("logfile")
	if logfile != "" {
		f, err := tea.LogToFile(utils.ExpandPath(logfile), "vokabel")
		if err != nil {
			return nil, err
		}
		log.SetOutput(f)
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
		return f.Close, nil
	}
	log.SetOutput(io.Discard)
	return func() error { return nil }, nil
}
