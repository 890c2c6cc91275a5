package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/hokaccha/go-prettyjson"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/segmentio/encoding/json"
	"github.com/spf13/viper"
)

func fatal(err error) {
	msg := err.Error()
	if !color.NoColor {
		msg = color.New(color.FgRed).Sprint(msg)
	}
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}

func stderrIsTerminal() bool {
	fd := os.Stderr.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Reads global flags from Viper and adjusts the environment accordingly.
func processGlobalFlags() {
	if viper.GetBool("no-color") {
		color.NoColor = true
	}
}

// newLogger builds the console logger from the global flags. The level was
// validated when the flags were processed.
func newLogger() zerolog.Logger {
	level, _ := zerolog.ParseLevel(viper.GetString("log-level"))
	if level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	w := zerolog.ConsoleWriter{
		Out:     os.Stderr,
		NoColor: viper.GetBool("no-color") || !stderrIsTerminal(),
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

func printJSON(w io.Writer, v any) error {
	var data []byte
	var err error
	if color.NoColor {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = prettyjson.Marshal(v)
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
