package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/mustachio/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("mustachio", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
mustachio - render logic-less Mustache templates.

Usage:
  mustachio [options] TEMPLATE

Arguments:
  TEMPLATE
    Path to the template file to render.

Options:
`)
		flagSet.PrintDefaults()
	}

	dataFlag := flagSet.String("data", "", "Path to the view data file (.json, .hcl or .toml).")
	dFlag := flagSet.String("d", "", "Path to the view data file (shorthand).")
	partialsFlag := flagSet.String("partials", "", "Directory searched recursively for partials.")
	pFlag := flagSet.String("p", "", "Directory searched recursively for partials (shorthand).")
	partialExtFlag := flagSet.String("partial-ext", app.DefaultPartialExt, "File extension of partials.")
	whitespaceFlag := flagSet.String("whitespace", "lazy", "Whitespace mode. Options: 'lazy', 'strict' or 'strip'.")
	compactFlag := flagSet.Bool("compact", false, "Print the compacted template instead of rendering it.")
	dumpTreeFlag := flagSet.Bool("dump-tree", false, "Print the parsed template tree instead of rendering it.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "warn", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	if flagSet.NArg() == 0 {
		slog.Debug("No template provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}
	if flagSet.NArg() > 1 {
		return nil, false, &ExitError{Code: 2, Message: "exactly one TEMPLATE argument is expected"}
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	config, err := app.NewConfig(app.Config{
		TemplatePath: flagSet.Arg(0),
		DataPath:     firstNonEmpty(*dataFlag, *dFlag),
		PartialsPath: firstNonEmpty(*partialsFlag, *pFlag),
		PartialExt:   *partialExtFlag,
		Whitespace:   *whitespaceFlag,
		Compact:      *compactFlag,
		DumpTree:     *dumpTreeFlag,
		LogFormat:    logFormat,
		LogLevel:     logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
