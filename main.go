package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"gopkg.in/natefinch/lumberjack.v2"

	"maditor/outline"
	"maditor/render"
)

type LogConfig struct {
	LogLevel   string `help:"Log level (debug, info, warn, error)" enum:"debug,info,warn,error" default:"info" env:"MADITOR_LOG_LEVEL"`
	LogFile    string `help:"Write logs to this file, rotated by size, instead of stderr" env:"MADITOR_LOG_FILE" type:"path"`
	LogJSON    bool   `help:"Emit logs as JSON" default:"false" env:"MADITOR_LOG_JSON"`
	LogMaxSize int    `help:"Rotate the log file after this many megabytes" default:"50" env:"MADITOR_LOG_MAX_SIZE"`
}

var cli struct {
	LogConfig `embed:""`

	Render  render.CLICmd  `cmd:"" help:"Replay a stroke script on every image of a folder and write the composites"`
	Outline outline.CLICmd `cmd:"" help:"Trace the outline of a thresholded image plane"`
}

// newLogger builds the process logger writing to stderr or, when a log file
// is configured, to a rotating file. The returned func closes that file.
func newLogger(conf LogConfig, stderr io.Writer) (*slog.Logger, func() error, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(conf.LogLevel)); err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q: %w", conf.LogLevel, err)
	}

	out := stderr
	closer := func() error { return nil }
	if conf.LogFile != "" {
		lj := &lumberjack.Logger{
			Filename:   conf.LogFile,
			MaxSize:    conf.LogMaxSize,
			MaxBackups: 3,
			Compress:   true,
		}
		out, closer = lj, lj.Close
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if conf.LogJSON {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}
	return slog.New(handler), closer, nil
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("could not load .env file", "error", err)
	}

	kctx := kong.Parse(&cli,
		kong.Name("maditor"),
		kong.Description("Raster editing engine: replay strokes, composite channels and trace selections."),
		kong.UsageOnError(),
	)

	logger, closeLog, err := newLogger(cli.LogConfig, os.Stderr)
	if err != nil {
		kctx.FatalIfErrorf(err)
	}
	slog.SetDefault(logger)

	slog.Debug("running", "command", strings.Fields(kctx.Command())[0])
	err = kctx.Run()
	if cerr := closeLog(); cerr != nil {
		fmt.Fprintln(os.Stderr, "could not close log file:", cerr)
	}
	kctx.FatalIfErrorf(err)
}
