// Package render implements the batch render command: every image of a
// folder is loaded into an editing session, a stroke script is replayed on
// it and the composite is written out.
package render

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/alecthomas/kong"

	"maditor/editor"
	"maditor/imgbuf"
	"maditor/imgio"
	"maditor/outline"
	"maditor/parallel"
	"maditor/script"
)

type CLICmd struct {
	Scan          string               `help:"Source folder to scan" default:"." env:"MADITOR_SCAN"`
	Dest          string               `help:"Destination folder for rendered pictures. Relative to scan dir if not absolute." default:"rendered" env:"MADITOR_DEST"`
	Script        string               `help:"YAML stroke script replayed on every image" type:"existingfile" env:"MADITOR_SCRIPT"`
	Format        string               `help:"Output format" enum:"png,bmp,tiff" default:"png" env:"MADITOR_FORMAT"`
	MaxWidth      int                  `help:"Downscale images wider than this" group:"resize"`
	MaxHeight     int                  `help:"Downscale images taller than this" group:"resize"`
	Hide          []imgbuf.ChannelKind `help:"Colour channels left out of the output (red, green, blue, alpha)"`
	ShowSelection bool                 `help:"Draw the selection overlay into the output alpha" default:"false"`
	Outline       bool                 `help:"Also write the selection outline of every image as YAML" default:"false"`
	Force         bool                 `help:"Overwrite existing destination files" default:"false"`
	Workers       int                  `help:"Number of parallel workers, 0 for one per CPU" default:"0" env:"MADITOR_WORKERS"`

	script *script.Script
}

func (c *CLICmd) Validate(kctx *kong.Context) error {
	scanDir, err := filepath.Abs(c.Scan)
	var info os.FileInfo
	if err == nil {
		if info, err = os.Stat(scanDir); err == nil && !info.IsDir() {
			err = fmt.Errorf("not a directory")
		}
	}
	if err != nil {
		return fmt.Errorf("invalid scan path %q: %w", c.Scan, err)
	}
	c.Scan = scanDir

	if !filepath.IsAbs(c.Dest) {
		c.Dest = filepath.Join(scanDir, c.Dest)
	}

	switch {
	case c.MaxWidth < 0:
		return fmt.Errorf("invalid max width: %d", c.MaxWidth)
	case c.MaxHeight < 0:
		return fmt.Errorf("invalid max height: %d", c.MaxHeight)
	case c.Workers < 0:
		return fmt.Errorf("invalid worker count: %d", c.Workers)
	}

	for _, kind := range c.Hide {
		if !kind.IsColor() {
			return fmt.Errorf("cannot hide channel %q", kind)
		}
	}

	if c.Script != "" {
		if c.script, err = script.LoadFile(c.Script); err != nil {
			return err
		}
	}
	return nil
}

func (c *CLICmd) Run() error {
	if err := os.MkdirAll(c.Dest, 0o755); err != nil {
		return fmt.Errorf("unable to create destination folder %q: %w", c.Dest, err)
	}

	files, err := os.ReadDir(c.Scan)
	if err != nil {
		return fmt.Errorf("unable to read folder %q: %w", c.Scan, err)
	}

	pool := parallel.Start(c.Workers)
	var processedCount, errCount atomic.Uint64
	for _, file := range files {
		if file.IsDir() {
			continue
		}

		fileName := file.Name()
		pool.Do(func() {
			logger := slog.Default().With("file", filepath.Join(c.Scan, fileName))
			if err := c.process(logger, fileName); err != nil {
				errCount.Add(1)
				logger.Error("could not render image", "error", err)
				return
			}
			processedCount.Add(1)
		})
	}
	pool.Wait()

	processed := processedCount.Load()
	errors := errCount.Load()
	slog.Info("stats", "processed", processed, "errors", errors,
		"total", processed+errors, "workers", pool.Workers())

	if errors > 0 {
		return fmt.Errorf("error processing %d files", errors)
	}
	return nil
}

// process runs one image through its own session.
func (c *CLICmd) process(logger *slog.Logger, fileName string) error {
	img, _, err := imgio.Decode(filepath.Join(c.Scan, fileName))
	if err != nil {
		return err
	}
	if c.MaxWidth > 0 || c.MaxHeight > 0 {
		img = imgio.Fit(logger, img, c.MaxWidth, c.MaxHeight)
	}

	sess := editor.NewSession(imgbuf.FromImage(img), logger)
	if c.script != nil {
		if err := c.script.Apply(sess); err != nil {
			return fmt.Errorf("could not replay script %q: %w", c.Script, err)
		}
	}
	for _, kind := range c.Hide {
		sess.SetVisible(kind, false)
	}
	sess.SetShowSelection(c.ShowSelection)

	out := sess.Buffer().Image(sess.RenderOptions())
	dest, err := imgio.SaveImage(out, c.Format, c.Dest, fileName, c.Force)
	if err != nil {
		return fmt.Errorf("could not save image: %w", err)
	}
	logger.Debug("saved", "dest", dest)

	if c.Outline {
		doc := outline.NewDocument(fileName, sess.Buffer().Bounds(), sess.SelectionOutline())
		path := filepath.Join(c.Dest, imgio.DestName(fileName, "yaml"))
		if err := outline.WriteFile(path, doc, c.Force); err != nil {
			return fmt.Errorf("could not save outline: %w", err)
		}
	}
	return nil
}
