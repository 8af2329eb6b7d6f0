package outline

import (
	"fmt"
	"image"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"golang.org/x/image/draw"

	"maditor/imgbuf"
	"maditor/imgio"
	"maditor/plane"
)

type CLICmd struct {
	File    string `arg:"" help:"Image to trace" type:"existingfile"`
	Channel string `help:"Plane whose fully set pixels (255) form the selection (alpha, red, green, blue, gray)" enum:"alpha,red,green,blue,gray" default:"alpha" env:"MADITOR_OUTLINE_CHANNEL"`
	Out     string `help:"Output YAML file, - for standard output" default:"-"`
	Force   bool   `help:"Overwrite an existing output file" default:"false"`
}

func (c *CLICmd) Validate(kctx *kong.Context) error {
	if c.Out == "" {
		return fmt.Errorf("empty output path")
	}
	return nil
}

func (c *CLICmd) Run() error {
	logger := slog.Default().With("file", c.File)

	img, _, err := imgio.Decode(c.File)
	if err != nil {
		return err
	}

	buf := imgbuf.FromImage(img)
	buf.SetLogger(logger)
	src, err := sourcePlane(buf, img, c.Channel)
	if err != nil {
		return err
	}
	Select(buf, src)

	cs := buf.Outline()
	doc := NewDocument(c.File, buf.Bounds(), cs)
	logger.Info("traced", "channel", c.Channel, "contours", len(cs))

	if c.Out == "-" {
		return Encode(os.Stdout, doc)
	}
	if err := WriteFile(c.Out, doc, c.Force); err != nil {
		return fmt.Errorf("could not write outline %q: %w", c.Out, err)
	}
	return nil
}

// Select replaces the selection with the pixels of src that are 255.
func Select(buf *imgbuf.Buffer, src plane.View) {
	sel := buf.MutChannel(imgbuf.Selection)
	for y := 0; y < src.Height(); y++ {
		for x, v := range src.Row(y) {
			if v == 255 {
				sel.Set(x, y, 255)
			} else {
				sel.Set(x, y, 0)
			}
		}
	}
}

func sourcePlane(buf *imgbuf.Buffer, img image.Image, channel string) (plane.View, error) {
	if channel == "gray" {
		b := img.Bounds()
		gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(gray, gray.Rect, img, b.Min, draw.Src)
		return plane.FromSlice(gray.Rect.Dx(), gray.Rect.Dy(), gray.Pix).AsView(), nil
	}
	kind, err := imgbuf.ParseChannelKind(channel)
	if err != nil {
		return plane.View{}, err
	}
	if !kind.IsColor() {
		return plane.View{}, fmt.Errorf("cannot trace from channel %q", channel)
	}
	return buf.Channel(kind), nil
}
