// Package outline writes selection contours as YAML.
package outline

import (
	"fmt"
	"image"
	"io"

	"gopkg.in/yaml.v3"

	"maditor/contour"
	"maditor/imgio"
)

// Document is the YAML form of one traced selection.
type Document struct {
	Source   string  `yaml:"source,omitempty"`
	Width    int     `yaml:"width"`
	Height   int     `yaml:"height"`
	Contours []Entry `yaml:"contours"`
}

// Entry is one contour. Parent is an index into Contours, or -1.
type Entry struct {
	Kind   string   `yaml:"kind"`
	Parent int      `yaml:"parent"`
	Bounds [4]int   `yaml:"bounds,flow"`
	Points [][2]int `yaml:"points,flow"`
}

// NewDocument converts tracer output.
func NewDocument(source string, bounds image.Rectangle, cs []contour.Contour) Document {
	doc := Document{
		Source:   source,
		Width:    bounds.Dx(),
		Height:   bounds.Dy(),
		Contours: make([]Entry, 0, len(cs)),
	}
	for _, c := range cs {
		r := c.Bounds()
		e := Entry{
			Kind:   c.Kind.String(),
			Parent: c.Parent,
			Bounds: [4]int{r.Min.X, r.Min.Y, r.Max.X, r.Max.Y},
			Points: make([][2]int, len(c.Points)),
		}
		for i, p := range c.Points {
			e.Points[i] = [2]int{p.X, p.Y}
		}
		doc.Contours = append(doc.Contours, e)
	}
	return doc
}

// Encode writes doc as YAML.
func Encode(w io.Writer, doc Document) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("could not encode outline: %w", err)
	}
	return enc.Close()
}

// Decode reads a document written by Encode.
func Decode(r io.Reader) (Document, error) {
	var doc Document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return Document{}, fmt.Errorf("could not decode outline: %w", err)
	}
	return doc, nil
}

// WriteFile encodes doc into path. See imgio.WriteFile for force.
func WriteFile(path string, doc Document, force bool) error {
	return imgio.WriteFile(path, force, func(w io.Writer) error {
		return Encode(w, doc)
	})
}
