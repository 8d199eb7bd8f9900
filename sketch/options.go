package sketch

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Option defaults.
const (
	DefaultSeed   = 0
	DefaultWidth  = 1024
	DefaultHeight = 512
	DefaultScale  = 1.0
	DefaultFrames = 1
)

// ErrNoOutput is returned when Options has no output directory.
var ErrNoOutput = errors.New("sketch: output directory is required")

// Options control a sketch run. Output is written to
// <Output>/<Seed>/<frame>.png.
type Options struct {
	Seed   uint64  `toml:"seed" yaml:"seed"`
	Width  int     `toml:"width" yaml:"width"`
	Height int     `toml:"height" yaml:"height"`
	Scale  float64 `toml:"scale" yaml:"scale"`
	Frames int     `toml:"frames" yaml:"frames"`
	Output string  `toml:"output" yaml:"output"`
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Seed:   DefaultSeed,
		Width:  DefaultWidth,
		Height: DefaultHeight,
		Scale:  DefaultScale,
		Frames: DefaultFrames,
	}
}

// Validate reports the first invalid field.
func (o Options) Validate() error {
	switch {
	case o.Width <= 0 || o.Height <= 0:
		return fmt.Errorf("sketch: invalid size %dx%d", o.Width, o.Height)
	case !(o.Scale > 0):
		return fmt.Errorf("sketch: invalid scale %v", o.Scale)
	case o.Frames <= 0:
		return fmt.Errorf("sketch: invalid frame count %d", o.Frames)
	case o.Output == "":
		return ErrNoOutput
	}
	return nil
}

// PixelSize returns the rendered resolution: the logical size times Scale,
// at least one pixel.
func (o Options) PixelSize() (w, h int) {
	w = max(int(float64(o.Width)*o.Scale+0.5), 1)
	h = max(int(float64(o.Height)*o.Scale+0.5), 1)
	return w, h
}

// FramePath returns the PNG path of frame.
func (o Options) FramePath(frame int) string {
	return filepath.Join(o.Output, fmt.Sprint(o.Seed), fmt.Sprintf("%d.png", frame))
}

// DecodeOptions overlays a TOML or YAML document onto o. Unknown keys are
// an error.
func DecodeOptions(r io.Reader, format string, o *Options) error {
	switch strings.ToLower(format) {
	case "toml":
		dec := toml.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(o); err != nil {
			return fmt.Errorf("sketch: toml: %w", err)
		}
	case "yaml", "yml":
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(o); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("sketch: yaml: %w", err)
		}
	default:
		return fmt.Errorf("sketch: unknown options format %q", format)
	}
	return nil
}

// LoadFile overlays the options file at path onto o. The format follows the
// file extension.
func LoadFile(path string, o *Options) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("sketch: %w", err)
	}
	return DecodeOptions(bytes.NewReader(data), strings.TrimPrefix(filepath.Ext(path), "."), o)
}

// FlagSet binds Options to command-line flags.
type FlagSet struct {
	fs     *flag.FlagSet
	config string
	vals   Options
}

// NewFlagSet defines the option flags on fs:
//
//	-seed, -width, -height, -scale, -frames, -output, -config
func NewFlagSet(fs *flag.FlagSet) *FlagSet {
	f := &FlagSet{fs: fs}
	d := DefaultOptions()
	fs.Uint64Var(&f.vals.Seed, "seed", d.Seed, "seed for the random number generator")
	fs.IntVar(&f.vals.Width, "width", d.Width, "width of the view pane")
	fs.IntVar(&f.vals.Height, "height", d.Height, "height of the view pane")
	fs.Float64Var(&f.vals.Scale, "scale", d.Scale, "resolution multiplier of the view pane")
	fs.IntVar(&f.vals.Frames, "frames", d.Frames, "number of frames to render")
	fs.StringVar(&f.vals.Output, "output", d.Output, "output prefix; frames go to <output>/<seed>/<frame>.png")
	fs.StringVar(&f.config, "config", "", "TOML or YAML options file")
	return f
}

// Config returns the -config path, or "".
func (f *FlagSet) Config() string { return f.config }

// Options resolves the parsed flags: defaults, then the -config file, then
// every flag set explicitly on the command line.
func (f *FlagSet) Options() (Options, error) {
	o := DefaultOptions()
	if f.config != "" {
		if err := LoadFile(f.config, &o); err != nil {
			return Options{}, err
		}
	}
	f.fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "seed":
			o.Seed = f.vals.Seed
		case "width":
			o.Width = f.vals.Width
		case "height":
			o.Height = f.vals.Height
		case "scale":
			o.Scale = f.vals.Scale
		case "frames":
			o.Frames = f.vals.Frames
		case "output":
			o.Output = f.vals.Output
		}
	})
	return o, o.Validate()
}

// ParseOptions parses args with a fresh flag set and resolves Options.
func ParseOptions(name string, args []string) (Options, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	f := NewFlagSet(fs)
	if err := fs.Parse(args); err != nil {
		return Options{}, fmt.Errorf("sketch: %w", err)
	}
	return f.Options()
}
