package sketch

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultOptions(t *testing.T) {
	o := DefaultOptions()
	want := Options{Seed: 0, Width: 1024, Height: 512, Scale: 1, Frames: 1}
	if o != want {
		t.Errorf("DefaultOptions() = %+v, want %+v", o, want)
	}
	if err := o.Validate(); !errors.Is(err, ErrNoOutput) {
		t.Errorf("Validate() = %v, want ErrNoOutput", err)
	}
}

func TestOptionsValidate(t *testing.T) {
	valid := DefaultOptions()
	valid.Output = "out"

	tests := []struct {
		name    string
		mutate  func(*Options)
		wantErr bool
	}{
		{"valid", func(*Options) {}, false},
		{"zero width", func(o *Options) { o.Width = 0 }, true},
		{"negative height", func(o *Options) { o.Height = -2 }, true},
		{"zero scale", func(o *Options) { o.Scale = 0 }, true},
		{"zero frames", func(o *Options) { o.Frames = 0 }, true},
		{"no output", func(o *Options) { o.Output = "" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := valid
			tt.mutate(&o)
			if err := o.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestPixelSizeAndFramePath(t *testing.T) {
	o := Options{Width: 100, Height: 50, Scale: 1.5, Seed: 42, Output: "out"}
	if w, h := o.PixelSize(); w != 150 || h != 75 {
		t.Errorf("PixelSize() = %d, %d, want 150, 75", w, h)
	}
	o.Scale = 0.001
	if w, h := o.PixelSize(); w != 1 || h != 1 {
		t.Errorf("tiny PixelSize() = %d, %d, want 1, 1", w, h)
	}
	if got, want := o.FramePath(3), filepath.Join("out", "42", "3.png"); got != want {
		t.Errorf("FramePath(3) = %q, want %q", got, want)
	}
}

func TestDecodeOptions(t *testing.T) {
	tests := []struct {
		name    string
		format  string
		doc     string
		want    Options
		wantErr bool
	}{
		{
			name:   "toml",
			format: "toml",
			doc:    "seed = 7\nwidth = 640\nframes = 30\noutput = \"renders\"\n",
			want:   Options{Seed: 7, Width: 640, Height: 512, Scale: 1, Frames: 30, Output: "renders"},
		},
		{
			name:   "yaml",
			format: "yaml",
			doc:    "seed: 9\nscale: 2.5\nheight: 256\n",
			want:   Options{Seed: 9, Width: 1024, Height: 256, Scale: 2.5, Frames: 1},
		},
		{name: "empty yaml", format: "yml", doc: "", want: DefaultOptions()},
		{name: "toml unknown key", format: "toml", doc: "colour = 1\n", wantErr: true},
		{name: "yaml unknown key", format: "yaml", doc: "colour: 1\n", wantErr: true},
		{name: "unknown format", format: "ini", doc: "seed=1", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := DefaultOptions()
			err := DecodeOptions(strings.NewReader(tt.doc), tt.format, &o)
			if (err != nil) != tt.wantErr {
				t.Fatalf("DecodeOptions() err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && o != tt.want {
				t.Errorf("options = %+v, want %+v", o, tt.want)
			}
		})
	}
}

func TestParseOptions_FlagsOverrideFile(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "sketch.toml")
	if err := os.WriteFile(cfg, []byte("seed = 3\nwidth = 320\nheight = 200\noutput = \"from-file\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	o, err := ParseOptions("test", []string{"-config", cfg, "-width", "64", "-frames", "4"})
	if err != nil {
		t.Fatalf("ParseOptions: %v", err)
	}
	want := Options{Seed: 3, Width: 64, Height: 200, Scale: 1, Frames: 4, Output: "from-file"}
	if o != want {
		t.Errorf("options = %+v, want %+v", o, want)
	}

	// A flag left at its default does not override the file.
	o, err = ParseOptions("test", []string{"-config", cfg, "-output", "cli"})
	if err != nil {
		t.Fatal(err)
	}
	if o.Width != 320 || o.Output != "cli" {
		t.Errorf("options = %+v", o)
	}
}

func TestParseOptions_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"missing output", nil},
		{"bad flag", []string{"-nope"}},
		{"missing config", []string{"-config", filepath.Join(t.TempDir(), "absent.toml"), "-output", "x"}},
		{"bad size", []string{"-width", "0", "-output", "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseOptions("test", tt.args); err == nil {
				t.Error("expected error")
			}
		})
	}
}
