package sketch

import (
	"context"
	"errors"
	"fmt"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/gogpu/valora"
	"github.com/gogpu/valora/gpu"
	"github.com/gogpu/valora/render"
	"github.com/schollz/progressbar/v3"
)

// Runner renders a Composer frame by frame and saves each frame as PNG.
type Runner struct {
	Options Options
	Device  gpu.Device

	// Progress receives a progress bar. Nil disables it.
	Progress io.Writer
}

// Result lists the files a run wrote, in frame order.
type Result struct {
	Frames []string
}

// Run validates r.Options, composes once, then renders every frame.
// Cancelling ctx stops the run between frames.
func (r *Runner) Run(ctx context.Context, c Composer) (Result, error) {
	var res Result
	if err := r.Options.Validate(); err != nil {
		return res, err
	}
	if r.Device == nil {
		return res, gpu.ErrNilDevice
	}
	if c == nil {
		return res, errors.New("sketch: nil composer")
	}
	log := valora.Logger()

	sctx := NewContext(r.Options)
	comp, err := c.Compose(sctx, NewRand(r.Options.Seed))
	if err != nil {
		return res, fmt.Errorf("sketch: compose: %w", err)
	}

	w, h := r.Options.PixelSize()
	rd, err := render.Produce(w, h, comp, r.Device)
	if err != nil {
		return res, err
	}
	defer rd.Release()

	lib, err := gpu.NewLibrary(r.Device)
	if err != nil {
		return res, err
	}
	defer lib.Release()

	capture, err := r.Device.CreateTexture(gpu.TextureDescriptor{Label: "capture", Width: w, Height: h})
	if err != nil {
		return res, fmt.Errorf("sketch: capture texture: %w", err)
	}
	defer capture.Release()

	var bar *progressbar.ProgressBar
	if r.Progress != nil {
		bar = progressbar.NewOptions(r.Options.Frames,
			progressbar.OptionSetWriter(r.Progress),
			progressbar.OptionSetDescription("rendering"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
		defer bar.Close()
	}

	log.Info("sketch: run",
		"seed", r.Options.Seed, "frames", r.Options.Frames, "width", w, "height", h,
		"layers", rd.Layers(), "device", r.Device.Name())

	for frame := range r.Options.Frames {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		sctx.Frame = frame
		path, err := r.renderFrame(rd, lib, capture, frame)
		if err != nil {
			return res, fmt.Errorf("sketch: frame %d: %w", frame, err)
		}
		res.Frames = append(res.Frames, path)
		log.Debug("sketch: frame saved", "frame", frame, "path", path)
		if bar != nil {
			_ = bar.Add(1)
		}
	}
	return res, nil
}

func (r *Runner) renderFrame(rd *render.Render, lib *gpu.Library, capture gpu.Texture, frame int) (string, error) {
	if _, err := rd.Step(frame); err != nil {
		return "", err
	}
	cmds, err := rd.Render(lib, frame)
	if err != nil {
		return "", err
	}
	if err := capture.Clear(valora.Transparent); err != nil {
		return "", err
	}
	if err := render.Present(lib, frame, cmds, capture); err != nil {
		return "", err
	}
	return r.save(capture, frame)
}

// save reads back capture and writes it to the frame's PNG path.
func (r *Runner) save(capture gpu.Texture, frame int) (string, error) {
	pixels, err := r.Device.ReadPixels(capture)
	if err != nil {
		return "", err
	}
	img, err := gpu.ToNRGBA(pixels, capture.Width(), capture.Height())
	if err != nil {
		return "", err
	}

	path := r.Options.FramePath(frame)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return "", fmt.Errorf("encode %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return path, nil
}

// Run renders c with opts on dev, drawing a progress bar on stderr.
func Run(ctx context.Context, opts Options, dev gpu.Device, c Composer) (Result, error) {
	r := &Runner{Options: opts, Device: dev, Progress: os.Stderr}
	return r.Run(ctx, c)
}
