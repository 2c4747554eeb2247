package geometry

import (
	"context"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/matzehuels/pinmap/pkg/errors"
	"github.com/matzehuels/pinmap/pkg/watch"
)

// FileImage is an image file placed inside a container. Its natural size is
// read from the file header; its bounds are the contain-fit placement inside
// the container. It is safe for concurrent use.
type FileImage struct {
	path      string
	container Element

	mu       sync.RWMutex
	naturalW float64
	naturalH float64
	format   string
}

// OpenImage reads the header of the image at path and returns a FileImage
// placed inside container.
func OpenImage(path string, container Element) (*FileImage, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "resolve %s", path)
	}
	f := &FileImage{path: abs, container: container}
	if err := f.Reload(); err != nil {
		return nil, err
	}
	return f, nil
}

// Reload re-reads the natural size from the file header. On failure the
// previous size is kept.
func (f *FileImage) Reload() error {
	w, h, format, err := DecodeSize(f.path)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.naturalW, f.naturalH, f.format = w, h, format
	return nil
}

// Path returns the absolute image path.
func (f *FileImage) Path() string { return f.path }

// NaturalSize returns the intrinsic pixel size of the image.
func (f *FileImage) NaturalSize() (w, h float64) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.naturalW, f.naturalH
}

// Format returns the decoder name ("png", "jpeg", "webp", ...).
func (f *FileImage) Format() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.format
}

// Bounds returns the placement of the image inside its container.
func (f *FileImage) Bounds() Rect {
	w, h := f.NaturalSize()
	return Fitted{Container: f.container, NaturalW: w, NaturalH: h}.Bounds()
}

// DecodeSize reads only the image header at path.
func DecodeSize(path string) (w, h float64, format string, err error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, 0, "", errors.Wrap(errors.ErrCodeImageDecode, err, "open %s", path)
	}
	defer file.Close()

	cfg, format, err := image.DecodeConfig(file)
	if err != nil {
		return 0, 0, "", errors.Wrap(errors.ErrCodeImageDecode, err, "decode header of %s", path)
	}
	return float64(cfg.Width), float64(cfg.Height), format, nil
}

// DecodeFile fully decodes the image at path.
func DecodeFile(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeImageDecode, err, "open %s", path)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeImageDecode, err, "decode %s", path)
	}
	return img, nil
}

// Watch reloads img whenever its file changes and refreshes obs, which
// emits a new snapshot if the placement changed. It blocks until ctx is
// done or the observation is stopped.
func Watch(ctx context.Context, img *FileImage, obs *Observation, logger *log.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	return watch.Files(ctx, []string{img.Path()}, 0, logger, func(string) {
		if obs.Stopped() {
			cancel()
			return
		}
		if err := img.Reload(); err != nil {
			if logger != nil {
				logger.Warn("image reload failed", "path", img.Path(), "err", err)
			}
			return
		}
		if obs.Refresh() && logger != nil {
			s := obs.Last()
			logger.Debug("image geometry changed", "width", s.ImageWidth, "height", s.ImageHeight)
		}
	})
}
