package glowfield

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

// Screenshot asks for the next composed frame to be saved as
// <ScreenshotDir>/<timestamp>_<label>.png.
func (w *Window) Screenshot(label string) {
	w.screenshotQueue = append(w.screenshotQueue, label)
}

// flushScreenshots writes every pending screenshot from screen. It runs last
// in Draw so the capture includes all layers.
func (w *Window) flushScreenshots(screen *ebiten.Image) {
	if len(w.screenshotQueue) == 0 {
		return
	}
	labels := w.screenshotQueue
	w.screenshotQueue = w.screenshotQueue[:0]

	dir := w.cfg.ScreenshotDir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		w.log.Error("screenshot directory", zap.String("dir", dir), zap.Error(err))
		return
	}

	size := screen.Bounds().Size()
	pixels := make([]byte, 4*size.X*size.Y)
	screen.ReadPixels(pixels)
	img := unpremultiply(pixels, size.X, size.Y)

	prefix := time.Now().Format("20060102_150405")
	for _, label := range labels {
		name := filepath.Join(dir, prefix+"_"+sanitizeLabel(label)+".png")
		if err := writePNG(name, img); err != nil {
			w.log.Error("screenshot failed", zap.String("label", label), zap.Error(err))
			continue
		}
		w.log.Info("screenshot saved", zap.String("path", name))
	}
}

// unpremultiply turns premultiplied RGBA bytes, as read back from the GPU,
// into a straight-alpha image suitable for PNG.
func unpremultiply(pixels []byte, width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	n := min(len(pixels), len(img.Pix)) / 4
	for i := 0; i < n; i++ {
		p := pixels[4*i : 4*i+4]
		src := color.RGBA{R: p[0], G: p[1], B: p[2], A: p[3]}
		c := color.NRGBAModel.Convert(src).(color.NRGBA)
		copy(img.Pix[4*i:], []byte{c.R, c.G, c.B, c.A})
	}
	return img
}

func writePNG(name string, img image.Image) (err error) {
	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("screenshot: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("screenshot: %w", cerr)
		}
	}()
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("screenshot: encode %s: %w", name, err)
	}
	return nil
}

// sanitizeLabel keeps ASCII letters, digits, '-' and '.', and maps anything
// else to '_'. Blank labels become "unlabeled".
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	return strings.Map(func(r rune) rune {
		if r < 0x80 && (r == '-' || r == '.' || isAlnum(byte(r))) {
			return r
		}
		return '_'
	}, label)
}

func isAlnum(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}
