package sketch

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// screenshotQueue collects labeled screenshot requests and writes them all
// once the frame they were requested in has been drawn.
type screenshotQueue struct {
	dir    string
	labels []string
}

func (q *screenshotQueue) add(label string) {
	q.labels = append(q.labels, label)
}

func (q *screenshotQueue) pending() bool { return len(q.labels) > 0 }

// flush writes img once per queued label and empties the queue. Returns the
// written paths and the first error.
func (q *screenshotQueue) flush(img image.Image) ([]string, error) {
	if len(q.labels) == 0 {
		return nil, nil
	}
	defer func() { q.labels = q.labels[:0] }()

	if err := os.MkdirAll(q.dir, 0o755); err != nil {
		return nil, fmt.Errorf("screenshot: mkdir %s: %w", q.dir, err)
	}
	stamp := time.Now().Format("20060102_150405")
	paths := make([]string, 0, len(q.labels))
	for _, label := range q.labels {
		path := filepath.Join(q.dir, fmt.Sprintf("%s_%s.png", stamp, sanitizeLabel(label)))
		if err := WritePNG(path, img); err != nil {
			return paths, fmt.Errorf("screenshot: %w", err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// captureEbiten reads back an ebiten image as straight-alpha NRGBA.
func captureEbiten(screen *ebiten.Image) *image.NRGBA {
	bounds := screen.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	pixels := make([]byte, 4*w*h)
	screen.ReadPixels(pixels)
	return unpremultiply(pixels, w, h)
}

// unpremultiply converts premultiplied RGBA bytes to straight-alpha NRGBA.
func unpremultiply(pixels []byte, w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i+3 < len(pixels) && i+3 < len(img.Pix); i += 4 {
		r, g, b, a := pixels[i], pixels[i+1], pixels[i+2], pixels[i+3]
		if a > 0 && a < 255 {
			r = uint8(min(int(r)*255/int(a), 255))
			g = uint8(min(int(g)*255/int(a), 255))
			b = uint8(min(int(b)*255/int(a), 255))
		}
		img.Pix[i] = r
		img.Pix[i+1] = g
		img.Pix[i+2] = b
		img.Pix[i+3] = a
	}
	return img
}

// WritePNG encodes img to a PNG file at path.
func WritePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// sanitizeLabel replaces characters that are unsafe in file names with
// underscores and falls back to "unlabeled" for empty strings.
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	var b strings.Builder
	b.Grow(len(label))
	for _, r := range label {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9', r == '-', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
