package raster

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"time"

	"github.com/HugoSmits86/nativewebp"
)

// Capture writes rendered frames as lossless WebP files.
type Capture struct {
	outputDir string
	prefix    string
}

// NewCapture creates a capture writing into outputDir with a file prefix.
func NewCapture(outputDir, prefix string) *Capture {
	return &Capture{
		outputDir: outputDir,
		prefix:    prefix,
	}
}

// SetOutputDir sets the output directory.
func (c *Capture) SetOutputDir(dir string) {
	c.outputDir = dir
}

// WriteFrame saves img as <prefix>_<index>.webp.
func (c *Capture) WriteFrame(img image.Image, index int) (string, error) {
	return c.write(img, c.path(fmt.Sprintf("%s_%04d.webp", c.prefix, index)))
}

// CaptureFromPixels saves raw RGBA pixel data read back from OpenGL.
// The image is flipped vertically since OpenGL has origin at bottom-left.
func (c *Capture) CaptureFromPixels(pixels []byte, width, height int) (string, error) {
	if len(pixels) != width*height*4 {
		return "", fmt.Errorf("pixel data size mismatch: expected %d, got %d", width*height*4, len(pixels))
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	rowSize := width * 4
	for y := 0; y < height; y++ {
		srcOffset := (height - 1 - y) * rowSize
		dstOffset := y * img.Stride
		copy(img.Pix[dstOffset:dstOffset+rowSize], pixels[srcOffset:srcOffset+rowSize])
	}

	return c.write(img, c.GenerateFilename())
}

// WriteAnimation saves frames as one looping animated WebP.
func (c *Capture) WriteAnimation(frames []image.Image, delay time.Duration) (string, error) {
	if len(frames) == 0 {
		return "", fmt.Errorf("no frames to encode")
	}
	ani := &nativewebp.Animation{
		Images:    frames,
		Durations: make([]uint, len(frames)),
		Disposals: make([]uint, len(frames)),
	}
	for i := range ani.Durations {
		ani.Durations[i] = uint(delay.Milliseconds())
	}

	filename := c.path(c.prefix + ".webp")
	f, err := c.create(filename)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := nativewebp.EncodeAll(f, ani, nil); err != nil {
		return "", fmt.Errorf("encoding animated WebP: %w", err)
	}
	return filename, nil
}

// GenerateFilename returns a timestamped filename without saving.
func (c *Capture) GenerateFilename() string {
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	return c.path(fmt.Sprintf("%s_%s.webp", c.prefix, timestamp))
}

func (c *Capture) path(name string) string {
	if c.outputDir == "" {
		return name
	}
	return filepath.Join(c.outputDir, name)
}

func (c *Capture) create(filename string) (*os.File, error) {
	if c.outputDir != "" {
		if err := os.MkdirAll(c.outputDir, 0755); err != nil {
			return nil, fmt.Errorf("creating output dir: %w", err)
		}
	}
	f, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("creating file: %w", err)
	}
	return f, nil
}

func (c *Capture) write(img image.Image, filename string) (string, error) {
	f, err := c.create(filename)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := nativewebp.Encode(f, img, nil); err != nil {
		return "", fmt.Errorf("encoding WebP: %w", err)
	}
	return filename, nil
}
