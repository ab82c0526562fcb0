package vraseniors

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"
	"golang.org/x/image/draw"

	"github.com/CLAYYO/VRASeniors/content"
)

const (
	maxImageWidth = 1200
	jpegQuality   = 80
	photosSubdir  = "photos"
)

// processedImage is a resized, re-encoded photo ready to be written.
type processedImage struct {
	Filename string
	Width    int
	Height   int
	Data     []byte
}

// processImage decodes a photo, shrinks it to maxImageWidth and encodes it
// as JPEG under a slugged name.
func processImage(src io.Reader, originalName string) (processedImage, error) {
	img, _, err := image.Decode(src)
	if err != nil {
		return processedImage{}, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	if w > maxImageWidth {
		newH := h * maxImageWidth / w
		dst := image.NewRGBA(image.Rect(0, 0, maxImageWidth, newH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
		w = maxImageWidth
		h = newH
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return processedImage{}, fmt.Errorf("encode jpeg: %w", err)
	}

	return processedImage{
		Filename: imageSlug(originalName) + ".jpg",
		Width:    w,
		Height:   h,
		Data:     buf.Bytes(),
	}, nil
}

func imageSlug(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	if s := content.Slug(base); s != "" {
		return s
	}
	return "photo"
}

// uniqueFilename appends a counter until the name is free in dir.
func uniqueFilename(dir, filename string) string {
	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filename, ext)
	candidate := filename
	for counter := 2; ; counter++ {
		if _, err := os.Stat(filepath.Join(dir, candidate)); os.IsNotExist(err) {
			return candidate
		}
		candidate = fmt.Sprintf("%s-%d%s", base, counter, ext)
	}
}

// handleImageUpload stores a gallery photo under <static>/photos.
func (a *App) handleImageUpload(c echo.Context) error {
	fh, tooLarge, err := uploadFile(c, "image")
	if tooLarge {
		a.Metrics.upload(KindImage, "too_large")
		return jsonError(c, http.StatusBadRequest, msgFileTooLarge)
	}
	if err != nil {
		a.Metrics.upload(KindImage, "rejected")
		return jsonError(c, http.StatusBadRequest, "No image file provided")
	}

	src, err := fh.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	img, err := processImage(src, fh.Filename)
	if err != nil {
		a.Metrics.upload(KindImage, "rejected")
		return jsonError(c, http.StatusBadRequest, "Invalid image: "+err.Error())
	}

	dir := filepath.Join(a.staticDir, photosSubdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create photos dir: %w", err)
	}
	img.Filename = uniqueFilename(dir, img.Filename)
	path := filepath.Join(dir, img.Filename)
	if _, err := writeFile(path, bytes.NewReader(img.Data)); err != nil {
		return fmt.Errorf("write image: %w", err)
	}

	if err := a.Store.SaveUpload(UploadRecord{
		Filename:     img.Filename,
		OriginalName: fh.Filename,
		Kind:         KindImage,
		Size:         int64(len(img.Data)),
		Width:        img.Width,
		Height:       img.Height,
		UploadedAt:   a.now(),
	}); err != nil {
		os.Remove(path)
		return fmt.Errorf("record image upload: %w", err)
	}
	a.Metrics.upload(KindImage, "stored")

	return c.JSON(http.StatusOK, map[string]any{
		"success":  true,
		"filename": img.Filename,
		"width":    img.Width,
		"height":   img.Height,
	})
}
