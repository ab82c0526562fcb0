package vraseniors

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const (
	maxUploadSize    = 10 << 20 // 10MB
	multipartSlack   = 1 << 20
	pdfSubdir        = "pdfs"
	defaultPDFName   = "document.pdf"
	msgFileTooLarge  = "File too large (max 10MB)"
	msgNoPDFProvided = "No PDF file provided"
)

// uploadFile reads the multipart file field, refusing bodies over the
// upload cap. tooLarge reports whether the refusal was about size.
func uploadFile(c echo.Context, field string) (fh *multipart.FileHeader, tooLarge bool, err error) {
	req := c.Request()
	req.Body = http.MaxBytesReader(c.Response(), req.Body, maxUploadSize+multipartSlack)
	fh, err = c.FormFile(field)
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) || req.ContentLength > maxUploadSize+multipartSlack {
			return nil, true, err
		}
		return nil, false, err
	}
	if fh.Size > maxUploadSize {
		return nil, true, fmt.Errorf("upload of %d bytes exceeds limit", fh.Size)
	}
	return fh, false, nil
}

// sniff returns the detected content type of f and rewinds it.
func sniff(f multipart.File) (string, error) {
	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	return http.DetectContentType(head[:n]), nil
}

// handlePDFUpload stores a PDF under <static>/pdfs as <unixMillis>_<name>.
func (a *App) handlePDFUpload(c echo.Context) error {
	fh, tooLarge, err := uploadFile(c, "pdf")
	if tooLarge {
		a.Metrics.upload(KindPDF, "too_large")
		return jsonError(c, http.StatusBadRequest, msgFileTooLarge)
	}
	if err != nil || !strings.Contains(strings.ToLower(fh.Header.Get(echo.HeaderContentType)), "pdf") {
		a.Metrics.upload(KindPDF, "rejected")
		return jsonError(c, http.StatusBadRequest, msgNoPDFProvided)
	}

	src, err := fh.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	ctype, err := sniff(src)
	if err != nil {
		return err
	}
	if ctype != "application/pdf" {
		a.Metrics.upload(KindPDF, "rejected")
		return jsonError(c, http.StatusBadRequest, msgNoPDFProvided)
	}

	original := fh.Filename
	if original == "" {
		original = defaultPDFName
	}
	now := a.now()
	filename := fmt.Sprintf("%d_%s", now.UnixMilli(), SanitizeFilename(filepath.Base(original)))

	dir := filepath.Join(a.staticDir, pdfSubdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create pdf dir: %w", err)
	}
	path := filepath.Join(dir, filename)
	size, err := writeFile(path, src)
	if err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}

	if err := a.Store.SaveUpload(UploadRecord{
		Filename:     filename,
		OriginalName: original,
		Kind:         KindPDF,
		Size:         size,
		UploadedAt:   now,
	}); err != nil {
		os.Remove(path)
		return fmt.Errorf("record pdf upload: %w", err)
	}
	a.Metrics.upload(KindPDF, "stored")
	a.logger.Info("pdf uploaded", zap.String("filename", filename), zap.Int64("size", size))

	return c.JSON(http.StatusOK, map[string]any{
		"success":      true,
		"filename":     filename,
		"originalName": original,
		"size":         size,
	})
}

// writeFile creates path exclusively and copies src into it.
func writeFile(path string, src io.Reader) (int64, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return 0, err
	}
	n, err := io.Copy(f, src)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return 0, err
	}
	return n, nil
}
