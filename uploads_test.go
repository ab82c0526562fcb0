package vraseniors

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"testing"
)

const minimalPDF = "%PDF-1.4\n1 0 obj << /Type /Catalog >> endobj\ntrailer << /Root 1 0 R >>\n%%EOF\n"

func multipartFile(t *testing.T, field, filename, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return &buf, w.FormDataContentType()
}

type uploadResponse struct {
	Success      bool   `json:"success"`
	Error        string `json:"error"`
	Filename     string `json:"filename"`
	OriginalName string `json:"originalName"`
	Size         int64  `json:"size"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
}

func decodeUpload(t *testing.T, body []byte) uploadResponse {
	t.Helper()
	var r uploadResponse
	if err := json.Unmarshal(body, &r); err != nil {
		t.Fatalf("decode %s: %v", body, err)
	}
	return r
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestPDFUpload(t *testing.T) {
	ta := newTestApp(t)
	c := ta.admin()
	c.login()

	body, ctype := multipartFile(t, "pdf", "Knockout Draw 2024.pdf", "application/pdf", []byte(minimalPDF))
	rec := c.postBody("/admin/api/upload-pdf/", ctype, body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	res := decodeUpload(t, rec.Body.Bytes())
	if !res.Success || res.OriginalName != "Knockout Draw 2024.pdf" || res.Size != int64(len(minimalPDF)) {
		t.Errorf("unexpected response %+v", res)
	}
	if !regexp.MustCompile(`^\d+_Knockout_Draw_2024\.pdf$`).MatchString(res.Filename) {
		t.Errorf("filename = %q", res.Filename)
	}
	want := ta.clock.Now().UnixMilli()
	if !strings.HasPrefix(res.Filename, strconv.FormatInt(want, 10)+"_") {
		t.Errorf("filename %q not prefixed with %d", res.Filename, want)
	}

	stored, err := os.ReadFile(filepath.Join(ta.staticDir, "pdfs", res.Filename))
	if err != nil {
		t.Fatalf("stored file: %v", err)
	}
	if string(stored) != minimalPDF {
		t.Errorf("stored content differs")
	}

	uploads, err := ta.Store.ListUploads(KindPDF, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(uploads) != 1 || uploads[0].Filename != res.Filename {
		t.Errorf("upload not recorded: %+v", uploads)
	}
}

func TestPDFUploadRejects(t *testing.T) {
	ta := newTestApp(t)
	c := ta.admin()
	c.login()

	big := make([]byte, 15<<20)
	copy(big, minimalPDF)

	tests := []struct {
		name    string
		field   string
		ctype   string
		data    []byte
		wantErr string
	}{
		{"too large", "pdf", "application/pdf", big, "File too large (max 10MB)"},
		{"wrong field", "file", "application/pdf", []byte(minimalPDF), "No PDF file provided"},
		{"declared type", "pdf", "text/plain", []byte(minimalPDF), "No PDF file provided"},
		{"content is not pdf", "pdf", "application/pdf", []byte("<html>not a pdf</html>"), "No PDF file provided"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, ctype := multipartFile(t, tt.field, "doc.pdf", tt.ctype, tt.data)
			rec := c.postBody("/admin/api/upload-pdf/", ctype, body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status %d, want 400", rec.Code)
			}
			res := decodeUpload(t, rec.Body.Bytes())
			if res.Success || res.Error != tt.wantErr {
				t.Errorf("response %+v, want error %q", res, tt.wantErr)
			}
		})
	}

	entries, _ := os.ReadDir(filepath.Join(ta.staticDir, "pdfs"))
	if len(entries) != 0 {
		t.Errorf("rejected uploads left %d files", len(entries))
	}
}

func TestImageUpload(t *testing.T) {
	ta := newTestApp(t)
	c := ta.admin()
	c.login()

	img := image.NewRGBA(image.Rect(0, 0, 1600, 800))
	for x := 0; x < 1600; x++ {
		img.Set(x, 400, color.RGBA{R: 200, A: 255})
	}
	var src bytes.Buffer
	if err := png.Encode(&src, img); err != nil {
		t.Fatal(err)
	}

	var names []string
	for i := 0; i < 2; i++ {
		body, ctype := multipartFile(t, "image", "Captain's Day.png", "image/png", src.Bytes())
		rec := c.postBody("/admin/api/upload-image/", ctype, body)
		if rec.Code != http.StatusOK {
			t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
		}
		res := decodeUpload(t, rec.Body.Bytes())
		if res.Width != 1200 || res.Height != 600 {
			t.Errorf("resized to %dx%d, want 1200x600", res.Width, res.Height)
		}
		names = append(names, res.Filename)
	}
	if names[0] != "captains-day.jpg" || names[1] != "captains-day-2.jpg" {
		t.Errorf("filenames = %v", names)
	}
	for _, n := range names {
		if _, err := os.Stat(filepath.Join(ta.staticDir, "photos", n)); err != nil {
			t.Errorf("photo %s not written: %v", n, err)
		}
	}

	body, ctype := multipartFile(t, "image", "notes.png", "image/png", []byte("not an image"))
	if rec := c.postBody("/admin/api/upload-image/", ctype, body); rec.Code != http.StatusBadRequest {
		t.Errorf("invalid image: status %d", rec.Code)
	}
}

func TestUploadRemovesFileWhenNotRecorded(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		field    string
		filename string
		ctype    string
		data     func(t *testing.T) []byte
		subdir   string
	}{
		{"pdf", "/admin/api/upload-pdf/", "pdf", "Minutes.pdf", "application/pdf",
			func(*testing.T) []byte { return []byte(minimalPDF) }, pdfSubdir},
		{"image", "/admin/api/upload-image/", "image", "Captains Day.png", "image/png",
			func(t *testing.T) []byte { return pngBytes(t, 40, 20) }, photosSubdir},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ta := newTestApp(t)
			c := ta.admin()
			c.login()
			if _, err := ta.Store.db.Exec(`DROP TABLE uploads`); err != nil {
				t.Fatal(err)
			}

			body, ctype := multipartFile(t, tt.field, tt.filename, tt.ctype, tt.data(t))
			rec := c.postBody(tt.path, ctype, body)
			if rec.Code != http.StatusInternalServerError {
				t.Fatalf("status %d, want 500: %s", rec.Code, rec.Body.String())
			}
			entries, err := os.ReadDir(filepath.Join(ta.staticDir, tt.subdir))
			if err != nil && !os.IsNotExist(err) {
				t.Fatal(err)
			}
			if len(entries) != 0 {
				t.Errorf("%d files left in %s after a failed upload", len(entries), tt.subdir)
			}
		})
	}
}
