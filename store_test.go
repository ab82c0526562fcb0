package vraseniors

import (
	"path/filepath"
	"testing"
	"time"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "data", "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestNewStore(t *testing.T) {
	s := setupTestStore(t)
	if s.db == nil {
		t.Fatal("db should not be nil")
	}
}

func TestUploads(t *testing.T) {
	s := setupTestStore(t)
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	records := []UploadRecord{
		{Filename: "1_a.pdf", OriginalName: "a.pdf", Kind: KindPDF, Size: 100, UploadedAt: base},
		{Filename: "photo.jpg", OriginalName: "Photo.JPG", Kind: KindImage, Size: 200, Width: 1200, Height: 800, UploadedAt: base.Add(time.Minute)},
		{Filename: "2_b.pdf", OriginalName: "b.pdf", Kind: KindPDF, Size: 300, UploadedAt: base.Add(2 * time.Minute)},
	}
	for _, r := range records {
		if err := s.SaveUpload(r); err != nil {
			t.Fatalf("SaveUpload(%s): %v", r.Filename, err)
		}
	}

	all, err := s.ListUploads("", 10)
	if err != nil {
		t.Fatalf("ListUploads: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 uploads, got %d", len(all))
	}
	if all[0].Filename != "2_b.pdf" || all[2].Filename != "1_a.pdf" {
		t.Errorf("uploads not newest first: %s, %s", all[0].Filename, all[2].Filename)
	}
	if !all[1].UploadedAt.Equal(base.Add(time.Minute)) || all[1].Width != 1200 {
		t.Errorf("image record round trip: %+v", all[1])
	}

	pdfs, err := s.ListUploads(KindPDF, 10)
	if err != nil {
		t.Fatalf("ListUploads(pdf): %v", err)
	}
	if len(pdfs) != 2 {
		t.Errorf("expected 2 pdf uploads, got %d", len(pdfs))
	}

	limited, err := s.ListUploads("", 1)
	if err != nil {
		t.Fatalf("ListUploads limit: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("limit ignored: %d", len(limited))
	}
}

func TestSaveUploadReplaces(t *testing.T) {
	s := setupTestStore(t)
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	if err := s.SaveUpload(UploadRecord{Filename: "x.pdf", OriginalName: "old.pdf", Kind: KindPDF, Size: 1, UploadedAt: now}); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveUpload(UploadRecord{Filename: "x.pdf", OriginalName: "new.pdf", Kind: KindPDF, Size: 2, UploadedAt: now}); err != nil {
		t.Fatal(err)
	}
	got, err := s.ListUploads("", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].OriginalName != "new.pdf" {
		t.Errorf("expected single replaced record, got %+v", got)
	}
}

func TestPublishes(t *testing.T) {
	s := setupTestStore(t)
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	id1, err := s.SavePublish(PublishRecord{Message: "first", Hash: "abc", Committed: true, CreatedAt: now})
	if err != nil {
		t.Fatalf("SavePublish: %v", err)
	}
	id2, err := s.SavePublish(PublishRecord{Message: "second", Error: "Push rejected by remote repository", CreatedAt: now.Add(time.Hour)})
	if err != nil {
		t.Fatalf("SavePublish: %v", err)
	}
	if id2 <= id1 {
		t.Errorf("ids not increasing: %d, %d", id1, id2)
	}

	got, err := s.ListPublishes(10)
	if err != nil {
		t.Fatalf("ListPublishes: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 publishes, got %d", len(got))
	}
	if got[0].Message != "second" || got[0].Committed || got[0].Error == "" {
		t.Errorf("unexpected newest record: %+v", got[0])
	}
	if got[1].Hash != "abc" || !got[1].Committed {
		t.Errorf("unexpected oldest record: %+v", got[1])
	}
}
