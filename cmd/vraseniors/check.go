package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/CLAYYO/VRASeniors/content"
	"github.com/CLAYYO/VRASeniors/views"
)

type checkCmd struct {
	Path   string `arg:"" optional:"" help:"Content document to validate." default:"data/content.json" type:"path"`
	Static string `help:"Directory served under /public, used to find attached PDFs." default:"public"`
}

// Run loads the document, then reports each section's items, pages that
// belong to no section and PDF attachments missing from disk.
func (c *checkCmd) Run(logger *zap.Logger) error {
	items, err := content.Load(c.Path)
	if err != nil {
		return err
	}
	repo := content.NewRepository(items)

	for _, sec := range content.Sections() {
		fmt.Printf("%s: %d items\n", sec.Label(), len(repo.BySection(sec)))
		for _, it := range repo.BySection(sec) {
			year := "-"
			if y, ok := content.ExtractYear(it); ok {
				year = fmt.Sprint(y)
			}
			fmt.Printf("  %-40s %s %s\n", it.Href(), year, it.Title)
		}
	}

	var unclassified []string
	for _, it := range repo.All() {
		if it.Page != content.HomePage && content.SectionOf(it.Page) == content.None {
			unclassified = append(unclassified, it.Page)
		}
	}
	if len(unclassified) > 0 {
		fmt.Printf("not in any section: %s\n", strings.Join(unclassified, ", "))
	}

	missing := 0
	for _, it := range repo.All() {
		for _, pdf := range it.PDFs {
			href := views.PDFHref(pdf.Filename)
			if !strings.HasPrefix(href, "/public/") {
				continue
			}
			name := filepath.Join(c.Static, "pdfs", filepath.FromSlash(pdf.Filename))
			if _, err := os.Stat(name); errors.Is(err, os.ErrNotExist) {
				logger.Warn("missing pdf", zap.String("page", it.Page), zap.String("file", name))
				missing++
			}
		}
	}
	fmt.Printf("%d items checked, %d missing PDFs\n", repo.Len(), missing)
	if missing > 0 {
		return fmt.Errorf("%d attached PDFs are missing", missing)
	}
	return nil
}
