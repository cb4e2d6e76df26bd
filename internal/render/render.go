package render

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"html/template"
	"strings"

	"movieshelf/internal/catalog"
	"movieshelf/internal/fileutil"
	"movieshelf/internal/query"
)

//go:embed page.html.tmpl
var pageSource string

var pageTemplate = template.Must(template.New("page").Parse(pageSource))

type pageData struct {
	Title string
	// Grid is produced by query.RenderGrid, which escapes every value itself.
	Grid template.HTML
}

// Page renders the full HTML document for coll.
func Page(title string, coll *catalog.Collection) ([]byte, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		title = "Movies"
	}
	var buf bytes.Buffer
	data := pageData{Title: title, Grid: template.HTML(query.RenderGrid(coll))}
	if err := pageTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("execute page template: %w", err)
	}
	return buf.Bytes(), nil
}

// WritePage renders coll and atomically replaces the file at path.
func WritePage(path, title string, coll *catalog.Collection) error {
	if strings.TrimSpace(path) == "" {
		return errors.New("output path required")
	}
	page, err := Page(title, coll)
	if err != nil {
		return err
	}
	if err := fileutil.WriteFileAtomic(path, page, 0o644); err != nil {
		return fmt.Errorf("write page: %w", err)
	}
	return nil
}
