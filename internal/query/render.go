package query

import (
	"html"
	"net/url"
	"strings"

	"movieshelf/internal/catalog"
)

// PosterPlaceholder is shown in place of an image for records without a poster.
const PosterPlaceholder = "Poster not available"

// RenderGrid returns one list item per record for embedding in a page
// template. Text is HTML-escaped; a record without a poster gets a placeholder
// block instead of an <img> with an empty source. Posters that are neither
// http(s) nor relative references are treated as missing.
func RenderGrid(coll *catalog.Collection) string {
	var b strings.Builder
	for title, rec := range coll.All() {
		b.WriteString("<li>\n")
		b.WriteString("    <div class=\"movie\">\n")
		if poster, ok := safePosterURL(rec); ok {
			b.WriteString("        <img class=\"movie-poster\" src=\"")
			b.WriteString(html.EscapeString(poster))
			b.WriteString("\" alt=\"")
			b.WriteString(html.EscapeString(title))
			b.WriteString("\"/>\n")
		} else {
			b.WriteString("        <div class=\"movie-poster movie-poster-missing\">")
			b.WriteString(PosterPlaceholder)
			b.WriteString("</div>\n")
		}
		b.WriteString("        <div class=\"movie-title\">")
		b.WriteString(html.EscapeString(title))
		b.WriteString("</div>\n")
		b.WriteString("        <div class=\"movie-year\">")
		b.WriteString(html.EscapeString(rec.Year.String()))
		b.WriteString("</div>\n")
		b.WriteString("        <div class=\"movie-rating\">Rating: ")
		b.WriteString(html.EscapeString(rec.Rating.String()))
		b.WriteString("</div>\n")
		b.WriteString("    </div>\n")
		b.WriteString("</li>\n")
	}
	return b.String()
}

func safePosterURL(rec catalog.Record) (string, bool) {
	poster, ok := rec.PosterURL()
	if !ok {
		return "", false
	}
	u, err := url.Parse(poster)
	if err != nil {
		return "", false
	}
	switch u.Scheme {
	case "", "http", "https":
		return poster, true
	default:
		return "", false
	}
}
