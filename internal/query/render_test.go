package query

import (
	"strings"
	"testing"

	"movieshelf/internal/catalog"
)

func TestRenderGridPlaceholderWithoutPoster(t *testing.T) {
	coll := catalog.NewCollection(
		rated("Heat", 8.3).WithPoster("https://image.example/heat.jpg"),
		rated("Unknown", 5),
		rated("Blank", 4).WithPoster("   "),
	)
	out := RenderGrid(coll)

	if strings.Count(out, "<li>") != 3 {
		t.Fatalf("expected three list items:\n%s", out)
	}
	if strings.Count(out, PosterPlaceholder) != 2 {
		t.Fatalf("expected two placeholders:\n%s", out)
	}
	if strings.Contains(out, `src=""`) {
		t.Fatalf("empty src emitted:\n%s", out)
	}
	if !strings.Contains(out, `src="https://image.example/heat.jpg"`) {
		t.Fatalf("poster missing:\n%s", out)
	}
	if !strings.Contains(out, "Rating: 8.3") || !strings.Contains(out, ">2000<") {
		t.Fatalf("rating or year missing:\n%s", out)
	}
}

func TestRenderGridEscapesText(t *testing.T) {
	coll := catalog.NewCollection(rated(`<script>"x"</script>`, 1))
	out := RenderGrid(coll)
	if strings.Contains(out, "<script>") {
		t.Fatalf("title not escaped:\n%s", out)
	}
	if !strings.Contains(out, "&lt;script&gt;") {
		t.Fatalf("expected escaped title:\n%s", out)
	}
}

func TestRenderGridEmptyCatalog(t *testing.T) {
	if out := RenderGrid(catalog.NewCollection()); out != "" {
		t.Fatalf("expected empty fragment, got %q", out)
	}
}

func TestRenderGridDropsUnsafePosterSchemes(t *testing.T) {
	coll := catalog.NewCollection(
		rated("Script", 5).WithPoster("javascript:alert(1)"),
		rated("Mixed", 5).WithPoster("JavaScript:alert(1)"),
		rated("Data", 5).WithPoster("data:text/html,<b>x</b>"),
		rated("Relative", 5).WithPoster("posters/relative.jpg"),
		rated("Plain", 5).WithPoster("http://image.example/plain.jpg"),
	)
	out := RenderGrid(coll)
	if strings.Contains(strings.ToLower(out), "javascript:") || strings.Contains(out, "data:") {
		t.Fatalf("unsafe poster emitted:\n%s", out)
	}
	if strings.Count(out, PosterPlaceholder) != 3 {
		t.Fatalf("expected three placeholders:\n%s", out)
	}
	if !strings.Contains(out, `src="posters/relative.jpg"`) || !strings.Contains(out, `src="http://image.example/plain.jpg"`) {
		t.Fatalf("safe posters missing:\n%s", out)
	}
}
