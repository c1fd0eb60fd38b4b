package fetch

import (
	"strings"
	"testing"
)

func TestClean_RemovesScriptAndStyleContent(t *testing.T) {
	in := `<html><body><script>alert(1)</script><style>body{color:red}</style><p>hello</p></body></html>`
	out, err := Clean([]byte(in))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(out.Content, "alert(1)") || strings.Contains(out.Content, "color:red") {
		t.Fatalf("expected script/style content removed, got %q", out.Content)
	}
	if !strings.Contains(out.Content, "hello") {
		t.Fatalf("expected prose preserved, got %q", out.Content)
	}
}

func TestClean_UnwrapsInlineBlacklistedTagsKeepingText(t *testing.T) {
	in := `<html><body><p>The <strong>quick</strong> <em>brown</em> fox</p></body></html>`
	out, err := Clean([]byte(in))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(out.Content, "<strong>") || strings.Contains(out.Content, "<em>") {
		t.Fatalf("expected blacklisted tags unwrapped, got %q", out.Content)
	}
	if !strings.Contains(out.Content, "quick") || !strings.Contains(out.Content, "brown") {
		t.Fatalf("expected inline text preserved, got %q", out.Content)
	}
}

func TestClean_DropsImageSrcAndDimensions(t *testing.T) {
	in := `<html><body><img src="http://example.com/x.png" width="10" height="10" alt="a logo"></body></html>`
	out, err := Clean([]byte(in))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(out.Content, "x.png") || strings.Contains(out.Content, `width="10"`) {
		t.Fatalf("expected img src/width/height dropped, got %q", out.Content)
	}
	if !strings.Contains(out.Content, `alt="a logo"`) {
		t.Fatalf("expected alt attribute preserved, got %q", out.Content)
	}
}

func TestClean_DropsAnchorRelKeepsHref(t *testing.T) {
	in := `<html><body><a href="http://example.com" rel="nofollow noopener">link</a></body></html>`
	out, err := Clean([]byte(in))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(out.Content, "nofollow") {
		t.Fatalf("expected rel attribute dropped, got %q", out.Content)
	}
	if !strings.Contains(out.Content, `href="http://example.com"`) {
		t.Fatalf("expected href preserved, got %q", out.Content)
	}
}

func TestClean_DropsNonWhitelistedAttributes(t *testing.T) {
	in := `<html><body><p onclick="steal()" class="hero" data-testid="x">text</p></body></html>`
	out, err := Clean([]byte(in))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(out.Content, "onclick") || strings.Contains(out.Content, "hero") || strings.Contains(out.Content, "data-testid") {
		t.Fatalf("expected non-whitelisted attributes dropped, got %q", out.Content)
	}
}

func TestClean_StripsCommentsAndCollapsesBlankLines(t *testing.T) {
	in := "<html><body><!-- a comment --><p>one</p>\n\n\n\n<p>two</p></body></html>"
	out, err := Clean([]byte(in))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(out.Content, "a comment") {
		t.Fatalf("expected comment stripped, got %q", out.Content)
	}
	if strings.Contains(out.Content, "\n\n\n") {
		t.Fatalf("expected no run of more than 2 consecutive newlines, got %q", out.Content)
	}
}

func TestClean_PreservesOriginalContent(t *testing.T) {
	in := `<html><body><p>hello</p></body></html>`
	out, err := Clean([]byte(in))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.OriginalContent != in {
		t.Fatalf("expected original content preserved verbatim, got %q", out.OriginalContent)
	}
}
