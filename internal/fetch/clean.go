package fetch

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"

	"github.com/fenwick-labs/searchagent/internal/research"
)

// blacklistedTags are removed from the tree. scriptLikeTags are removed
// together with their text content (they carry no human-readable prose);
// every other blacklisted tag is unwrapped — the tag itself is discarded but
// its children are spliced into its parent in place, so surrounding prose
// survives. Grounded on the original webpage sanitizer's rm_tags() call,
// which unwraps by default and only drops content for its two
// clean-content tags (script, style).
var blacklistedTags = map[string]bool{
	"abbr": true, "script": true, "style": true, "noscript": true,
	"iframe": true, "svg": true, "span": true, "cite": true, "i": true,
	"b": true, "u": true, "em": true, "strong": true, "small": true,
	"s": true, "q": true, "figcaption": true, "figure": true, "footer": true,
	"header": true, "nav": true, "section": true, "article": true,
	"aside": true, "main": true, "canvas": true, "center": true,
}

var scriptLikeTags = map[string]bool{"script": true, "style": true}

// whitelistedAttributes are kept on every surviving element regardless of
// tag, matching the generic (tag-independent) attribute allowlist.
var whitelistedAttributes = map[string]bool{
	"data-label": true, "href": true, "label": true, "alt": true,
	"title": true, "aria-label": true, "aria-description": true,
	"role": true, "type": true, "name": true,
}

// droppedAttributes names (tag, attribute) pairs stripped even though the
// attribute might otherwise be kept by tag-specific defaults (e.g. href on
// anchors): images lose their source and dimensions, anchors lose rel.
var droppedAttributes = map[[2]string]bool{
	{"div", "src"}: true,
	{"img", "src"}: true,
	{"img", "height"}: true,
	{"img", "width"}: true,
	{"a", "rel"}: true,
}

// Clean runs the HTML sanitize-and-collapse pipeline (C2 output half): strip
// the blacklisted tags, restrict attributes to the whitelist, drop comments,
// and collapse blank lines. Grounded on the teacher's extract.go tree walk,
// generalized to the tag/attribute lists above and enriched with goquery for
// the script/style removal pass.
func Clean(rawHTML []byte) (research.ParsedWebpage, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(rawHTML)))
	if err != nil {
		return research.ParsedWebpage{}, err
	}

	doc.Find(strings.Join(scriptLikeSelectors(), ", ")).Remove()

	for _, root := range doc.Nodes {
		sanitizeNode(root)
	}

	var buf strings.Builder
	for _, root := range doc.Nodes {
		_ = html.Render(&buf, root)
	}

	collapsed := collapseBlankLines(buf.String())
	collapsed = enforceMaxSequentialNewlines(collapsed, 2)
	// Pages arrive in whatever normalization form their authors' tooling
	// produced; normalize to NFC so combining-character variants of the
	// same text reach the model as identical bytes.
	normalized := norm.NFC.String(collapsed)
	return research.ParsedWebpage{
		OriginalContent: string(rawHTML),
		Content:         strings.TrimSpace(normalized),
	}, nil
}

func scriptLikeSelectors() []string {
	sels := make([]string, 0, len(scriptLikeTags))
	for tag := range scriptLikeTags {
		sels = append(sels, tag)
	}
	return sels
}

// sanitizeNode walks n's children, removing comments, unwrapping blacklisted
// (non-script-like) elements in place, and filtering attributes on the
// elements that remain.
func sanitizeNode(n *html.Node) {
	child := n.FirstChild
	for child != nil {
		next := child.NextSibling
		switch child.Type {
		case html.CommentNode:
			n.RemoveChild(child)
		case html.ElementNode:
			sanitizeNode(child)
			if blacklistedTags[child.Data] {
				unwrap(n, child)
			} else {
				filterAttributes(child)
			}
		}
		child = next
	}
}

// unwrap removes child from parent but splices child's own children into
// parent at child's former position, preserving their text content.
func unwrap(parent, child *html.Node) {
	next := child.NextSibling
	for grandchild := child.FirstChild; grandchild != nil; {
		moved := grandchild
		grandchild = grandchild.NextSibling
		child.RemoveChild(moved)
		parent.InsertBefore(moved, next)
	}
	parent.RemoveChild(child)
}

func filterAttributes(n *html.Node) {
	kept := n.Attr[:0]
	for _, attr := range n.Attr {
		key := strings.ToLower(attr.Key)
		if droppedAttributes[[2]string{n.Data, key}] {
			continue
		}
		if whitelistedAttributes[key] {
			kept = append(kept, attr)
		}
	}
	n.Attr = kept
}

func collapseBlankLines(s string) string {
	lines := strings.Split(s, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

// enforceMaxSequentialNewlines caps runs of consecutive newline characters at
// n, matching the original sanitizer's enforce_n_sequential_newlines.
func enforceMaxSequentialNewlines(s string, n int) string {
	var b strings.Builder
	b.Grow(len(s))
	run := 0
	for _, r := range s {
		if r == '\n' {
			run++
			if run <= n {
				b.WriteRune(r)
			}
			continue
		}
		run = 0
		b.WriteRune(r)
	}
	return b.String()
}
