// Package artifact renders a completed research request as a standalone
// file: a PDF or Markdown export of the final formatted answer, each followed
// by a list of the visited sources' URLs, normalized the way the original
// crawl would have deduplicated them.
// Grounded on the teacher's internal/app.writeSimplePDF (line-oriented
// Markdown-to-PDF rendering, Markdown-link-to-PDF-link conversion) and on
// the teacher's internal/aggregate.normalizeURL, neither of which has a home
// in the core request path since the system's Non-goals rule out result
// re-ranking, deduplication, and caching there — both are repurposed here as
// optional, request-independent export helpers instead.
package artifact

import (
	"bufio"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/fenwick-labs/searchagent/internal/research"
)

// WritePDF renders result as a simple single-column PDF at outPath: the
// response title (if any) as a heading, then the response content as
// paragraphs, followed by a "Sources" section listing every visited result's
// normalized URL.
func WritePDF(result research.FinalResult, outPath string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.AddPage()

	if result.Response.Title != "" {
		pdf.SetFont("Helvetica", "B", 16)
		pdf.CellFormat(0, 10, result.Response.Title, "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.Ln(4)
	}

	writeParagraphs(pdf, result.Response.Content)

	if len(result.RawAnalysis.VisitedResults) > 0 {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 13)
		pdf.CellFormat(0, 8, "Sources", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		for _, r := range result.RawAnalysis.VisitedResults {
			link := NormalizeURL(r.URL)
			pdf.WriteLinkString(5, link, link)
			pdf.Ln(6)
		}
	}

	return pdf.OutputFileAndClose(outPath)
}

var linkPattern = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)

func writeParagraphs(pdf *gofpdf.Fpdf, body string) {
	scanner := bufio.NewScanner(strings.NewReader(body))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		s := strings.TrimSpace(line)
		if s == "" {
			pdf.Ln(5)
			continue
		}
		parts := linkPattern.FindAllStringSubmatchIndex(s, -1)
		if len(parts) == 0 {
			pdf.MultiCell(0, 5, s, "", "L", false)
			continue
		}
		pos := 0
		for _, m := range parts {
			if m[0] > pos {
				pdf.Write(5, s[pos:m[0]])
			}
			text := s[m[2]:m[3]]
			link := s[m[4]:m[5]]
			pdf.WriteLinkString(5, text, link)
			pos = m[1]
		}
		if pos < len(s) {
			pdf.Write(5, s[pos:])
		}
		pdf.Ln(6)
	}
}

// trackingParams are stripped by NormalizeURL; they identify the referrer or
// campaign rather than the resource itself.
var trackingParams = []string{"utm_source", "utm_medium", "utm_campaign", "utm_term", "utm_content", "utm_id", "gclid", "fbclid"}

// NormalizeURL lower-cases the host, drops the fragment, and strips common
// tracking query parameters, for display in an exported source list. It
// does not affect which pages the research request itself visits.
func NormalizeURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	u.Fragment = ""
	u.Host = strings.ToLower(u.Host)
	q := u.Query()
	for _, p := range trackingParams {
		q.Del(p)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// FormatMarkdown renders result as a Markdown document, for callers that
// want the same content WritePDF would render without producing a PDF.
func FormatMarkdown(result research.FinalResult) string {
	var b strings.Builder
	if result.Response.Title != "" {
		fmt.Fprintf(&b, "# %s\n\n", result.Response.Title)
	}
	b.WriteString(result.Response.Content)
	if len(result.RawAnalysis.VisitedResults) > 0 {
		b.WriteString("\n\n## Sources\n\n")
		for _, r := range result.RawAnalysis.VisitedResults {
			fmt.Fprintf(&b, "- %s\n", NormalizeURL(r.URL))
		}
	}
	return b.String()
}
