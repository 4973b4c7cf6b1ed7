package extractor

import (
	"log/slog"
	"strings"

	"codeberg.org/readeck/go-readability/v2"
	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"

	"nudge-backend/config"
	"nudge-backend/domain"
)

// Extractor converts fetched HTML into canonical readable text. Extraction
// failures are always terminal; the page is already in hand, so another fetch
// would not change the result.
type Extractor struct {
	cfg    config.ExtractConfig
	logger *slog.Logger
}

func New(cfg config.ExtractConfig, logger *slog.Logger) *Extractor {
	return &Extractor{cfg: cfg, logger: logger}
}

// Extract returns (text, "") on success or ("", errorCode) on failure.
// Readability runs first; a visible-text walk over the parsed document is the
// fallback when readability yields nothing useful.
func (e *Extractor) Extract(body []byte) (string, string) {
	html := strings.ToValidUTF8(string(body), "�")

	text := e.extractWithReadability(html)
	if text == "" {
		text = extractVisibleText(html)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", domain.ErrCodeEmptyExtraction
	}

	runes := []rune(text)
	if len(runes) < e.cfg.MinChars {
		return "", domain.ErrCodeTooShort
	}
	if len(runes) > e.cfg.MaxChars {
		text = string(runes[:e.cfg.MaxChars])
	}

	return text, ""
}

func (e *Extractor) extractWithReadability(html string) string {
	article, err := readability.FromReader(strings.NewReader(html), nil)
	if err != nil {
		return ""
	}

	var buf strings.Builder
	if err := article.RenderText(&buf); err != nil {
		return ""
	}
	return strings.TrimSpace(buf.String())
}

// extractVisibleText drops non-content elements and joins the remaining text
// nodes line by line.
func extractVisibleText(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return StripTags(html)
	}

	doc.Find("script, style, noscript, template, svg, canvas, iframe").Remove()

	raw := doc.Text()
	lines := make([]string, 0, 64)
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}

	if len(lines) == 0 {
		return StripTags(html)
	}

	return strings.Join(lines, "\n")
}

// StripTags removes HTML tags and returns whitespace-normalized plain text.
func StripTags(raw string) string {
	p := bluemonday.StrictPolicy()
	return strings.Join(strings.Fields(p.Sanitize(raw)), " ")
}

// ExtractTitle pulls a page title for display. Priority: <title>, og:title,
// first <h1>. Empty string when nothing is found.
func ExtractTitle(body []byte) string {
	html := strings.ToValidUTF8(string(body), "�")
	if strings.TrimSpace(html) == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}

	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		return title
	}

	if ogTitle, exists := doc.Find("meta[property='og:title']").First().Attr("content"); exists {
		if title := strings.TrimSpace(ogTitle); title != "" {
			return title
		}
	}

	return strings.TrimSpace(doc.Find("h1").First().Text())
}
