// Package formatter normalizes raw AI provider text into the canonical
// structured response shape. It first looks for an embedded JSON object and
// falls back to a line-oriented heuristic parser; it never fails, worst case
// producing a single catch-all section.
package formatter

import (
	"encoding/json"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/vitashifa/backend/internal/service"
	"github.com/vitashifa/backend/internal/types"
)

const (
	summaryLimit   = 200
	headingMaxLen  = 60
	genericSummary = "AI-generated health information."
	fallbackTitle  = "AI Response"
)

var titleCaser = cases.Title(language.English)

var (
	boldRe     = regexp.MustCompile(`\*\*([^*]*)\*\*`)
	italicRe   = regexp.MustCompile(`\*([^*]*)\*`)
	codeRe     = regexp.MustCompile("`([^`]*)`")
	leadMarkRe = regexp.MustCompile(`^[#>\s]+`)
	bulletRe   = regexp.MustCompile(`^\s*(?:[•\-\*]|\d+\.)\s+`)
	numberedRe = regexp.MustCompile(`^\s*\d+\.\s+`)
	spaceRe    = regexp.MustCompile(`\s+`)
)

// FormatResult formats a provider result and attaches its grounding sources.
func FormatResult(res service.ProviderResult) types.FormattedResponse {
	out := Format(res.Text)
	if len(res.GroundingSources) > 0 {
		out.Sources = res.GroundingSources
	}
	return out
}

// Format parses raw provider text into a FormattedResponse. The disclaimer
// is always set and sections are never empty.
func Format(text string) types.FormattedResponse {
	if resp, ok := fromJSON(text); ok {
		return finalize(resp, text)
	}
	return finalize(fromHeuristic(text), text)
}

type jsonSection struct {
	Heading string   `json:"heading"`
	Content string   `json:"content"`
	Type    string   `json:"type"`
	Items   []string `json:"items"`
}

type jsonResponse struct {
	Title    string        `json:"title"`
	Summary  string        `json:"summary"`
	Sections []jsonSection `json:"sections"`
	Sources  []string      `json:"sources"`
}

// fromJSON tries the structured path: the first balanced {...} span in the
// text, accepted only when it carries a title or sections.
func fromJSON(text string) (types.FormattedResponse, bool) {
	span := jsonSpan(text)
	if span == "" {
		return types.FormattedResponse{}, false
	}

	var parsed jsonResponse
	if err := json.Unmarshal([]byte(span), &parsed); err != nil {
		return types.FormattedResponse{}, false
	}
	if parsed.Title == "" && len(parsed.Sections) == 0 {
		return types.FormattedResponse{}, false
	}

	resp := types.FormattedResponse{
		Title:   strings.TrimSpace(parsed.Title),
		Summary: strings.TrimSpace(parsed.Summary),
		Sources: parsed.Sources,
	}
	for _, s := range parsed.Sections {
		sec := types.Section{
			Heading: cleanMarkdown(s.Heading),
			Content: cleanMarkdown(s.Content),
			Type:    types.ParseSectionType(s.Type),
		}
		for _, item := range s.Items {
			if cleaned := cleanMarkdown(item); cleaned != "" {
				sec.Items = append(sec.Items, cleaned)
			}
		}
		if len(sec.Items) > 0 && sec.Type == types.SectionInfo {
			sec.Type = types.SectionList
		}
		resp.Sections = append(resp.Sections, sec)
	}
	return resp, true
}

// jsonSpan returns the first balanced top-level object in text, tracking
// string literals so braces inside them do not count.
func jsonSpan(text string) string {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1]
			}
		}
	}
	return ""
}

// fromHeuristic runs the fallback line parser: first line is the title, the
// next one or two lines the summary, and the rest is scanned into sections.
func fromHeuristic(text string) types.FormattedResponse {
	var lines []string
	for _, raw := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(raw); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}

	resp := types.FormattedResponse{Title: fallbackTitle}
	if len(lines) == 0 {
		return resp
	}

	resp.Title = cleanMarkdown(lines[0])
	rest := lines[1:]

	var summaryParts []string
	for len(rest) > 0 && len(summaryParts) < 2 && !isHeadingLine(rest[0]) && !bulletRe.MatchString(rest[0]) {
		summaryParts = append(summaryParts, cleanMarkdown(rest[0]))
		rest = rest[1:]
	}
	resp.Summary = truncate(strings.Join(summaryParts, " "), summaryLimit)

	var (
		sections []types.Section
		current  *types.Section
	)
	flush := func() {
		if current == nil {
			return
		}
		current.Content = strings.TrimSpace(current.Content)
		sections = append(sections, *current)
		current = nil
	}
	open := func(heading string) {
		flush()
		current = &types.Section{Heading: heading, Type: types.SectionInfo}
	}
	ensure := func() {
		if current == nil {
			open(titleCaser.String("information"))
		}
	}

	for _, line := range rest {
		switch {
		case isHeadingLine(line):
			open(cleanMarkdown(line))
		case bulletRe.MatchString(line):
			ensure()
			item := cleanMarkdown(bulletRe.ReplaceAllString(line, ""))
			if item != "" {
				current.Items = append(current.Items, item)
			}
			current.Type = types.SectionList
		case isWarningLine(line):
			ensure()
			current.Type = types.SectionWarning
			appendContent(current, cleanMarkdown(line))
		default:
			ensure()
			appendContent(current, cleanMarkdown(line))
		}
	}
	flush()

	resp.Sections = sections
	return resp
}

// isHeadingLine detects section starts: a markdown heading marker, or a
// short line carrying a colon without a terminal period.
func isHeadingLine(line string) bool {
	if strings.HasPrefix(line, "#") {
		return true
	}
	if bulletRe.MatchString(line) || numberedRe.MatchString(line) {
		return false
	}
	return len(line) < headingMaxLen &&
		strings.Contains(line, ":") &&
		!strings.HasSuffix(line, ".")
}

func isWarningLine(line string) bool {
	lower := strings.ToLower(line)
	return strings.Contains(lower, "warning") ||
		strings.Contains(lower, "caution") ||
		strings.Contains(lower, "important")
}

func appendContent(sec *types.Section, text string) {
	if text == "" {
		return
	}
	if sec.Content == "" {
		sec.Content = text
	} else {
		sec.Content += " " + text
	}
}

// finalize enforces the output invariants: non-empty title, summary,
// sections, and the fixed disclaimer.
func finalize(resp types.FormattedResponse, original string) types.FormattedResponse {
	if resp.Title == "" {
		resp.Title = fallbackTitle
	}
	if resp.Summary == "" {
		resp.Summary = genericSummary
	}
	if len(resp.Sections) == 0 {
		resp.Sections = []types.Section{{
			Heading: titleCaser.String("information"),
			Content: truncateNone(cleanMarkdown(original)),
			Type:    types.SectionInfo,
		}}
	}
	resp.Disclaimer = types.Disclaimer
	return resp
}

func truncateNone(s string) string {
	if s == "" {
		return "No content available."
	}
	return s
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	// Back off to a rune boundary so multibyte text is never cut
	// mid-sequence.
	end := limit
	for end > 0 && !utf8.RuneStart(s[end]) {
		end--
	}
	cut := s[:end]
	if idx := strings.LastIndexByte(cut, ' '); idx > limit/2 {
		cut = cut[:idx]
	}
	return cut + "..."
}

// cleanMarkdown strips inline markdown decoration and collapses whitespace.
func cleanMarkdown(s string) string {
	s = strings.TrimSpace(s)
	s = leadMarkRe.ReplaceAllString(s, "")
	s = boldRe.ReplaceAllString(s, "$1")
	s = italicRe.ReplaceAllString(s, "$1")
	s = codeRe.ReplaceAllString(s, "$1")
	s = spaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
