package formatter

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitashifa/backend/internal/service"
	"github.com/vitashifa/backend/internal/types"
)

func TestFormatStructuredJSON(t *testing.T) {
	text := `Here is the answer:
{"title": "Ibuprofen Overview", "summary": "Common NSAID pain reliever.", "sections": [
  {"heading": "Uses", "content": "Pain and fever reduction.", "type": "info"},
  {"heading": "Side Effects", "content": "", "type": "list", "items": ["Stomach upset", "Dizziness"]}
]}`

	resp := Format(text)

	assert.Equal(t, "Ibuprofen Overview", resp.Title)
	assert.Equal(t, "Common NSAID pain reliever.", resp.Summary)
	require.Len(t, resp.Sections, 2)
	assert.Equal(t, "Uses", resp.Sections[0].Heading)
	assert.Equal(t, types.SectionInfo, resp.Sections[0].Type)
	assert.Equal(t, types.SectionList, resp.Sections[1].Type)
	assert.Equal(t, []string{"Stomach upset", "Dizziness"}, resp.Sections[1].Items)
	assert.Equal(t, types.Disclaimer, resp.Disclaimer)
}

func TestFormatJSONBracesInStrings(t *testing.T) {
	// Brace scanning must ignore braces inside string literals.
	text := `{"title": "Test {curly} Title", "sections": [{"heading": "A", "content": "b {c} d", "type": "info"}]}`

	resp := Format(text)

	assert.Equal(t, "Test {curly} Title", resp.Title)
	require.Len(t, resp.Sections, 1)
}

func TestFormatJSONUnknownSectionType(t *testing.T) {
	text := `{"title": "T", "sections": [{"heading": "H", "content": "c", "type": "danger"}]}`

	resp := Format(text)

	require.Len(t, resp.Sections, 1)
	assert.Equal(t, types.SectionInfo, resp.Sections[0].Type)
}

func TestFormatJSONDefaults(t *testing.T) {
	resp := Format(`{"title": "Only A Title"}`)

	assert.Equal(t, "Only A Title", resp.Title)
	assert.NotEmpty(t, resp.Summary)
	require.NotEmpty(t, resp.Sections)
	assert.Equal(t, types.Disclaimer, resp.Disclaimer)
}

func TestFormatHeuristicSections(t *testing.T) {
	text := `# Managing Hypertension
Blood pressure control matters for long-term heart health.
It combines medication with lifestyle change.

Diet Recommendations:
- Reduce sodium intake
- Eat more vegetables

Exercise:
Aim for 30 minutes of moderate activity most days.

Safety Notes:
Warning: consult your doctor before changing medication.`

	resp := Format(text)

	assert.Equal(t, "Managing Hypertension", resp.Title)
	assert.Contains(t, resp.Summary, "Blood pressure control")
	require.Len(t, resp.Sections, 3)

	assert.Equal(t, "Diet Recommendations:", resp.Sections[0].Heading)
	assert.Equal(t, types.SectionList, resp.Sections[0].Type)
	assert.Equal(t, []string{"Reduce sodium intake", "Eat more vegetables"}, resp.Sections[0].Items)

	assert.Equal(t, "Exercise:", resp.Sections[1].Heading)
	assert.Equal(t, types.SectionInfo, resp.Sections[1].Type)
	assert.Contains(t, resp.Sections[1].Content, "30 minutes")

	assert.Equal(t, "Safety Notes:", resp.Sections[2].Heading)
	assert.Equal(t, types.SectionWarning, resp.Sections[2].Type)
	assert.Contains(t, resp.Sections[2].Content, "consult your doctor")
}

func TestFormatHeuristicLeadingProse(t *testing.T) {
	text := `Headache Relief
Most headaches resolve on their own.
Drink water and rest in a quiet room.
Over-the-counter pain relievers can help with symptoms today.`

	resp := Format(text)

	assert.Equal(t, "Headache Relief", resp.Title)
	require.Len(t, resp.Sections, 1)
	assert.Equal(t, "Information", resp.Sections[0].Heading)
	assert.Contains(t, resp.Sections[0].Content, "pain relievers")
}

func TestFormatStripsMarkdown(t *testing.T) {
	text := `**Bold Title**
Some *emphasized* summary with ` + "`code`" + ` markers.
## Section One:
> quoted **bold** content here`

	resp := Format(text)

	assert.Equal(t, "Bold Title", resp.Title)
	assert.Contains(t, resp.Summary, "emphasized summary with code markers.")
	require.NotEmpty(t, resp.Sections)
	assert.Equal(t, "Section One:", resp.Sections[0].Heading)
	assert.NotContains(t, resp.Sections[0].Content, "**")
	assert.NotContains(t, resp.Sections[0].Content, ">")
}

func TestFormatSummaryTruncation(t *testing.T) {
	long := strings.Repeat("word ", 80)
	text := "Title Line\n" + long

	resp := Format(text)

	assert.LessOrEqual(t, len(resp.Summary), summaryLimit+3)
	assert.True(t, strings.HasSuffix(resp.Summary, "..."))
}

func TestFormatSummaryTruncationKeepsRunesIntact(t *testing.T) {
	// An unspaced multibyte run puts the byte cut mid-rune: three-byte
	// runes never align with the 200-byte limit.
	long := strings.Repeat("健康情報", 30)
	text := "概要\n" + long

	resp := Format(text)

	assert.True(t, utf8.ValidString(resp.Summary))
	assert.LessOrEqual(t, len(resp.Summary), summaryLimit+3)
	assert.True(t, strings.HasSuffix(resp.Summary, "..."))
}

func TestFormatEmptyInput(t *testing.T) {
	resp := Format("")

	assert.Equal(t, "AI Response", resp.Title)
	require.Len(t, resp.Sections, 1)
	assert.Equal(t, "Information", resp.Sections[0].Heading)
	assert.Equal(t, types.Disclaimer, resp.Disclaimer)
}

func TestFormatMalformedJSONFallsBack(t *testing.T) {
	text := `{"title": "Broken`

	resp := Format(text)

	// Heuristic mode takes over without error.
	assert.NotEmpty(t, resp.Title)
	assert.NotEmpty(t, resp.Sections)
}

func TestFormatNumberedList(t *testing.T) {
	text := `First Aid Steps
Stay calm and assess the situation before acting.
Steps:
1. Call emergency services
2. Check breathing
3. Apply pressure to the wound`

	resp := Format(text)

	require.NotEmpty(t, resp.Sections)
	sec := resp.Sections[0]
	assert.Equal(t, types.SectionList, sec.Type)
	assert.Equal(t, []string{
		"Call emergency services",
		"Check breathing",
		"Apply pressure to the wound",
	}, sec.Items)
}

func TestFormatResultAttachesSources(t *testing.T) {
	res := service.ProviderResult{
		Text:             "Title\nSummary text here.",
		GroundingSources: []string{"https://example.org/a", "https://example.org/b"},
	}

	resp := FormatResult(res)

	assert.Equal(t, res.GroundingSources, resp.Sources)
}

func TestFormatResultNoSourcesOmitted(t *testing.T) {
	resp := FormatResult(service.ProviderResult{Text: "Title\nBody."})

	assert.Nil(t, resp.Sources)
}
