package promptstyle

import "strings"

const marker = "SPEAKING_PRACTICE_PROMPT_STYLE_V1"

// ApplySystem prepends the shared guidance block to a system prompt.
// Prompts that already carry the block are returned unchanged.
func ApplySystem(system string, mode string) string {
	base := strings.TrimSpace(system)
	if base == "" {
		return base
	}
	if strings.Contains(base, marker) {
		return base
	}
	mode = strings.ToLower(strings.TrimSpace(mode))

	var b strings.Builder
	b.WriteString(marker)
	b.WriteString("\nYou assess spoken answers for an exam-style speaking practice service.")
	b.WriteString("\nFollow the system and user instructions precisely.")
	b.WriteString("\nQuote the candidate's own words when giving examples; do not invent content they did not say.")
	b.WriteString("\nThe response is a machine transcription, so ignore obvious transcription artifacts.")
	if mode == "json" {
		b.WriteString("\nReturn a single JSON object that conforms to the schema and contains no extra keys.")
	} else {
		b.WriteString("\nBe concise and structured when helpful.")
	}
	b.WriteString("\n---\n")
	b.WriteString(base)
	return strings.TrimSpace(b.String())
}
