package services

import (
	"fmt"
	"strings"
)

// FormatNarrative renders a scored assessment as the markdown report stored
// on the submission.
func FormatNarrative(a *Assessment) string {
	if a == nil {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "**Overall Band Score: %s**\n\n", a.Overall)

	b.WriteString("### Scores by Criterion\n")
	fmt.Fprintf(&b, "- **Fluency and Coherence**: %s\n", a.Fluency)
	fmt.Fprintf(&b, "- **Lexical Resource**: %s\n", a.Vocabulary)
	fmt.Fprintf(&b, "- **Grammatical Range and Accuracy**: %s\n", a.Grammar)
	fmt.Fprintf(&b, "- **Pronunciation**: %s\n\n", a.Pronunciation)

	b.WriteString("### Detailed Feedback\n")
	b.WriteString(a.Feedback)
	b.WriteString("\n\n")

	if len(a.Strengths) > 0 {
		b.WriteString("### Strengths\n")
		for _, s := range a.Strengths {
			fmt.Fprintf(&b, "- %s\n", s)
		}
		b.WriteString("\n")
	}
	if len(a.Improvements) > 0 {
		b.WriteString("### Areas for Improvement\n")
		for _, s := range a.Improvements {
			fmt.Fprintf(&b, "- %s\n", s)
		}
		b.WriteString("\n")
	}
	if len(a.Corrections) > 0 {
		b.WriteString("### Language Corrections\n")
		for _, c := range a.Corrections {
			fmt.Fprintf(&b, "- \"%s\"\n  -> \"%s\"\n  %s\n\n", c.Original, c.Corrected, c.Explanation)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
