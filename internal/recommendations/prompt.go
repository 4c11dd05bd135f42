package recommendations

import (
	"strconv"
	"strings"
)

// ProfileEntry is one feature of the customer profile rendered into the
// prompt, in importance order.
type ProfileEntry struct {
	Name  string
	Value float64
}

const promptHeader = `You are a world-class e-commerce retention strategist. A customer with the following profile is predicted to churn.
Provide a list of 5-8 concrete, actionable, and personalized bullet points to prevent them from churning.
Your response must only contain the bulleted list of recommendations.

Customer Profile:
`

// BuildPrompt renders the instructional prompt with a bulleted profile of the
// customer's most influential features.
func BuildPrompt(profile []ProfileEntry) string {
	var b strings.Builder
	b.WriteString(promptHeader)
	for _, entry := range profile {
		b.WriteString("- ")
		b.WriteString(entry.Name)
		b.WriteString(": ")
		b.WriteString(strconv.FormatFloat(entry.Value, 'g', -1, 64))
		b.WriteString("\n")
	}
	b.WriteString("\nRecommendations:")
	return b.String()
}

// parseBullets splits completion text into recommendation lines: strip
// leading bullet markup and whitespace, drop blanks, sentence-case each
// line. The format is not otherwise validated.
func parseBullets(content string) []string {
	lines := strings.Split(content, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		cleaned := strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "-* \t"))
		if cleaned == "" {
			continue
		}
		out = append(out, capitalize(cleaned))
	}
	return out
}

// capitalize sentence-cases a line: first rune upper, the rest lower.
func capitalize(s string) string {
	runes := []rune(s)
	return strings.ToUpper(string(runes[0])) + strings.ToLower(string(runes[1:]))
}
