package formatters

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyOutput is returned when the model answered with nothing usable.
var ErrEmptyOutput = errors.New("ai-service returned empty output")

// BulletPrompt builds the chat input asking the model to rewrite one resume
// bullet point.
func BulletPrompt(text, role string) string {
	var b strings.Builder
	b.WriteString("Improve this resume bullet point to be more impactful, specific, and quantifiable. ")
	if role != "" {
		fmt.Fprintf(&b, "Consider the role of %q when improving. ", role)
	}
	b.WriteString("Make it start with a strong action verb and focus on achievements and outcomes. ")
	b.WriteString("Keep it concise but powerful. Return ONLY the improved bullet point on a single line, ")
	b.WriteString("with no quotes, no markdown and no explanation.\n\n")
	fmt.Fprintf(&b, "Original text: %q", text)
	return b.String()
}

// ParseBullet extracts the bullet text from a chat answer. Models tend to
// wrap it in code fences, quotes or a leading list marker.
func ParseBullet(output string) (string, error) {
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "```") {
			continue
		}
		line = strings.TrimLeft(line, "-*• ")
		line = strings.Trim(line, "\"'`")
		line = strings.TrimSpace(line)
		if line != "" {
			return line, nil
		}
	}
	return "", ErrEmptyOutput
}
