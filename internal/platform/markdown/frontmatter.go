package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	fence      = "---\n"
	closeFence = "\n---\n"
)

// Parse splits content into its YAML frontmatter and body. When meta is
// non-nil the frontmatter is decoded into it. Content without a frontmatter
// block is returned unchanged as the body.
func Parse(content string, meta any) (string, error) {
	if !strings.HasPrefix(content, fence) {
		return content, nil
	}
	rest := content[len(fence):]
	idx := strings.Index(rest, closeFence)
	if idx < 0 {
		return "", fmt.Errorf("frontmatter: missing closing separator")
	}
	if meta != nil {
		if err := yaml.Unmarshal([]byte(rest[:idx]), meta); err != nil {
			return "", fmt.Errorf("frontmatter: %w", err)
		}
	}
	return rest[idx+len(closeFence):], nil
}

// Render writes meta as a YAML block followed by a blank line and body.
func Render(meta any, body string) (string, error) {
	raw, err := yaml.Marshal(meta)
	if err != nil {
		return "", fmt.Errorf("frontmatter: %w", err)
	}
	var buf bytes.Buffer
	buf.WriteString(fence)
	buf.Write(raw)
	buf.WriteString(fence)
	if !strings.HasPrefix(body, "\n") {
		buf.WriteByte('\n')
	}
	buf.WriteString(body)
	return buf.String(), nil
}
