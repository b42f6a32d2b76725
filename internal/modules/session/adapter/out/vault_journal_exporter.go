package out

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"dawn/internal/modules/session/domain"
	sessionout "dawn/internal/modules/session/port/out"
	"dawn/internal/platform/markdown"
	"dawn/internal/platform/slug"
)

// VaultJournalExporter writes one markdown note per completed session under
// <dir>/YYYY/MM/DD. Re-exporting refreshes the frontmatter and keeps any
// body the user has edited.
type VaultJournalExporter struct {
	dir string
}

func NewVaultJournalExporter(dir string) sessionout.JournalExporter {
	return &VaultJournalExporter{dir: dir}
}

func (e *VaultJournalExporter) Export(_ context.Context, session domain.Session) (string, error) {
	date := session.StartedAt.UTC()
	dir := filepath.Join(e.dir, date.Format("2006"), date.Format("01"), date.Format("02"))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create journal dir: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("%s-%s.md", date.Format("150405"), slug.Make(session.ProtocolID)))

	body := renderBody(session)
	if existing, err := os.ReadFile(path); err == nil {
		kept, parseErr := markdown.Parse(string(existing), nil)
		if parseErr == nil && strings.TrimSpace(kept) != "" {
			body = kept
		}
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("read journal note: %w", err)
	}

	rendered, err := markdown.Render(frontmatter(session), body)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(rendered), 0o644); err != nil {
		return "", fmt.Errorf("write journal note: %w", err)
	}
	return path, nil
}

func frontmatter(s domain.Session) map[string]any {
	meta := map[string]any{
		"schema_version": domain.SchemaVersion,
		"id":             s.ID,
		"context":        string(s.Context),
		"day_index":      s.DayIndex,
		"protocol_id":    s.ProtocolID,
		"maintenance":    s.Maintenance,
		"started_at":     s.StartedAt.UTC().Format(time.RFC3339),
	}
	if s.CompletedAt != nil {
		meta["completed_at"] = s.CompletedAt.UTC().Format(time.RFC3339)
	}
	for key, v := range map[string]*int{
		"reaction_pre_score":  s.ReactionPreScore,
		"reaction_post_score": s.ReactionPostScore,
		"energy_pre":          s.EnergyPre,
		"energy_post":         s.EnergyPost,
		"minutes_saved_est":   s.MinutesSavedEst,
	} {
		if v != nil {
			meta[key] = *v
		}
	}
	return meta
}

func renderBody(s domain.Session) string {
	title := fmt.Sprintf("Day %d Protocol", s.DayIndex+1)
	if s.Maintenance {
		title = "Maintenance Protocol"
	}
	b := strings.Builder{}
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "- Context: %s\n", s.Context)
	fmt.Fprintf(&b, "- Reaction: %s -> %s\n", scoreText(s.ReactionPreScore), scoreText(s.ReactionPostScore))
	fmt.Fprintf(&b, "- Energy: %s -> %s\n", scoreText(s.EnergyPre), scoreText(s.EnergyPost))
	if imp, ok := s.Improvement(); ok {
		fmt.Fprintf(&b, "- Change: %+d (%+d%%)\n", imp.Delta, imp.PercentChange)
	}
	if s.MinutesSavedEst != nil {
		fmt.Fprintf(&b, "- Minutes saved: %d\n", *s.MinutesSavedEst)
	}
	b.WriteString("\n## Notes\n\n")
	return b.String()
}

func scoreText(v *int) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *v)
}
