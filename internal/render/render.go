// Package render persists generated documents to durable storage. Rendering
// failures produce an empty path sentinel instead of an error so the
// pipeline routes the job to manual review rather than aborting.
package render

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// Document kinds.
const (
	KindResume      = "resume"
	KindCoverLetter = "cover_letter"
)

// Renderer writes one generated document and returns its path. An empty path
// means rendering failed or there was no content to write.
type Renderer interface {
	Render(ctx context.Context, jobID, kind, content string) string
}

// FileRenderer writes Markdown files under a base directory.
type FileRenderer struct {
	Dir string
}

// NewFileRenderer creates the output directory on first use.
func NewFileRenderer(dir string) *FileRenderer {
	return &FileRenderer{Dir: dir}
}

// Render writes content to <dir>/<jobID>_<kind>.md. Empty content or any
// filesystem failure returns "".
func (r *FileRenderer) Render(ctx context.Context, jobID, kind, content string) string {
	if strings.TrimSpace(content) == "" {
		return ""
	}

	if err := os.MkdirAll(r.Dir, 0o755); err != nil {
		log.Printf("[render] cannot create %s: %v", r.Dir, err)
		return ""
	}

	path := filepath.Join(r.Dir, fmt.Sprintf("%s_%s.md", sanitizeID(jobID), kind))
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		log.Printf("[render] cannot write %s: %v", path, err)
		return ""
	}
	return path
}

// sanitizeID keeps job ids safe as file name components.
func sanitizeID(jobID string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, jobID)
}
