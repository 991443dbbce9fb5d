package ingest

import (
	"bufio"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// languageByExt maps source file extensions to language tags.
var languageByExt = map[string]string{
	".py":   "python",
	".go":   "go",
	".c":    "c",
	".h":    "c",
	".cpp":  "cpp",
	".cc":   "cpp",
	".java": "java",
	".js":   "javascript",
	".ts":   "typescript",
	".rs":   "rust",
	".rb":   "ruby",
}

// maxDescriptionLines bounds how much of a leading comment block is
// taken as the description.
const maxDescriptionLines = 12

// RepoSource walks a directory tree of algorithm implementations and
// derives one entry per recognized source file: the name from the file
// name, the language from the extension, the description from the
// leading comment block, and the category from the first path segment
// under the repository root.
type RepoSource struct {
	name string
	root string
}

// NewRepoSource creates a source for a local repository checkout. The
// collection name defaults to the directory base name.
func NewRepoSource(name, root string) *RepoSource {
	if name == "" {
		name = filepath.Base(filepath.Clean(root))
	}
	return &RepoSource{name: name, root: root}
}

func (s *RepoSource) Name() string { return s.name }

// Entries walks the tree. Files without a recognized extension or a
// readable description yield entries with empty required fields, which
// the pipeline counts as skipped.
func (s *RepoSource) Entries(ctx context.Context) ([]RawEntry, error) {
	if _, err := os.Stat(s.root); err != nil {
		return nil, fmt.Errorf("repo %q: %w", s.root, err)
	}

	var entries []RawEntry
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != s.root {
				return filepath.SkipDir
			}
			return nil
		}

		language, ok := languageByExt[strings.ToLower(filepath.Ext(path))]
		if !ok {
			return nil
		}

		entries = append(entries, RawEntry{
			Name:        strings.TrimSuffix(d.Name(), filepath.Ext(d.Name())),
			Language:    language,
			Description: leadingComment(path),
			Categories:  []string{s.categoryFor(path)},
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("repo %q: %w", s.root, err)
	}

	return entries, nil
}

// categoryFor derives the category tag from the first path segment under
// the repository root; files at the root fall back to the collection name.
func (s *RepoSource) categoryFor(path string) string {
	rel, err := filepath.Rel(s.root, path)
	if err != nil {
		return strings.ToLower(s.name)
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")
	if len(parts) < 2 {
		return strings.ToLower(s.name)
	}
	return strings.ToLower(parts[0])
}

// leadingComment extracts the file's leading comment block: a Python
// docstring or a run of //, # or /* lines. Returns "" when the file has
// no usable description.
func leadingComment(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	var lines []string
	inDocstring := false
	scanner := bufio.NewScanner(f)

	for scanner.Scan() && len(lines) < maxDescriptionLines {
		line := strings.TrimSpace(scanner.Text())

		if inDocstring {
			if idx := strings.Index(line, `"""`); idx >= 0 {
				if part := strings.TrimSpace(line[:idx]); part != "" {
					lines = append(lines, part)
				}
				break
			}
			if line != "" {
				lines = append(lines, line)
			}
			continue
		}

		switch {
		case line == "":
			if len(lines) > 0 {
				return strings.Join(lines, " ")
			}
		case strings.HasPrefix(line, `"""`):
			rest := strings.TrimPrefix(line, `"""`)
			if idx := strings.Index(rest, `"""`); idx >= 0 {
				return strings.TrimSpace(rest[:idx])
			}
			if rest = strings.TrimSpace(rest); rest != "" {
				lines = append(lines, rest)
			}
			inDocstring = true
		case strings.HasPrefix(line, "//"):
			lines = append(lines, strings.TrimSpace(strings.TrimPrefix(line, "//")))
		case strings.HasPrefix(line, "#"):
			lines = append(lines, strings.TrimSpace(strings.TrimPrefix(line, "#")))
		case strings.HasPrefix(line, "/*"):
			text := strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(line, "/*"), "*/"))
			if text != "" {
				lines = append(lines, text)
			}
		case strings.HasPrefix(line, "*"):
			if text := strings.TrimSpace(strings.TrimPrefix(line, "*")); text != "" && text != "/" {
				lines = append(lines, text)
			}
		default:
			// First code line ends the header comment.
			return strings.Join(lines, " ")
		}
	}

	return strings.Join(lines, " ")
}
