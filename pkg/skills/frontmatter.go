package skills

import (
	"bytes"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/parser"
	"gopkg.in/yaml.v3"
)

const fence = "---"

var (
	// ErrMissingFrontmatter indicates the file does not start with a --- fence.
	ErrMissingFrontmatter = errors.New("missing frontmatter")
	// ErrUnclosedFrontmatter indicates the opening fence is never closed.
	ErrUnclosedFrontmatter = errors.New("malformed frontmatter: missing closing --- fence")
)

// ParseFrontmatter parses the YAML header of a markdown file into a typed
// Frontmatter value and returns the remaining body. The skill packager reads
// the header through goldmark-meta, so the same parse is run here and
// anything it would reject is a parse failure.
func ParseFrontmatter(content []byte) (*Frontmatter, string, error) {
	raw, body, err := splitFrontmatter(string(content))
	if err != nil {
		return nil, body, err
	}
	if strings.TrimSpace(raw) == "" {
		// An empty header is well-formed YAML; the required fields are
		// simply all absent and get reported individually
		return &Frontmatter{}, body, nil
	}

	md := goldmark.New(goldmark.WithExtensions(meta.Meta))
	var buf bytes.Buffer
	pctx := parser.NewContext()
	if err := md.Convert(content, &buf, parser.WithContext(pctx)); err != nil {
		return nil, body, errors.Wrap(err, "malformed frontmatter")
	}
	if meta.Get(pctx) == nil {
		return nil, body, errors.New("malformed frontmatter")
	}

	fm := &Frontmatter{}
	if err := yaml.Unmarshal([]byte(raw), fm); err != nil {
		return nil, body, errors.Wrap(err, "malformed frontmatter")
	}
	fm.MultilineTags = hasMultilineTags(raw)

	return fm, body, nil
}

// splitFrontmatter separates the raw YAML block from the markdown body.
func splitFrontmatter(content string) (raw string, body string, err error) {
	lines := strings.Split(content, "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != fence {
		return "", content, ErrMissingFrontmatter
	}

	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == fence {
			raw = strings.Join(lines[1:i], "\n")
			body = strings.TrimLeft(strings.Join(lines[i+1:], "\n"), "\n")
			return raw, body, nil
		}
	}

	return "", content, ErrUnclosedFrontmatter
}

// hasMultilineTags reports whether the raw YAML block writes tags as an
// expanded block list. The packager only supports the single-line bracketed
// form, so `tags:` followed by `- item` lines is a structural defect.
func hasMultilineTags(raw string) bool {
	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "tags:") {
			continue
		}
		rest := strings.TrimSpace(strings.TrimPrefix(trimmed, "tags:"))
		return rest == ""
	}
	return false
}

// CollapseTags rewrites an expanded multi-line tags block inside the
// frontmatter into the single-line bracketed form. It returns the rewritten
// content and whether a change was made. Content without frontmatter or
// with already-conformant tags is returned unchanged.
func CollapseTags(content []byte) ([]byte, bool) {
	lines := strings.Split(string(content), "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != fence {
		return content, false
	}

	end := -1
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == fence {
			end = i
			break
		}
	}
	if end == -1 {
		return content, false
	}

	for i := 1; i < end; i++ {
		if strings.TrimSpace(lines[i]) != "tags:" {
			continue
		}

		var items []string
		j := i + 1
		for ; j < end; j++ {
			trimmed := strings.TrimSpace(lines[j])
			if !strings.HasPrefix(trimmed, "- ") {
				break
			}
			item := strings.TrimSpace(strings.TrimPrefix(trimmed, "- "))
			items = append(items, strings.Trim(item, `"'`))
		}
		if len(items) == 0 {
			return content, false
		}

		collapsed := "tags: [" + strings.Join(items, ", ") + "]"
		rewritten := append([]string{}, lines[:i]...)
		rewritten = append(rewritten, collapsed)
		rewritten = append(rewritten, lines[j:]...)
		return []byte(strings.Join(rewritten, "\n")), true
	}

	return content, false
}

// CollapseTagsInFile applies CollapseTags to a file in place. It returns
// whether the file was rewritten.
func CollapseTagsInFile(path string) (bool, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return false, errors.Wrapf(err, "failed to read %s", path)
	}

	fixed, changed := CollapseTags(content)
	if !changed {
		return false, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return false, errors.Wrapf(err, "failed to stat %s", path)
	}
	if err := os.WriteFile(path, fixed, info.Mode()); err != nil {
		return false, errors.Wrapf(err, "failed to write %s", path)
	}

	return true, nil
}

// countLines counts newline-terminated lines, counting a trailing partial
// line as one.
func countLines(content []byte) int {
	if len(content) == 0 {
		return 0
	}
	n := bytes.Count(content, []byte("\n"))
	if content[len(content)-1] != '\n' {
		n++
	}
	return n
}
