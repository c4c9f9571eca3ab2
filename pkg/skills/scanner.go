package skills

import (
	"context"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pkg/errors"

	"github.com/agentskills/skillcheck/pkg/logger"
	"github.com/agentskills/skillcheck/pkg/types/report"
)

const (
	skillFileName = "SKILL.md"
	referencesDir = "references"

	// DefaultRoot is the skills root used when none is configured.
	DefaultRoot = "skills"
)

// Scanner enumerates skill directories under a root and loads each one into
// a Skill value. Traversal is read-only and deterministic: directory entries
// are visited in lexicographic order.
type Scanner struct {
	root   string
	filter string
}

// ScannerOption configures a Scanner.
type ScannerOption func(*Scanner) error

// WithRoot sets the skills root directory.
func WithRoot(root string) ScannerOption {
	return func(s *Scanner) error {
		if root == "" {
			return errors.New("skills root must not be empty")
		}
		s.root = root
		return nil
	}
}

// WithFilter restricts the scan to a single skill directory name.
func WithFilter(name string) ScannerOption {
	return func(s *Scanner) error {
		s.filter = name
		return nil
	}
}

// NewScanner creates a scanner rooted at DefaultRoot unless overridden.
func NewScanner(opts ...ScannerOption) (*Scanner, error) {
	s := &Scanner{root: DefaultRoot}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Scan discovers all skills under the root. Structural problems found while
// loading (missing SKILL.md, malformed frontmatter) are returned as findings
// rather than aborting the scan, so one run surfaces every problem. The
// returned error is reserved for invocation-level failures: an unreadable
// root or a filter that matches no directory.
func (s *Scanner) Scan(ctx context.Context) ([]*Skill, []report.Finding, error) {
	log := logger.G(ctx)

	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "failed to read skills root %s", s.root)
	}

	var (
		result   []*Skill
		findings []report.Finding
		matched  bool
	)

	for _, entry := range entries {
		name := entry.Name()
		if s.filter != "" && name != s.filter {
			continue
		}

		entryPath := filepath.Join(s.root, name)
		info, err := os.Stat(entryPath)
		if err != nil || !info.IsDir() {
			continue
		}
		matched = true

		skill, skillFindings := s.loadSkill(name, entryPath)
		log.WithField("skill", name).
			WithField("references", len(skill.References)).
			Debug("discovered skill")

		result = append(result, skill)
		findings = append(findings, skillFindings...)
	}

	if s.filter != "" && !matched {
		return nil, nil, errors.Errorf("skill %q not found under %s", s.filter, s.root)
	}

	return result, findings, nil
}

// loadSkill reads one skill directory. Load problems become findings on the
// returned slice; the Skill is always returned so later rules can still run
// against whatever was readable.
func (s *Scanner) loadSkill(name, dir string) (*Skill, []report.Finding) {
	skill := &Skill{
		Name:      name,
		Directory: dir,
		SkillFile: filepath.Join(dir, skillFileName),
	}

	var findings []report.Finding

	content, err := os.ReadFile(skill.SkillFile)
	switch {
	case os.IsNotExist(err):
		findings = append(findings, report.Errorf(name, report.RuleMissingSkillFile, "missing %s", skillFileName))
	case err != nil:
		findings = append(findings, report.Errorf(name, report.RuleMissingSkillFile, "unreadable %s: %v", skillFileName, err))
	default:
		skill.LineCount = countLines(content)
		fm, body, err := ParseFrontmatter(content)
		if err != nil {
			findings = append(findings, report.Errorf(name, report.RuleMalformedFrontmatter, "%s: %v", skillFileName, err))
		}
		skill.Frontmatter = fm
		skill.Content = body
	}

	refs, refFindings := s.loadReferences(name, dir)
	skill.References = refs
	findings = append(findings, refFindings...)

	return skill, findings
}

func (s *Scanner) loadReferences(name, dir string) ([]ReferenceFile, []report.Finding) {
	paths, err := doublestar.FilepathGlob(filepath.Join(dir, referencesDir, "*.md"))
	if err != nil {
		return nil, []report.Finding{
			report.Errorf(name, report.RuleMissingSkillFile, "failed to list %s: %v", referencesDir, err),
		}
	}
	sort.Strings(paths)

	var (
		refs     []ReferenceFile
		findings []report.Finding
	)

	for _, path := range paths {
		relPath, err := filepath.Rel(dir, path)
		if err != nil {
			continue
		}
		relPath = filepath.ToSlash(relPath)

		ref := ReferenceFile{Path: path, RelPath: relPath}

		content, err := os.ReadFile(path)
		if err != nil {
			findings = append(findings, report.Errorf(name, report.RuleMalformedFrontmatter, "unreadable %s: %v", relPath, err))
			refs = append(refs, ref)
			continue
		}

		ref.LineCount = countLines(content)
		fm, _, err := ParseFrontmatter(content)
		if err != nil {
			findings = append(findings, report.Errorf(name, report.RuleMalformedFrontmatter, "%s: %v", relPath, err))
		}
		ref.Frontmatter = fm

		refs = append(refs, ref)
	}

	return refs, findings
}
