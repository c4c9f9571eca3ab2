package validator

import (
	"path"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/agentskills/skillcheck/pkg/skills"
	"github.com/agentskills/skillcheck/pkg/types/report"
)

// checkCrossReferences verifies the bidirectional invariant between the
// links in SKILL.md and the files present under references/: every link must
// resolve to a file on disk and every file must be linked. A file merged but
// never linked is still an orphan; there is no implicit pass.
func checkCrossReferences(_ *Config, skill *skills.Skill) []report.Finding {
	if skill.LineCount == 0 && skill.Frontmatter == nil {
		// SKILL.md itself is missing; that is already an error and every
		// reference would otherwise be reported as orphaned noise
		return nil
	}

	linked := make(map[string]struct{})
	for _, target := range extractReferenceLinks(skill.Content) {
		linked[target] = struct{}{}
	}

	present := make(map[string]struct{}, len(skill.References))
	for _, ref := range skill.References {
		present[ref.RelPath] = struct{}{}
	}

	var dangling, orphaned []string
	for target := range linked {
		if _, ok := present[target]; !ok {
			dangling = append(dangling, target)
		}
	}
	for relPath := range present {
		if _, ok := linked[relPath]; !ok {
			orphaned = append(orphaned, relPath)
		}
	}
	sort.Strings(dangling)
	sort.Strings(orphaned)

	var findings []report.Finding
	for _, target := range dangling {
		findings = append(findings, report.Errorf(skill.Name, report.RuleDanglingLink,
			"dangling reference link: %s", target))
	}
	for _, relPath := range orphaned {
		findings = append(findings, report.Errorf(skill.Name, report.RuleOrphanedReference,
			"orphaned reference file: %s", relPath))
	}
	return findings
}

// extractReferenceLinks walks the markdown AST of the SKILL.md body and
// collects link destinations under references/, deduplicated and with
// anchors stripped.
func extractReferenceLinks(body string) []string {
	src := []byte(body)
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	seen := make(map[string]struct{})
	var targets []string

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		link, ok := n.(*ast.Link)
		if !ok {
			return ast.WalkContinue, nil
		}

		dest := string(link.Destination)
		if idx := strings.IndexAny(dest, "#?"); idx != -1 {
			dest = dest[:idx]
		}
		dest = path.Clean(dest)
		if !strings.HasPrefix(dest, "references/") {
			return ast.WalkContinue, nil
		}

		if _, dup := seen[dest]; !dup {
			seen[dest] = struct{}{}
			targets = append(targets, dest)
		}
		return ast.WalkContinue, nil
	})

	return targets
}
