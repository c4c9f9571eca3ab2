package validator

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentskills/skillcheck/pkg/skills"
	"github.com/agentskills/skillcheck/pkg/types/report"
)

func writeSkill(t *testing.T, root, name, skillContent string, references map[string]string) {
	t.Helper()

	dir := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	if skillContent != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "SKILL.md"), []byte(skillContent), 0o644))
	}

	if len(references) > 0 {
		refDir := filepath.Join(dir, "references")
		require.NoError(t, os.MkdirAll(refDir, 0o755))
		for filename, content := range references {
			require.NoError(t, os.WriteFile(filepath.Join(refDir, filename), []byte(content), 0o644))
		}
	}
}

func skillMarkdown(frontmatterName string, refLinks ...string) string {
	var b strings.Builder
	b.WriteString("---\nname: " + frontmatterName + "\ndescription: A test skill\ntags: [testing]\n---\n\n# Skill\n\nSome prose.\n")
	if len(refLinks) > 0 {
		b.WriteString("\n## References\n\n")
		for _, link := range refLinks {
			b.WriteString("- [" + link + "](" + link + ")\n")
		}
	}
	return b.String()
}

func referenceMarkdown(title string, lines int) string {
	content := "---\ntitle: " + title + "\ndescription: A reference\ntags: [testing]\n---\n"
	body := strings.Repeat("filler line\n", lines)
	return content + body
}

func runOn(t *testing.T, root string) *report.Report {
	t.Helper()

	v, err := New(DefaultConfig())
	require.NoError(t, err)

	rep, err := v.Run(context.Background(), skills.WithRoot(root))
	require.NoError(t, err)
	return rep
}

func findingsByRule(rep *report.Report, ruleID string) []report.Finding {
	var matched []report.Finding
	for _, f := range rep.Findings {
		if f.RuleID == ruleID {
			matched = append(matched, f)
		}
	}
	return matched
}

func TestConformantSkillTreePasses(t *testing.T) {
	tmpDir := t.TempDir()
	writeSkill(t, tmpDir, "react-hooks", skillMarkdown("react-hooks", "references/rules.md"), map[string]string{
		"rules.md": referenceMarkdown("Rules", 5),
	})
	writeSkill(t, tmpDir, "tanstack-query", skillMarkdown("tanstack-query"), nil)

	rep := runOn(t, tmpDir)

	assert.Empty(t, rep.Findings)
	assert.Equal(t, 2, rep.SkillsScanned)
	assert.Equal(t, 0, rep.ExitCode())
	assert.Equal(t, "2 skills, 0 errors, 0 warnings", rep.Summary())
}

func TestFrontmatterNameMismatch(t *testing.T) {
	tmpDir := t.TempDir()
	writeSkill(t, tmpDir, "foo-skill", skillMarkdown("bar-skill"), nil)

	rep := runOn(t, tmpDir)

	mismatches := findingsByRule(rep, report.RuleNameMismatch)
	require.Len(t, mismatches, 1)
	assert.Equal(t, "foo-skill", mismatches[0].SkillName)
	assert.Equal(t, report.SeverityError, mismatches[0].Severity)
	assert.Equal(t, 1, rep.ExitCode())
}

func TestOrphanedReferenceFile(t *testing.T) {
	tmpDir := t.TempDir()
	writeSkill(t, tmpDir, "some-skill", skillMarkdown("some-skill"), map[string]string{
		"a.md": referenceMarkdown("A", 3),
	})

	rep := runOn(t, tmpDir)

	orphans := findingsByRule(rep, report.RuleOrphanedReference)
	require.Len(t, orphans, 1)
	assert.Contains(t, orphans[0].Message, "orphaned reference file: references/a.md")
	assert.Equal(t, 1, rep.ExitCode())
}

func TestDanglingReferenceLink(t *testing.T) {
	tmpDir := t.TempDir()
	writeSkill(t, tmpDir, "some-skill", skillMarkdown("some-skill", "references/missing.md"), nil)

	rep := runOn(t, tmpDir)

	dangling := findingsByRule(rep, report.RuleDanglingLink)
	require.Len(t, dangling, 1)
	assert.Contains(t, dangling[0].Message, "dangling reference link: references/missing.md")
	assert.Equal(t, 1, rep.ExitCode())
}

func TestShortSkillName(t *testing.T) {
	tmpDir := t.TempDir()
	writeSkill(t, tmpDir, "abc", skillMarkdown("abc"), nil)

	rep := runOn(t, tmpDir)

	short := findingsByRule(rep, report.RuleNameLength)
	require.Len(t, short, 1)
	assert.Equal(t, report.SeverityError, short[0].Severity)
	assert.Equal(t, 1, rep.ExitCode())
}

func TestReservedSkillName(t *testing.T) {
	tmpDir := t.TempDir()
	writeSkill(t, tmpDir, "update", skillMarkdown("update"), nil)

	rep := runOn(t, tmpDir)

	reserved := findingsByRule(rep, report.RuleNameReserved)
	require.Len(t, reserved, 1)
	assert.Contains(t, reserved[0].Message, `"update"`)
}

func TestReferenceLineBudget(t *testing.T) {
	tmpDir := t.TempDir()

	t.Run("501 lines fails", func(t *testing.T) {
		root := filepath.Join(tmpDir, "over")
		require.NoError(t, os.MkdirAll(root, 0o755))
		// 5 frontmatter lines + 496 body lines = 501 total
		writeSkill(t, root, "big-skill", skillMarkdown("big-skill", "references/big.md"), map[string]string{
			"big.md": referenceMarkdown("Big", 496),
		})

		rep := runOn(t, root)
		over := findingsByRule(rep, report.RuleReferenceLineBudget)
		require.Len(t, over, 1)
		assert.Contains(t, over[0].Message, "references/big.md is 501 lines, budget is 500")
		assert.Equal(t, 1, rep.ExitCode())
	})

	t.Run("500 lines passes", func(t *testing.T) {
		root := filepath.Join(tmpDir, "exact")
		require.NoError(t, os.MkdirAll(root, 0o755))
		writeSkill(t, root, "big-skill", skillMarkdown("big-skill", "references/big.md"), map[string]string{
			"big.md": referenceMarkdown("Big", 495),
		})

		rep := runOn(t, root)
		assert.Empty(t, findingsByRule(rep, report.RuleReferenceLineBudget))
	})
}

func TestSkillLineBudgetWarning(t *testing.T) {
	tmpDir := t.TempDir()
	long := skillMarkdown("long-skill") + strings.Repeat("more prose\n", 160)
	writeSkill(t, tmpDir, "long-skill", long, nil)

	rep := runOn(t, tmpDir)

	budget := findingsByRule(rep, report.RuleSkillLineBudget)
	require.Len(t, budget, 1)
	assert.Equal(t, report.SeverityWarning, budget[0].Severity)

	// Warnings alone never fail the run
	assert.Equal(t, 0, rep.ExitCode())
	assert.Equal(t, 1, rep.WarningCount())
}

func TestFencedCodeInSkillFile(t *testing.T) {
	tmpDir := t.TempDir()
	content := skillMarkdown("code-skill") + "\n```go\nfunc main() {}\n```\n"
	writeSkill(t, tmpDir, "code-skill", content, nil)

	rep := runOn(t, tmpDir)

	budget := findingsByRule(rep, report.RuleSkillLineBudget)
	require.Len(t, budget, 1)
	assert.Equal(t, report.SeverityError, budget[0].Severity)
	assert.Contains(t, budget[0].Message, "fenced code")
}

func TestMissingRequiredFields(t *testing.T) {
	tmpDir := t.TempDir()
	skillContent := "---\nname: half-skill\n---\n\n# Skill\n\n[R](references/r.md)\n"
	refContent := "---\ntitle: R\n---\n\nBody.\n"
	writeSkill(t, tmpDir, "half-skill", skillContent, map[string]string{"r.md": refContent})

	rep := runOn(t, tmpDir)

	missing := findingsByRule(rep, report.RuleMissingField)
	require.Len(t, missing, 3)
	assert.Contains(t, missing[0].Message, "missing required frontmatter field: description")
	assert.Contains(t, missing[1].Message, "missing required frontmatter field: description in references/r.md")
	assert.Contains(t, missing[2].Message, "missing required frontmatter field: tags in references/r.md")
}

func TestMultilineTagsRejected(t *testing.T) {
	tmpDir := t.TempDir()
	refContent := "---\ntitle: R\ndescription: d\ntags:\n  - one\n  - two\n---\n\nBody.\n"
	writeSkill(t, tmpDir, "tags-skill", skillMarkdown("tags-skill", "references/r.md"), map[string]string{"r.md": refContent})

	rep := runOn(t, tmpDir)

	multiline := findingsByRule(rep, report.RuleMultilineTags)
	require.Len(t, multiline, 1)
	assert.Contains(t, multiline[0].Message, "references/r.md")
	assert.Equal(t, 1, rep.ExitCode())
}

func TestExcludedFilename(t *testing.T) {
	tmpDir := t.TempDir()
	writeSkill(t, tmpDir, "docs-skill", skillMarkdown("docs-skill", "references/README.md"), map[string]string{
		"README.md": referenceMarkdown("Readme", 3),
	})

	rep := runOn(t, tmpDir)

	excluded := findingsByRule(rep, report.RuleFilenameExcluded)
	require.Len(t, excluded, 1)
	assert.Contains(t, excluded[0].Message, "references/README.md")
}

func TestMissingSkillFileSkipsDependentRules(t *testing.T) {
	tmpDir := t.TempDir()
	writeSkill(t, tmpDir, "bare-skill", "", map[string]string{
		"a.md": referenceMarkdown("A", 3),
	})

	rep := runOn(t, tmpDir)

	require.Len(t, findingsByRule(rep, report.RuleMissingSkillFile), 1)
	// No orphan noise on top of the missing-file error
	assert.Empty(t, findingsByRule(rep, report.RuleOrphanedReference))
	assert.Equal(t, 1, rep.ExitCode())
}

func TestIdempotence(t *testing.T) {
	tmpDir := t.TempDir()
	writeSkill(t, tmpDir, "foo-skill", skillMarkdown("bar-skill", "references/missing.md"), map[string]string{
		"orphan.md": referenceMarkdown("Orphan", 3),
	})

	first := runOn(t, tmpDir)
	second := runOn(t, tmpDir)

	assert.Equal(t, first, second)
	assert.True(t, first.HasErrors())
}

func TestMonotonicSeverity(t *testing.T) {
	tmpDir := t.TempDir()
	writeSkill(t, tmpDir, "clean-skill", skillMarkdown("clean-skill"), nil)
	writeSkill(t, tmpDir, "other-skill", skillMarkdown("other-skill"), nil)

	before := runOn(t, tmpDir)
	assert.Empty(t, before.Findings)

	// Introduce a violation in one skill
	writeSkill(t, tmpDir, "clean-skill", skillMarkdown("wrong-name"), nil)
	after := runOn(t, tmpDir)

	assert.Len(t, after.Findings, 1)
	for _, f := range after.Findings {
		assert.Equal(t, "clean-skill", f.SkillName)
	}
}

func TestNewWithInvalidConfig(t *testing.T) {
	config := DefaultConfig()
	config.ExcludedFilenames = []string{"[broken"}

	_, err := New(config)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid validator configuration")
}

func TestNewWithNilConfig(t *testing.T) {
	v, err := New(nil)
	require.NoError(t, err)
	assert.NotNil(t, v)
}
