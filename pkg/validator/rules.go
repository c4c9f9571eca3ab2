package validator

import (
	"path"
	"strings"

	"github.com/agentskills/skillcheck/pkg/skills"
	"github.com/agentskills/skillcheck/pkg/types/report"
)

// ruleFunc is one entry of the rule table: a pure function of a skill and
// the configuration. Rules do not depend on each other's outcome and may be
// evaluated in any order.
type ruleFunc func(cfg *Config, skill *skills.Skill) []report.Finding

// ruleTable is the fixed rule set applied to every skill.
var ruleTable = []ruleFunc{
	checkNameLength,
	checkNameReserved,
	checkSkillFrontmatter,
	checkSkillLineBudget,
	checkReferenceFrontmatter,
	checkReferenceLineBudget,
	checkExcludedFilenames,
	checkCrossReferences,
}

func checkNameLength(cfg *Config, skill *skills.Skill) []report.Finding {
	if len(skill.Name) >= cfg.MinNameLength {
		return nil
	}
	return []report.Finding{
		report.Errorf(skill.Name, report.RuleNameLength,
			"skill name %q is shorter than %d characters", skill.Name, cfg.MinNameLength),
	}
}

func checkNameReserved(cfg *Config, skill *skills.Skill) []report.Finding {
	if !cfg.isReserved(skill.Name) {
		return nil
	}
	return []report.Finding{
		report.Errorf(skill.Name, report.RuleNameReserved,
			"skill name %q collides with a reserved CLI token", skill.Name),
	}
}

func checkSkillFrontmatter(_ *Config, skill *skills.Skill) []report.Finding {
	fm := skill.Frontmatter
	if fm == nil {
		// Missing or malformed frontmatter is already reported by the scanner
		return nil
	}

	var findings []report.Finding
	for _, field := range fm.MissingSkillFields() {
		findings = append(findings, report.Errorf(skill.Name, report.RuleMissingField,
			"missing required frontmatter field: %s", field))
	}
	if fm.MultilineTags {
		findings = append(findings, report.Errorf(skill.Name, report.RuleMultilineTags,
			"SKILL.md tags must use the single-line [a, b, c] form"))
	}
	if fm.Name != "" && fm.Name != skill.Name {
		findings = append(findings, report.Errorf(skill.Name, report.RuleNameMismatch,
			"frontmatter name %q does not match directory name %q", fm.Name, skill.Name))
	}
	return findings
}

func checkSkillLineBudget(cfg *Config, skill *skills.Skill) []report.Finding {
	if skill.LineCount == 0 {
		return nil
	}

	var findings []report.Finding
	if skill.LineCount > cfg.SkillLineBudget {
		findings = append(findings, report.Warningf(skill.Name, report.RuleSkillLineBudget,
			"SKILL.md is %d lines, budget is %d", skill.LineCount, cfg.SkillLineBudget))
	}
	if containsFencedCode(skill.Content) {
		findings = append(findings, report.Errorf(skill.Name, report.RuleSkillLineBudget,
			"SKILL.md contains fenced code blocks; code belongs in reference files"))
	}
	return findings
}

// containsFencedCode reports whether the markdown body opens a fenced code
// block (``` or ~~~ at the start of a line).
func containsFencedCode(body string) bool {
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			return true
		}
	}
	return false
}

func checkReferenceFrontmatter(_ *Config, skill *skills.Skill) []report.Finding {
	var findings []report.Finding
	for _, ref := range skill.References {
		fm := ref.Frontmatter
		if fm == nil {
			continue
		}
		for _, field := range fm.MissingReferenceFields() {
			findings = append(findings, report.Errorf(skill.Name, report.RuleMissingField,
				"missing required frontmatter field: %s in %s", field, ref.RelPath))
		}
		if fm.MultilineTags {
			findings = append(findings, report.Errorf(skill.Name, report.RuleMultilineTags,
				"%s tags must use the single-line [a, b, c] form", ref.RelPath))
		}
	}
	return findings
}

func checkReferenceLineBudget(cfg *Config, skill *skills.Skill) []report.Finding {
	var findings []report.Finding
	for _, ref := range skill.References {
		if ref.LineCount > cfg.ReferenceLineBudget {
			findings = append(findings, report.Errorf(skill.Name, report.RuleReferenceLineBudget,
				"%s is %d lines, budget is %d", ref.RelPath, ref.LineCount, cfg.ReferenceLineBudget))
		}
	}
	return findings
}

func checkExcludedFilenames(cfg *Config, skill *skills.Skill) []report.Finding {
	var findings []report.Finding
	for _, ref := range skill.References {
		filename := path.Base(ref.RelPath)
		if cfg.isExcludedFilename(filename) {
			findings = append(findings, report.Errorf(skill.Name, report.RuleFilenameExcluded,
				"%s matches a packager-excluded filename pattern", ref.RelPath))
		}
	}
	return findings
}
