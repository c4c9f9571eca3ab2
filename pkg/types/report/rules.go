package report

// Rule identifiers carried by findings. Scanner-emitted structural rules and
// validator-emitted content rules share this table so report output is
// uniform.
const (
	RuleMissingSkillFile     = "missing-skill-file"
	RuleMalformedFrontmatter = "malformed-frontmatter"
	RuleMissingField         = "missing-frontmatter-field"
	RuleMultilineTags        = "multiline-tags"
	RuleNameLength           = "name-length"
	RuleNameReserved         = "name-reserved"
	RuleSkillLineBudget      = "skill-line-budget"
	RuleReferenceLineBudget  = "reference-line-budget"
	RuleNameMismatch         = "frontmatter-name-mismatch"
	RuleFilenameExcluded     = "filename-cli-excluded"
	RuleDanglingLink         = "dangling-reference-link"
	RuleOrphanedReference    = "orphaned-reference-file"
)
