// Package skills discovers and models agent skill directories. A skill is a
// directory bundling a SKILL.md index file with YAML frontmatter and zero or
// more topic-scoped reference files under references/. The package parses
// skill trees into typed values for the validator; it never mutates the tree
// except through the explicit tag normalization helpers.
package skills

// Skill represents one discovered skill directory.
type Skill struct {
	Name        string          // Directory name, the canonical skill identity
	Directory   string          // Full path to the skill directory
	SkillFile   string          // Full path to SKILL.md
	Frontmatter *Frontmatter    // Parsed SKILL.md frontmatter, nil when missing or malformed
	Content     string          // SKILL.md body with the frontmatter stripped
	LineCount   int             // Total SKILL.md line count, frontmatter included
	References  []ReferenceFile // Files under references/, sorted by path
}

// ReferenceFile is one markdown file under a skill's references/ directory.
type ReferenceFile struct {
	Path        string       // Full path on disk
	RelPath     string       // Path relative to the skill directory, e.g. "references/hooks.md"
	Frontmatter *Frontmatter // Parsed frontmatter, nil when malformed
	LineCount   int
}

// Frontmatter is the typed YAML header shared by SKILL.md and reference
// files. SKILL.md requires name and description; reference files require
// title, description, and tags. The remaining fields are optional.
type Frontmatter struct {
	Name        string            `yaml:"name,omitempty"`
	Title       string            `yaml:"title,omitempty"`
	Description string            `yaml:"description,omitempty"`
	Tags        []string          `yaml:"tags,omitempty"`
	License     string            `yaml:"license,omitempty"`
	Metadata    map[string]string `yaml:"metadata,omitempty"`

	// MultilineTags records that the tags field was authored as an expanded
	// YAML block list instead of the single-line bracketed form the skill
	// packager requires.
	MultilineTags bool `yaml:"-"`
}

// MissingSkillFields returns the required SKILL.md frontmatter fields that
// are absent, in a fixed order.
func (f *Frontmatter) MissingSkillFields() []string {
	var missing []string
	if f.Name == "" {
		missing = append(missing, "name")
	}
	if f.Description == "" {
		missing = append(missing, "description")
	}
	return missing
}

// MissingReferenceFields returns the required reference-file frontmatter
// fields that are absent, in a fixed order.
func (f *Frontmatter) MissingReferenceFields() []string {
	var missing []string
	if f.Title == "" {
		missing = append(missing, "title")
	}
	if f.Description == "" {
		missing = append(missing, "description")
	}
	if len(f.Tags) == 0 {
		missing = append(missing, "tags")
	}
	return missing
}
