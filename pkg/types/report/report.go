// Package report defines the finding and report types shared between the
// skill scanner, the validator, and the CLI. It sits at the bottom of the
// dependency graph and must not import other skillcheck packages.
package report

import "fmt"

// Severity classifies a finding as fatal or advisory.
type Severity string

const (
	// SeverityError findings fail the run (non-zero exit code).
	SeverityError Severity = "error"
	// SeverityWarning findings are reported but do not affect the exit code.
	SeverityWarning Severity = "warning"
)

// Finding is a single rule violation attributed to one skill.
type Finding struct {
	SkillName string
	Severity  Severity
	RuleID    string
	Message   string
}

// String renders a finding as one report line.
func (f Finding) String() string {
	return fmt.Sprintf("%s %s %s: %s", f.Severity, f.SkillName, f.RuleID, f.Message)
}

// Errorf creates an error-severity finding.
func Errorf(skillName, ruleID, format string, args ...any) Finding {
	return Finding{
		SkillName: skillName,
		Severity:  SeverityError,
		RuleID:    ruleID,
		Message:   fmt.Sprintf(format, args...),
	}
}

// Warningf creates a warning-severity finding.
func Warningf(skillName, ruleID, format string, args ...any) Finding {
	return Finding{
		SkillName: skillName,
		Severity:  SeverityWarning,
		RuleID:    ruleID,
		Message:   fmt.Sprintf(format, args...),
	}
}

// Report aggregates the findings of one validation run.
type Report struct {
	Findings      []Finding
	SkillsScanned int
}

// Add appends findings to the report.
func (r *Report) Add(findings ...Finding) {
	r.Findings = append(r.Findings, findings...)
}

// ErrorCount returns the number of error-severity findings.
func (r *Report) ErrorCount() int {
	return r.countBySeverity(SeverityError)
}

// WarningCount returns the number of warning-severity findings.
func (r *Report) WarningCount() int {
	return r.countBySeverity(SeverityWarning)
}

func (r *Report) countBySeverity(severity Severity) int {
	count := 0
	for _, f := range r.Findings {
		if f.Severity == severity {
			count++
		}
	}
	return count
}

// HasErrors reports whether any error-severity finding was recorded.
func (r *Report) HasErrors() bool {
	return r.ErrorCount() > 0
}

// ExitCode returns the process exit code mandated by the report:
// 0 when no error-severity findings exist, 1 otherwise. Warnings
// alone never fail a run.
func (r *Report) ExitCode() int {
	if r.HasErrors() {
		return 1
	}
	return 0
}

// Summary returns the final summary line of the report.
func (r *Report) Summary() string {
	return fmt.Sprintf("%d skills, %d errors, %d warnings",
		r.SkillsScanned, r.ErrorCount(), r.WarningCount())
}
