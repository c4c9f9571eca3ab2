// Package validator applies a fixed, configurable rule table to discovered
// skills and aggregates the findings into a report. Validation is a single
// stateless pass: running it twice over an unchanged tree yields an
// identical report.
package validator

import (
	"context"

	"github.com/pkg/errors"

	"github.com/agentskills/skillcheck/pkg/logger"
	"github.com/agentskills/skillcheck/pkg/skills"
	"github.com/agentskills/skillcheck/pkg/types/report"
)

// Validator runs the rule table against skills.
type Validator struct {
	config *Config
}

// New creates a Validator, compiling the configuration's pattern tables.
func New(config *Config) (*Validator, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.compile(); err != nil {
		return nil, errors.Wrap(err, "invalid validator configuration")
	}
	return &Validator{config: config}, nil
}

// ValidateSkill evaluates every rule against one skill.
func (v *Validator) ValidateSkill(skill *skills.Skill) []report.Finding {
	var findings []report.Finding
	for _, rule := range ruleTable {
		findings = append(findings, rule(v.config, skill)...)
	}
	return findings
}

// Run scans the skill tree and validates every discovered skill, collecting
// all findings eagerly so a single invocation surfaces every problem. The
// returned error covers invocation-level failures only (unreadable root,
// filter matching nothing); rule violations live in the report.
func (v *Validator) Run(ctx context.Context, opts ...skills.ScannerOption) (*report.Report, error) {
	scanner, err := skills.NewScanner(opts...)
	if err != nil {
		return nil, err
	}

	found, scanFindings, err := scanner.Scan(ctx)
	if err != nil {
		return nil, err
	}

	rep := &report.Report{SkillsScanned: len(found)}
	rep.Add(scanFindings...)

	for _, skill := range found {
		findings := v.ValidateSkill(skill)
		rep.Add(findings...)
		logger.G(ctx).WithField("skill", skill.Name).
			WithField("findings", len(findings)).
			Debug("validated skill")
	}

	return rep, nil
}
