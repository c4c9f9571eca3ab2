package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/agentskills/skillcheck/pkg/presenter"
	"github.com/agentskills/skillcheck/pkg/skills"
	"github.com/agentskills/skillcheck/pkg/types/report"
	"github.com/agentskills/skillcheck/pkg/validator"
)

// ValidateConfig holds configuration for the validate command
type ValidateConfig struct {
	Path    string
	FixTags bool
	Quiet   bool
}

// NewValidateConfig creates a new ValidateConfig with default values
func NewValidateConfig() *ValidateConfig {
	return &ValidateConfig{
		Path:    skills.DefaultRoot,
		FixTags: false,
		Quiet:   false,
	}
}

var validateCmd = &cobra.Command{
	Use:   "validate [path]",
	Short: "Validate skill directories",
	Long: `Validate every skill under the skills root, or a single skill when
the path names one skill directory.

Each finding is printed on its own line followed by a summary line. The exit
code is 0 when no error-severity findings exist; warnings alone do not fail
the run, which makes the command usable as a pre-commit gate.

Examples:
  skillcheck validate
  skillcheck validate skills
  skillcheck validate skills/react-hooks
  skillcheck validate --fix-tags`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		config := getValidateConfigFromFlags(cmd, args)
		presenter.SetQuiet(config.Quiet)

		rep, err := runValidation(ctx, config)
		if err != nil {
			presenter.Error(err, "Validation failed")
			os.Exit(1)
		}

		printReport(rep)
		os.Exit(rep.ExitCode())
	},
}

func init() {
	defaults := NewValidateConfig()
	validateCmd.Flags().Bool("fix-tags", defaults.FixTags, "Collapse multi-line tag arrays in place before validating")
	validateCmd.Flags().BoolP("quiet", "q", defaults.Quiet, "Suppress non-error output")
	rootCmd.AddCommand(validateCmd)
}

// getValidateConfigFromFlags extracts validate configuration from command flags
func getValidateConfigFromFlags(cmd *cobra.Command, args []string) *ValidateConfig {
	config := NewValidateConfig()
	if len(args) > 0 {
		config.Path = args[0]
	}
	if fixTags, err := cmd.Flags().GetBool("fix-tags"); err == nil {
		config.FixTags = fixTags
	}
	if quiet, err := cmd.Flags().GetBool("quiet"); err == nil {
		config.Quiet = quiet
	}
	return config
}

// resolveScanTarget maps the path argument onto a skills root and an
// optional single-skill filter. A path that looks like one skill directory
// is scanned as a single skill; anything else is treated as the skills root.
func resolveScanTarget(path string) (root, filter string, err error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", "", errors.Wrapf(err, "invalid path %s", path)
	}
	if !info.IsDir() {
		return "", "", errors.Errorf("%s is not a directory", path)
	}

	if looksLikeSkillDir(path) {
		return filepath.Dir(path), filepath.Base(path), nil
	}
	return path, "", nil
}

// looksLikeSkillDir reports whether the directory is one skill rather than
// a skills root. A references/ directory marks a skill even when SKILL.md
// is absent, so that a broken skill is still validated as a skill and gets
// the missing-SKILL.md error instead of being scanned as an empty root.
func looksLikeSkillDir(path string) bool {
	if _, err := os.Stat(filepath.Join(path, "SKILL.md")); err == nil {
		return true
	}
	info, err := os.Stat(filepath.Join(path, "references"))
	return err == nil && info.IsDir()
}

func runValidation(ctx context.Context, config *ValidateConfig) (*report.Report, error) {
	root, filter, err := resolveScanTarget(config.Path)
	if err != nil {
		return nil, err
	}

	if config.FixTags {
		if err := fixTags(root, filter); err != nil {
			return nil, err
		}
	}

	validatorConfig, err := validator.GetConfigFromViper()
	if err != nil {
		return nil, err
	}
	v, err := validator.New(validatorConfig)
	if err != nil {
		return nil, err
	}

	opts := []skills.ScannerOption{skills.WithRoot(root)}
	if filter != "" {
		opts = append(opts, skills.WithFilter(filter))
	}
	rep, err := v.Run(ctx, opts...)
	if err != nil {
		return nil, err
	}
	if rep.SkillsScanned == 0 {
		// A target with nothing to validate must not pass as a clean run
		return nil, errors.Errorf("no skills found under %s", root)
	}
	return rep, nil
}

// fixTags collapses multi-line tag arrays across the target skill tree
// before validation runs.
func fixTags(root, filter string) error {
	entries, err := os.ReadDir(root)
	if err != nil {
		return errors.Wrapf(err, "failed to read skills root %s", root)
	}

	for _, entry := range entries {
		if !entry.IsDir() || (filter != "" && entry.Name() != filter) {
			continue
		}
		dir := filepath.Join(root, entry.Name())

		candidates := []string{filepath.Join(dir, "SKILL.md")}
		refs, err := doublestar.FilepathGlob(filepath.Join(dir, "references", "*.md"))
		if err == nil {
			candidates = append(candidates, refs...)
		}

		for _, path := range candidates {
			changed, err := skills.CollapseTagsInFile(path)
			if err != nil {
				if os.IsNotExist(errors.Cause(err)) {
					continue
				}
				return err
			}
			if changed {
				presenter.Info(fmt.Sprintf("collapsed tags in %s", path))
			}
		}
	}
	return nil
}

func printReport(rep *report.Report) {
	for _, f := range rep.Findings {
		presenter.Finding(f)
	}

	if rep.HasErrors() {
		presenter.Info(rep.Summary())
		return
	}
	presenter.Success(rep.Summary())
}
