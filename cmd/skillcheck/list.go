package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/agentskills/skillcheck/pkg/presenter"
	"github.com/agentskills/skillcheck/pkg/skills"
)

var listCmd = &cobra.Command{
	Use:   "list [path]",
	Short: "List discovered skills",
	Long:  `List all skills under the skills root with their names, reference counts, and descriptions.`,
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		root := skills.DefaultRoot
		if len(args) > 0 {
			root = args[0]
		}

		scanner, err := skills.NewScanner(skills.WithRoot(root))
		if err != nil {
			presenter.Error(err, "Failed to initialize skill scanner")
			os.Exit(1)
		}

		found, _, err := scanner.Scan(cmd.Context())
		if err != nil {
			presenter.Error(err, "Failed to scan skills")
			os.Exit(1)
		}

		if len(found) == 0 {
			presenter.Info("No skills found")
			return
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tREFERENCES\tDESCRIPTION")
		fmt.Fprintln(tw, "----\t----------\t-----------")

		for _, skill := range found {
			description := ""
			if skill.Frontmatter != nil {
				description = skill.Frontmatter.Description
			}
			if len(description) > 60 {
				description = description[:57] + "..."
			}
			fmt.Fprintf(tw, "%s\t%d\t%s\n", skill.Name, len(skill.References), description)
		}
		tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
