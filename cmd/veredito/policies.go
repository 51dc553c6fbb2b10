package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"veredito-hq/veredito/pkg/policy"
)

var policiesFlags struct {
	format   string
	category string
}

var policiesCmd = &cobra.Command{
	Use:   "policies",
	Short: "List the policy catalog",
	Long: `List the built-in policy rules the rule engine evaluates.

Examples:
  # List all policies
  veredito policies

  # List only exclusion policies
  veredito policies --category exclusion

  # Output as JSON
  veredito policies --format json`,
	RunE: listPolicies,
}

func init() {
	rootCmd.AddCommand(policiesCmd)

	policiesCmd.Flags().StringVar(&policiesFlags.format, "format", "table", "output format: table, json")
	policiesCmd.Flags().StringVar(&policiesFlags.category, "category", "", "filter by category")
}

func listPolicies(cmd *cobra.Command, args []string) error {
	rules := policy.All()
	if policiesFlags.category != "" {
		rules = policy.ByCategory(policy.Category(policiesFlags.category))
	}

	switch policiesFlags.format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rules)
	case "table":
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tCATEGORY\tSEVERITY\tDESCRIPTION")
		for _, rule := range rules {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", rule.ID, rule.Category, rule.Severity, rule.Description)
		}
		return w.Flush()
	default:
		return fmt.Errorf("unsupported format: %s", policiesFlags.format)
	}
}
