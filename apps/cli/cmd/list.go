package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/specrun/packages/core/discovery"
	"github.com/abdul-hamid-achik/specrun/packages/core/runner"
)

func newListCmd(c *cli) *cobra.Command {
	var nilPolicy string
	cmd := &cobra.Command{
		Use:   "list [Type.Member ...]",
		Short: "List discovered specifications",
		Long: `List the specifications the named members produce, or those of every
registered type. Members that fail to produce a specification are marked
with the failure reason.

Examples:
  specrun list
  specrun list AccountSpecs.Depositing`,
		RunE: func(cmd *cobra.Command, args []string) error {
			policy, err := discovery.ParseNilPolicy(nilPolicy)
			if err != nil {
				return WrapExitError(ExitUsageError, "invalid nil policy", err)
			}
			p := &runPlan{
				cli:     c,
				members: args,
				opts: []discovery.Option{
					discovery.WithLogger(c.logger),
					discovery.WithNilPolicy(policy),
				},
			}
			return listCommand(cmd, p)
		},
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			return c.memberNames(), cobra.ShellCompDirectiveNoFileComp
		},
	}
	cmd.Flags().StringVar(&nilPolicy, "nil-policy", getEnvString("SPECRUN_NIL_POLICY", ""), "What named members returning nil produce: drop, fail (env: SPECRUN_NIL_POLICY)")
	return cmd
}

func listCommand(cmd *cobra.Command, p *runPlan) error {
	out := cmd.OutOrStdout()
	currentType := ""
	count := 0

	for unit := range p.units() {
		member := unit.Member()
		if count == 0 || member.Type != currentType {
			fmt.Fprintf(out, "\n%s:\n", member.Type)
			currentType = member.Type
		}
		count++

		if !unit.IsRunnable() {
			fmt.Fprintf(out, "  ! %s: %s", member.Name, unit.Reason())
			if unit.Err() != nil {
				fmt.Fprintf(out, " (%v)", unit.Err())
			}
			fmt.Fprintln(out)
			continue
		}
		fmt.Fprintf(out, "  - %s: %s\n", member.Name, runner.UnitName(unit))
	}

	if count == 0 {
		fmt.Fprintln(out, "No specifications found")
	}
	return nil
}
