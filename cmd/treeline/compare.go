package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/treelinehq/treeline/pkg/manager"
	"github.com/treelinehq/treeline/pkg/transport"
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare two hierarchy states",
	Long: `Compare the hierarchy produced by a previous ruleset state against the
current one and print the change entries.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rulesetID, _ := cmd.Flags().GetString("ruleset")
		prevID, _ := cmd.Flags().GetString("prev-ruleset")

		s, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer s.close()

		prevRef := transport.RulesetByID(prevID)
		changes, err := s.manager.CompareHierarchies(cmd.Context(), &manager.CompareRequest{
			Request: manager.Request{
				Connection: s.conn,
				Ruleset:    transport.RulesetByID(rulesetID),
			},
			Prev: &transport.PrevState{Ruleset: &prevRef},
		})
		if err != nil {
			return err
		}

		if len(changes) == 0 {
			fmt.Println("Hierarchies are identical.")
			return nil
		}
		for _, c := range changes {
			subject := ""
			switch {
			case c.Node != nil:
				subject = c.Node.Label.DisplayValue
			case c.Target != nil:
				subject = strings.Join(c.Target.PathFromRoot, "/")
			}
			fmt.Printf("%-6s %s\n", strings.ToUpper(string(c.Type)), subject)
		}
		return nil
	},
}

func init() {
	compareCmd.Flags().String("ruleset", "", "Current ruleset id")
	compareCmd.Flags().String("prev-ruleset", "", "Previous ruleset id")
	compareCmd.MarkFlagRequired("ruleset")
	compareCmd.MarkFlagRequired("prev-ruleset")
}
