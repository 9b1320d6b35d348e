package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/treelinehq/treeline/pkg/manager"
	"github.com/treelinehq/treeline/pkg/transport"
	"github.com/treelinehq/treeline/pkg/types"
)

var nodesCmd = &cobra.Command{
	Use:   "nodes",
	Short: "List nodes of a hierarchy level",
	Long: `List the nodes of one hierarchy level. Without --parent the root level
is listed; with --parent the children of the node at that path are listed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rulesetID, _ := cmd.Flags().GetString("ruleset")
		parentPath, _ := cmd.Flags().GetStringSlice("parent")
		parentType, _ := cmd.Flags().GetString("parent-type")
		start, _ := cmd.Flags().GetInt("start")
		size, _ := cmd.Flags().GetInt("size")
		countOnly, _ := cmd.Flags().GetBool("count")

		s, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer s.close()

		req := &manager.NodesRequest{
			Request: manager.Request{
				Connection: s.conn,
				Ruleset:    transport.RulesetByID(rulesetID),
			},
		}
		if len(parentPath) > 0 {
			req.ParentKey = &types.NodeKey{Type: parentType, PathFromRoot: parentPath}
		}

		if countOnly {
			count, err := s.manager.GetNodesCount(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Println(count)
			return nil
		}

		req.Paging = &types.PagingWindow{Start: start, Size: size}
		result, err := s.manager.GetNodes(cmd.Context(), req)
		if err != nil {
			return err
		}

		fmt.Printf("Total: %d\n", result.Total)
		for _, n := range result.Items {
			marker := " "
			if n.HasChildren {
				marker = "+"
			}
			fmt.Printf("%s %s\n", marker, n.Label.DisplayValue)
		}
		return nil
	},
}

func init() {
	nodesCmd.Flags().String("ruleset", "", "Ruleset id driving the hierarchy")
	nodesCmd.Flags().StringSlice("parent", nil, "Path from the root to the parent node")
	nodesCmd.Flags().String("parent-type", "instance", "Node key type of the parent")
	nodesCmd.Flags().Int("start", 0, "Page start offset")
	nodesCmd.Flags().Int("size", 0, "Page size (0 loads through the end)")
	nodesCmd.Flags().Bool("count", false, "Print the node count only")
	nodesCmd.MarkFlagRequired("ruleset")
}
