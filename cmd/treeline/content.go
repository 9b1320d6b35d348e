package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/treelinehq/treeline/pkg/manager"
	"github.com/treelinehq/treeline/pkg/transport"
	"github.com/treelinehq/treeline/pkg/types"
)

var contentCmd = &cobra.Command{
	Use:   "content",
	Short: "Query content records for instances",
	Long: `Query content records for a set of instance keys. Keys are given as
ClassName:Id pairs, for example --key Widget:0x1a.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rulesetID, _ := cmd.Flags().GetString("ruleset")
		displayType, _ := cmd.Flags().GetString("display-type")
		rawKeys, _ := cmd.Flags().GetStringSlice("key")
		start, _ := cmd.Flags().GetInt("start")
		size, _ := cmd.Flags().GetInt("size")

		keys, err := parseInstanceKeys(rawKeys)
		if err != nil {
			return err
		}

		s, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer s.close()

		page, err := s.manager.GetContent(cmd.Context(), &manager.ContentRequest{
			Request: manager.Request{
				Connection: s.conn,
				Ruleset:    transport.RulesetByID(rulesetID),
			},
			DisplayType: displayType,
			Keys:        keys,
			Paging:      &types.PagingWindow{Start: start, Size: size},
		})
		if err != nil {
			return err
		}
		if page == nil {
			fmt.Println("No content.")
			return nil
		}

		fmt.Printf("Total: %d (display type %q)\n", page.Total, page.Content.Descriptor.DisplayType)
		for _, item := range page.Content.ContentSet {
			fmt.Printf("- %s\n", item.Label.DisplayValue)
			for field, value := range item.DisplayValues {
				fmt.Printf("    %s: %s\n", field, value)
			}
		}
		return nil
	},
}

func parseInstanceKeys(raw []string) ([]types.InstanceKey, error) {
	keys := make([]types.InstanceKey, 0, len(raw))
	for _, r := range raw {
		class, id, ok := strings.Cut(r, ":")
		if !ok || class == "" || id == "" {
			return nil, fmt.Errorf("malformed instance key %q, expected ClassName:Id", r)
		}
		keys = append(keys, types.InstanceKey{ClassName: class, ID: id})
	}
	return keys, nil
}

func init() {
	contentCmd.Flags().String("ruleset", "", "Ruleset id driving the content")
	contentCmd.Flags().String("display-type", "", "Requested content display type")
	contentCmd.Flags().StringSlice("key", nil, "Instance key as ClassName:Id (repeatable)")
	contentCmd.Flags().Int("start", 0, "Page start offset")
	contentCmd.Flags().Int("size", 0, "Page size (0 loads through the end)")
	contentCmd.MarkFlagRequired("key")
}
