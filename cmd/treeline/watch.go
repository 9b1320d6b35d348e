package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/treelinehq/treeline/pkg/router"
	"github.com/treelinehq/treeline/pkg/types"
)

func describeUpdate(v types.UpdateValue) string {
	if v.Full {
		return "full invalidation"
	}
	return fmt.Sprintf("%d partial changes", len(v.Changes))
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow live update notifications",
	Long: `Subscribe to the service's push channel and print hierarchy and content
change notifications as they arrive. Only rulesets known to the local
registry produce output; configure presentation.ruleset_dir to load them.
Stop with Ctrl-C.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer s.close()

		removeHierarchy := s.manager.OnHierarchyChanged(func(ev router.HierarchyChangedEvent) {
			fmt.Printf("hierarchy %s: %s\n", ev.Ruleset.ID, describeUpdate(ev.UpdateInfo))
		})
		defer removeHierarchy()

		removeContent := s.manager.OnContentChanged(func(ev router.ContentChangedEvent) {
			fmt.Printf("content   %s: %s\n", ev.Ruleset.ID, describeUpdate(ev.UpdateInfo))
		})
		defer removeContent()

		fmt.Println("Watching for updates, Ctrl-C to stop...")

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-sigCh:
		case <-cmd.Context().Done():
		}
		return nil
	},
}
