package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/treelinehq/treeline/pkg/registry"
	"github.com/treelinehq/treeline/pkg/types"
)

var rulesetCmd = &cobra.Command{
	Use:   "ruleset",
	Short: "Manage locally stored rulesets",
}

// openStore opens the local store without dialing the service; ruleset
// management works offline.
func openStore() (*registry.BoltStore, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(cfg.Storage.DataDir, 0o755); err != nil {
		return nil, err
	}
	return registry.NewBoltStore(cfg.Storage.DataDir)
}

var rulesetListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored rulesets",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		rulesets, err := store.ListRulesets()
		if err != nil {
			return err
		}
		if len(rulesets) == 0 {
			fmt.Println("No rulesets stored.")
			return nil
		}
		for _, rs := range rulesets {
			fmt.Printf("%s (version %s)\n", rs.ID, rs.Version)
		}
		return nil
	},
}

var rulesetImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a ruleset from a JSON file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		var rs types.Ruleset
		if err := json.Unmarshal(data, &rs); err != nil {
			return fmt.Errorf("parsing ruleset %s: %w", args[0], err)
		}
		if rs.ID == "" {
			return fmt.Errorf("ruleset %s carries no id", args[0])
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.PutRuleset(&rs); err != nil {
			return err
		}
		fmt.Printf("Imported ruleset %s\n", rs.ID)
		return nil
	},
}

var rulesetVarCmd = &cobra.Command{
	Use:   "var <ruleset-id> <var-id> <type> <value>",
	Short: "Store a variable default for a ruleset",
	Long: `Store a variable default that is loaded into the manager's overlay on a
connection's first use. Supported types: string, bool, int.`,
	Args: cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		rulesetID, varID, typ, raw := args[0], args[1], args[2], args[3]

		var variable types.RulesetVariable
		switch types.VariableType(typ) {
		case types.VariableTypeString:
			variable = types.RulesetVariable{ID: varID, Type: types.VariableTypeString, Value: raw}
		case types.VariableTypeBool:
			b, err := strconv.ParseBool(raw)
			if err != nil {
				return fmt.Errorf("parsing bool value %q: %w", raw, err)
			}
			variable = types.RulesetVariable{ID: varID, Type: types.VariableTypeBool, Value: b}
		case types.VariableTypeInt:
			n, err := strconv.Atoi(raw)
			if err != nil {
				return fmt.Errorf("parsing int value %q: %w", raw, err)
			}
			variable = types.RulesetVariable{ID: varID, Type: types.VariableTypeInt, Value: n}
		default:
			return fmt.Errorf("unsupported variable type %q", typ)
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		vars, err := store.GetVariables(rulesetID)
		if err != nil {
			return err
		}
		replaced := false
		for i, v := range vars {
			if v.ID == varID {
				vars[i] = variable
				replaced = true
				break
			}
		}
		if !replaced {
			vars = append(vars, variable)
		}

		if err := store.PutVariables(rulesetID, vars); err != nil {
			return err
		}
		fmt.Printf("Stored %s=%s for ruleset %s\n", varID, raw, rulesetID)
		return nil
	},
}

func init() {
	rulesetCmd.AddCommand(rulesetListCmd)
	rulesetCmd.AddCommand(rulesetImportCmd)
	rulesetCmd.AddCommand(rulesetVarCmd)
}
