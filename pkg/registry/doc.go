/*
Package registry resolves and stores ruleset definitions.

The Registry interface is the lookup boundary the rest of Treeline depends
on: Get(ctx, id) returns the ruleset or nil when the id is unknown. An
unknown id is not an error; update notifications referencing unregistered
rulesets are silently dropped by the router.

# Implementations

InMemory:
  - Process-local map, Register/Unregister/Get/List
  - The default registry of a manager

BoltStore (via AsRegistry):
  - BoltDB-backed persistence for rulesets and per-ruleset variable
    defaults, one bucket each
  - Survives restarts; used when a ruleset directory is not enough

Watcher:
  - fsnotify watcher over a directory of *.json ruleset definitions
  - Registers files present at startup, follows create/write/remove/rename,
    skips files that fail to parse or carry no id

# Usage

	reg := registry.NewInMemory()
	w, err := registry.NewWatcher("./rulesets", reg)
	if err != nil {
		return err
	}
	w.Start()
	defer w.Stop()
*/
package registry
