// Package manager provides the client-side mediator between application
// code and a remote presentation service. It is the main entry point of
// the library: applications construct a Manager over a Transport and issue
// hierarchy and content queries through it.
//
// # Architecture
//
//	┌──────────────────────────────────────────────────────────┐
//	│                        Manager                           │
//	│                                                          │
//	│  buildOptions ──► canonical RequestOptions               │
//	│     │   (token, locale, unit system, ruleset,            │
//	│     │    request vars + overlay vars)                    │
//	│     │                                                    │
//	│     ├──► connection.Tracker   first-use gate             │
//	│     ├──► variables.Overlay    cached variables           │
//	│     │                                                    │
//	│  operations ──► paging.Assemble ──► Transport            │
//	│  CompareHierarchies ──► compare.Comparator               │
//	│                                                          │
//	│  PushChannel ──► router.UpdateRouter ──► listeners       │
//	└──────────────────────────────────────────────────────────┘
//
// Every operation entry point runs the same normalization: the request is
// flattened into transport.RequestOptions, the connection's first use
// triggers the initialization hook, and the ruleset variables are built as
// request-supplied values followed by the manager's cached overlay values.
// Paged operations reassemble server-capped windows into the complete
// requested range before returning.
//
// # Usage
//
//	m, err := manager.NewManager(manager.Options{
//		Transport:   tr,
//		PushChannel: tr,
//		Locale:      "en-US",
//	})
//	if err != nil {
//		return err
//	}
//	defer m.Dispose()
//
//	m.SetRulesetVariable("items-tree", "show-hidden", types.VariableTypeBool, true)
//
//	nodes, err := m.GetNodes(ctx, &manager.NodesRequest{
//		Request: manager.Request{
//			Connection: conn,
//			Ruleset:    transport.RulesetByID("items-tree"),
//		},
//		Paging: &types.PagingWindow{Start: 0, Size: 50},
//	})
//
// A Manager is safe for concurrent use. Dispose unsubscribes from the push
// channel and forgets tracked connections; operations issued afterwards
// fail.
package manager
