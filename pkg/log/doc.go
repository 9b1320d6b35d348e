/*
Package log provides structured logging for Treeline using zerolog.

The log package wraps zerolog with a global logger, a small configuration
surface, and child-logger helpers carrying the fields that matter in this
client: component, ruleset id, connection id and operation name.

# Usage

Initialization (once, at startup):

	log.Init(log.Config{
		Level:      log.InfoLevel,
		JSONOutput: true,
	})

Component loggers:

	logger := log.WithComponent("manager")
	logger.Info().Str("operation", "GetNodes").Int("total", total).Msg("page assembled")

Direct helpers for simple messages:

	log.Debug("push channel subscribed")
	log.Errorf("transport call failed", err)

Console output (human-readable, RFC3339 timestamps) is used when JSONOutput
is false; JSON output is intended for production log shipping.
*/
package log
