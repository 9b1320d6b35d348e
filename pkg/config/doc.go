// Package config loads the client configuration from a YAML file. Defaults
// are applied for anything the file leaves unset, TREELINE_SERVICE_URL and
// TREELINE_SERVICE_TOKEN override the endpoint settings, and the result is
// validated before use.
//
// A minimal file:
//
//	service:
//	  url: "wss://presentation.example.com/rpc"
//
//	presentation:
//	  locale: "en-US"
//	  ruleset_dir: "./rulesets"
package config
