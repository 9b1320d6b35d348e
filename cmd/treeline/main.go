package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/treelinehq/treeline/pkg/config"
	"github.com/treelinehq/treeline/pkg/connection"
	"github.com/treelinehq/treeline/pkg/log"
	"github.com/treelinehq/treeline/pkg/manager"
	"github.com/treelinehq/treeline/pkg/registry"
	"github.com/treelinehq/treeline/pkg/transport/wsrpc"
)

var (
	// Version information (set via ldflags during build)
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

var configPath string

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "treeline",
	Short: "Treeline - presentation service query client",
	Long: `Treeline queries hierarchies and content from a remote presentation
service: browse hierarchy levels, fetch content records, compare hierarchy
states between rulesets, and follow live update notifications.`,
	Version: Version,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"Treeline version %s\nCommit: %s\nBuilt: %s\n",
		Version, Commit, BuildTime,
	))

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to configuration file")

	rootCmd.AddCommand(nodesCmd)
	rootCmd.AddCommand(contentCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(rulesetCmd)
}

func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.Load(configPath)
	} else {
		cfg = config.Default()
	}
	if err != nil {
		return nil, err
	}

	log.Init(log.Config{
		Level:      log.Level(cfg.Log.Level),
		JSONOutput: cfg.Log.JSONOutput,
	})
	return cfg, nil
}

// session bundles everything a command needs to issue queries
type session struct {
	cfg     *config.Config
	client  *wsrpc.Client
	manager *manager.Manager
	conn    *connection.Session
	store   *registry.BoltStore
	watcher *registry.Watcher
}

// openSession connects to the configured service and assembles a manager
// around the connection.
func openSession(ctx context.Context) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if cfg.Service.URL == "" {
		return nil, fmt.Errorf("no service url configured (set service.url or TREELINE_SERVICE_URL)")
	}

	header := http.Header{}
	if cfg.Service.Token != "" {
		header.Set("Authorization", "Bearer "+cfg.Service.Token)
	}

	client, err := wsrpc.Dial(ctx, cfg.Service.URL, wsrpc.Options{
		HandshakeTimeout: cfg.Service.HandshakeTimeout,
		WriteTimeout:     cfg.Service.WriteTimeout,
		Header:           header,
	})
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(cfg.Storage.DataDir, 0o755); err != nil {
		client.Close()
		return nil, err
	}
	store, err := registry.NewBoltStore(cfg.Storage.DataDir)
	if err != nil {
		client.Close()
		return nil, err
	}

	reg := registry.NewInMemory()
	var watcher *registry.Watcher
	if cfg.Presentation.RulesetDir != "" {
		watcher, err = registry.NewWatcher(cfg.Presentation.RulesetDir, reg)
		if err != nil {
			store.Close()
			client.Close()
			return nil, err
		}
		watcher.Start()
	}

	m, err := manager.NewManager(manager.Options{
		Transport:     client,
		PushChannel:   client,
		Registry:      reg,
		VariableStore: store,
		Locale:        cfg.Presentation.Locale,
		UnitSystem:    cfg.Presentation.UnitSystem,
	})
	if err != nil {
		if watcher != nil {
			watcher.Stop()
		}
		store.Close()
		client.Close()
		return nil, err
	}

	return &session{
		cfg:     cfg,
		client:  client,
		manager: m,
		conn:    connection.NewSession(cfg.Service.Token),
		store:   store,
		watcher: watcher,
	}, nil
}

func (s *session) close() {
	s.conn.Close()
	s.manager.Dispose()
	if s.watcher != nil {
		s.watcher.Stop()
	}
	s.store.Close()
	s.client.Close()
}
