package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"launchbox/config"
	"launchbox/db"
	"launchbox/engine"
	"launchbox/hotkeys"
	"launchbox/legacy"
	"launchbox/model"
	"launchbox/runner"
	"launchbox/ui"
	"launchbox/verbs"
)

var (
	// Global flags
	debug      bool
	dbPath     string
	configPath string
	trusted    bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "launchbox",
	Short: "launchbox - a keyboard-driven command launcher",
	Long: `launchbox ranks a catalog of commands as you type and dispatches the
selected one: launch a target, evaluate a verb expression, or hand a
built-in action to the host.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := zap.NewProductionConfig()
		if debug {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = cfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runLauncher,
}

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Import a legacy flat-file catalog into the database",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		seq, err := legacy.Import(args[0])
		if err != nil {
			return err
		}
		var cmds []model.Command
		for c := range seq {
			cmds = append(cmds, c)
		}

		database, err := db.New(dbPath)
		if err != nil {
			return err
		}
		defer database.Close()

		if err := database.Save(cmds); err != nil {
			return err
		}
		fmt.Printf("Imported %d commands\n", len(cmds))
		return nil
	},
}

func runLauncher(cmd *cobra.Command, args []string) error {
	if configPath == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return err
		}
		configPath = p
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("trusted") {
		cfg.Trusted = trusted
	}

	database, err := db.New(dbPath)
	if err != nil {
		return err
	}
	defer database.Close()

	cmds, err := database.Load()
	if err != nil {
		return err
	}
	if len(cmds) == 0 && cfg.LegacyFile != "" {
		if cmds, err = reimport(cfg.LegacyFile, database); err != nil {
			return err
		}
	}

	registry, err := verbs.NewRegistry(logger,
		verbs.SendHandler{Sender: hostSender{}},
		verbs.SystemHandler{Power: hostPower{}},
		verbs.PowerShellHandler{},
		verbs.MuteHandler{Sender: hostSender{}},
	)
	if err != nil {
		return err
	}

	catalog := engine.NewCatalog(cmds)
	eng := engine.New(catalog, registry, runner.Launcher{}, builtinSink{}, cfg.Trusted, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.LegacyFile != "" {
		changes, err := legacy.Watch(ctx, cfg.LegacyFile, logger)
		if err != nil {
			logger.Warn("legacy watch unavailable", zap.Error(err))
		} else {
			go func() {
				for range changes {
					if cmds, err := reimport(cfg.LegacyFile, database); err == nil {
						catalog.Replace(cmds)
					}
				}
			}()
		}
	}

	bindings := hotkeys.New(hostRegistrar{}, logger)
	registerHotkeys(bindings, cfg.Hotkeys)
	defer bindings.UnregisterAll()

	p := tea.NewProgram(ui.NewApp(eng, database, cfg.TopN), tea.WithAltScreen())
	go func() {
		for action := range bindings.Triggered() {
			p.Send(ui.ActivationMsg{Action: action})
		}
	}()
	_, err = p.Run()
	return err
}

// registerHotkeys binds every configured action and reports how many took
// effect. Disabled or refused chords just stay unbound.
func registerHotkeys(b *hotkeys.Bindings, specs map[string]string) int {
	bound := 0
	for action, spec := range specs {
		if b.Register(action, spec) {
			bound++
		}
	}
	return bound
}

// reimport runs the legacy importer and persists the result.
func reimport(path string, database *db.DB) ([]model.Command, error) {
	seq, err := legacy.Import(path)
	if err != nil {
		return nil, err
	}
	var cmds []model.Command
	for c := range seq {
		cmds = append(cmds, c)
	}
	if err := database.Save(cmds); err != nil {
		return nil, err
	}
	logger.Info("imported legacy catalog", zap.String("path", path), zap.Int("commands", len(cmds)))
	return cmds, nil
}

// hostRegistrar stands in for OS-global key registration, which the
// terminal host does not carry. It accepts every chord; activations arrive
// only from trigger sources that know the handle.
type hostRegistrar struct{}

var hotkeyHandles atomic.Uint64

func (hostRegistrar) RegisterHotkey(spec string) (hotkeys.Handle, error) {
	h := hotkeys.Handle(hotkeyHandles.Add(1))
	logger.Info("hotkey bound", zap.String("spec", spec), zap.Uint64("handle", uint64(h)))
	return h, nil
}

func (hostRegistrar) UnregisterHotkey(h hotkeys.Handle) error { return nil }

// hostSender is the reference host's key-injection capability. Keystroke
// synthesis is platform glue the terminal host does not carry, so payloads
// are only logged.
type hostSender struct{}

func (hostSender) SendKeys(keys string) error {
	logger.Info("send keys", zap.String("keys", keys))
	return nil
}

// hostPower drives power management through the usual system tools.
type hostPower struct{}

func (hostPower) Sleep() error     { return exec.Command("systemctl", "suspend").Run() }
func (hostPower) Hibernate() error { return exec.Command("systemctl", "hibernate").Run() }
func (hostPower) Restart() error   { return exec.Command("systemctl", "reboot").Run() }
func (hostPower) Shutdown() error  { return exec.Command("systemctl", "poweroff").Run() }

// builtinSink surfaces built-in activations to the host log.
type builtinSink struct{}

func (builtinSink) NotifyBuiltIn(label, args string) {
	logger.Info("builtin activated", zap.String("label", label), zap.String("args", args))
}

func main() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "catalog database path (default ~/.launchbox/catalog.db)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default ~/.launchbox/config.yaml)")
	rootCmd.Flags().BoolVar(&trusted, "trusted", false, "allow verbs that run external scripts")
	rootCmd.AddCommand(importCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
