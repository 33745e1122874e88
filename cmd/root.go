package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/zjrosen/diagrammer/internal/app"
	"github.com/zjrosen/diagrammer/internal/config"
	"github.com/zjrosen/diagrammer/internal/editor"
	"github.com/zjrosen/diagrammer/internal/flags"
	"github.com/zjrosen/diagrammer/internal/log"
	"github.com/zjrosen/diagrammer/internal/paths"
	"github.com/zjrosen/diagrammer/internal/plugin"
	"github.com/zjrosen/diagrammer/internal/plugin/graphviz"
	"github.com/zjrosen/diagrammer/internal/plugin/recent"
	"github.com/zjrosen/diagrammer/internal/tracing"
	"github.com/zjrosen/diagrammer/internal/watcher"
)

func init() {
	// Query the terminal background before Bubble Tea owns stdin, otherwise
	// the OSC 11 reply races the input loop and shows up as typed text.
	//
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

var (
	version = "dev"
	cfgFile string
	cfgPath string
	cfg     config.Config
	cfgErr  error
)

var rootCmd = &cobra.Command{
	Use:   "diagrammer [diagram...]",
	Short: "A terminal diagram editor",
	Long: `A terminal diagram editor whose menus, toolbar and toolbox are assembled
from layered configuration fragments. Plugins contribute actions and UI.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: false,
	RunE:          runApp,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: .diagrammer/config.yaml or ~/.config/diagrammer/config.yaml)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false,
		"write debug logs to debug.log and enable the log viewer (ctrl+l)")
	rootCmd.Flags().Bool("no-watch", false,
		"do not reload resource files when they change")
	rootCmd.Flags().Bool("no-restore", false,
		"do not reopen the diagrams open at the last exit")

	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
}

func initConfig() {
	cfgPath = paths.ResolveConfigFile(cfgFile)
	cfg, cfgErr = config.Load(viper.GetViper(), cfgPath)
}

// catalog lists every plugin the binary ships.
func catalog() *plugin.Catalog {
	return plugin.NewCatalog().
		Register(graphviz.Name, graphviz.New).
		Register(recent.Name, recent.New)
}

// startEditor creates and starts a session from the loaded config.
func startEditor(ctx context.Context, opts editor.Options) (*editor.Editor, error) {
	opts.Fragments = cfg.Fragments
	opts.ResourceFiles = cfg.Resources
	opts.Version = version
	ed := editor.New(opts)
	if err := ed.Start(ctx, plugin.Extension(ctx, catalog(), cfg.Plugins.Enabled)); err != nil {
		return nil, err
	}
	return ed, nil
}

func initLogging() (func(), error) {
	if !viper.GetBool("debug") {
		return func() {}, nil
	}
	cleanup, err := log.Init("debug.log", "diagrammer")
	if err != nil {
		return nil, fmt.Errorf("initializing debug log: %w", err)
	}
	level, _ := log.ParseLevel(cfg.LogLevel)
	log.SetMinLevel(level)
	log.Info(log.CatConfig, "Debug logging enabled", "version", version, "config", cfgPath)
	return cleanup, nil
}

// ErrNoTerminal is returned when the editor is started without a terminal
// on stdout.
var ErrNoTerminal = errors.New("diagrammer needs an interactive terminal")

func runApp(cmd *cobra.Command, args []string) error {
	if cfgErr != nil {
		return cfgErr
	}
	fd := int(os.Stdout.Fd()) //nolint:gosec // G115: file descriptors fit in int
	if !term.IsTerminal(fd) {
		return ErrNoTerminal
	}
	closeLog, err := initLogging()
	if err != nil {
		return err
	}
	defer closeLog()
	if w, h, err := term.GetSize(fd); err == nil {
		log.Debug(log.CatUI, "Terminal detected", "width", w, "height", h)
	}

	if noRestore, _ := cmd.Flags().GetBool("no-restore"); noRestore {
		cfg.RestoreDocuments = false
	}
	if noWatch, _ := cmd.Flags().GetBool("no-watch"); noWatch {
		cfg.WatchResources = false
	}

	provider, err := tracing.NewProvider(cfg.Tracing)
	if err != nil {
		log.ErrorErr(log.CatTrace, "Tracing disabled", err)
		provider = tracing.Noop()
	}
	defer func() { _ = provider.Shutdown(context.Background()) }()

	ctx := context.Background()
	ed, err := startEditor(ctx, editor.Options{
		PropertiesPath:   cfg.PropertiesFile,
		RestoreDocuments: cfg.RestoreDocuments,
		Tracer:           provider.Tracer(),
	})
	if err != nil {
		return fmt.Errorf("starting editor: %w", err)
	}
	for _, path := range args {
		if _, err := ed.OpenPath(path); err != nil {
			ed.Shutdown()
			return fmt.Errorf("opening %s: %w", path, err)
		}
	}

	w, err := startWatcher(ed)
	if err != nil {
		log.ErrorErr(log.CatWatcher, "Resource reload disabled", err)
	}

	zone.NewGlobal()
	model := app.New(app.Options{
		Editor:  ed,
		UI:      cfg.UI,
		Watcher: w,
		Debug:   viper.GetBool("debug"),
		Flags:   flags.New(cfg.Flags),
	})
	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if cfg.UI.Mouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	p := tea.NewProgram(&model, opts...)

	_, err = p.Run()

	// Stops the watcher and runs the shutdown hooks, which persist session
	// properties.
	if closeErr := model.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// startWatcher watches the resource files of the session, or returns nil
// when watching is off or there is nothing to watch.
func startWatcher(ed *editor.Editor) (*watcher.Watcher, error) {
	files := ed.Resources().Paths()
	if !cfg.WatchResources || len(files) == 0 {
		return nil, nil
	}
	w, err := watcher.New(watcher.DefaultConfig(files...))
	if err != nil {
		return nil, err
	}
	if err := w.Start(); err != nil {
		return nil, errors.Join(err, w.Stop())
	}
	return w, nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags).
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
