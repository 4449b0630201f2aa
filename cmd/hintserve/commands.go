package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bastiangx/hintserve/internal/cli"
	"github.com/bastiangx/hintserve/internal/logger"
	"github.com/bastiangx/hintserve/pkg/config"
	"github.com/bastiangx/hintserve/pkg/engine"
	"github.com/bastiangx/hintserve/pkg/server"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	configFlag string
	debugMode  bool

	multiFlag bool
	quoteFlag bool
	noTable   bool

	rebuildFlag  bool
	layoutFlag   string
	alphabetFlag string
	positionFlag string
)

var rootCmd = &cobra.Command{
	Use:           AppName,
	Short:         "Huffman hints for text captured from the terminal",
	Long:          "Finds urls, paths, hashes and custom patterns in captured text and labels them with short prefix-free hints.",
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if debugMode {
			log.SetLevel(log.DebugLevel)
			log.SetReportTimestamp(true)
		} else {
			log.SetLevel(log.WarnLevel)
		}
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the msgpack IPC server on stdin/stdout",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

var hintsCmd = &cobra.Command{
	Use:   "hints [file]",
	Short: "Print the capture with hints drawn over every match",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runHints,
}

var selectCmd = &cobra.Command{
	Use:   "select [file]",
	Short: "Type hints to pick matches and print their text",
	Long: "Reads the capture from file (or stdin, typing from the terminal) and resolves typed hints. " +
		"Type '<' to erase a symbol; in multi mode finish with a line holding '!'.",
	Args: cobra.MaximumNArgs(1),
	RunE: runSelect,
}

var layoutsCmd = &cobra.Command{
	Use:   "layouts",
	Short: "List the keyboard layouts usable as hint alphabets",
	Args:  cobra.NoArgs,
	RunE:  runLayouts,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show, update or rebuild the config file",
	Args:  cobra.NoArgs,
	RunE:  runConfig,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show current version",
	Args:  cobra.NoArgs,
	Run:   func(cmd *cobra.Command, args []string) { showVersion() },
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Path to a custom config.toml")
	rootCmd.PersistentFlags().BoolVarP(&debugMode, "debug", "d", false, "Toggle debug mode")

	hintsCmd.Flags().BoolVar(&noTable, "no-table", false, "Only print the overlay")

	selectCmd.Flags().BoolVarP(&multiFlag, "multi", "m", false, "Select several matches")
	selectCmd.Flags().BoolVarP(&quoteFlag, "quote", "q", false, "Shell quote the printed text")

	configCmd.Flags().BoolVar(&rebuildFlag, "rebuild", false, "Overwrite the config file with defaults")
	configCmd.Flags().StringVar(&layoutFlag, "layout", "", "Set hints.keyboard_layout")
	configCmd.Flags().StringVar(&alphabetFlag, "alphabet", "", "Set hints.alphabet (empty string clears it)")
	configCmd.Flags().StringVar(&positionFlag, "position", "", "Set hints.hint_position (left or right)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(hintsCmd)
	rootCmd.AddCommand(selectCmd)
	rootCmd.AddCommand(layoutsCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, path, err := config.LoadConfigWithPriority(configFlag)
	if err != nil {
		return err
	}
	e, err := cfg.NewEngine(logger.New("engine"))
	if err != nil {
		return err
	}

	opts := server.Options{
		MaxTextBytes: cfg.Server.MaxTextBytes,
		MaxSessions:  cfg.Server.MaxSessions,
		Logger:       logger.New("server"),
	}
	if path != "" {
		opts.Reload = func() (*engine.Engine, error) {
			next, err := config.LoadConfig(path)
			if err != nil {
				return nil, err
			}
			return next.NewEngine(logger.New("engine"))
		}
	}
	srv := server.NewServer(e, opts)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	if cfg.Server.ReloadConfig && path != "" {
		if err := srv.WatchConfig(ctx, path); err != nil {
			log.Warnf("Config hot reload disabled: %v", err)
		}
	}

	showStartupInfo(config.GetActiveConfigPath(path), len(e.Patterns()), e.Alphabet().String())
	return srv.Start()
}

// loadEngine builds the engine from the active config for one-shot commands.
func loadEngine() (*config.Config, *engine.Engine, error) {
	cfg, path, err := config.LoadConfigWithPriority(configFlag)
	if err != nil {
		return nil, nil, err
	}
	log.Debugf("Using config: %s", config.GetActiveConfigPath(path))
	e, err := cfg.NewEngine(logger.New("engine"))
	if err != nil {
		return nil, nil, err
	}
	return cfg, e, nil
}

// readCapture reads the captured text from the named file, or from in when
// no file is given.
func readCapture(args []string, in io.Reader) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(in)
		return string(data), err
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("failed to read capture: %w", err)
	}
	return string(data), nil
}

func reportFailures(res *engine.Result) {
	for _, f := range res.Failures {
		log.Warnf("Pattern %s failed: %v", f.Pattern, f.Err)
	}
	if spans := res.Degraded(); len(spans) > 0 {
		log.Warnf("Capture has %d malformed region(s), replaced with U+FFFD", len(spans))
	}
}

func runHints(cmd *cobra.Command, args []string) error {
	cfg, e, err := loadEngine()
	if err != nil {
		return err
	}
	text, err := readCapture(args, cmd.InOrStdin())
	if err != nil {
		return err
	}

	res := e.Run(text)
	reportFailures(res)

	out := cmd.OutOrStdout()
	renderer := cli.NewRenderer(lipgloss.NewRenderer(out), cfg)
	fmt.Fprintln(out, renderer.Overlay(res, nil))
	if !noTable && !res.Empty() {
		fmt.Fprintln(out, cli.Table(res))
	}
	return nil
}

func runSelect(cmd *cobra.Command, args []string) error {
	cfg, e, err := loadEngine()
	if err != nil {
		return err
	}
	text, err := readCapture(args, cmd.InOrStdin())
	if err != nil {
		return err
	}

	// stdin held the capture, so the typed hints come from the terminal
	keys := cmd.InOrStdin()
	if len(args) == 0 || args[0] == "-" {
		tty, err := os.Open("/dev/tty")
		if err != nil {
			return fmt.Errorf("no terminal to read hints from: %w", err)
		}
		defer tty.Close()
		keys = tty
	}

	res := e.Run(text)
	reportFailures(res)

	// the overlay goes to stderr with the prompts; stdout only gets the selection
	renderer := cli.NewRenderer(lipgloss.NewRenderer(os.Stderr), cfg)
	handler := cli.NewSelectHandler(res, renderer, multiFlag, quoteFlag, logger.Default(""))
	return handler.Start(keys, cmd.OutOrStdout())
}

func runLayouts(cmd *cobra.Command, args []string) error {
	cfg, _, err := config.LoadConfigWithPriority(configFlag)
	if err != nil {
		return err
	}
	active := strings.ToLower(cfg.Hints.KeyboardLayout)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("LAYOUT", "SYMBOLS", "")
	for _, name := range config.LayoutNames() {
		symbols, _ := config.LayoutSymbols(name)
		mark := ""
		if name == active && cfg.Hints.Alphabet == "" {
			mark = "active"
		}
		t.Row(name, symbols, mark)
	}
	fmt.Fprintln(cmd.OutOrStdout(), t.Render())
	return nil
}

func runConfig(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if rebuildFlag {
		path, err := config.RebuildConfigFile(configFlag)
		if err != nil {
			return fmt.Errorf("failed to rebuild config: %w", err)
		}
		fmt.Fprintf(out, "Rebuilt %s\n", path)
		return nil
	}

	cfg, path, err := config.LoadConfigWithPriority(configFlag)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	var layout, alphabet, position *string
	if flags.Changed("layout") {
		if _, ok := config.LayoutSymbols(layoutFlag); !ok {
			return fmt.Errorf("unknown layout %q, see `%s layouts`", layoutFlag, AppName)
		}
		layout = &layoutFlag
	}
	if flags.Changed("alphabet") {
		alphabet = &alphabetFlag
	}
	if flags.Changed("position") {
		if positionFlag != config.PositionLeft && positionFlag != config.PositionRight {
			return fmt.Errorf("hint position must be %s or %s", config.PositionLeft, config.PositionRight)
		}
		position = &positionFlag
	}

	if layout != nil || alphabet != nil || position != nil {
		if path == "" {
			return fmt.Errorf("no config file to update")
		}
		if err := cfg.Update(path, layout, alphabet, position); err != nil {
			return fmt.Errorf("failed to update config: %w", err)
		}
	}

	alpha, err := cfg.ResolveAlphabet()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "config:   %s\n", config.GetActiveConfigPath(path))
	fmt.Fprintf(out, "layout:   %s\n", cfg.Hints.KeyboardLayout)
	fmt.Fprintf(out, "alphabet: %s\n", alpha.String())
	fmt.Fprintf(out, "position: %s\n", cfg.Position())
	fmt.Fprintf(out, "patterns: %s\n", strings.Join(cfg.Patterns.EnabledBuiltin, ", "))
	return nil
}
