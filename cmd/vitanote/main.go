// ABOUTME: Entry point for the vitanote command line
// ABOUTME: Initializes the local health store and invokes host commands against it

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/fatih/color"

	"github.com/2389/vitanote/internal/commands"
	"github.com/2389/vitanote/internal/config"
	"github.com/2389/vitanote/internal/store"
)

// Version is set by goreleaser at build time.
var version = "dev"

const banner = `
       _ _                    _
__   _(_) |_ __ _ _ __   ___ | |_ ___
\ \ / / | __/ _' | '_ \ / _ \| __/ _ \
 \ V /| | || (_| | | | | (_) | ||  __/
  \_/ |_|\__\__,_|_| |_|\___/ \__\___|
`

// errCommandFailed marks an invoke whose envelope reported success=false.
var errCommandFailed = errors.New("command failed")

// getConfigPath returns the path to the vitanote config file.
// Priority: VITANOTE_CONFIG env var > XDG_CONFIG_HOME/vitanote/config.yaml > ~/.config/vitanote/config.yaml
func getConfigPath() string {
	if envPath := os.Getenv("VITANOTE_CONFIG"); envPath != "" {
		return envPath
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "config.yaml" // fallback
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	return filepath.Join(configDir, "vitanote", "config.yaml")
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "Usage: vitanote <command>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  init                       Create the database and its tables")
	fmt.Fprintln(w, "  path                       Print the database file location")
	fmt.Fprintln(w, "  invoke <command> [json|-]  Run a store command with JSON arguments")
	fmt.Fprintln(w, "  commands                   List store commands")
	fmt.Fprintln(w, "  version                    Print the version")
}

func main() {
	if len(os.Args) < 2 {
		usage(os.Stderr)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var err error
	switch os.Args[1] {
	case "init":
		err = runInit(ctx)
	case "path":
		err = runPath()
	case "invoke":
		err = runInvoke(ctx, os.Args[2:], os.Stdin, os.Stdout)
	case "commands":
		runCommands(os.Stdout)
	case "version":
		fmt.Println(version)
	case "help", "-h", "--help":
		usage(os.Stdout)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		os.Exit(1)
	}

	if errors.Is(err, errCommandFailed) {
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the config file, falling back to defaults if it is absent.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadOrDefault(getConfigPath())
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

func runInit(ctx context.Context) error {
	cyan := color.New(color.FgCyan)
	cyan.Fprint(os.Stderr, banner)

	gray := color.New(color.FgHiBlack)
	gray.Fprintf(os.Stderr, "    version: %s\n\n", version)

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := setupLogger(cfg.Logging, os.Stderr)

	s := store.New(append(cfg.StoreOptions(), store.WithLogger(logger))...)
	defer s.Close()

	resp := commands.NewHandler(s, logger).Init(ctx)
	if !resp.Success {
		return fmt.Errorf("initializing store: %s", *resp.Message)
	}

	green := color.New(color.FgGreen)
	green.Fprint(os.Stderr, "  ✓ ")
	fmt.Fprintln(os.Stderr, *resp.Data)
	gray.Fprint(os.Stderr, "    database: ")
	fmt.Fprintln(os.Stderr, s.Path())
	return nil
}

func runPath() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	fmt.Println(store.New(cfg.StoreOptions()...).ResolvePath())
	return nil
}

func runCommands(w io.Writer) {
	bold := color.New(color.Bold)
	gray := color.New(color.FgHiBlack)
	for _, c := range commands.Commands() {
		bold.Fprintf(w, "  %-28s", c.Name)
		fmt.Fprint(w, c.Description)
		if len(c.Args) > 0 {
			gray.Fprintf(w, " (%s)", strings.Join(c.Args, ", "))
		}
		fmt.Fprintln(w)
	}
}

// runInvoke dispatches one command and writes its envelope as JSON.
// Arguments come from args[1], or stdin when it is "-".
func runInvoke(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: vitanote invoke <command> [json|-]")
	}
	name := args[0]
	if _, ok := commands.Lookup(name); !ok {
		return fmt.Errorf("%w: %s (see vitanote commands)", commands.ErrUnknownCommand, name)
	}

	var payload []byte
	switch {
	case len(args) < 2:
	case args[1] == "-":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return fmt.Errorf("reading arguments: %w", err)
		}
		payload = data
	default:
		payload = []byte(args[1])
	}

	payload, err := stampRecord(name, payload)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := setupLogger(cfg.Logging, os.Stderr)

	s := store.New(append(cfg.StoreOptions(), store.WithLogger(logger))...)
	defer s.Close()

	// Every command other than db_init needs an open store.
	if name != "db_init" {
		if err := s.Initialize(ctx); err != nil {
			logger.Warn("store unavailable", "error", err)
		}
	}

	resp, err := commands.NewHandler(s, logger).Dispatch(ctx, name, payload)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding response: %w", err)
	}
	fmt.Fprintln(stdout, string(out))

	var envelope struct {
		Success bool `json:"success"`
	}
	if err := json.Unmarshal(out, &envelope); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	if !envelope.Success {
		return errCommandFailed
	}
	return nil
}
