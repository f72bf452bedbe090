package app

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/coinleague/internal/config"
	"github.com/dmitrijs2005/coinleague/internal/flagx"
	"github.com/dmitrijs2005/coinleague/internal/logging"
	"github.com/dmitrijs2005/coinleague/internal/resolver"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

// IO carries the standard streams of one command run. Interactive tells
// whether In is a terminal a human can answer prompts on.
type IO struct {
	In          io.Reader
	Out         io.Writer
	Err         io.Writer
	Interactive bool
}

type command func(ctx context.Context, a *App, args []string, stdio IO) int

var commands = map[string]command{
	"migrate":  runMigrate,
	"sync":     runSync,
	"reset":    runReset,
	"resolve":  runResolve,
	"chains":   runChains,
	"accounts": runAccounts,
	"username": runUsername,
}

const usageText = `usage: registryctl [config flags] <command> [command flags]

commands:
  migrate                      apply database migrations
  sync -chain ID               upsert the catalog of one chain into the registry
  reset [-confirm]             delete ALL registry data, dependents first
  resolve -chain ID SYMBOL     show address, name and ticker of a symbol
  chains                       list chains present in the catalog
  accounts ADDRESS...          make sure accounts exist for wallet addresses
  username ADDRESS NAME        change the username of an account

config flags: -driver -d -catalog -timeout -retries -concurrency
  -session-cache -s3-region -s3-endpoint -s3-user -s3-password
  -metrics-file -log-level -c/-config
`

// Run executes one registryctl command line and returns the process exit
// code: 0 on success, 1 on failure, 2 on bad usage.
func Run(ctx context.Context, args []string, stdio IO) (code int) {
	name, rest := flagx.Subcommand(flagx.DropArgs(args, config.FlagNames()))
	cmd, ok := commands[name]
	if !ok {
		if name != "" && name != "help" {
			fmt.Fprintf(stdio.Err, "unknown command %q\n", name)
		}
		fmt.Fprint(stdio.Err, usageText)
		return exitUsage
	}

	cfg, err := config.LoadConfig(args)
	if err != nil {
		fmt.Fprintf(stdio.Err, "%v\n", err)
		return exitUsage
	}

	logger := logging.NewJSONLogger(stdio.Err, cfg.LogLevel)

	a, err := NewApp(ctx, cfg, logger)
	if err != nil {
		fmt.Fprintf(stdio.Err, "%v\n", err)
		return exitFailure
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Error(ctx, "shutdown error", "error", err)
			if code == exitOK {
				code = exitFailure
			}
		}
	}()

	return cmd(ctx, a, rest, stdio)
}

func newFlagSet(name string, stdio IO) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stdio.Err)
	return fs
}

func runMigrate(ctx context.Context, a *App, args []string, stdio IO) int {
	if err := a.Migrate(ctx); err != nil {
		fmt.Fprintf(stdio.Err, "migrate failed: %v\n", err)
		return exitFailure
	}
	fmt.Fprintln(stdio.Out, "migrations applied")
	return exitOK
}

func runSync(ctx context.Context, a *App, args []string, stdio IO) int {
	fs := newFlagSet("sync", stdio)
	chainID := fs.Int64("chain", 0, "chain id to synchronize")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	fmt.Fprintf(stdio.Out, "syncing chain %d...\n", *chainID)
	n, err := a.Sync(ctx, *chainID)
	if err != nil {
		fmt.Fprintf(stdio.Err, "sync failed after %d tokens: %v\n", n, err)
		return exitFailure
	}
	fmt.Fprintf(stdio.Out, "synced %d tokens for chain %d\n", n, *chainID)
	return exitOK
}

func runReset(ctx context.Context, a *App, args []string, stdio IO) int {
	fs := newFlagSet("reset", stdio)
	confirmed := fs.Bool("confirm", false, "skip the interactive confirmation")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	if !*confirmed {
		if !stdio.Interactive {
			fmt.Fprintln(stdio.Err, "refusing to reset without -confirm on a non-interactive input")
			return exitFailure
		}
		answer, err := getSimpleText(bufio.NewReader(stdio.In),
			"This deletes ALL games, results, tokens and accounts. Type 'yes' to continue", stdio.Out)
		if err != nil || answer != "yes" {
			fmt.Fprintln(stdio.Err, "reset aborted")
			return exitFailure
		}
	}

	if err := a.Reset(ctx); err != nil {
		fmt.Fprintf(stdio.Err, "reset failed: %v\n", err)
		return exitFailure
	}
	fmt.Fprintln(stdio.Out, "registry reset complete")
	return exitOK
}

func runResolve(ctx context.Context, a *App, args []string, stdio IO) int {
	fs := newFlagSet("resolve", stdio)
	chainID := fs.Int64("chain", 0, "chain id")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stdio.Err, "usage: registryctl resolve -chain ID SYMBOL")
		return exitUsage
	}

	symbol := fs.Arg(0)
	if !resolver.IsPlausibleSymbol(symbol) {
		fmt.Fprintf(stdio.Err, "%q does not look like a token symbol\n", symbol)
		return exitFailure
	}

	d, ok := a.Resolve(symbol, *chainID)
	if !ok {
		fmt.Fprintf(stdio.Err, "%s not found on chain %d\n", strings.ToUpper(strings.TrimSpace(symbol)), *chainID)
		return exitFailure
	}

	ticker := d.TV
	if ticker == "" {
		ticker = "-"
	}
	fmt.Fprintf(stdio.Out, "address: %s\nname:    %s\nticker:  %s\n", d.Address, d.BaseName, ticker)
	return exitOK
}

func runChains(ctx context.Context, a *App, args []string, stdio IO) int {
	for _, id := range a.Catalog().Chains() {
		fmt.Fprintf(stdio.Out, "%d\t%d tokens\n", id, len(a.Catalog().ForChain(id)))
	}
	return exitOK
}

func runAccounts(ctx context.Context, a *App, args []string, stdio IO) int {
	if len(args) == 0 {
		fmt.Fprintln(stdio.Err, "usage: registryctl accounts ADDRESS...")
		return exitUsage
	}

	results, errs, err := a.EnsureAccounts(ctx, args)
	if err != nil {
		fmt.Fprintf(stdio.Err, "accounts failed: %v\n", err)
		return exitFailure
	}

	code := exitOK
	for i, res := range results {
		if errs[i] != nil {
			fmt.Fprintf(stdio.Out, "%s\t%s\t%v\n", args[i], res.Status, errs[i])
			code = exitFailure
			continue
		}
		fmt.Fprintf(stdio.Out, "%s\t%s\t%s\n", res.Account.Address, res.Status, res.Account.ID)
	}
	return code
}

func runUsername(ctx context.Context, a *App, args []string, stdio IO) int {
	if len(args) != 2 {
		fmt.Fprintln(stdio.Err, "usage: registryctl username ADDRESS NAME")
		return exitUsage
	}

	acc, err := a.ChangeUsername(ctx, args[0], args[1])
	if err != nil {
		fmt.Fprintf(stdio.Err, "username change failed: %v\n", err)
		return exitFailure
	}
	fmt.Fprintf(stdio.Out, "%s is now %s\n", acc.Address, acc.Username)
	return exitOK
}

// getSimpleText prints a prompt to w and reads a single trimmed line.
// A final line without a newline is accepted.
func getSimpleText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n> "); err != nil {
		return "", err
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}
