package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/joao-fontenele/retail-ledger/internal/shell"
)

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	shellCmd := newShellCmd()

	root := &cobra.Command{
		Use:           "retail",
		Short:         "Online retail point of sale over the inventory and order ledger",
		Version:       serviceVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          shellCmd.RunE,
	}
	root.Flags().AddFlagSet(shellCmd.Flags())

	root.AddCommand(shellCmd, newSeedCmd(), newProductsCmd(), newStatsCmd())
	return root
}

// withApp builds the app for one command run and tears it down after.
func withApp(run func(cmd *cobra.Command, a *app, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			cmd.PrintErrln("error:", err)
			return err
		}
		defer a.close(cmd.Context())

		if err := run(cmd, a, args); err != nil {
			a.logger.Error("command failed", "command", cmd.Name(), "error", err)
			cmd.PrintErrln("error:", err)
			return err
		}
		return nil
	}
}

func newShellCmd() *cobra.Command {
	var history string

	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Seed the store if needed and start the interactive shell",
		RunE: withApp(func(cmd *cobra.Command, a *app, _ []string) error {
			if _, err := a.seed(cmd.Context()); err != nil {
				return err
			}
			return shell.New(a.ledger, cmd.OutOrStdout(), a.logger).Run(cmd.Context(), history)
		}),
	}

	cmd.Flags().StringVar(&history, "history", defaultHistoryFile(), "readline history file, empty to disable")
	return cmd
}

func defaultHistoryFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".retail_history")
}

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the administrator and default catalog when missing",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *app, _ []string) error {
			res, err := a.seed(cmd.Context())
			if err != nil {
				return err
			}
			cmd.Printf("admin created: %t, products created: %d\n", res.AdminCreated, res.ProductsCreated)
			return nil
		}),
	}
}

func newProductsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "products",
		Short: "Print the catalog as JSON",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *app, _ []string) error {
			products, err := a.ledger.ListProducts(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd, products)
		}),
	}
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print per-product sales statistics as JSON",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *app, _ []string) error {
			stats, err := a.ledger.SalesStatistics(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd, stats)
		}),
	}
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
