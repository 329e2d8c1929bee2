package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"tally/internal/backend"
	"tally/internal/cli"
	"tally/internal/config"
	"tally/internal/core"
	"tally/internal/kv"
	"tally/internal/ledger"
)

var (
	addType     string
	filterMonth string
	filterStart string
	filterEnd   string
	filterType  string
)

func init() {
	addCmd.Flags().StringVar(&addType, "type", "expense", "transaction type: expense or income")

	for _, cmd := range []*cobra.Command{listCmd, summaryCmd} {
		cmd.Flags().StringVar(&filterMonth, "month", "", "filter by month (YYYY-MM)")
		cmd.Flags().StringVar(&filterStart, "start", "", "filter start date (YYYY-MM-DD), inclusive")
		cmd.Flags().StringVar(&filterEnd, "end", "", "filter end date (YYYY-MM-DD), inclusive")
	}
	listCmd.Flags().StringVar(&filterType, "type", "all", "show only expense or income entries")
}

// openLedger loads config and hydrates the ledger from the configured
// backend. The caller must Close the returned store.
func openLedger(ctx context.Context) (*ledger.Ledger, kv.Store, error) {
	cli.LoadEnvFile()
	// Keep command output clean; only surface warnings.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	store, err := backend.NewFactory(slog.Default()).CreateStore(cfg)
	if err != nil {
		return nil, nil, err
	}
	return ledger.Open(ctx, store), store, nil
}

// buildFilter maps the shared flags onto a core.Filter. Unparseable
// values fail open, matching the API behavior.
func buildFilter() core.Filter {
	if filterMonth != "" {
		y, m := core.ParseMonth(filterMonth)
		return core.Filter{Mode: core.FilterMonth, Year: y, Month: m}
	}
	if filterStart != "" || filterEnd != "" {
		return core.Filter{
			Mode:  core.FilterRange,
			Start: core.ParseDate(filterStart),
			End:   core.ParseDate(filterEnd),
		}
	}
	return core.Filter{Mode: core.FilterAll}
}

var addCmd = &cobra.Command{
	Use:   "add <name> <amount>",
	Short: "Record a new transaction",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		l, store, err := openLedger(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		amount, err := core.ParseAmount(args[1])
		if err != nil {
			return fmt.Errorf("invalid amount %q", args[1])
		}

		tx, err := l.Add(ctx, args[0], amount, core.TxType(addType))
		if err != nil {
			return err
		}
		fmt.Printf("recorded %s: %s %s (%s)\n", tx.ID, tx.Name, tx.Amount.Format(), tx.Type)
		return nil
	},
}

var rmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a transaction by id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		l, store, err := openLedger(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		if l.Remove(ctx, args[0]) {
			fmt.Printf("removed %s\n", args[0])
		} else {
			fmt.Printf("no transaction with id %s\n", args[0])
		}
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List transactions, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		l, store, err := openLedger(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		filtered := buildFilter().Apply(l.Snapshot())
		for _, tx := range core.ByType(filtered, filterType) {
			fmt.Printf("%s  %-7s  %12s  %s  (%s)\n",
				tx.CreatedAt.Format("2006-01-02 15:04"),
				tx.Type,
				tx.Amount.Format(),
				tx.Name,
				tx.ID)
		}
		return nil
	},
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print aggregate totals for the selected period",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		l, store, err := openLedger(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		s := core.Aggregate(buildFilter().Apply(l.Snapshot()))
		if s.IsZero() {
			fmt.Println("no transactions in the selected period")
			return nil
		}
		fmt.Printf("expense: %s\n", s.ExpenseTotal.Format())
		fmt.Printf("income:  %s\n", s.IncomeTotal.Format())
		fmt.Printf("balance: %s\n", s.Balance.Format())
		return nil
	},
}
