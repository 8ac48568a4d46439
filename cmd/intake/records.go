package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aretw0/intake/pkg/persistence/middleware"
	"github.com/aretw0/intake/pkg/ports"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var recordsCmd = &cobra.Command{
	Use:   "records",
	Short: "Inspect applications in the record store",
	Long: `Reads applications from the configured record store (file or redis).
Personal columns are masked unless --redact=false is given.`,
}

var recordsShowCmd = &cobra.Command{
	Use:   "show <session-id>",
	Short: "Print the stored row of a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRecordStore(cmd, func(ctx context.Context, store ports.RecordStore) error {
			fields, err := store.FindBySessionID(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to load session %s: %w", args[0], err)
			}
			return printYAML(cmd.OutOrStdout(), fields)
		})
	},
}

var recordsFindCmd = &cobra.Command{
	Use:   "find <address>",
	Short: "Print the incomplete application a returning address would resume",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRecordStore(cmd, func(ctx context.Context, store ports.RecordStore) error {
			app, err := store.FindIncompleteApplication(ctx, args[0])
			if err != nil {
				return fmt.Errorf("no resumable application: %w", err)
			}
			fields, err := store.FindBySessionID(ctx, app.SessionID)
			if err != nil {
				return fmt.Errorf("failed to load session %s: %w", app.SessionID, err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "# session %s, %s, updated %s\n",
				app.SessionID, app.Status, app.LastUpdatedAt.Format(time.RFC3339))
			return printYAML(out, fields)
		})
	},
}

var recordsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print every stored row",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRecordStore(cmd, func(ctx context.Context, store ports.RecordStore) error {
			lister, ok := store.(ports.RecordLister)
			if !ok {
				return middleware.ErrListingUnsupported
			}
			rows, err := lister.ListRecords(ctx)
			if err != nil {
				return err
			}
			return printYAML(cmd.OutOrStdout(), rows)
		})
	},
}

// withRecordStore opens the configured store, masked unless --redact=false, and runs fn on it.
func withRecordStore(cmd *cobra.Command, fn func(context.Context, ports.RecordStore) error) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.Store.Driver == "memory" || cfg.Store.Driver == "none" {
		return errNoRecordStore
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	b, err := openBackend(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer b.close()

	store := b.records
	if redact, _ := cmd.Flags().GetBool("redact"); redact {
		store = middleware.Chain(store, middleware.NewPIIMiddleware(middleware.DefaultPIIPatterns))
	}
	return fn(ctx, store)
}

func printYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func init() {
	rootCmd.AddCommand(recordsCmd)
	recordsCmd.AddCommand(recordsShowCmd, recordsFindCmd, recordsListCmd)
	recordsCmd.PersistentFlags().Bool("redact", true, "Mask personal columns")
}
