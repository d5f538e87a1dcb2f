package cmd

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/johnholliday/sanyam-ide-sub000/layout"
	"github.com/johnholliday/sanyam-ide-sub000/persistence"
)

// openLayoutStore builds the layout store over the configured backend.
func openLayoutStore() (*layout.Store, func(), error) {
	var kv persistence.KV
	cleanup := func() {}
	switch globalCfg.Layout.Backend {
	case "sqlite":
		store, err := persistence.NewSQLiteKV(globalCfg.Layout.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite layout store: %w", err)
		}
		kv = store
		cleanup = func() { _ = store.Close() }
	default:
		store, err := persistence.NewFileKV(globalCfg.Layout.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("open file layout store: %w", err)
		}
		kv = store
	}
	return layout.NewStore(kv, log.Default()), cleanup, nil
}

func newLayoutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Inspect and maintain saved diagram layouts",
	}
	cmd.AddCommand(
		newLayoutLsCmd(),
		newLayoutDumpCmd(),
		newLayoutMigrateCmd(),
		newLayoutDeleteCmd(),
	)
	return cmd
}

func newLayoutLsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ls",
		Short: "List stored layout keys",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, cleanup, err := openKV()
			if err != nil {
				return err
			}
			defer cleanup()
			keys, err := store.Keys(layout.KeyPrefix)
			if err != nil {
				return err
			}
			for _, key := range keys {
				fmt.Fprintln(cmd.OutOrStdout(), key)
			}
			return nil
		},
	}
}

func newLayoutDumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump <document-id>",
		Short: "Print the stored layout for a document as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, cleanup, err := openLayoutStore()
			if err != nil {
				return err
			}
			defer cleanup()
			rec, ok := store.Load(args[0])
			if !ok {
				return fmt.Errorf("no layout stored for %s", args[0])
			}
			data, err := json.MarshalIndent(rec, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}

func newLayoutMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate <document-id>",
		Short: "Load the layout, migrating it to the current schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, cleanup, err := openLayoutStore()
			if err != nil {
				return err
			}
			defer cleanup()
			rec, ok := store.Load(args[0])
			if !ok {
				return fmt.Errorf("no usable layout stored for %s", args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "layout for %s at schema version %d (%d elements)\n",
				args[0], rec.Version, len(rec.Elements))
			return nil
		},
	}
}

func newLayoutDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <document-id>",
		Short: "Remove the stored layout for a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, cleanup, err := openLayoutStore()
			if err != nil {
				return err
			}
			defer cleanup()
			store.Delete(args[0])
			return nil
		},
	}
}

// openKV exposes the raw KV for commands that operate on keys directly.
func openKV() (persistence.KV, func(), error) {
	if globalCfg.Layout.Backend == "sqlite" {
		store, err := persistence.NewSQLiteKV(globalCfg.Layout.Path)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	}
	store, err := persistence.NewFileKV(globalCfg.Layout.Path)
	if err != nil {
		return nil, nil, err
	}
	return store, func() {}, nil
}
