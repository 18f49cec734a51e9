package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"lexcurate/internal/config"
	"lexcurate/internal/logging"
	"lexcurate/internal/tablestore"
)

func newNormalizeCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "normalize [table...]",
		Short: "Rewrite every text cell in Unicode NFC",
		Long:  "Normalizes the named tables, or every table of the dataset, to composed Unicode.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if cfg.Paths.Metadata == "" {
				return fmt.Errorf("no dataset configured: pass --metadata, set paths.metadata, or export %s", config.MetadataEnv)
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			logger = logging.NewComponentLogger(logger, "normalize")

			store, err := tablestore.Open(cfg.Paths.Metadata, tablestore.Options{
				BackupSuffix: cfg.Storage.BackupSuffix,
				Logger:       logger,
			})
			if err != nil {
				return err
			}
			lock, err := store.Lock()
			if err != nil {
				return err
			}
			defer func() {
				if err := lock.Unlock(); err != nil {
					logger.Warn("release dataset lock", logging.Error(err))
				}
			}()

			changed, err := store.NormalizeUnicode(args...)
			if err != nil {
				return err
			}
			if err := store.Flush(); err != nil {
				return err
			}

			if ctx.JSONMode() {
				return writeJSON(cmd, changed)
			}
			w := cmd.OutOrStdout()
			total := 0
			for _, table := range sortedKeys(changed) {
				fmt.Fprintf(w, "%s: %d cell(s)\n", table, changed[table])
				total += changed[table]
			}
			fmt.Fprintf(w, "Normalized %d cell(s)\n", total)
			return nil
		},
	}
	return cmd
}
