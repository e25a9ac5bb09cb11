// Package main loads option values from a YAML file into the configured store.
//
// Usage:
//
//	go run ./cmd/seed options.yaml
//	go run ./cmd/seed --overwrite --store badger --data-path ./data options.yaml
package main

import (
	"fmt"
	"os"
	"slices"

	"github.com/samber/do/v2"
	"github.com/spf13/cobra"

	"github.com/listenupapp/listenup-console/internal/config"
	"github.com/listenupapp/listenup-console/internal/di"
	"github.com/listenupapp/listenup-console/internal/di/providers"
	"github.com/listenupapp/listenup-console/internal/logger"
	"github.com/listenupapp/listenup-console/internal/seed"
	"github.com/listenupapp/listenup-console/internal/service"
)

var (
	overwrite   bool
	dryRun      bool
	backend     string
	dataPath    string
	databaseURL string
)

var rootCmd = &cobra.Command{
	Use:   "seed FILE",
	Short: "Load option values from a YAML file",
	Long: `Load option values from a YAML file into the option store.

Scalars are stored as strings. Maps and lists are stored as JSON, so
HeaderNavModules and CustomerServiceConfig may be written as YAML
structures. Every value goes through the same validation as the API.

By default only keys that have never been saved are written.`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE:         runSeed,
}

func init() {
	rootCmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace values that are already stored")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the parsed values without writing")
	rootCmd.Flags().StringVar(&backend, "store", "", "Store backend (sqlite, badger, postgres)")
	rootCmd.Flags().StringVar(&dataPath, "data-path", "", "Directory for local data")
	rootCmd.Flags().StringVar(&databaseURL, "database-url", "", "Postgres connection string")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runSeed(cmd *cobra.Command, args []string) error {
	values, err := seed.Load(args[0])
	if err != nil {
		return err
	}

	if dryRun {
		keys := make([]string, 0, len(values))
		for key := range values {
			keys = append(keys, key)
		}
		slices.Sort(keys)
		for _, key := range keys {
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", key, values[key])
		}
		return nil
	}

	cfg, err := config.Load(storeArgs())
	if err != nil {
		return err
	}

	injector := di.NewCommandContainer(cfg)
	defer func() { _ = injector.Shutdown() }()

	storeHandle, err := do.Invoke[*providers.StoreHandle](injector)
	if err != nil {
		return err
	}
	options := do.MustInvoke[*service.OptionService](injector)
	log := do.MustInvoke[*logger.Logger](injector)

	applier := seed.NewApplier(storeHandle.OptionStore, options, log.Logger)

	var result *seed.Result
	if overwrite {
		result, err = applier.ApplyAll(cmd.Context(), values)
	} else {
		result, err = applier.ApplyMissing(cmd.Context(), values)
	}
	if err != nil {
		return err
	}

	for _, key := range result.Applied {
		fmt.Fprintf(cmd.OutOrStdout(), "applied  %s\n", key)
	}
	for _, key := range result.Skipped {
		fmt.Fprintf(cmd.OutOrStdout(), "skipped  %s\n", key)
	}
	return nil
}

// storeArgs forwards the store flags to config.Load so that flags keep
// precedence over the environment.
func storeArgs() []string {
	var args []string
	if backend != "" {
		args = append(args, "-store", backend)
	}
	if dataPath != "" {
		args = append(args, "-data-path", dataPath)
	}
	if databaseURL != "" {
		args = append(args, "-database-url", databaseURL)
	}
	return args
}
