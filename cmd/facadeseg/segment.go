package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/ironsheep/facade-tools-mcp/internal/batch"
	"github.com/ironsheep/facade-tools-mcp/internal/facade"
	"github.com/ironsheep/facade-tools-mcp/internal/symmetry"
)

func createSegment() *cobra.Command {
	var (
		configPath string
		outDir     string
		cacheDir   string
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:     "segment <files|dirs>...",
		Short:   "segment facade images and write overlays, plots and JSON results",
		Args:    cobra.MinimumNArgs(1),
		Example: "segment --out results --cache-dir .facade-cache photos/",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := log.New(os.Stderr, "", log.Ldate|log.Ltime|log.Lshortfile)

			cfg := facade.DefaultConfig()
			if configPath != "" {
				var err error
				if cfg, err = facade.LoadConfig(configPath); err != nil {
					return err
				}
			}

			var opts []facade.Option
			if cacheDir != "" {
				cache, err := symmetry.NewDirCache(cacheDir)
				if err != nil {
					return err
				}
				opts = append(opts, facade.WithCache(cache))
			}
			if verbose {
				opts = append(opts, facade.WithObserver(facade.LogObserver(logger)))
			}

			seg, err := facade.NewSegmenter(cfg, opts...)
			if err != nil {
				return err
			}

			paths, err := batch.Collect(args)
			if err != nil {
				return err
			}
			if len(paths) == 0 {
				return fmt.Errorf("no images found in %v", args)
			}

			runner := &batch.Runner{Segmenter: seg, OutDir: outDir}
			reports, err := runner.Run(paths)
			for _, rep := range reports {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %d row splits, %d column splits, %d tile rounds\n",
					rep.Input, len(rep.RowSplits), len(rep.ColSplits), rep.Rounds)
				if verbose {
					for _, out := range rep.Outputs {
						logger.Printf("wrote %s", out)
					}
				}
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "YAML pipeline configuration file")
	cmd.Flags().StringVarP(&outDir, "out", "o", "out", "directory the results are written to")
	cmd.Flags().StringVar(&cacheDir, "cache-dir", "", "directory for cached symmetry profiles (disabled if empty)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log every pipeline stage")

	return cmd
}
