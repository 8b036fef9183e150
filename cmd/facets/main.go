package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"gofacets/adapters/steprecord"
	"gofacets/app"
	"gofacets/internal/config"
	"gofacets/internal/container"
	"gofacets/internal/errors"
	"gofacets/internal/testkit"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:          "facets",
		Short:        "Render Facets Overview statistics for tabular step outputs",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		newVisualizeCmd(),
		newRenderCmd(),
		newDemoCmd(),
		newStatsCmd(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func newContainer(opts ...container.Option) (*container.Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return container.New(cfg, opts...)
}

func newVisualizeCmd() *cobra.Command {
	var interactive bool
	var serve bool

	cmd := &cobra.Command{
		Use:   "visualize [step.toml]",
		Short: "Render every output of a recorded step and display it",
		Long: `Render feature statistics for each output of a step record and display them.

Without --interactive the page is written to a temporary file and opened in the
default browser. With --serve it is served on FACETS_SERVER_ADDR until interrupted.
--interactive displays inline and only works inside a GoNB notebook kernel.

Example: facets visualize runs/split/step.toml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newContainer(container.WithServe(serve))
			if err != nil {
				return err
			}
			view, err := steprecord.Load(c.Files.Fs(), args[0], c.Logger)
			if err != nil {
				return errors.Wrapf(err, "step record %s", args[0])
			}
			return c.Renderer.Visualize(cmd.Context(), view, interactive)
		},
	}

	cmd.Flags().BoolVar(&interactive, "interactive", false, "Display inline in the notebook kernel")
	cmd.Flags().BoolVar(&serve, "serve", false, "Serve the page over HTTP instead of writing a file")

	return cmd
}

func newRenderCmd() *cobra.Command {
	var out string
	var open bool

	cmd := &cobra.Command{
		Use:   "render [name=path...]",
		Short: "Render CSV or XLSX files into a Facets Overview page",
		Long: `Render feature statistics for the given files as one comparison page.

The page is printed to stdout unless --out or --open is given.

Example: facets render train=train.csv eval=eval.xlsx --out overview.html`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := parseDatasetArgs(args)
			if err != nil {
				return err
			}
			c, err := newContainer()
			if err != nil {
				return err
			}
			view, err := stepFromArgs(c.Files.Fs(), parsed, c.Logger)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			datasets, err := app.CollectDatasets(ctx, view)
			if err != nil {
				return err
			}
			document, err := c.Renderer.GenerateHTML(ctx, datasets)
			if err != nil {
				return err
			}

			if out != "" {
				if err := c.Files.WriteFileAsString(out, document); err != nil {
					return errors.Wrapf(err, "write %s", out)
				}
				c.Logger.Info("Wrote %s", out)
			}
			if open {
				return c.Renderer.Display(ctx, document, false)
			}
			if out == "" {
				_, err = fmt.Fprint(cmd.OutOrStdout(), document)
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "Write the page to this file")
	cmd.Flags().BoolVar(&open, "open", false, "Open the page in the default browser")

	return cmd
}

func newDemoCmd() *cobra.Command {
	var rows int
	var seed int64
	var dir string
	var open bool

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Write a synthetic train/eval step and optionally visualize it",
		Long: `Generate a deterministic train/eval split, write it as CSV files with a
step.toml record, and print the record path.

Example: facets demo --rows 5000 --seed 7 --open`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newContainer()
			if err != nil {
				return err
			}

			splitConfig := testkit.DefaultSplitConfig()
			splitConfig.Rows = rows
			splitConfig.Seed = seed
			split := testkit.NewSplitGenerator(splitConfig).Generate()

			if err := c.Files.Fs().MkdirAll(dir, 0o755); err != nil {
				return err
			}
			record := steprecord.Record{Name: "demo-split"}
			for _, entry := range split.Entries() {
				content, err := testkit.CSV(entry.Table)
				if err != nil {
					return err
				}
				file := entry.Name + ".csv"
				if err := c.Files.WriteFileAsString(filepath.Join(dir, file), content); err != nil {
					return err
				}
				record.Outputs = append(record.Outputs, steprecord.OutputRecord{Name: entry.Name, URI: file})
			}

			encoded, err := steprecord.Encode(record)
			if err != nil {
				return err
			}
			recordPath := filepath.Join(dir, "step.toml")
			if err := c.Files.WriteFileAsString(recordPath, encoded); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), recordPath)

			if !open {
				return nil
			}
			view, err := steprecord.Load(c.Files.Fs(), recordPath, c.Logger)
			if err != nil {
				return err
			}
			return c.Renderer.Visualize(cmd.Context(), view, false)
		},
	}

	cmd.Flags().IntVar(&rows, "rows", 1000, "Total rows across train and eval")
	cmd.Flags().Int64Var(&seed, "seed", 42, "Random seed for deterministic data")
	cmd.Flags().StringVar(&dir, "dir", "facets-demo", "Directory to write the step into")
	cmd.Flags().BoolVar(&open, "open", false, "Visualize the step after writing it")

	return cmd
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats [name=path...]",
		Short: "Print the computed feature statistics as JSON",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := parseDatasetArgs(args)
			if err != nil {
				return err
			}
			c, err := newContainer()
			if err != nil {
				return err
			}
			view, err := stepFromArgs(c.Files.Fs(), parsed, c.Logger)
			if err != nil {
				return err
			}
			datasets, err := app.CollectDatasets(cmd.Context(), view)
			if err != nil {
				return err
			}
			list, err := c.Generator.Compute(cmd.Context(), datasets)
			if err != nil {
				return err
			}

			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			return encoder.Encode(list)
		},
	}

	return cmd
}
