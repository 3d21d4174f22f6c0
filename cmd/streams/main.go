package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"gostreams/domain/core"
	"gostreams/domain/stream"
	"gostreams/internal"
	"gostreams/internal/compile"
	"gostreams/internal/config"
	"gostreams/internal/randomstreams"
)

// options are the flags shared by every subcommand
type options struct {
	seed   int64
	draws  []string
	cfg    *config.Config
	logger *internal.Logger
}

func main() {
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "streams",
		Short:         "Seed, sample and inspect reproducible random streams",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			opts.cfg = cfg
			opts.logger = internal.NewLogger(internal.ParseLogLevel(cfg.LogLevel)).With("cli")
			if !cmd.Flags().Changed("seed") {
				opts.seed = int64(cfg.Streams.MasterSeed)
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().Int64Var(&opts.seed, "seed", int64(config.DefaultMasterSeed), "Master seed (defaults to MASTER_SEED)")
	rootCmd.PersistentFlags().StringArrayVar(&opts.draws, "draw", []string{"uniform:2x2", "normal:3"},
		"Draw as dist:shape[:params], e.g. uniform:2x3:0:10, normal:4:0:2, random_integers:3:1:6, permutation:2:5")

	rootCmd.AddCommand(
		newDeriveCmd(opts),
		newSampleCmd(opts),
		newInspectCmd(opts),
		newExportCmd(opts),
	)
	return rootCmd
}

// masterSeed validates the --seed flag
func (o *options) masterSeed() (uint32, error) {
	return core.CheckSeed(o.seed)
}

// build registers the --draw specs in a fresh registry, compiles them into a
// single "sample" method and initializes every stream.
func (o *options) build() (*compile.Made, error) {
	seed, err := o.masterSeed()
	if err != nil {
		return nil, err
	}
	specs := make([]stream.DrawSpec, 0, len(o.draws))
	for _, raw := range o.draws {
		spec, err := stream.ParseDrawSpec(raw)
		if err != nil {
			return nil, fmt.Errorf("--draw %q: %w", raw, err)
		}
		specs = append(specs, spec)
	}

	random := randomstreams.New(seed, randomstreams.WithLogger(o.logger))
	made, err := compile.Build(random, sampleMethod, specs)
	if err != nil {
		return nil, err
	}
	random.Initialize()
	return made, nil
}

const sampleMethod = "sample"
