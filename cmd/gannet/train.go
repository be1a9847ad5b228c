package main

import (
	"fmt"
	"math/rand"

	"github.com/spf13/cobra"

	"github.com/gannet-ml/gannet/autodiff"
	"github.com/gannet-ml/gannet/backend/cpu"
	"github.com/gannet-ml/gannet/data"
	"github.com/gannet-ml/gannet/gan"
	"github.com/gannet-ml/gannet/internal/config"
	"github.com/gannet-ml/gannet/nn"
)

func newTrainCmd() *cobra.Command {
	var (
		configPath string
		overrides  config.Overrides
		resumeFrom string
	)

	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train a GAN on a toy Gaussian mixture",
		Long: `Train a small MLP generator/discriminator pair with the hinge loss
on a two-dimensional ring of Gaussians. Intended as a smoke test of the
training stack and as a template for real models.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Defaults()
			if configPath != "" {
				loaded, err := config.Load(configPath)
				if err != nil {
					return err
				}
				cfg = *loaded
			}
			cfg.ApplyOverrides(overrides)
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runTrain(cfg, resumeFrom)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "YAML config file")
	cmd.Flags().StringVar(&overrides.ModelDir, "model-dir", "", "directory for run artifacts")
	cmd.Flags().IntVar(&overrides.NumSteps, "num-steps", 0, "total optimization steps")
	cmd.Flags().IntVar(&overrides.LogEvery, "log-every", 0, "steps between log lines and checkpoints")
	cmd.Flags().IntVar(&overrides.InitialStep, "initial-step", 0, "step to resume the schedule from")
	cmd.Flags().IntVar(&overrides.BatchSize, "batch-size", 0, "per-step batch size")
	cmd.Flags().Int64Var(&overrides.Seed, "seed", 0, "RNG seed")
	cmd.Flags().StringVar(&resumeFrom, "resume", "", "checkpoint file to restore before training")

	return cmd
}

func runTrain(cfg config.Config, resumeFrom string) error {
	backend := autodiff.New(cpu.New())
	rng := rand.New(rand.NewSource(cfg.Seed))

	type be = *autodiff.Backend[*cpu.Backend]
	generator := nn.NewSequential[be](
		nn.NewLinear(cfg.LatentDim, 64, rng, backend),
		nn.NewReLU[be](),
		nn.NewLinear(64, 64, rng, backend),
		nn.NewReLU[be](),
		nn.NewLinear(64, 2, rng, backend),
	)
	discriminator := nn.NewSequential[be](
		nn.NewLinear(2, 64, rng, backend),
		nn.NewLeakyReLU[be](0.2),
		nn.NewLinear(64, 64, rng, backend),
		nn.NewLeakyReLU[be](0.2),
		nn.NewLinear(64, 1, rng, backend),
	)

	model := gan.NewGAN(generator, discriminator, gan.GANConfig{
		LatentDim:       cfg.LatentDim,
		GeneratorLR:     cfg.GeneratorLR,
		DiscriminatorLR: cfg.DiscriminatorLR,
		Seed:            cfg.Seed,
	}, backend)

	initialStep := cfg.InitialStep
	if resumeFrom != "" {
		step, err := model.Restore(resumeFrom)
		if err != nil {
			return fmt.Errorf("restoring %s: %w", resumeFrom, err)
		}
		initialStep = step
	}

	samples, err := data.GaussianMixture(8192, 8, 2.0, 0.05, rng, cpu.New())
	if err != nil {
		return err
	}
	dataset, err := data.NewTensorDataset(samples, cfg.BatchSize, cfg.Seed, cpu.New())
	if err != nil {
		return err
	}

	_, err = gan.Train[*cpu.Backend](model, dataset, cfg.ModelDir, gan.TrainOptions{
		NumSteps:    cfg.NumSteps,
		LogEvery:    cfg.LogEvery,
		InitialStep: initialStep,
	})
	return err
}
