// Package main is the manabu CLI entry point.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hyperjump/manabu/internal/config"
	"github.com/hyperjump/manabu/internal/corpus"
	"github.com/hyperjump/manabu/internal/embedding"
	"github.com/hyperjump/manabu/internal/train"
	"github.com/hyperjump/manabu/pkg/utils"
	"go.uber.org/zap"
)

var version = "dev"

const defaultConfigPath = "config.yaml"

// loadConfig loads config from path. When path is the default and no such
// file exists, the built-in defaults are used so that "manabu train" works
// without a config file.
func loadConfig(path string) (*config.Config, error) {
	if path == defaultConfigPath {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return config.Default(), nil
		}
	}
	return config.Load(path)
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "train":
		runTrain()
	case "version", "--version", "-v":
		fmt.Printf("manabu version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runTrain() {
	fs := flag.NewFlagSet("train", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	seed := fs.Int64("seed", 0, "random seed (0 = derive from clock)")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: manabu train [flags] <corpus-file>")
		fmt.Println("The corpus file holds one sequence per line: whitespace-separated integer token indices.")
		os.Exit(1)
	}
	corpusPath := fs.Arg(0)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	f, err := os.Open(corpusPath)
	if err != nil {
		logger.Fatal("Failed to open corpus", zap.Error(err))
	}
	seqs, err := corpus.ReadSequences(f)
	f.Close()
	if err != nil {
		logger.Fatal("Failed to read corpus", zap.Error(err))
	}

	counts, err := corpus.CountsFromSequences(seqs)
	if err != nil {
		logger.Fatal("Failed to count corpus", zap.Error(err))
	}
	table, err := corpus.NewFreqTable(counts, cfg.Sampling.SubsampleThreshold)
	if err != nil {
		logger.Fatal("Failed to build frequency table", zap.Error(err))
	}

	resolvedSeed := *seed
	if resolvedSeed == 0 {
		resolvedSeed = cfg.Training.Seed
	}
	if resolvedSeed == 0 {
		resolvedSeed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(resolvedSeed))

	center, err := embedding.NewTable(table.Len(), cfg.Model.EmbeddingDim, rng)
	if err != nil {
		logger.Fatal("Failed to create center table", zap.Error(err))
	}
	contextTbl, err := embedding.NewTable(table.Len(), cfg.Model.EmbeddingDim, rng)
	if err != nil {
		logger.Fatal("Failed to create context table", zap.Error(err))
	}

	trainer, err := train.NewTrainer(cfg, center, contextTbl, rng, train.WithLogger(logger))
	if err != nil {
		logger.Fatal("Failed to create trainer", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := trainer.Run(ctx, seqs, table); err != nil {
		if errors.Is(err, ctx.Err()) {
			logger.Info("training interrupted")
			return
		}
		logger.Fatal("Training failed", zap.Error(err))
	}
	logger.Info("training complete",
		zap.Int("vocabulary", table.Len()),
		zap.Int("embedding_dim", cfg.Model.EmbeddingDim),
	)
}

func printUsage() {
	fmt.Println(`manabu - skip-gram word embedding trainer with negative sampling

Usage:
  manabu train [flags] <corpus-file>   Train embeddings on a pre-tokenized corpus
  manabu version                       Show version
  manabu help                          Show this help

Train Flags:
  --config string   Config file path (default: config.yaml; built-in defaults when absent)
  --seed int        Random seed; 0 derives one from the clock
  --debug           Enable debug logging

The corpus file is the output of a tokenizer/vocabulary step: one sequence per
line, whitespace-separated integer token indices.

Examples:
  manabu train corpus.txt
  manabu train --seed 42 --debug corpus.txt
  manabu train --config manabu.yaml corpus.txt`)
}
