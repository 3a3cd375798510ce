package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/finnychat/internal/app"
	"github.com/MrJamesThe3rd/finnychat/internal/config"
	"github.com/MrJamesThe3rd/finnychat/internal/script"
)

func main() {
	userID := flag.Int64("user", 1, "ledger owner id the commands run as")
	file := flag.String("file", "-", "command script, one command per line; - reads stdin")
	seed := flag.Bool("seed", false, "seed the default categories first")
	strict := flag.Bool("strict", false, "exit non-zero when any command fails")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	var in io.Reader = os.Stdin

	if *file != "-" {
		f, err := os.Open(*file)
		if err != nil {
			slog.Error("failed to open script", "file", *file, "error", err)
			os.Exit(1)
		}
		defer f.Close()

		in = f
	}

	cmds, err := script.Parse(in)
	if err != nil {
		slog.Error("failed to parse script", "file", *file, "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		slog.Error("failed to build agent", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	if *seed {
		if err := a.Seed(ctx, *userID); err != nil {
			slog.Error("failed to seed categories", "user_id", *userID, "error", err)
			os.Exit(1)
		}
	}

	sum, err := script.Replay(ctx, a.Agent, *userID, cmds, os.Stdout)
	if err != nil {
		slog.Error("replay stopped", "error", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "%d commands, %d failed\n", sum.Total, len(sum.Failed))

	if *strict && len(sum.Failed) > 0 {
		os.Exit(2)
	}
}
