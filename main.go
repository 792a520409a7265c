package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/ardnew/blogmath/cli"
	"github.com/ardnew/blogmath/cli/cmd"
	"github.com/ardnew/blogmath/log"
)

func main() {
	err := cli.Run(context.Background(), os.Exit, os.Args[1:]...)
	if err != nil {
		// The failing source has already been reported.
		if !errors.Is(err, cmd.ErrEvaluate) {
			log.Error("run failed", slog.Any("error", err))
		}

		os.Exit(1)
	}
}
