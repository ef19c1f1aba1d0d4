package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/okian/trackload/internal/cli"
	"github.com/okian/trackload/pkg/logger"
)

func main() {
	app := &cli.App{
		// Plain CSV when piped, styled tables on a terminal.
		IsInteractive: func() bool {
			fd := os.Stdout.Fd()
			return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
		},
	}

	err := cli.NewRootCmd(app).ExecuteContext(context.Background())
	_ = logger.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
