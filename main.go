// Command pwpolicycost estimates what brute forcing a password policy costs on cloud GPUs.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/unclesp1d3r/pwpolicycost/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := fang.Execute(ctx, cmd.RootCmd, fang.WithVersion(cmd.Version))

	stop()

	if err != nil {
		os.Exit(1)
	}
}
