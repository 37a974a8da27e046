// Command plugdemo runs a plugin adapter against a simulated host, audio
// thread and editor, and prints the relay statistics when it stops.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/justyntemme/plugbridge/pkg/framework/debug"
)

func main() {
	opts := NewOptions()
	opts.AddFlags(pflag.CommandLine)
	pflag.Parse()

	if err := opts.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger := debug.NewLogger(debug.Options{
		Verbosity:   opts.LogVerbosity,
		Development: opts.Development,
		Name:        "plugdemo",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	summary, err := Run(ctx, opts, logger)
	if err != nil {
		logger.Error(err, "Demo failed")
		os.Exit(1)
	}
	fmt.Fprint(os.Stdout, summary)
}
