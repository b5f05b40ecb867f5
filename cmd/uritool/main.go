// Command uritool splits, composes, resolves, normalizes and percent-encodes URI references.
//
// Usage:
//
//	uritool [global options] command [command options] [arguments...]
//
// Every command accepts several inputs and processes them one by one,
// the "-" argument reads the inputs from the standard input line by line.
// The process exits with status 1 when some input is malformed and with status 2 on usage errors.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/ghettovoice/uritools/internal/errorutil"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newCommand(os.Stdin, os.Stdout, os.Stderr).Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "uritool:", err)
		stop()
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	if errorutil.IsGrammarErr(err) {
		return 1
	}
	return 2
}
