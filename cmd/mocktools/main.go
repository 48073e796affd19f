// mocktools CLI - synthesizes mock data from JSON Schema, OpenAPI, protobuf
// and GraphQL schemas.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/getmockd/mocktools/pkg/cli"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return cli.Execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
}
