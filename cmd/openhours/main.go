package main

import (
	"context"
	"fmt"
	"os"
)

func main() {
	if err := newApp(os.Stdout).rootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
