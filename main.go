package main

import (
	"context"
	"fmt"
	"os"

	"nudge-backend/bootstrap"
)

func main() {
	ctx := context.Background()

	if err := bootstrap.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "nudge-backend: %v\n", err)
		os.Exit(1)
	}
}
