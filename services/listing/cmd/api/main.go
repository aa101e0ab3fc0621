package main

import (
	"context"
	"log"

	"github.com/homeroot/mesh/services/listing/internal/app/bootstrap"
)

func main() {
	ctx := context.Background()
	runtime, err := bootstrap.NewRuntime(ctx, "configs/listing.yaml")
	if err != nil {
		log.Fatalf("bootstrap listing runtime: %v", err)
	}
	if err := runtime.RunAPI(ctx); err != nil {
		log.Fatalf("run listing: %v", err)
	}
}
