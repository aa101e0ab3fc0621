package main

import (
	"context"
	"log"

	"github.com/homeroot/mesh/services/purchase/internal/app/bootstrap"
)

func main() {
	ctx := context.Background()
	runtime, err := bootstrap.NewRuntime(ctx, "configs/purchase.yaml")
	if err != nil {
		log.Fatalf("bootstrap purchase runtime: %v", err)
	}
	if err := runtime.RunAPI(ctx); err != nil {
		log.Fatalf("run purchase: %v", err)
	}
}
