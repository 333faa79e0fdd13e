package history

import (
	"context"
	"log"
	"time"

	"github.com/tavsec/gin-healthcheck/checks"
)

const healthCheckTimeout = 2 * time.Second

type storeCheck struct {
	store Store
}

// Check reports the store healthy while it can still answer reads.
func Check(store Store) checks.Check {
	return &storeCheck{store: store}
}

func (c *storeCheck) Pass() bool {
	ctx, cancel := context.WithTimeout(context.Background(), healthCheckTimeout)
	defer cancel()

	if _, err := c.store.Samples(ctx, "healthz"); err != nil {
		log.Printf("history store health check failed: %v", err)
		return false
	}
	return true
}

func (c *storeCheck) Name() string {
	return "history"
}
