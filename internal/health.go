package internal

import (
	"github.com/tavsec/gin-healthcheck/checks"

	"github.com/rm-hull/nl-fuel-prices/internal/models"
)

type upstreamCheck struct {
	engine *Engine
}

// Check fails only once every location that has run last saw the tank service unavailable.
func (e *Engine) Check() checks.Check {
	return &upstreamCheck{engine: e}
}

func (c *upstreamCheck) Pass() bool {
	results := c.engine.LatestAll()
	if len(results) == 0 {
		return true
	}

	for _, cycle := range results {
		if cycle.Outcome != models.OutcomeUnavailable {
			return true
		}
	}
	return false
}

func (c *upstreamCheck) Name() string {
	return "tank-service"
}
