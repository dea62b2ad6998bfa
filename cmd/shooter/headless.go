// cmd/shooter/headless.go
package main

import (
	"context"
	"fmt"
	"time"

	"github.com/opd-ai/go-spaceshooter/pkg/autopilot"
	"github.com/opd-ai/go-spaceshooter/pkg/config"
	"github.com/opd-ai/go-spaceshooter/pkg/engine"
	"github.com/opd-ai/go-spaceshooter/pkg/logging"
	"github.com/opd-ai/go-spaceshooter/pkg/render"
)

// runHeadless lets the autopilot play for limit of simulated time as fast
// as the machine allows.
func runHeadless(ctx context.Context, cfg *config.GameConfig, session *engine.GameSession, logger *logging.Logger, behaviorName string, limit time.Duration) error {
	behavior, err := autopilot.ParseBehavior(behaviorName)
	if err != nil {
		return err
	}

	pilot := autopilot.New(session, behavior, cfg.Simulation.Seed, logger)
	pilot.AutoRestart = true
	renderer := render.NewNullRenderer(logger)

	dt := 1.0 / float64(cfg.Render.TargetFPS)
	frames := int(limit.Seconds() / dt)
	started := time.Now()

	for frame := 0; frame < frames; frame++ {
		if frame%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		pilot.Update(dt)
		session.Advance(dt)
		session.Render(renderer)
	}

	logger.Info(ctx, "Headless run finished",
		"frames", frames,
		"games", pilot.Games(),
		"ticks", session.Tick(),
		"elapsed", time.Since(started).String(),
		"checksum", fmt.Sprintf("%016x", session.Checksum()),
	)
	return nil
}
