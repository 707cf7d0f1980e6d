// Package tasks runs fire-and-forget work detached from any request
// lifecycle.
package tasks

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
)

var wg sync.WaitGroup

// Go runs fn on its own goroutine with a background context, so the work
// survives the completion of the request that scheduled it. The result is
// intentionally discarded, but errors and panics are still logged under the
// task name.
func Go(name string, fn func(ctx context.Context) error) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer func() {
			if r := recover(); r != nil {
				log.Error().Interface("panic", r).Str("task", name).Msg("detached task panicked")
			}
		}()
		if err := fn(context.Background()); err != nil {
			log.Error().Err(err).Str("task", name).Msg("detached task failed")
		}
	}()
}

// Wait blocks until all detached tasks have finished. Called during
// shutdown and from tests.
func Wait() {
	wg.Wait()
}
