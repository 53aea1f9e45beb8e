package orbgo

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/orbgo/astro"
	"github.com/hupe1980/orbgo/frames"
	"github.com/hupe1980/orbgo/rotation"
)

// StateResult is one item of a state batch.
type StateResult struct {
	State astro.State
	Err   error
}

// DCMResult is one item of a rotation batch.
type DCMResult struct {
	DCM rotation.DCM
	Err error
}

// fanOut evaluates eval for every index on at most WithBatchConcurrency
// goroutines. A failing item never stops the others; once ctx is done the
// remaining items fail with ctx.Err().
func fanOut[T any](ctx context.Context, a *Almanac, op string, n int, eval func(i int) (T, error)) ([]T, []error) {
	start := time.Now()
	vals := make([]T, n)
	errs := make([]error, n)

	var g errgroup.Group
	g.SetLimit(a.opts.concurrency())
	for i := range n {
		if err := ctx.Err(); err != nil {
			for j := i; j < n; j++ {
				errs[j] = err
			}
			break
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return nil
			}
			vals[i], errs[i] = eval(i)
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, err := range errs {
		if err != nil {
			failed++
		}
	}
	a.opts.metricsCollector.RecordBatch(op, n, failed, time.Since(start))
	a.opts.logger.LogBatch(ctx, op, n, failed)
	return vals, errs
}

func stateResults(vals []astro.State, errs []error) []StateResult {
	out := make([]StateResult, len(vals))
	for i := range vals {
		out[i] = StateResult{State: vals[i], Err: errs[i]}
	}
	return out
}

// TranslateBatch translates target relative to observer at every epoch.
// Results are in the order of epochs.
func (a *Almanac) TranslateBatch(ctx context.Context, target, observer frames.Frame, epochs []astro.Epoch, ab astro.Aberration) []StateResult {
	return stateResults(fanOut(ctx, a, OpTranslate, len(epochs), func(i int) (astro.State, error) {
		return a.translate(target, observer, epochs[i], ab)
	}))
}

// TransformBatch transforms target into observer at every epoch.
func (a *Almanac) TransformBatch(ctx context.Context, target, observer frames.Frame, epochs []astro.Epoch, ab astro.Aberration) []StateResult {
	return stateResults(fanOut(ctx, a, OpTransform, len(epochs), func(i int) (astro.State, error) {
		return a.transform(target, observer, epochs[i], ab)
	}))
}

// TransformStatesBatch transforms every state into observer.
func (a *Almanac) TransformStatesBatch(ctx context.Context, states []astro.State, observer frames.Frame, ab astro.Aberration) []StateResult {
	return stateResults(fanOut(ctx, a, OpTransformStates, len(states), func(i int) (astro.State, error) {
		return a.transformTo(states[i], observer, ab)
	}))
}

// RotateBatch returns the rotation from from into to at every epoch.
func (a *Almanac) RotateBatch(ctx context.Context, from, to frames.Frame, epochs []astro.Epoch) []DCMResult {
	vals, errs := fanOut(ctx, a, OpRotate, len(epochs), func(i int) (rotation.DCM, error) {
		return a.rotation(from.OrientationID, to.OrientationID, epochs[i])
	})
	out := make([]DCMResult, len(vals))
	for i := range vals {
		out[i] = DCMResult{DCM: vals[i], Err: errs[i]}
	}
	return out
}
