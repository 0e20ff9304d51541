// Copyright 2020 Aleksandr Demakin. All rights reserved.

package posit

import (
	"context"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// chunkSize is the number of terms accumulated between context checks.
const chunkSize = 1024

// DotOptions configures DotProduct and Sum.
type DotOptions struct {
	// Workers is the number of goroutines. Zero means GOMAXPROCS.
	Workers int
	// CarryBits is the number of carry bits of every quire. Zero means DefaultCarryBits.
	CarryBits int
	// Logger receives the quire logs. Nil means no logging.
	Logger *zap.Logger
}

func (o DotOptions) quireOptions() []QuireOption {
	var res []QuireOption
	if o.CarryBits > 0 {
		res = append(res, WithCarryBits(o.CarryBits))
	}
	if o.Logger != nil {
		res = append(res, WithLogger(o.Logger))
	}
	return res
}

func (o DotOptions) workers(n int) int {
	w := o.Workers
	if w <= 0 {
		w = runtime.GOMAXPROCS(0)
	}
	// no point in starting a goroutine for less than a chunk.
	if limit := (n + chunkSize - 1) / chunkSize; w > limit {
		w = limit
	}
	if w < 1 {
		w = 1
	}
	return w
}

// DotProduct returns sum(xs[i]*ys[i]) rounded once.
// The vectors are split between several goroutines, each accumulating
// its part in a quire; the quires are merged exactly.
func (f *Format) DotProduct(ctx context.Context, xs, ys []Posit, opts DotOptions) (Posit, error) {
	if len(xs) != len(ys) {
		return f.NaR(), ConfigError.New("vector lengths differ: %d and %d", len(xs), len(ys))
	}
	return f.accumulate(ctx, len(xs), opts, func(q *Quire, i int) error {
		return q.AddProduct(xs[i], ys[i])
	})
}

// Sum returns sum(xs[i]) rounded once.
func (f *Format) Sum(ctx context.Context, xs []Posit, opts DotOptions) (Posit, error) {
	return f.accumulate(ctx, len(xs), opts, func(q *Quire, i int) error {
		return q.Add(xs[i])
	})
}

func (f *Format) accumulate(ctx context.Context, n int, opts DotOptions, term func(q *Quire, i int) error) (Posit, error) {
	w := opts.workers(n)
	quires := make([]*Quire, w)
	per := (n + w - 1) / w
	eg, ctx := errgroup.WithContext(ctx)
	for k := range quires {
		q := f.NewQuire(opts.quireOptions()...)
		quires[k] = q
		from, to := k*per, (k+1)*per
		if to > n {
			to = n
		}
		eg.Go(func() error {
			for i := from; i < to; i++ {
				if (i-from)%chunkSize == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				if err := term(q, i); err != nil {
					return err
				}
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return f.NaR(), err
	}
	res := quires[0]
	for _, q := range quires[1:] {
		if err := res.Merge(q); err != nil {
			return f.NaR(), err
		}
	}
	if opts.Logger != nil {
		opts.Logger.Debug("accumulated", zap.Stringer("format", f), zap.Int("terms", n), zap.Int("workers", w))
	}
	return res.ToPosit(), nil
}
