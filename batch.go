// SPDX-License-Identifier: EPL-2.0

package sndkit

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/ik5/sndkit/header"
)

// DescribeMany describes paths concurrently through c, using up to
// runtime.NumCPU() goroutines. Results are in input order. The first
// failure cancels the rest and is returned.
func (c *Cache) DescribeMany(ctx context.Context, paths ...string) ([]*header.Descriptor, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	results := make([]*header.Descriptor, len(paths))
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			d, err := c.Describe(path)
			if err != nil {
				return err
			}
			results[i] = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// DescribeMany describes paths through the default cache.
func DescribeMany(ctx context.Context, paths ...string) ([]*header.Descriptor, error) {
	return defaultCache.DescribeMany(ctx, paths...)
}
