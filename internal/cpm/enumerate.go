package cpm

import (
	"strings"

	"go.uber.org/zap"

	"github.com/joshharrison/pathloom/internal/network"
	"github.com/joshharrison/pathloom/internal/schederr"
)

// Limits bounds path enumeration. Zero disables a ceiling.
type Limits struct {
	MaxPaths int // retained Start-to-End paths
	MaxSteps int // partial paths taken off the work queue
}

// DefaultLimits returns the ceilings used when no option overrides them.
func DefaultLimits() Limits {
	return Limits{MaxPaths: 100000, MaxSteps: 5000000}
}

type options struct {
	limits Limits
	logger *zap.Logger
}

// Option configures enumeration and scheduling.
type Option func(*options)

// WithLimits overrides the enumeration ceilings.
func WithLimits(l Limits) Option {
	return func(o *options) { o.limits = l }
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{limits: DefaultLimits(), logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Enumerate returns every simple path from n.Start to n.End.
//
// Partial paths live on a FIFO work queue seeded with one single-edge path
// per edge leaving Start. Each popped path is extended by every successor
// of its last name; paths that reach End are retained, dead ends are
// dropped. A successor already on the path means the walk closed a cycle,
// reported as ErrCycle; so is a cycle reachable past End, checked the first
// time a path arrives there. Exceeding Limits yields ErrCapacity.
//
// A network without both extremes enumerates to an empty result.
func Enumerate(n *network.Network, opts ...Option) ([]Path, error) {
	o := buildOptions(opts)
	if !n.Complete() {
		return nil, nil
	}

	var queue []Path
	for _, next := range n.Precedence.Successors(n.Start) {
		if next == n.Start {
			return nil, schederr.Cycle([]string{n.Start, n.Start})
		}
		queue = append(queue, Path{n.Start, next})
	}

	var complete []Path
	endChecked := false
	steps := 0
	for len(queue) > 0 {
		// Pop front
		p := queue[0]
		queue = queue[1:]

		steps++
		if o.limits.MaxSteps > 0 && steps > o.limits.MaxSteps {
			return nil, schederr.Capacityf("path enumeration exceeded %d steps (%d paths found, %d queued)",
				o.limits.MaxSteps, len(complete), len(queue)+1)
		}

		last := p[len(p)-1]
		if last == n.End {
			if !endChecked {
				if cycle := n.CycleFrom(n.End); cycle != nil {
					return nil, schederr.Cycle(cycle)
				}
				endChecked = true
			}
			complete = append(complete, p)
			if o.limits.MaxPaths > 0 && len(complete) > o.limits.MaxPaths {
				return nil, schederr.Capacityf("network has more than %d paths from %s to %s",
					o.limits.MaxPaths, n.Start, n.End)
			}
			continue
		}

		for _, next := range n.Precedence.Successors(last) {
			if at := indexOf(p, next); at >= 0 {
				segment := append(append([]string{}, p[at:]...), next)
				return nil, schederr.Cycle(segment)
			}
			child := make(Path, len(p)+1)
			copy(child, p)
			child[len(p)] = next
			queue = append(queue, child)
		}
	}

	paths := dedupe(complete)
	o.logger.Debug("enumerated paths",
		zap.String("start", n.Start),
		zap.String("end", n.End),
		zap.Int("steps", steps),
		zap.Int("paths", len(paths)),
		zap.Int("duplicates", len(complete)-len(paths)))
	return paths, nil
}

func indexOf(p Path, name string) int {
	for i, n := range p {
		if n == name {
			return i
		}
	}
	return -1
}

// dedupe drops every path that repeats an earlier one element for element.
// Paths are bucketed by their joined names and confirmed with Equal, so a
// name containing the separator cannot merge two different paths.
func dedupe(paths []Path) []Path {
	buckets := make(map[string][]int, len(paths))
	out := make([]Path, 0, len(paths))
	for _, p := range paths {
		key := strings.Join(p, "\x00")
		dup := false
		for _, i := range buckets[key] {
			if out[i].Equal(p) {
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		buckets[key] = append(buckets[key], len(out))
		out = append(out, p)
	}
	return out
}
