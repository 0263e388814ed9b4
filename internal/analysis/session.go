// Package analysis ties the geometric core together: it locates the vehicle
// on a recorded path, resamples the path ahead of it and annotates every
// sample with boundary distances.
package analysis

import (
	"context"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"skidpad/internal/common"
	"skidpad/internal/monitoring"
	"skidpad/internal/track"
	"skidpad/internal/trajectory"
)

// Options configure a Session.
type Options struct {
	Count      int               // Samples per query
	Spacing    float64           // Arc-length step between samples (m)
	Boundaries []track.ConeClass // Classes to measure against, in output order

	// ApproachPoints, when >= 2, prepends a straight connector from the
	// vehicle to the path before sampling. 0 disables it.
	ApproachPoints int
	// SmoothStep, when > 0, respaces the path with a cubic spline once at
	// session construction.
	SmoothStep float64
}

// DefaultOptions matches config.Default: 40 samples every 0.2 m against the
// blue and yellow boundaries, with no smoothing and no approach connector.
func DefaultOptions() Options {
	return Options{
		Count:      40,
		Spacing:    0.2,
		Boundaries: []track.ConeClass{track.ClassLeftBoundary, track.ClassRightBoundary},
	}
}

func (o Options) validate() error {
	if o.Count < 1 {
		return fmt.Errorf("sample count %d must be at least 1: %w", o.Count, common.ErrInvalidParameter)
	}
	if math.IsNaN(o.Spacing) || math.IsInf(o.Spacing, 0) || o.Spacing <= 0 {
		return fmt.Errorf("sample spacing %v must be positive: %w", o.Spacing, common.ErrInvalidParameter)
	}
	for _, c := range o.Boundaries {
		if !c.Valid() {
			return fmt.Errorf("boundary class %d: %w", c, common.ErrInvalidParameter)
		}
	}
	if o.ApproachPoints == 1 || o.ApproachPoints < 0 {
		return fmt.Errorf("approach points %d must be 0 or at least 2: %w", o.ApproachPoints, common.ErrInvalidParameter)
	}
	if math.IsNaN(o.SmoothStep) || math.IsInf(o.SmoothStep, 0) || o.SmoothStep < 0 {
		return fmt.Errorf("smoothing step %v must be non-negative: %w", o.SmoothStep, common.ErrInvalidParameter)
	}
	return nil
}

// BoundaryDistance is the distance from a sample to the nearest cone of one
// class. Known is false when the cone set holds no cone of that class.
type BoundaryDistance struct {
	Class    track.ConeClass
	Distance float64
	Known    bool
}

// SamplePoint is a resampled path point with its boundary distances, one per
// configured class in Options order.
type SamplePoint struct {
	trajectory.Sample
	Boundaries []BoundaryDistance
}

// Result is the outcome of one query.
type Result struct {
	Vehicle    common.Vec2
	StartIndex int // Closest index on the session path, even with an approach connector
	Samples    []SamplePoint
}

// Session holds a read-only path and cone set. It is safe for concurrent use.
type Session struct {
	path  *trajectory.Path
	cones *track.ConeSet
	opts  Options
}

// NewSession validates opts and prepares the path. cones may be nil, in which
// case every boundary distance is unknown.
func NewSession(path *trajectory.Path, cones *track.ConeSet, opts Options) (*Session, error) {
	if path == nil {
		return nil, fmt.Errorf("nil path: %w", common.ErrInvalidArgument)
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}
	opts.Boundaries = append([]track.ConeClass(nil), opts.Boundaries...)

	if opts.SmoothStep > 0 {
		smoothed, err := trajectory.Smooth(path, opts.SmoothStep)
		if err != nil {
			return nil, err
		}
		monitoring.Logf("analysis: smoothed path from %d to %d points (step %.3f m)", path.Len(), smoothed.Len(), opts.SmoothStep)
		path = smoothed
	}

	return &Session{path: path, cones: cones, opts: opts}, nil
}

// Path returns the path the session samples (smoothed when enabled).
func (s *Session) Path() *trajectory.Path { return s.path }

// Cones returns the session's cone set.
func (s *Session) Cones() *track.ConeSet { return s.cones }

// Options returns a copy of the session options.
func (s *Session) Options() Options {
	o := s.opts
	o.Boundaries = append([]track.ConeClass(nil), o.Boundaries...)
	return o
}

// Analyze samples the path ahead of the vehicle position pos.
func (s *Session) Analyze(pos common.Vec2) (*Result, error) {
	if !pos.IsFinite() {
		return nil, fmt.Errorf("vehicle position %v is not finite: %w", pos, common.ErrInvalidArgument)
	}

	// 1. Locate the vehicle on the session path.
	start := s.path.Closest(pos)

	// 2. Sample ahead of it, through the connector when one is configured.
	path, from := s.path, start
	if s.opts.ApproachPoints > 0 {
		var err error
		path, err = trajectory.WithApproach(s.path, pos, s.opts.ApproachPoints)
		if err != nil {
			return nil, err
		}
		from = 0
	}
	samples, err := path.Resample(from, s.opts.Count, s.opts.Spacing)
	if err != nil {
		return nil, err
	}
	if len(samples) < s.opts.Count {
		monitoring.Logf("analysis: path ends after %d of %d samples from index %d", len(samples), s.opts.Count, start)
	}

	// 3. Annotate with boundary distances.
	out := make([]SamplePoint, len(samples))
	for i, smp := range samples {
		out[i] = SamplePoint{Sample: smp, Boundaries: s.boundaries(smp.Position)}
	}

	return &Result{Vehicle: pos, StartIndex: start, Samples: out}, nil
}

func (s *Session) boundaries(pos common.Vec2) []BoundaryDistance {
	if len(s.opts.Boundaries) == 0 {
		return nil
	}
	out := make([]BoundaryDistance, len(s.opts.Boundaries))
	for i, class := range s.opts.Boundaries {
		d, ok := s.cones.NearestDistance(pos, class)
		out[i] = BoundaryDistance{Class: class, Distance: d, Known: ok}
	}
	return out
}

// AnalyzeBatch runs Analyze for every position with at most limit queries in
// flight (limit <= 0 means unbounded). Results keep the order of positions.
// The first failure cancels the remaining queries.
func (s *Session) AnalyzeBatch(ctx context.Context, positions []common.Vec2, limit int) ([]*Result, error) {
	results := make([]*Result, len(positions))

	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, pos := range positions {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := s.Analyze(pos)
			if err != nil {
				return fmt.Errorf("position %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
