package sailship

import (
	"errors"
	"time"

	kitlog "github.com/go-kit/kit/log"
)

// TruncationReason explains why a predicted trajectory stopped early. An
// empty reason on the final point means the full duration was covered.
type TruncationReason string

const (
	// TruncNone marks a regular point.
	TruncNone TruncationReason = ""
	// TruncEccentricInstability marks a non-finite state during prediction.
	TruncEccentricInstability TruncationReason = "ECCENTRIC_INSTABILITY"
	// TruncSunCollision marks a drop below the minimum solar distance.
	TruncSunCollision TruncationReason = "SUN_COLLISION"
	// TruncEscaped marks a runaway beyond the maximum solar distance.
	TruncEscaped TruncationReason = "ESCAPED"
	// TruncCollision marks the SOI collision guard firing.
	TruncCollision TruncationReason = "BODY_COLLISION"
	// TruncDeadline marks the caller's time budget running out.
	TruncDeadline TruncationReason = "DEADLINE"
)

// TrajectoryPoint is one sample of a predicted trajectory. Points are always
// expressed in the heliocentric frame regardless of the internal propagation
// frame, and are immutable once produced.
type TrajectoryPoint struct {
	R         []float64
	DT        time.Time
	Frame     Frame // frame the ship was propagated in at this sample
	SOIBody   string
	Truncated TruncationReason
}

// PredictConfig bounds a prediction run.
type PredictConfig struct {
	Duration time.Duration
	Steps    int
	// Deadline is the wall-clock cutoff checked once per step; the zero
	// value disables it. This is the only cooperative cancellation point:
	// the predictor has no internal timers.
	Deadline time.Time
}

// Predictor samples the propagator to build trajectory polylines. It is a
// pure function of its inputs; memoization belongs to PredictionCache.
type Predictor struct {
	prop       *Propagator
	soi        *SOIManager
	minSunDist float64
	maxSunDist float64
	logger     kitlog.Logger
}

// NewPredictor returns a predictor over the given propagator and SOI manager.
// Abort bounds come from the package configuration.
func NewPredictor(prop *Propagator, soi *SOIManager, logger kitlog.Logger) *Predictor {
	if logger == nil {
		logger = kitlog.NewNopLogger()
	}
	return &Predictor{
		prop:       prop,
		soi:        soi,
		minSunDist: sailConfig().minSunDist,
		maxSunDist: sailConfig().maxSunDist,
		logger:     kitlog.With(logger, "subsys", "predict"),
	}
}

// Predict propagates the ship forward and returns its future positions in
// strictly increasing time order. Any abort condition truncates the output
// and tags the final point with the reason rather than continuing with
// garbage data; a partial polyline is still a valid polyline.
func (p *Predictor) Predict(ship Ship, cfg PredictConfig) ([]TrajectoryPoint, error) {
	if cfg.Steps <= 0 {
		return nil, errors.New("step count must be strictly positive")
	}
	if cfg.Duration <= 0 {
		return nil, errors.New("duration must be strictly positive")
	}
	step := cfg.Duration / time.Duration(cfg.Steps)
	points := make([]TrajectoryPoint, 0, cfg.Steps+1)
	points = append(points, p.samplePoint(ship, ship.Orbit.Epoch))

	for i := 0; i < cfg.Steps; i++ {
		if !cfg.Deadline.IsZero() && time.Now().After(cfg.Deadline) {
			p.truncate(points, TruncDeadline)
			return points, nil
		}
		next, collision, err := p.prop.AdvanceShip(ship, p.soi, step)
		if err != nil {
			p.truncate(points, TruncEccentricInstability)
			p.logger.Log("level", "warning", "truncated", TruncEccentricInstability, "err", err)
			return points, nil
		}
		ship = next
		pt := p.samplePoint(ship, ship.Orbit.Epoch)
		if !finite(pt.R) {
			p.truncate(points, TruncEccentricInstability)
			return points, nil
		}
		points = append(points, pt)
		if collision != nil {
			p.truncate(points, TruncCollision)
			return points, nil
		}
		if r := norm(pt.R); r < p.minSunDist {
			p.truncate(points, TruncSunCollision)
			return points, nil
		} else if r > p.maxSunDist {
			p.truncate(points, TruncEscaped)
			return points, nil
		}
	}
	return points, nil
}

// samplePoint converts the ship state at dt into a heliocentric trajectory
// point, whatever frame the elements live in.
func (p *Predictor) samplePoint(ship Ship, dt time.Time) TrajectoryPoint {
	R := ship.Orbit.RAt(dt)
	if ship.Orbit.Origin.Name != "Sun" {
		rel := ship.Orbit.Origin.HelioOrbit(dt)
		R = add(R, rel.RAt(dt))
	}
	return TrajectoryPoint{R: R, DT: dt, Frame: ship.SOI.Frame, SOIBody: ship.SOI.Body}
}

// truncate tags the last produced point with the reason.
func (p *Predictor) truncate(points []TrajectoryPoint, reason TruncationReason) {
	if len(points) == 0 {
		return
	}
	points[len(points)-1].Truncated = reason
}
