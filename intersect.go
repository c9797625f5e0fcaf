package sailship

import (
	"math"
	"sort"
	"time"

	kitlog "github.com/go-kit/kit/log"
)

const (
	// maxIntersectionEvents caps the result list of one detection call.
	maxIntersectionEvents = 20
	// absoluteEncounterDist is the closest-approach threshold in km for
	// bodies without a defined SOI.
	absoluteEncounterDist = 1e6
)

// Reliability tags how trustworthy an encounter prediction is.
type Reliability uint8

const (
	// Full marks events from a trajectory that covered its whole duration.
	Full Reliability = iota + 1
	// Partial marks events from a truncated trajectory.
	Partial
)

func (r Reliability) String() string {
	switch r {
	case Full:
		return "FULL"
	case Partial:
		return "PARTIAL"
	}
	panic("cannot stringify unknown reliability")
}

// IntersectionEvent is a predicted close approach between the trajectory and
// a moving body. Read only downstream.
type IntersectionEvent struct {
	Body        CelestialObject
	DT          time.Time
	BodyR       []float64
	TrajectoryR []float64
	Distance    float64 // km
	Reliability Reliability
}

// DetectIntersections finds closest-approach events between a predicted
// trajectory and the given bodies. Only events at or after refDT are kept:
// filtering against an explicit reference time is what keeps sandbox
// timelines from reporting ghost encounters that already happened. When
// activeSOIBody is non empty only that body is considered, since trajectory
// points near an SOI body are only frame consistent with that body.
func DetectIntersections(traj []TrajectoryPoint, bodies []CelestialObject, refDT time.Time, activeSOIBody string, logger kitlog.Logger) []IntersectionEvent {
	if logger == nil {
		logger = kitlog.NewNopLogger()
	}
	logger = kitlog.With(logger, "subsys", "intersect")
	if len(traj) < 2 {
		return nil
	}
	reliability := Full
	if traj[len(traj)-1].Truncated != TruncNone {
		reliability = Partial
	}

	// Precompute every body position at every sample time once, instead of
	// twice per segment.
	candidates := make([]CelestialObject, 0, len(bodies))
	for _, b := range bodies {
		if b.Name == "Sun" {
			continue
		}
		if activeSOIBody != "" && b.Name != activeSOIBody {
			continue
		}
		candidates = append(candidates, b)
	}
	positions := make([][][]float64, len(candidates))
	for bi := range candidates {
		positions[bi] = make([][]float64, len(traj))
		helio := candidates[bi].HelioOrbit(traj[0].DT)
		for pi, pt := range traj {
			positions[bi][pi] = helio.RAt(pt.DT)
		}
	}

	var events []IntersectionEvent
	for bi, body := range candidates {
		threshold := absoluteEncounterDist
		if body.SOI > 0 {
			threshold = 2 * body.SOI
		}
		// Keep one event per under-threshold run: the local minimum.
		var best *IntersectionEvent
		for si := 0; si < len(traj)-1; si++ {
			p1, p2 := traj[si], traj[si+1]
			b1, b2 := positions[bi][si], positions[bi][si+1]
			// Both the segment and the body's interpolated motion are
			// parameterized by s in [0,1]; minimize |W + s·V|².
			W := sub(p1.R, b1)
			V := sub(sub(p2.R, p1.R), sub(b2, b1))
			vv := dot(V, V)
			s := 0.0
			if vv > 1e-12 {
				s = clamp(-dot(W, V)/vv, 0, 1)
			}
			sep := norm(add(W, scale(s, V)))
			if math.IsNaN(sep) || math.IsInf(sep, 0) {
				logger.Log("level", "warning", "body", body.Name, "segment", si, "skipped", "non finite separation")
				continue
			}
			if sep >= threshold {
				if best != nil {
					events = append(events, *best)
					best = nil
				}
				continue
			}
			dt := p1.DT.Add(time.Duration(s * float64(p2.DT.Sub(p1.DT))))
			if dt.Before(refDT) {
				continue
			}
			if best == nil || sep < best.Distance {
				best = &IntersectionEvent{
					Body:        body,
					DT:          dt,
					BodyR:       add(b1, scale(s, sub(b2, b1))),
					TrajectoryR: add(p1.R, scale(s, sub(p2.R, p1.R))),
					Distance:    sep,
					Reliability: reliability,
				}
			}
		}
		if best != nil {
			events = append(events, *best)
		}
	}

	sort.Slice(events, func(i, j int) bool { return events[i].DT.Before(events[j].DT) })
	if len(events) > maxIntersectionEvents {
		events = events[:maxIntersectionEvents]
	}
	return events
}
