package sailship

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/soniakeys/meeus/julian"
)

// ExportConfig configures the exporting of a propagation or prediction.
type ExportConfig struct {
	Filename  string
	AsCSV     bool
	Timestamp bool
}

// IsUseless returns whether this config doesn't actually do anything.
func (c ExportConfig) IsUseless() bool {
	return !c.AsCSV || c.Filename == ""
}

func (c ExportConfig) path() string {
	name := c.Filename
	if c.Timestamp {
		name += time.Now().UTC().Format("-2006-01-02-150405")
	}
	return fmt.Sprintf("%s/%s.csv", sailConfig().outputDir, name)
}

// StreamCruise streams cruise states to a CSV file as they are produced.
// Used as a goroutine by Cruise; drains the channel fully.
func StreamCruise(conf ExportConfig, stateChan <-chan CruiseState) {
	if conf.IsUseless() {
		for range stateChan {
		}
		return
	}
	f, err := os.Create(conf.path())
	if err != nil {
		panic(err)
	}
	defer f.Close()
	w := csv.NewWriter(f)
	defer w.Flush()
	w.Write([]string{"jd", "utc", "origin", "a(km)", "e", "i(deg)", "RAAN(deg)", "argPeri(deg)", "M0(rad)"})
	for state := range stateChan {
		a, e, i, Ω, ω, M0, _ := state.Orbit.Elements()
		w.Write([]string{
			strconv.FormatFloat(julian.TimeToJD(state.DT), 'f', 6, 64),
			state.DT.UTC().Format("2006-01-02 15:04:05"),
			state.Orbit.Origin.Name,
			strconv.FormatFloat(a, 'f', 3, 64),
			strconv.FormatFloat(e, 'f', 6, 64),
			strconv.FormatFloat(Rad2deg(i), 'f', 3, 64),
			strconv.FormatFloat(Rad2deg(Ω), 'f', 3, 64),
			strconv.FormatFloat(Rad2deg(ω), 'f', 3, 64),
			strconv.FormatFloat(M0, 'f', 6, 64),
		})
	}
}

// WriteTrajectoryCSV writes a predicted trajectory as CSV with Julian date
// timestamps, one point per row.
func WriteTrajectoryCSV(w io.Writer, traj []TrajectoryPoint) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()
	if err := cw.Write([]string{"jd", "x(km)", "y(km)", "z(km)", "frame", "soi", "truncated"}); err != nil {
		return err
	}
	for _, pt := range traj {
		if err := cw.Write([]string{
			strconv.FormatFloat(julian.TimeToJD(pt.DT), 'f', 6, 64),
			strconv.FormatFloat(pt.R[0], 'f', 3, 64),
			strconv.FormatFloat(pt.R[1], 'f', 3, 64),
			strconv.FormatFloat(pt.R[2], 'f', 3, 64),
			pt.Frame.String(),
			pt.SOIBody,
			string(pt.Truncated),
		}); err != nil {
			return err
		}
	}
	return nil
}

// WriteEventsCSV writes intersection events as CSV.
func WriteEventsCSV(w io.Writer, events []IntersectionEvent) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()
	if err := cw.Write([]string{"jd", "body", "distance(km)", "reliability"}); err != nil {
		return err
	}
	for _, evt := range events {
		if err := cw.Write([]string{
			strconv.FormatFloat(julian.TimeToJD(evt.DT), 'f', 6, 64),
			evt.Body.Name,
			strconv.FormatFloat(evt.Distance, 'f', 1, 64),
			evt.Reliability.String(),
		}); err != nil {
			return err
		}
	}
	return nil
}
