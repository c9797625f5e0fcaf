package sailship

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestWriteTrajectoryCSV(t *testing.T) {
	traj := []TrajectoryPoint{
		{R: []float64{AU, 0, 0}, DT: testEpoch, Frame: Heliocentric},
		{R: []float64{AU, 1e6, 0}, DT: testEpoch.Add(24 * time.Hour), Frame: Heliocentric, Truncated: TruncEscaped},
	}
	var buf bytes.Buffer
	if err := WriteTrajectoryCSV(&buf, traj); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus two rows, got %d lines", len(lines))
	}
	if lines[0] != "jd,x(km),y(km),z(km),frame,soi,truncated" {
		t.Fatalf("header %q", lines[0])
	}
	if !strings.Contains(lines[1], "149597870.700") {
		t.Fatalf("first row %q", lines[1])
	}
	if !strings.HasSuffix(lines[2], string(TruncEscaped)) {
		t.Fatalf("truncation tag missing from %q", lines[2])
	}
}

func TestWriteEventsCSV(t *testing.T) {
	events := []IntersectionEvent{
		{Body: Mars, DT: testEpoch, Distance: 123456.7, Reliability: Partial},
	}
	var buf bytes.Buffer
	if err := WriteEventsCSV(&buf, events); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "jd,body,distance(km),reliability") {
		t.Fatalf("header missing: %q", out)
	}
	if !strings.Contains(out, "Mars") || !strings.Contains(out, "123456.7") || !strings.Contains(out, "PARTIAL") {
		t.Fatalf("row incomplete: %q", out)
	}
}

func TestExportConfig(t *testing.T) {
	if !(ExportConfig{}).IsUseless() {
		t.Fatal("empty config must be useless")
	}
	if !(ExportConfig{Filename: "traj"}).IsUseless() {
		t.Fatal("non CSV config must be useless")
	}
	if (ExportConfig{Filename: "traj", AsCSV: true}).IsUseless() {
		t.Fatal("named CSV config must be useful")
	}
}
