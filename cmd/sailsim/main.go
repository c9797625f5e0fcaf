package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	kitlog "github.com/go-kit/kit/log"

	sailship "github.com/MattCam2007/sailship-sub000"
)

var (
	durationDays = flag.Float64("days", 120, "prediction duration in days")
	steps        = flag.Int("steps", 200, "prediction step count")
	yawDeg       = flag.Float64("yaw", 35, "sail in-plane cone angle in degrees")
	pitchDeg     = flag.Float64("pitch", 0, "sail out-of-plane clock angle in degrees")
	outFile      = flag.String("out", "", "CSV file to write the trajectory to (stdout if empty)")
)

func main() {
	flag.Parse()
	logger := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stderr))

	start := time.Now().UTC()
	// Spawn slightly above Earth's heliocentric distance on a near-circular orbit.
	orbit, err := sailship.NewOrbitFromOE(1.05*sailship.AU, 0.02, 1.0, 30, 0, 0, start, sailship.Sun)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid spawn orbit: %s\n", err)
		os.Exit(1)
	}
	ship := sailship.Ship{
		Orbit: *orbit,
		SOI:   sailship.NewSOIState(),
		Sail: sailship.SailState{
			Area:         10000, // 100m x 100m
			Reflectivity: 0.9,
			Deployment:   1,
			Condition:    1,
			Yaw:          sailship.Deg2rad(*yawDeg),
			Pitch:        sailship.Deg2rad(*pitchDeg),
		},
		Mass: 500,
	}

	prop := sailship.NewPropagator(logger)
	soiMgr := sailship.NewSOIManager(logger, sailship.Mercury, sailship.Venus, sailship.Earth, sailship.Mars, sailship.Jupiter)
	predictor := sailship.NewPredictor(prop, soiMgr, logger)

	cfg := sailship.PredictConfig{
		Duration: time.Duration(*durationDays*24) * time.Hour,
		Steps:    *steps,
		Deadline: time.Now().Add(10 * time.Second),
	}
	cache := sailship.NewPredictionCache(8)
	fp := sailship.PredictFingerprint(ship, cfg)
	traj, ok := cache.Get(fp)
	if !ok {
		traj, err = predictor.Predict(ship, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "prediction failed: %s\n", err)
			os.Exit(1)
		}
		cache.Put(fp, traj)
	}

	events := sailship.DetectIntersections(traj, soiMgr.Bodies(), start, ship.SOI.Body, logger)
	for _, evt := range events {
		logger.Log("level", "notice", "encounter", evt.Body.Name, "dt", evt.DT, "distance(km)", fmt.Sprintf("%.0f", evt.Distance), "reliability", evt.Reliability)
	}

	out := os.Stdout
	if *outFile != "" {
		f, err := os.Create(*outFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "cannot create %s: %s\n", *outFile, err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}
	if err := sailship.WriteTrajectoryCSV(out, traj); err != nil {
		fmt.Fprintf(os.Stderr, "export failed: %s\n", err)
		os.Exit(1)
	}
}
