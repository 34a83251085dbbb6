package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"orrery-renderer/internal/catalog"
	"orrery-renderer/internal/mathutil"
	"orrery-renderer/internal/script"
	"orrery-renderer/internal/system"
)

func main() {
	catalogFile := flag.String("catalog", "", "Body catalog (default: embedded solar system)")
	scriptFile := flag.String("script", "", "Command script to replay")
	frames := flag.Int("frames", 120, "Frames to simulate")
	every := flag.Int("every", 10, "Print every N frames")
	bodies := flag.String("bodies", "", "Comma-separated body ids (default: all)")
	location := flag.String("location", "", "Activate this location view before the first tick")
	flag.Parse()

	cat, err := catalog.Default()
	if *catalogFile != "" {
		cat, err = catalog.Load(*catalogFile)
	}
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	sys, err := system.New(cat, system.Options{})
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	var sc *script.Script
	if *scriptFile != "" {
		if sc, err = script.Load(*scriptFile); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	}
	player := script.NewPlayer(sc, sys, nil)

	if *location != "" && !sys.View().Activate(*location) {
		fmt.Printf("Error: unknown location %q\n", *location)
		os.Exit(1)
	}

	ids := selectBodies(sys, *bodies)
	fmt.Printf("Bodies: %d, Locations: %d, System radius: %.0f\n",
		len(sys.Bodies()), len(sys.Locations()), sys.SystemRadius())
	if *every < 1 {
		*every = 1
	}

	for f := 0; f <= *frames; f++ {
		if f > 0 {
			if _, err := player.Advance(f); err != nil {
				fmt.Printf("Error: frame %d: %v\n", f, err)
				os.Exit(1)
			}
			sys.TickFrames(1)
		}
		if f%*every != 0 {
			continue
		}

		cam := sys.View().Camera()
		fmt.Printf("\nFrame %d  mode=%s\n", f, sys.View().Mode().Name())
		fmt.Printf("  camera pos=%s target=%s up=%s\n", vec(cam.Position), vec(cam.Target), vec(cam.Up))
		fmt.Printf("  %-10s %9s %9s %9s  %-26s %s\n", "BODY", "ORBIT°", "FRAME°", "SPIN°", "CENTER", "POLE")
		for _, id := range ids {
			b, _ := sys.Body(id)
			center, _ := sys.BodyCenter(id)
			pole, _ := sys.NorthPole(id)
			fmt.Printf("  %-10s %9.3f %9.3f %9.3f  %-26s %s\n", id,
				mathutil.Rad2Deg(b.OrbitAngle()), mathutil.Rad2Deg(b.FrameAngle()),
				mathutil.Rad2Deg(b.SpinAngle()), vec(center), vec(pole))
		}
	}
}

func selectBodies(sys *system.System, list string) []string {
	var ids []string
	if list == "" {
		for _, b := range sys.Bodies() {
			ids = append(ids, b.ID())
		}
		return ids
	}
	for _, id := range strings.Split(list, ",") {
		id = strings.TrimSpace(id)
		if _, ok := sys.Body(id); ok {
			ids = append(ids, id)
		} else {
			fmt.Printf("Warning: unknown body %q\n", id)
		}
	}
	return ids
}

func vec(v mathutil.Vec3) string {
	return fmt.Sprintf("(%.1f, %.1f, %.1f)", v[0], v[1], v[2])
}
