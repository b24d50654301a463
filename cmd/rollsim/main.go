// Headless run of the default course: launches a batch of tires without a
// window and reports scoring and solver load.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"time"

	"tireroll/internal/config"
	"tireroll/internal/game"
	"tireroll/internal/tire"
	"tireroll/internal/world"
)

func main() {
	frames := flag.Int("frames", 1800, "frames to simulate at 60 Hz")
	tires := flag.Int("tires", 10, "tires to launch")
	every := flag.Int("every", 60, "frames between launches")
	typeName := flag.String("type", "standard", "tire type")
	seed := flag.Int64("seed", 42, "random seed for aim and effects")
	configPath := flag.String("config", "", "path to a JSON config file")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			log.Fatalf("config: %v", err)
		}
	}
	cfg.Seed = *seed
	if _, err := tire.ParseType(*typeName); err != nil {
		log.Fatalf("type: %v", err)
	}
	cfg.Tire = *typeName

	s, err := game.NewSession(cfg, world.DefaultLevel(), true)
	if err != nil {
		log.Fatalf("session: %v", err)
	}
	defer s.Close()

	rng := rand.New(rand.NewSource(*seed))
	const dt = float32(1.0 / 60.0)
	launched := 0
	peakBodies, peakContacts := 0, 0

	start := time.Now()
	for f := 0; f < *frames; f++ {
		var in game.Input
		if launched < *tires && f%*every == 0 {
			s.Aim = (rng.Float32()*2 - 1) * game.MaxAim / 4
			in.Launch = true
			launched++
		}
		if err := s.Update(dt, in); err != nil {
			log.Printf("frame %d: %v", f, err)
		}
		if n := s.World.Physics.BodyCount(); n > peakBodies {
			peakBodies = n
		}
		if n := s.World.Physics.LastContactCount(); n > peakContacts {
			peakContacts = n
		}
	}
	elapsed := time.Since(start)

	p := s.World.Physics
	fmt.Printf("Simulated %.1fs in %v (%d frames, %.3f ms/frame)\n",
		p.Time(), elapsed.Round(time.Millisecond), *frames, float64(elapsed.Microseconds())/1000/float64(*frames))
	fmt.Printf("Tires:    %d launched, %d live, %d fell\n", launched, len(s.Tires()), s.Fell())
	fmt.Printf("Score:    %.0f (hits %d, object hits %d, best combo x%d, top speed %.1f)\n",
		s.Score.Score, s.Score.Hits, s.Score.ObjectHits, s.Score.BestCombo, s.Score.TopSpeed)
	fmt.Printf("Bodies:   %d now, %d peak, %d dynamic\n", p.BodyCount(), peakBodies, p.DynamicBodyCount())
	fmt.Printf("Contacts: %d peak pairs, %d material pairs\n", peakContacts, p.ContactPairCount())
}
