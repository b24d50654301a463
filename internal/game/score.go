package game

import (
	"tireroll/internal/engine"
	"tireroll/internal/tire"
)

const (
	ObjectHitPoints = 100
	GroundHitPoints = 10

	// Object hits closer together than ComboWindow seconds build a multiplier.
	ComboWindow = 1.5
	MaxCombo    = 8

	// Above SpeedBonusThreshold the current tire earns SpeedBonusRate points
	// per second for every unit of extra speed.
	SpeedBonusThreshold = 12
	SpeedBonusRate      = 2
)

// ScoreEvent is published for every scoring impact.
type ScoreEvent struct {
	Points float64
	Combo  int
	Ground bool
}

// Scoreboard turns accepted impacts into points. It is the session's
// tire.ImpactListener.
type Scoreboard struct {
	Score      float64
	Combo      int
	BestCombo  int
	Hits       int
	ObjectHits int
	TopSpeed   float32

	OnScore engine.EventWithArg[ScoreEvent]

	lastObjectHit float64
}

func NewScoreboard() *Scoreboard {
	return &Scoreboard{}
}

func (s *Scoreboard) OnImpact(im tire.Impact) {
	s.Hits++
	if im.Speed > s.TopSpeed {
		s.TopSpeed = im.Speed
	}

	if im.Ground {
		pts := GroundHitPoints * float64(im.Intensity)
		s.Score += pts
		s.OnScore.Invoke(ScoreEvent{Points: pts, Combo: s.Combo, Ground: true})
		return
	}

	if s.ObjectHits > 0 && im.Time-s.lastObjectHit <= ComboWindow {
		s.Combo++
		if s.Combo > MaxCombo {
			s.Combo = MaxCombo
		}
	} else {
		s.Combo = 1
	}
	if s.Combo > s.BestCombo {
		s.BestCombo = s.Combo
	}
	s.ObjectHits++
	s.lastObjectHit = im.Time

	pts := ObjectHitPoints * float64(im.Intensity) * float64(s.Combo)
	s.Score += pts
	s.OnScore.Invoke(ScoreEvent{Points: pts, Combo: s.Combo})
}

// AddSpeedBonus accrues the speed bonus for one frame.
func (s *Scoreboard) AddSpeedBonus(speed, deltaTime float32) {
	if speed > s.TopSpeed {
		s.TopSpeed = speed
	}
	if speed <= SpeedBonusThreshold {
		return
	}
	s.Score += float64((speed - SpeedBonusThreshold) * SpeedBonusRate * deltaTime)
}

// ComboActive reports whether another object hit at now would extend the combo.
func (s *Scoreboard) ComboActive(now float64) bool {
	return s.ObjectHits > 0 && now-s.lastObjectHit <= ComboWindow
}

func (s *Scoreboard) Reset() {
	s.Score = 0
	s.Combo = 0
	s.BestCombo = 0
	s.Hits = 0
	s.ObjectHits = 0
	s.TopSpeed = 0
	s.lastObjectHit = 0
}
