package metrics

import (
	"math"

	"github.com/san-kum/polysim/internal/scene"
)

// Energy reports the mean total kinetic energy of the scene over all
// observed ticks.
type Energy struct {
	name        string
	samples     int
	totalEnergy float64
}

func NewEnergy() *Energy {
	return &Energy{name: "energy"}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(s *scene.Scene, t float64) {
	e.totalEnergy += KineticEnergy(s)
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *Energy) Reset() {
	e.totalEnergy = 0
	e.samples = 0
}

// EnergyDrift tracks the largest relative deviation of kinetic plus uniform
// gravitational potential energy from its first observed value. Set
// gravity to zero for scenes without a uniform field.
type EnergyDrift struct {
	name          string
	gravity       float64
	initialEnergy float64
	currentEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift(gravity float64) *EnergyDrift {
	return &EnergyDrift{
		name:    "energy_drift",
		gravity: gravity,
	}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(s *scene.Scene, t float64) {
	energy := KineticEnergy(s) + PotentialEnergy(s, e.gravity)

	if e.samples == 0 {
		e.initialEnergy = energy
	}

	e.currentEnergy = energy
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.currentEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}

func KineticEnergy(s *scene.Scene) float64 {
	total := 0.0
	for _, b := range s.Bodies() {
		total += b.KineticEnergy()
	}
	return total
}

// PotentialEnergy is the energy of every movable body in a uniform field
// of strength g pulling toward negative y.
func PotentialEnergy(s *scene.Scene, g float64) float64 {
	total := 0.0
	for _, b := range s.Bodies() {
		if b.IsImmovable() {
			continue
		}
		total += b.Mass() * g * b.Centroid().Y
	}
	return total
}
