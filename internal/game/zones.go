package game

import (
	"math"

	"github.com/Garsondee/Block-Sense/internal/engine"

	"github.com/go-gl/mathgl/mgl64"
)

// ZoneKind is the coach's annotation for a painted area.
type ZoneKind uint8

const (
	ZoneUndefended ZoneKind = iota
	ZoneCovered
)

func (k ZoneKind) String() string {
	if k == ZoneCovered {
		return "covered"
	}
	return "undefended"
}

// Opacity is how strongly the zone is drawn.
func (k ZoneKind) Opacity() float64 {
	if k == ZoneCovered {
		return 0.18
	}
	return 0.25
}

const (
	minZoneSize = 0.3
	zoneInset   = 0.2
)

// Zone is an axis-aligned painted rectangle on the ground.
type Zone struct {
	Kind     ZoneKind
	Min, Max mgl64.Vec2
}

// NewZone spans a zone between two drag points. Each side is at least
// minZoneSize and the centre is kept zoneInset inside the court.
func NewZone(start, end mgl64.Vec2, kind ZoneKind) Zone {
	center := start.Add(end).Mul(0.5)
	w := max(minZoneSize, math.Abs(start.X()-end.X()))
	h := max(minZoneSize, math.Abs(start.Y()-end.Y()))
	center = mgl64.Vec2{
		mgl64.Clamp(center.X(), -engine.CourtHalfWidth+zoneInset, engine.CourtHalfWidth-zoneInset),
		mgl64.Clamp(center.Y(), -engine.CourtHalfLen+zoneInset, engine.CourtHalfLen-zoneInset),
	}
	half := mgl64.Vec2{w / 2, h / 2}
	return Zone{Kind: kind, Min: center.Sub(half), Max: center.Add(half)}
}

// Contains reports whether p lies inside the zone.
func (z Zone) Contains(p mgl64.Vec2) bool {
	return p.X() >= z.Min.X() && p.X() <= z.Max.X() && p.Y() >= z.Min.Y() && p.Y() <= z.Max.Y()
}

// Corners returns the zone outline in drawing order.
func (z Zone) Corners() []mgl64.Vec2 {
	return []mgl64.Vec2{z.Min, {z.Max.X(), z.Min.Y()}, z.Max, {z.Min.X(), z.Max.Y()}}
}

// AddZone stores a finished zone.
func (b *Board) AddZone(z Zone) {
	b.Zones = append(b.Zones, z)
}

// ClearZones removes every painted zone.
func (b *Board) ClearZones() {
	b.Zones = nil
}
