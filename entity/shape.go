package entity

import (
	"github.com/lixenwraith/living-cosmos/render"
	"github.com/lixenwraith/living-cosmos/vmath"
)

// Shape is the closed set of visual variants; dispatch goes through ShapeVisitor so a new
// variant fails to compile until every renderer handles it
type Shape interface {
	Accept(v ShapeVisitor)
	Kind() Kind
}

type ShapeVisitor interface {
	VisitStar(s StarShape)
	VisitGalaxy(s GalaxyShape)
	VisitNebula(s NebulaShape)
	VisitRipple(s RippleShape)
	VisitStreak(s StreakShape)
	VisitSpark(s SparkShape)
	VisitMote(s MoteShape)
	VisitWish(s WishShape)
}

type Kind uint8

const (
	KindStar Kind = iota
	KindGalaxy
	KindNebula
	KindRipple
	KindStreak
	KindSpark
	KindMote
	KindWish
)

var kindNames = [...]string{"star", "galaxy", "nebula", "ripple", "streak", "spark", "mote", "wish"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// StarShape is a memory star placed by depth layer and cluster
type StarShape struct {
	Depth   int // 0 far, 1 mid, 2 near
	Cluster int
}

type GalaxyForm uint8

const (
	Spiral GalaxyForm = iota
	Elliptical
)

func (f GalaxyForm) String() string {
	if f == Spiral {
		return "spiral"
	}
	return "elliptical"
}

type GalaxyShape struct {
	Form GalaxyForm
	Core render.RGB
	Arm1 render.RGB
	Arm2 render.RGB
	Halo render.RGB
}

type NebulaForm uint8

const (
	Cloud NebulaForm = iota
	Pillar
)

func (f NebulaForm) String() string {
	if f == Cloud {
		return "cloud"
	}
	return "pillar"
}

type NebulaShape struct {
	Form   NebulaForm
	Center render.RGB
	Mid    render.RGB
	Edge   render.RGB
}

// RippleShape is an expanding ring; Radius grows until MaxRadius
type RippleShape struct {
	MaxRadius float64
	Filled    bool // radial gradient instead of a ring
}

// StreakShape is a shooting star traversing from Pos along Angle
type StreakShape struct {
	Angle  float64
	Trail  float64
	Glow   render.RGB
	Travel float64 // total path length in pixels
	Flight float64 // frame units from launch to the end of the path
}

// SparkShape is a firework particle under gravity
type SparkShape struct {
	Gravity float64
	Fade    float64 // opacity lost per frame unit
}

// MoteShape is intro dust. A travelling mote moves from Anchor to To, Speed being the
// share of the path covered per frame unit
type MoteShape struct {
	To     vmath.Vec2
	Speed  float64
	Depth  float64 // 0.1 far, 1 near
	Travel bool
}

// WishShape is the message star crossing the lower sky
type WishShape struct {
	FromX   float64
	ToX     float64
	Horizon float64
	Spin    float64 // radians over the whole crossing
}

func (s StarShape) Accept(v ShapeVisitor)   { v.VisitStar(s) }
func (s GalaxyShape) Accept(v ShapeVisitor) { v.VisitGalaxy(s) }
func (s NebulaShape) Accept(v ShapeVisitor) { v.VisitNebula(s) }
func (s RippleShape) Accept(v ShapeVisitor) { v.VisitRipple(s) }
func (s StreakShape) Accept(v ShapeVisitor) { v.VisitStreak(s) }
func (s SparkShape) Accept(v ShapeVisitor)  { v.VisitSpark(s) }
func (s MoteShape) Accept(v ShapeVisitor)   { v.VisitMote(s) }
func (s WishShape) Accept(v ShapeVisitor)   { v.VisitWish(s) }

func (StarShape) Kind() Kind   { return KindStar }
func (GalaxyShape) Kind() Kind { return KindGalaxy }
func (NebulaShape) Kind() Kind { return KindNebula }
func (RippleShape) Kind() Kind { return KindRipple }
func (StreakShape) Kind() Kind { return KindStreak }
func (SparkShape) Kind() Kind  { return KindSpark }
func (MoteShape) Kind() Kind   { return KindMote }
func (WishShape) Kind() Kind   { return KindWish }
