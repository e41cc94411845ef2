package render

// Priority determines render order. Lower values render first
type Priority int

const (
	PriorityBackground Priority = iota
	PriorityVoid
	PriorityGalaxies
	PriorityMemoryStars
	PriorityShootingStars
	PriorityWish
	PriorityEffects
	PriorityOverlay
	PriorityDetail
)
