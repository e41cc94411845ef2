package render

// Cell is one terminal character cell
type Cell struct {
	Rune rune
	Fg   RGB
	Bg   RGB
	Bold bool
}

// RgbBackground is the deep-space color used for cells no renderer touched
var RgbBackground = RGB{2, 0, 16}
