package render

// Renderer is implemented by anything with visual output
type Renderer interface {
	Render(ctx Context, c *Canvas)
}

// VisibilityToggle is optionally implemented for runtime enable/disable
type VisibilityToggle interface {
	IsVisible() bool
}

// Sink receives finished frames, typically the terminal screen
type Sink interface {
	Present(cols, rows int, cells []Cell)
}
