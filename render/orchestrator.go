package render

type rendererEntry struct {
	renderer Renderer
	priority Priority
	index    int // registration order for stable sort
}

// Orchestrator composites registered renderers back to front into one buffer
type Orchestrator struct {
	sink      Sink
	buffer    *Buffer
	canvas    *Canvas
	renderers []rendererEntry
	regCount  int
}

func NewOrchestrator(sink Sink, vp Viewport) *Orchestrator {
	buf := NewBuffer(vp.Cols, vp.Rows)
	return &Orchestrator{
		sink:      sink,
		buffer:    buf,
		canvas:    NewCanvas(buf, vp),
		renderers: make([]rendererEntry, 0, 8),
	}
}

// Register adds a renderer at the given priority, keeping sorted order via insertion sort
func (o *Orchestrator) Register(r Renderer, priority Priority) {
	entry := rendererEntry{renderer: r, priority: priority, index: o.regCount}
	o.regCount++

	pos := len(o.renderers)
	for i, e := range o.renderers {
		if priority < e.priority || (priority == e.priority && entry.index < e.index) {
			pos = i
			break
		}
	}
	o.renderers = append(o.renderers, rendererEntry{})
	copy(o.renderers[pos+1:], o.renderers[pos:])
	o.renderers[pos] = entry
}

// Unregister removes every entry for r
func (o *Orchestrator) Unregister(r Renderer) {
	kept := o.renderers[:0]
	for _, e := range o.renderers {
		if e.renderer != r {
			kept = append(kept, e)
		}
	}
	clear(o.renderers[len(kept):])
	o.renderers = kept
}

func (o *Orchestrator) Len() int { return len(o.renderers) }

// Resize updates buffer dimensions
func (o *Orchestrator) Resize(vp Viewport) {
	o.buffer.Resize(vp.Cols, vp.Rows)
	o.canvas.VP = vp
}

func (o *Orchestrator) Viewport() Viewport { return o.canvas.VP }

// RenderFrame clears, renders all visible renderers in priority order, then presents
func (o *Orchestrator) RenderFrame(ctx Context) *Buffer {
	o.buffer.Clear()
	ctx.Viewport = o.canvas.VP
	for _, entry := range o.renderers {
		if vt, ok := entry.renderer.(VisibilityToggle); ok && !vt.IsVisible() {
			continue
		}
		entry.renderer.Render(ctx, o.canvas)
	}
	if o.sink != nil {
		o.sink.Present(o.buffer.Width(), o.buffer.Height(), o.buffer.Cells())
	}
	return o.buffer
}
