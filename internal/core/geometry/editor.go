package geometry

import "sync"

// PointerListener receives pointer events while a drag is in progress
type PointerListener struct {
	OnMove func(Point)
	OnUp   func(Point)
}

// PointerSource delivers pointer events. Listen returns the function that deregisters the listener.
type PointerSource interface {
	Listen(l PointerListener) (remove func())
}

// Editor hosts the crop region of one page preview.
// Move and release listeners exist only while a drag is active.
type Editor struct {
	source PointerSource

	mu       sync.Mutex
	page     Size
	min      Size
	region   Rect
	session  *DragSession
	remove   func()
	onChange func(Rect)
}

// NewEditor creates an editor whose region starts at initial, clamped to the page
func NewEditor(source PointerSource, page, min Size, initial Rect) *Editor {
	return &Editor{
		source: source,
		page:   page,
		min:    min,
		region: Clamp(initial, page, min),
	}
}

// OnChange registers fn to be called with every new region
func (e *Editor) OnChange(fn func(Rect)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onChange = fn
}

// Region returns the current crop region
func (e *Editor) Region() Rect {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.region
}

// SetPage changes the page size and re-clamps the region to it
func (e *Editor) SetPage(page Size) {
	e.mu.Lock()
	e.page = page
	e.region = Clamp(e.region, e.page, e.min)
	region, fn := e.region, e.onChange
	e.mu.Unlock()
	if fn != nil {
		fn(region)
	}
}

// Dragging reports whether a drag session is active
func (e *Editor) Dragging() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session != nil
}

// Begin starts a drag at p. A session still open is ended first.
func (e *Editor) Begin(mode DragMode, p Point) {
	e.End()

	e.mu.Lock()
	e.session = NewDragSession(mode, p, e.region)
	e.mu.Unlock()

	remove := e.source.Listen(PointerListener{
		OnMove: e.move,
		OnUp:   e.release,
	})

	e.mu.Lock()
	e.remove = remove
	e.mu.Unlock()
}

// End discards the drag session and deregisters its listeners.
func (e *Editor) End() {
	e.mu.Lock()
	remove := e.remove
	e.remove = nil
	e.session = nil
	e.mu.Unlock()

	if remove != nil {
		remove()
	}
}

// Close tears the editor down. It is safe to call at any time, including mid-drag.
func (e *Editor) Close() {
	e.End()
}

func (e *Editor) move(p Point) {
	e.mu.Lock()
	if e.session == nil {
		e.mu.Unlock()
		return
	}
	e.region = Clamp(e.session.Move(p), e.page, e.min)
	region, fn := e.region, e.onChange
	e.mu.Unlock()

	if fn != nil {
		fn(region)
	}
}

func (e *Editor) release(p Point) {
	e.move(p)
	e.End()
}

// Bus is an in-process PointerSource that fans events out to its listeners.
type Bus struct {
	mu        sync.Mutex
	next      int
	listeners map[int]PointerListener
}

// NewBus creates an empty Bus
func NewBus() *Bus {
	return &Bus{listeners: make(map[int]PointerListener)}
}

// Listen registers l until the returned function is called
func (b *Bus) Listen(l PointerListener) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.next
	b.next++
	b.listeners[id] = l
	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.listeners, id)
		})
	}
}

// Move dispatches a pointer move
func (b *Bus) Move(p Point) {
	for _, l := range b.snapshot() {
		if l.OnMove != nil {
			l.OnMove(p)
		}
	}
}

// Up dispatches a pointer release
func (b *Bus) Up(p Point) {
	for _, l := range b.snapshot() {
		if l.OnUp != nil {
			l.OnUp(p)
		}
	}
}

// Len returns the number of registered listeners
func (b *Bus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.listeners)
}

func (b *Bus) snapshot() []PointerListener {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]PointerListener, 0, len(b.listeners))
	for _, l := range b.listeners {
		out = append(out, l)
	}
	return out
}
