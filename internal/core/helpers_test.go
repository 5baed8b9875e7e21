package core

import (
	"context"
	"errors"
	"image/color"
)

// recordingCanvas counts draw calls and remembers whether it was disposed.
type recordingCanvas struct {
	size     Size
	clears   int
	draws    int
	disposed bool
}

func (c *recordingCanvas) Size() Size { return c.size }
func (c *recordingCanvas) Clear(color.Color) { c.clears++ }
func (c *recordingCanvas) FillRect(_, _, _, _ float64, _ color.Color) { c.draws++ }
func (c *recordingCanvas) StrokeRect(_, _, _, _, _ float64, _ color.Color) { c.draws++ }
func (c *recordingCanvas) FillCircle(_, _, _ float64, _ color.Color) { c.draws++ }
func (c *recordingCanvas) StrokeLine(_, _, _, _, _ float64, _ color.Color) { c.draws++ }
func (c *recordingCanvas) Dispose() { c.disposed = true }

type canvasLog struct {
	made []*recordingCanvas
}

func (l *canvasLog) factory(s *Surface) (Canvas, error) {
	c := &recordingCanvas{size: s.Logical()}
	l.made = append(l.made, c)
	return c, nil
}

// recordingEffect records lifecycle calls.
type recordingEffect struct {
	name     string
	steps    int
	paints   int
	layouts  int
	changed  bool
	dark     bool
	disposed int
	initErr  error
	lastF    Frame
	onInit   func(ctx context.Context, h Host) error
	onLayout func(s *Surface)
}

func (p *recordingEffect) Name() string { return p.name }
func (p *recordingEffect) Layout(s *Surface) {
	p.layouts++
	if p.onLayout != nil {
		p.onLayout(s)
	}
}
func (p *recordingEffect) Step(f Frame) bool {
	p.steps++
	p.lastF = f
	return p.changed
}
func (p *recordingEffect) Paint(c Canvas) {
	p.paints++
	c.Clear(color.Black)
}
func (p *recordingEffect) SetDark(dark bool) { p.dark = dark }
func (p *recordingEffect) Init(ctx context.Context, h Host) error {
	if p.onInit != nil {
		if err := p.onInit(ctx, h); err != nil {
			return err
		}
	}
	return p.initErr
}
func (p *recordingEffect) Dispose() error {
	p.disposed++
	return nil
}

var errInit = errors.New("program link failed")

func recordingEntry(key string, p *recordingEffect) Entry {
	return Entry{
		Info:    Info{Key: key, Title: key},
		Factory: func(map[string]string) Effect { return p },
	}
}
