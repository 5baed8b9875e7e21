// Package ui holds the gallery's navigation bar and parameter panel. Layout,
// hit testing and parameter stepping are plain Go; drawing needs the ebiten
// build tag.
package ui

import (
	"fmt"
	"image"
	"math"
	"strconv"

	"canvas-designs/internal/core"
)

const (
	panelPadding   = 12
	lineHeight     = 36
	buttonSize     = 24
	buttonGap      = 6
	headerBaseline = 18
	labelBaseline  = 24
	infoSpacing    = 36
	controlsTop    = panelPadding + headerBaseline + 14
)

// ControlState is one HUD row.
type ControlState struct {
	Control core.ParameterControl
	Value   string

	intValue   int
	floatValue float64
	HasValue   bool

	Top   int
	Minus image.Rectangle
	Plus  image.Rectangle
}

// Controls tracks the adjustable parameters of one effect.
type Controls struct {
	effect      core.Effect
	width       int
	title       string
	snapshot    core.ParameterSnapshot
	rows        []ControlState
	intSetter   core.IntParameterSetter
	floatSetter core.FloatParameterSetter
}

// NewControls builds the rows for effect in a panel width pixels wide.
func NewControls(effect core.Effect, title string, width int) *Controls {
	c := &Controls{effect: effect, width: max(width, 0), title: title}
	if c.title == "" {
		c.title = "Controls"
	}
	if provider, ok := effect.(core.ParameterControlsProvider); ok {
		for _, ctrl := range provider.ParameterControls() {
			c.rows = append(c.rows, ControlState{Control: ctrl, Value: "--"})
		}
		c.layout()
	}
	c.intSetter, _ = effect.(core.IntParameterSetter)
	c.floatSetter, _ = effect.(core.FloatParameterSetter)
	return c
}

// Title returns the panel heading.
func (c *Controls) Title() string { return c.title }

// Rows returns the control rows.
func (c *Controls) Rows() []ControlState { return c.rows }

// Width returns the panel width.
func (c *Controls) Width() int { return c.width }

// Height returns the height needed to show every row.
func (c *Controls) Height() int {
	if len(c.rows) == 0 {
		return controlsTop + infoSpacing
	}
	return controlsTop + len(c.rows)*lineHeight + panelPadding
}

// Summary returns the first group summary of the last snapshot.
func (c *Controls) Summary() string {
	for _, g := range c.snapshot.Groups {
		if g.Summary != "" {
			return fmt.Sprintf("%s: %s", g.Name, g.Summary)
		}
	}
	return ""
}

// Refresh reads the effect's current parameter values.
func (c *Controls) Refresh() {
	provider, ok := c.effect.(core.ParameterProvider)
	if !ok {
		c.snapshot = core.ParameterSnapshot{}
		return
	}
	c.snapshot = provider.Parameters()
	for i := range c.rows {
		row := &c.rows[i]
		param, ok := c.snapshot.Lookup(row.Control.Key)
		row.HasValue = false
		row.Value = "--"
		if !ok {
			continue
		}
		switch row.Control.Type {
		case core.ParamTypeInt:
			v, err := strconv.Atoi(param.Value)
			if err != nil {
				continue
			}
			row.intValue, row.floatValue = v, float64(v)
			row.Value = strconv.Itoa(v)
			row.HasValue = true
		case core.ParamTypeFloat:
			v, err := strconv.ParseFloat(param.Value, 64)
			if err != nil {
				continue
			}
			row.floatValue = v
			row.Value = formatFloat(row.Control, v)
			row.HasValue = true
		}
	}
}

// Click handles a press at panel-local (x, y). It reports whether a
// parameter changed.
func (c *Controls) Click(x, y int) bool {
	pt := image.Pt(x, y)
	for i := range c.rows {
		row := &c.rows[i]
		if !row.HasValue {
			continue
		}
		if pt.In(row.Minus) {
			return c.adjust(row, -1)
		}
		if pt.In(row.Plus) {
			return c.adjust(row, 1)
		}
	}
	return false
}

// CanAdjust reports whether stepping row in direction stays in bounds and
// the effect accepts the parameter type.
func (c *Controls) CanAdjust(row *ControlState, direction int) bool {
	if row == nil || direction == 0 || !row.HasValue {
		return false
	}
	target, ok := c.target(row, direction)
	if !ok {
		return false
	}
	ctrl := row.Control
	if ctrl.HasMin && direction < 0 && target < ctrl.Min-1e-9 {
		return false
	}
	if ctrl.HasMax && direction > 0 && target > ctrl.Max+1e-9 {
		return false
	}
	return true
}

func (c *Controls) target(row *ControlState, direction int) (float64, bool) {
	switch row.Control.Type {
	case core.ParamTypeInt:
		if c.intSetter == nil {
			return 0, false
		}
		step := int(math.Round(row.Control.Step))
		if step <= 0 {
			step = 1
		}
		return float64(row.intValue + direction*step), true
	case core.ParamTypeFloat:
		if c.floatSetter == nil {
			return 0, false
		}
		step := row.Control.Step
		if step <= 0 {
			step = 0.05
		}
		return row.floatValue + float64(direction)*step, true
	}
	return 0, false
}

func (c *Controls) adjust(row *ControlState, direction int) bool {
	target, ok := c.target(row, direction)
	if !ok {
		return false
	}
	target = row.Control.Clamp(target)
	switch row.Control.Type {
	case core.ParamTypeInt:
		v := int(math.Round(target))
		if v == row.intValue || !c.intSetter.SetIntParameter(row.Control.Key, v) {
			return false
		}
		row.intValue, row.floatValue = v, float64(v)
		row.Value = strconv.Itoa(v)
	case core.ParamTypeFloat:
		if math.Abs(target-row.floatValue) < 1e-9 || !c.floatSetter.SetFloatParameter(row.Control.Key, target) {
			return false
		}
		row.floatValue = target
		row.Value = formatFloat(row.Control, target)
	}
	return true
}

func (c *Controls) layout() {
	if c.width <= 0 {
		return
	}
	for i := range c.rows {
		top := controlsTop + i*lineHeight
		y := top + (lineHeight-buttonSize)/2
		plus := image.Rect(c.width-panelPadding-buttonSize, y, c.width-panelPadding, y+buttonSize)
		minus := image.Rect(plus.Min.X-buttonGap-buttonSize, y, plus.Min.X-buttonGap, y+buttonSize)
		c.rows[i].Top = top
		c.rows[i].Minus = minus
		c.rows[i].Plus = plus
	}
}

func formatFloat(ctrl core.ParameterControl, v float64) string {
	step := ctrl.Step
	if step <= 0 {
		step = 0.05
	}
	precision := 1
	switch {
	case step < 0.001:
		precision = 4
	case step < 0.01:
		precision = 3
	case step < 0.1:
		precision = 2
	}
	return strconv.FormatFloat(v, 'f', precision, 64)
}
