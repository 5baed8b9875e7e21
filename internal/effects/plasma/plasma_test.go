package plasma

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"canvas-designs/internal/core"
	"canvas-designs/internal/render"
)

type fakeProgram struct{ released int }

func (p *fakeProgram) Name() string { return "plasma" }
func (p *fakeProgram) Release()     { p.released++ }

type fakeCompiler struct {
	prog *fakeProgram
	err  error
	src  []byte
}

func (c *fakeCompiler) Compile(_ string, src []byte) (core.Program, error) {
	c.src = src
	if c.err != nil {
		return nil, c.err
	}
	return c.prog, nil
}

type shaderCanvas struct {
	*render.RasterCanvas
	calls    int
	uniforms core.Uniforms
	err      error
}

func (c *shaderCanvas) DrawShader(_ core.Program, u core.Uniforms) error {
	c.calls++
	c.uniforms = u
	return c.err
}

func surface(w, h float64) *core.Surface {
	s := core.NewSurface()
	s.Configure(core.Size{W: w, H: h}, 1)
	return s
}

func TestInitCompilesEmbeddedSource(t *testing.T) {
	comp := &fakeCompiler{prog: &fakeProgram{}}
	p := New(DefaultConfig())
	require.NoError(t, p.Init(context.Background(), core.Host{Shaders: comp}))
	assert.True(t, p.GPU())
	assert.Contains(t, string(comp.src), "func Fragment")

	require.NoError(t, p.Dispose())
	require.NoError(t, p.Dispose())
	assert.Equal(t, 1, comp.prog.released)
	assert.False(t, p.GPU())
}

func TestInitCompileErrorFailsMount(t *testing.T) {
	boom := errors.New("syntax error")
	p := New(DefaultConfig())
	err := p.Init(context.Background(), core.Host{Shaders: &fakeCompiler{err: boom}})
	require.ErrorIs(t, err, boom)
	assert.False(t, p.GPU())
}

func TestPaintUsesShaderUniforms(t *testing.T) {
	s := surface(64, 32)
	p := New(DefaultConfig())
	require.NoError(t, p.Init(context.Background(), core.Host{Shaders: &fakeCompiler{prog: &fakeProgram{}}}))
	p.Layout(s)
	for i := 0; i < 10; i++ {
		require.True(t, p.Step(core.Frame{}))
	}
	c := &shaderCanvas{RasterCanvas: render.NewRasterCanvas(s)}
	p.Paint(c)

	require.Equal(t, 1, c.calls)
	assert.InDelta(t, 0.1, c.uniforms["Time"], 1e-6)
	assert.Equal(t, float32(4), c.uniforms["Zoom"])
	assert.Equal(t, []float32{0.4, 0.1, 0.9}, c.uniforms["Color1"])
	assert.Zero(t, c.Image().RGBAAt(10, 10).A, "GPU path leaves the raster untouched")
}

func TestShaderDrawErrorFallsBackToCPU(t *testing.T) {
	s := surface(16, 16)
	prog := &fakeProgram{}
	p := New(DefaultConfig())
	require.NoError(t, p.Init(context.Background(), core.Host{Shaders: &fakeCompiler{prog: prog}}))
	p.Layout(s)
	c := &shaderCanvas{RasterCanvas: render.NewRasterCanvas(s), err: core.ErrShadersUnsupported}
	p.Paint(c)

	assert.Equal(t, 1, prog.released)
	assert.False(t, p.GPU())
	assert.Equal(t, uint8(0xff), c.Image().RGBAAt(4, 4).A)

	p.Paint(c)
	assert.Equal(t, 1, c.calls)
}

func TestCPUPaintMatchesAt(t *testing.T) {
	s := surface(32, 32)
	p := New(DefaultConfig())
	require.NoError(t, p.Init(context.Background(), core.Host{}))
	p.Layout(s)
	c := render.NewRasterCanvas(s)
	p.Paint(c)

	want := p.At(4.0/32, 1-4.0/32)
	got := c.Image().RGBAAt(3, 3)
	assert.InDelta(t, want.R, got.R, 1)
	assert.InDelta(t, want.G, got.G, 1)
	assert.InDelta(t, want.B, got.B, 1)
}

func TestAtIsDeterministicAndIntensityScales(t *testing.T) {
	p := New(DefaultConfig())
	p.Layout(surface(100, 100))
	a := p.At(0.3, 0.7)
	assert.Equal(t, a, p.At(0.3, 0.7))

	p.cfg.Intensity = 0
	assert.Equal(t, uint8(0), p.At(0.3, 0.7).R)
	assert.Equal(t, uint8(0xff), p.At(0.3, 0.7).A)
}

func TestControlsAndFromMap(t *testing.T) {
	cfg := FromMap(map[string]string{"zoom": "6", "palette": "9", "speed": "2"})
	assert.Equal(t, 6.0, cfg.Zoom)
	assert.Equal(t, 0, cfg.Palette, "out of range palette resets")
	assert.Equal(t, 2.0, cfg.Speed)

	p := New(cfg)
	assert.True(t, p.SetIntParameter("palette", 7))
	assert.Equal(t, len(Palettes)-1, p.cfg.Palette)
	assert.True(t, p.SetFloatParameter("zoom", 0))
	assert.Equal(t, 1.0, p.cfg.Zoom)
	assert.False(t, p.SetFloatParameter("palette", 1))

	param, ok := p.Parameters().Lookup("gpu")
	require.True(t, ok)
	assert.Equal(t, "false", param.Value)
	assert.Equal(t, "Midnight", p.Parameters().Groups[0].Summary)
}

func TestRegistered(t *testing.T) {
	e, ok := core.Lookup("plasma")
	require.True(t, ok)
	assert.True(t, e.Info.Shader)
	assert.IsType(t, &Plasma{}, e.Factory(nil))
}
