package pass

import (
	"testing"

	"github.com/Irrgh/webgpu-engine/engine/viewport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubPass is a declaration-only pass used to exercise the ordering logic.
type stubPass struct {
	name    string
	inputs  []Declaration
	outputs []Declaration
}

func (s *stubPass) Name() string           { return s.name }
func (s *stubPass) Inputs() []Declaration  { return s.inputs }
func (s *stubPass) Outputs() []Declaration { return s.outputs }

func (s *stubPass) Render(host Host, vp viewport.Viewport) error { return nil }

func declare(name string, inputs, outputs []string) *stubPass {
	p := &stubPass{name: name}
	for _, label := range inputs {
		p.inputs = append(p.inputs, Texture(label))
	}
	for _, label := range outputs {
		p.outputs = append(p.outputs, Texture(label))
	}
	return p
}

func names(passes []RenderPass) []string {
	out := make([]string, len(passes))
	for i, p := range passes {
		out[i] = p.Name()
	}
	return out
}

func TestOrderProducersBeforeConsumers(t *testing.T) {
	// Declared deliberately backwards: the consumer comes first.
	outline := declare("outline", []string{"objectIndex"}, []string{"color"})
	geometry := declare("geometry", nil, []string{"color", "normal", "depth", "objectIndex"})

	ordered, err := Order([]RenderPass{outline, geometry})
	require.NoError(t, err)
	assert.Equal(t, []string{"geometry", "outline"}, names(ordered))
}

func TestOrderStableTieBreakByDeclaration(t *testing.T) {
	// grid and outline both depend on geometry but not on each other; their
	// relative order must match declaration order.
	geometry := declare("geometry", nil, []string{"color", "depth", "objectIndex"})
	grid := declare("grid", []string{"depth"}, []string{"color"})
	outline := declare("outline", []string{"objectIndex"}, []string{"color"})

	ordered, err := Order([]RenderPass{geometry, grid, outline})
	require.NoError(t, err)
	assert.Equal(t, []string{"geometry", "grid", "outline"}, names(ordered))

	// Swapping the declaration order of the unconstrained pair swaps the result.
	ordered, err = Order([]RenderPass{geometry, outline, grid})
	require.NoError(t, err)
	assert.Equal(t, []string{"geometry", "outline", "grid"}, names(ordered))
}

func TestOrderIndependentPassesKeepDeclarationOrder(t *testing.T) {
	a := declare("a", nil, []string{"x"})
	b := declare("b", nil, []string{"y"})
	c := declare("c", nil, []string{"z"})

	ordered, err := Order([]RenderPass{c, a, b})
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a", "b"}, names(ordered))
}

func TestOrderChain(t *testing.T) {
	shade := declare("shade", []string{"gbuffer"}, []string{"lit"})
	tonemap := declare("tonemap", []string{"lit"}, []string{"final"})
	gbuffer := declare("gbuffer", nil, []string{"gbuffer"})

	ordered, err := Order([]RenderPass{shade, tonemap, gbuffer})
	require.NoError(t, err)
	assert.Equal(t, []string{"gbuffer", "shade", "tonemap"}, names(ordered))
}

func TestOrderUnproducedInputCreatesNoEdge(t *testing.T) {
	// The camera uniform is provided by the renderer, not by any pass; the
	// declaration must not constrain or fail the ordering.
	geometry := declare("geometry", []string{"camera"}, []string{"color"})

	ordered, err := Order([]RenderPass{geometry})
	require.NoError(t, err)
	assert.Equal(t, []string{"geometry"}, names(ordered))
}

func TestOrderReadModifyWriteIsNotSelfCycle(t *testing.T) {
	geometry := declare("geometry", nil, []string{"color", "depth"})
	grid := declare("grid", []string{"color", "depth"}, []string{"color", "depth"})

	ordered, err := Order([]RenderPass{grid, geometry})
	require.NoError(t, err)
	assert.Equal(t, []string{"geometry", "grid"}, names(ordered))
}

func TestOrderCycleDetected(t *testing.T) {
	a := declare("a", []string{"fromB"}, []string{"fromA"})
	b := declare("b", []string{"fromA"}, []string{"fromB"})
	standalone := declare("standalone", nil, []string{"other"})

	_, err := Order([]RenderPass{a, b, standalone})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCycleDetected)
	assert.Contains(t, err.Error(), "a")
	assert.Contains(t, err.Error(), "b")
	assert.NotContains(t, err.Error(), "standalone")
}

func TestOrderEmptyAndSingle(t *testing.T) {
	ordered, err := Order(nil)
	require.NoError(t, err)
	assert.Empty(t, ordered)

	only := declare("only", nil, nil)
	ordered, err = Order([]RenderPass{only})
	require.NoError(t, err)
	assert.Equal(t, []string{"only"}, names(ordered))
}
