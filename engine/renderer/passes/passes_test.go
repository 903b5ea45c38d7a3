package passes

import (
	"testing"

	"github.com/Irrgh/webgpu-engine/engine/renderer/pass"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func declaredLabels(decls []pass.Declaration) []string {
	labels := make([]string, len(decls))
	for i, d := range decls {
		labels[i] = d.Label
	}
	return labels
}

func TestGeometryPassDeclarations(t *testing.T) {
	g := NewGeometryPass()

	assert.Equal(t, "geometry", g.Name())
	assert.Equal(t, []string{pass.LabelCamera}, declaredLabels(g.Inputs()))
	assert.Equal(t, []string{
		pass.LabelColor,
		pass.LabelDepth,
		pass.LabelObjectIndex,
		pass.LabelNormal,
		LabelVertexBuffer,
		LabelIndexBuffer,
		LabelTransforms,
		LabelObjectIndices,
		LabelDrawParams,
	}, declaredLabels(g.Outputs()))
}

func TestOutlinePassDeclarations(t *testing.T) {
	o := NewOutlinePass()

	assert.Equal(t, "outline", o.Name())
	assert.Equal(t, []string{pass.LabelObjectIndex}, declaredLabels(o.Inputs()))
	assert.Equal(t, []string{pass.LabelColor}, declaredLabels(o.Outputs()))
}

func TestGridPassDeclarations(t *testing.T) {
	g := NewGridPass()

	assert.Equal(t, "grid", g.Name())
	assert.Equal(t, []string{pass.LabelCamera, pass.LabelDepth}, declaredLabels(g.Inputs()))
	assert.Equal(t, []string{pass.LabelColor}, declaredLabels(g.Outputs()))
}

func TestBuiltinPassOrdering(t *testing.T) {
	geometry := NewGeometryPass()
	outline := NewOutlinePass()
	grid := NewGridPass()

	// The geometry pass produces what the overlays consume, so it runs first
	// no matter where it is declared.
	ordered, err := pass.Order([]pass.RenderPass{outline, grid, geometry})
	require.NoError(t, err)
	require.Len(t, ordered, 3)
	assert.Equal(t, "geometry", ordered[0].Name())

	// The overlays have no ordering constraint between them and keep their
	// declaration order.
	assert.Equal(t, "outline", ordered[1].Name())
	assert.Equal(t, "grid", ordered[2].Name())

	ordered, err = pass.Order([]pass.RenderPass{grid, outline, geometry})
	require.NoError(t, err)
	assert.Equal(t, "geometry", ordered[0].Name())
	assert.Equal(t, "grid", ordered[1].Name())
	assert.Equal(t, "outline", ordered[2].Name())
}
