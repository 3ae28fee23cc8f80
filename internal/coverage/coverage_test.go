package coverage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zheng/documember/internal/object"
	"github.com/zheng/documember/internal/summary"
)

func TestCountsPercent(t *testing.T) {
	tests := []struct {
		counts Counts
		want   float64
	}{
		{Counts{Total: 0, Documented: 0}, 100},
		{Counts{Total: 4, Documented: 4}, 100},
		{Counts{Total: 4, Documented: 1}, 25},
		{Counts{Total: 3, Documented: 0}, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.counts.Percent())
	}
}

func fixtureTree(t *testing.T) *summary.Node {
	t.Helper()
	widget := &object.Class{
		Name: "Widget", Module: "mypkg", Doc: "A widget.",
		Members: []object.Member{
			{Name: "draw", Value: &object.Func{Name: "draw", Module: "mypkg"}},
			{Name: "size", Value: &object.Attr{Name: "size"}},
		},
	}
	sub := &object.Module{
		Name: "sub", Path: "mypkg.sub", Doc: "Submodule.",
		Members: []object.Member{
			{Name: "go", Value: &object.Func{Name: "go", Module: "mypkg.sub", Doc: "Go."}},
		},
	}
	mod := &object.Module{
		Name: "mypkg", Path: "mypkg", Doc: "My package.",
		Members: []object.Member{
			{Name: "Widget", Value: widget},
			{Name: "sub", Value: sub},
			{Name: "run", Value: &object.Func{Name: "run", Module: "mypkg"}},
		},
	}
	return summary.Build(mod, summary.Config{})
}

func TestCompute(t *testing.T) {
	stats := Compute("./mypkg", fixtureTree(t))

	assert.Equal(t, "./mypkg", stats.Target)

	// mypkg, Widget, sub, sub.go documented; draw, size, run not.
	assert.Equal(t, Counts{Total: 7, Documented: 4}, stats.Total)

	assert.Equal(t, Counts{Total: 2, Documented: 2}, stats.ByKind[summary.KindModule])
	assert.Equal(t, Counts{Total: 1, Documented: 1}, stats.ByKind[summary.KindClass])
	assert.Equal(t, Counts{Total: 3, Documented: 1}, stats.ByKind[summary.KindFunc])
	assert.Equal(t, Counts{Total: 1, Documented: 0}, stats.ByKind[summary.KindAttribute])
}

func TestComputeTargetDefaultsToRoot(t *testing.T) {
	stats := Compute("", fixtureTree(t))
	assert.Equal(t, "mypkg", stats.Target)
}

func TestComputeNamespacesWorstFirst(t *testing.T) {
	stats := Compute("mypkg", fixtureTree(t))

	require.Len(t, stats.Namespaces, 3)
	// Widget: 0/2. mypkg direct children: Widget+sub documented, run
	// not, 2/3. sub: 1/1.
	assert.Equal(t, "mypkg.Widget", stats.Namespaces[0].QualName)
	assert.Equal(t, Counts{Total: 2, Documented: 0}, stats.Namespaces[0].Counts)
	assert.Equal(t, "mypkg", stats.Namespaces[1].QualName)
	assert.Equal(t, "mypkg.sub", stats.Namespaces[2].QualName)
}

func TestUndocumented(t *testing.T) {
	got := Undocumented(fixtureTree(t))
	assert.Equal(t, []string{"mypkg.Widget.draw", "mypkg.Widget.size", "mypkg.run"}, got)
}

func TestUndocumentedEmptyWhenFullyDocumented(t *testing.T) {
	mod := &object.Module{Name: "m", Path: "m", Doc: "M."}
	root := summary.Build(mod, summary.Config{})
	assert.Empty(t, Undocumented(root))
}
