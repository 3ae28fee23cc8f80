package render

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zheng/documember/internal/object"
	"github.com/zheng/documember/internal/summary"
)

// fixtureTree builds a summary for a module with a class, a function,
// and an imported member, mirroring a typical audit target.
func fixtureTree(t *testing.T, cfg summary.Config) *summary.Node {
	t.Helper()
	widget := &object.Class{
		Name: "Widget", Module: "mypkg", Doc: "A widget.",
		Members: []object.Member{
			{Name: "draw", Value: &object.Func{Name: "draw", Module: "mypkg"}},
			{Name: "size", Value: &object.Attr{Name: "size", Type: "int"}},
		},
	}
	mod := &object.Module{
		Name: "mypkg", Path: "mypkg", Doc: "My package.",
		Members: []object.Member{
			{Name: "Widget", Value: widget},
			{Name: "make_widget", Value: &object.Func{Name: "make_widget", Module: "mypkg", Doc: "Build a widget."}},
			{Name: "helper", Value: &object.Func{Name: "helper", Module: "otherlib", Doc: "Borrowed."}},
		},
	}
	return summary.Build(mod, cfg)
}

func TestRenderBasicTree(t *testing.T) {
	root := fixtureTree(t, summary.Config{})

	want := "mypkg\n" +
		"  Widget\n" +
		"    draw() (undocumented)\n" +
		"    .size (undocumented)\n" +
		"  make_widget\n"
	assert.Equal(t, want, Text(root, Config{}))
}

func TestRenderImportedMember(t *testing.T) {
	root := fixtureTree(t, summary.Config{IncludeImported: true})

	want := "mypkg\n" +
		"  Widget\n" +
		"    draw() (undocumented)\n" +
		"    .size (undocumented)\n" +
		"  otherlib.helper (imported)\n" +
		"  make_widget\n"
	assert.Equal(t, want, Text(root, Config{}))
}

func TestRenderUndocumentedRoot(t *testing.T) {
	mod := &object.Module{Name: "bare", Path: "bare"}
	root := summary.Build(mod, summary.Config{})

	assert.Equal(t, "bare (undocumented)\n", Text(root, Config{}))
}

func TestRenderExportBadge(t *testing.T) {
	mod := &object.Module{
		Name: "mypkg", Path: "mypkg", Doc: "My package.",
		Exports: []string{"run"},
		Members: []object.Member{
			{Name: "run", Value: &object.Func{Name: "run", Module: "mypkg", Doc: "Run."}},
			{Name: "skipped", Value: &object.Func{Name: "skipped", Module: "mypkg"}},
		},
	}
	root := summary.Build(mod, summary.Config{})

	assert.Equal(t, "mypkg (__all__)\n  run\n", Text(root, Config{}))
	assert.Equal(t, "mypkg\n  run\n", Text(root, Config{HideExportBadge: true}))
}

func TestRenderInheritedAnnotation(t *testing.T) {
	base := &object.Class{
		Name: "Base", Module: "mypkg", Doc: "Base.",
		Members: []object.Member{
			{Name: "close", Value: &object.Func{Name: "close", Module: "mypkg", Doc: "Close."}},
		},
	}
	child := &object.Class{
		Name: "Child", Module: "mypkg", Doc: "Child.",
		Ancestors: []*object.Class{base},
		Members: []object.Member{
			{Name: "close", Value: &object.Func{Name: "close", Module: "mypkg"}},
		},
	}
	mod := &object.Module{
		Name: "mypkg", Path: "mypkg", Doc: "Docs.",
		Members: []object.Member{{Name: "Child", Value: child}},
	}
	root := summary.Build(mod, summary.Config{})

	want := "mypkg\n" +
		"  Child\n" +
		"    close() (inherited)\n"
	assert.Equal(t, want, Text(root, Config{}))
}

func TestRenderInspectionFailure(t *testing.T) {
	mod := &object.Module{
		Name: "mypkg", Path: "mypkg", Doc: "Docs.",
		Members: []object.Member{{Name: "broken", Err: "boom"}},
	}
	root := summary.Build(mod, summary.Config{})

	want := "mypkg\n" +
		"  broken (undocumented) (inspection failed)\n"
	assert.Equal(t, want, Text(root, Config{}))
}

func TestRenderDocstrings(t *testing.T) {
	doc := "First line.\n\nBody text."
	mod := &object.Module{
		Name: "mypkg", Path: "mypkg", Doc: "Package docs.",
		Members: []object.Member{
			{Name: "fn", Value: &object.Func{Name: "fn", Module: "mypkg", Doc: doc}},
		},
	}

	t.Run("one line", func(t *testing.T) {
		root := summary.Build(mod, summary.Config{Docstrings: summary.DetailOneLine})
		want := "mypkg\n" +
			"  Package docs.\n" +
			"  fn\n" +
			"    First line.\n"
		assert.Equal(t, want, Text(root, Config{Docstrings: summary.DetailOneLine}))
	})

	t.Run("full", func(t *testing.T) {
		root := summary.Build(mod, summary.Config{Docstrings: summary.DetailFull})
		want := "mypkg\n" +
			"  Package docs.\n" +
			"  fn\n" +
			"    First line.\n" +
			"\n" +
			"    Body text.\n"
		assert.Equal(t, want, Text(root, Config{Docstrings: summary.DetailFull}))
	})
}

func TestRenderWriterMatchesText(t *testing.T) {
	root := fixtureTree(t, summary.Config{})

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, root, Config{}))
	assert.Equal(t, Text(root, Config{}), buf.String())
}

func TestRenderIsIdempotent(t *testing.T) {
	root := fixtureTree(t, summary.Config{IncludeImported: true})
	cfg := Config{Docstrings: summary.DetailFull}

	assert.Equal(t, Text(root, cfg), Text(root, cfg))
}

func TestLinesStopsEarly(t *testing.T) {
	root := fixtureTree(t, summary.Config{})

	var got []string
	for line := range Lines(root, Config{}) {
		got = append(got, line)
		if len(got) == 2 {
			break
		}
	}
	assert.Equal(t, []string{"mypkg", "  Widget"}, got)
}
