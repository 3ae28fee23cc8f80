package inspect

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zheng/documember/internal/object"
)

func writeFixture(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func TestLoadGoPackages(t *testing.T) {
	dir := writeFixture(t, map[string]string{
		"go.mod": "module example.com/fixture\n\ngo 1.24\n",
		"fixture.go": `// Package fixture is a loading test subject.
package fixture

// Widget is a drawable thing.
type Widget struct {
	// Size in pixels.
	Size int
	name string
}

// Draw paints the widget.
func (w *Widget) Draw() {}

// NewWidget builds a Widget.
func NewWidget() *Widget { return &Widget{} }

// MaxSize bounds widget sizes.
const MaxSize = 10

func helper() {}
`,
		"shapes/shapes.go": `package shapes

// Area computes an area.
func Area(w, h int) int { return w * h }
`,
	})

	root, err := LoadGoPackages(dir, discard())
	require.NoError(t, err)

	assert.Equal(t, "fixture", root.Name)
	assert.Equal(t, "example.com.fixture", root.Path)
	assert.Equal(t, "Package fixture is a loading test subject.", root.Doc)
	assert.Nil(t, root.Exports)

	widget, ok := memberByName(t, root.Members, "Widget").Value.(*object.Class)
	require.True(t, ok)
	assert.Equal(t, "Widget is a drawable thing.", widget.Doc)
	assert.Equal(t, "example.com.fixture", widget.Module)

	draw, ok := memberByName(t, widget.Members, "Draw").Value.(*object.Func)
	require.True(t, ok)
	assert.Equal(t, "Draw paints the widget.", draw.Doc)

	size, ok := memberByName(t, widget.Members, "Size").Value.(*object.Attr)
	require.True(t, ok)
	assert.Equal(t, "Size in pixels.", size.Doc)
	assert.Equal(t, "int", size.Type)

	assert.True(t, memberByName(t, widget.Members, "name").Unexported)

	ctor, ok := memberByName(t, root.Members, "NewWidget").Value.(*object.Func)
	require.True(t, ok)
	assert.Equal(t, "NewWidget builds a Widget.", ctor.Doc)

	assert.True(t, memberByName(t, root.Members, "helper").Unexported)

	maxSize, ok := memberByName(t, root.Members, "MaxSize").Value.(*object.Attr)
	require.True(t, ok)
	assert.Equal(t, "MaxSize bounds widget sizes.", maxSize.Doc)

	sub, ok := memberByName(t, root.Members, "shapes").Value.(*object.Module)
	require.True(t, ok)
	assert.Equal(t, "example.com.fixture.shapes", sub.Path)
	assert.Empty(t, sub.Doc)
	area, ok := memberByName(t, sub.Members, "Area").Value.(*object.Func)
	require.True(t, ok)
	assert.Equal(t, "Area computes an area.", area.Doc)
	assert.Equal(t, "example.com.fixture.shapes", area.Module)
}

func TestLoadGoPackagesEmbedding(t *testing.T) {
	dir := writeFixture(t, map[string]string{
		"go.mod": "module example.com/embed\n\ngo 1.24\n",
		"embed.go": `// Package embed exercises embedded types.
package embed

// Base carries shared behavior.
type Base struct{}

// Hello greets.
func (b Base) Hello() {}

// Derived builds on Base.
type Derived struct {
	Base
}
`,
	})

	root, err := LoadGoPackages(dir, discard())
	require.NoError(t, err)

	base, ok := memberByName(t, root.Members, "Base").Value.(*object.Class)
	require.True(t, ok)
	derived, ok := memberByName(t, root.Members, "Derived").Value.(*object.Class)
	require.True(t, ok)

	require.Len(t, derived.Ancestors, 1)
	assert.Same(t, base, derived.Ancestors[0])

	// The promoted method is rebound to the ancestor's object, so the
	// walker can recognize it as inherited by identity.
	baseHello := memberByName(t, base.Members, "Hello").Value
	derivedHello := memberByName(t, derived.Members, "Hello").Value
	assert.Same(t, baseHello, derivedHello)
}

func TestLoadGoPackagesInterface(t *testing.T) {
	dir := writeFixture(t, map[string]string{
		"go.mod": "module example.com/iface\n\ngo 1.24\n",
		"iface.go": `// Package iface exercises interface members.
package iface

// Closer closes things.
type Closer interface {
	// Close releases resources.
	Close() error
}

// ReadCloser composes Closer.
type ReadCloser interface {
	Closer
	Read() error
}
`,
	})

	root, err := LoadGoPackages(dir, discard())
	require.NoError(t, err)

	closer, ok := memberByName(t, root.Members, "Closer").Value.(*object.Class)
	require.True(t, ok)
	closeFn, ok := memberByName(t, closer.Members, "Close").Value.(*object.Func)
	require.True(t, ok)
	assert.Equal(t, "Close releases resources.", closeFn.Doc)

	rc, ok := memberByName(t, root.Members, "ReadCloser").Value.(*object.Class)
	require.True(t, ok)
	require.Len(t, rc.Ancestors, 1)
	assert.Same(t, closer, rc.Ancestors[0])

	read, ok := memberByName(t, rc.Members, "Read").Value.(*object.Func)
	require.True(t, ok)
	assert.Empty(t, read.Doc)
}

func TestLoadGoPackagesNoSource(t *testing.T) {
	dir := writeFixture(t, map[string]string{
		"go.mod": "module example.com/empty\n\ngo 1.24\n",
	})

	_, err := LoadGoPackages(dir, discard())
	assert.Error(t, err)
}
