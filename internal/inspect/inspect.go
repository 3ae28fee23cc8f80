// Package inspect resolves audit targets into namespace descriptions.
// Two backends exist: a Go package loader built on go/packages and
// go/doc, and a loader for serialized namespace description files. Both
// produce the object model consumed by the summary walker; resolution
// failures here are fatal to a run, while per-member introspection
// problems are recorded on the member and never abort loading.
package inspect

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/zheng/documember/internal/object"
)

// Resolve resolves target into a module handle. A target ending in
// .json is parsed as a serialized namespace description; anything else
// is treated as a Go package directory.
func Resolve(target string, logger *log.Logger) (*object.Module, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if strings.HasSuffix(target, ".json") {
		return LoadDescription(target, logger)
	}
	info, err := os.Stat(target)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", target, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("resolve %s: not a package directory or description file", target)
	}
	return LoadGoPackages(target, logger)
}

// linearize flattens direct base lists into an ancestor list: nearest
// base first, depth-first, each ancestor appearing once. Base cycles
// terminate. This approximates C3 linearization; loaders that know the
// true resolution order should supply it instead.
func linearize(cls *object.Class, direct map[*object.Class][]*object.Class) []*object.Class {
	var out []*object.Class
	seen := map[*object.Class]bool{cls: true}
	var walk func(c *object.Class)
	walk = func(c *object.Class) {
		for _, b := range direct[c] {
			if seen[b] {
				continue
			}
			seen[b] = true
			out = append(out, b)
			walk(b)
		}
	}
	walk(cls)
	return out
}
