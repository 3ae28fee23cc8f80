package summary

import (
	"io"

	"github.com/charmbracelet/log"
)

// DocDetail controls how much docstring text a walk retains.
type DocDetail string

const (
	DetailNone    DocDetail = "none"
	DetailOneLine DocDetail = "one_line"
	DetailFull    DocDetail = "full"
)

// Config enumerates the recognized walk options.
type Config struct {
	// IncludePrivate includes single-underscore-prefixed names and
	// names the loader marked unexported.
	IncludePrivate bool
	// IncludeDunder includes __double__ underscore names.
	IncludeDunder bool
	// IncludeImported includes members whose defining module differs
	// from the namespace being summarized.
	IncludeImported bool
	// IgnoreExports treats an explicit export list as absent for
	// filtering and ordering; its presence is still annotated.
	IgnoreExports bool
	// Docstrings is the documentation detail retained for rendering.
	// The zero value means DetailNone.
	Docstrings DocDetail
	// MaxDepth caps submodule recursion depth; 0 means unlimited.
	MaxDepth int
	// Logger receives discovery progress; nil discards it.
	Logger *log.Logger
}

func (c *Config) normalize() {
	if c.Docstrings == "" {
		c.Docstrings = DetailNone
	}
	if c.Logger == nil {
		c.Logger = log.New(io.Discard)
	}
}
