package docbuild

import (
	"fmt"

	"github.com/gobwas/glob"

	"github.com/mvp-joe/docsmith/internal/decl"
)

// UserCodePredicate decides whether a declaration belongs to user code and
// should appear in the documentation.
type UserCodePredicate func(*decl.Decl) bool

// FilePredicate decides whether a source file participates in the main
// documentation set.
type FilePredicate func(path string) bool

// Options controls filtering during traversal.
type Options struct {
	// SkipDeprecated suppresses declarations marked deprecated.
	SkipDeprecated bool

	// IsUserCode overrides the default user-code check. The default
	// excludes compiler-synthesized declarations only.
	IsUserCode UserCodePredicate
}

// userCode applies the configured predicate plus the deprecation filter.
func (o Options) userCode(d *decl.Decl) bool {
	if o.SkipDeprecated && d.Deprecated {
		return false
	}
	if o.IsUserCode != nil {
		return o.IsUserCode(d)
	}
	return !d.Synthetic
}

// SamplesFileFilter compiles glob patterns for configured samples roots and
// returns a predicate that excludes matching files from main documentation.
func SamplesFileFilter(patterns []string) (FilePredicate, error) {
	globs := make([]glob.Glob, 0, len(patterns))
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid samples pattern %q: %w", pattern, err)
		}
		globs = append(globs, g)
	}
	return func(path string) bool {
		for _, g := range globs {
			if g.Match(path) {
				return false
			}
		}
		return true
	}, nil
}
