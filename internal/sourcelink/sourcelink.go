// Package sourcelink turns configured path-to-URL mappings into "view
// source" links for rendered pages.
package sourcelink

import (
	"fmt"
	"strings"

	"github.com/mvp-joe/docsmith/internal/report"
)

// Definition pairs a local path prefix with a remote URL template and an
// optional line-number suffix appended as "<suffix><line>".
type Definition struct {
	PathPrefix string
	URL        string
	LineSuffix string
}

// Parse parses one mapping of the form "prefix=url" or "prefix=url#suffix".
func Parse(s string) (Definition, error) {
	eq := strings.Index(s, "=")
	if eq <= 0 || eq == len(s)-1 {
		return Definition{}, fmt.Errorf("invalid source link %q: want prefix=url[#lineSuffix]", s)
	}
	def := Definition{
		PathPrefix: s[:eq],
		URL:        s[eq+1:],
	}
	if hash := strings.LastIndex(def.URL, "#"); hash >= 0 {
		def.LineSuffix = def.URL[hash+1:]
		def.URL = def.URL[:hash]
	}
	if def.URL == "" {
		return Definition{}, fmt.Errorf("invalid source link %q: empty URL", s)
	}
	return def, nil
}

// ParseAll parses every mapping, dropping malformed ones with a warning so
// the build proceeds with the feature disabled for them.
func ParseAll(specs []string, rep report.Reporter) []Definition {
	var defs []Definition
	for _, s := range specs {
		def, err := Parse(s)
		if err != nil {
			rep.Warningf("dropping source link: %v", err)
			continue
		}
		defs = append(defs, def)
	}
	return defs
}

// Resolve returns the remote URL for a file and line, or "" when no
// definition's prefix matches.
func Resolve(defs []Definition, file string, line int) string {
	for _, def := range defs {
		if !strings.HasPrefix(file, def.PathPrefix) {
			continue
		}
		rel := strings.TrimPrefix(file, def.PathPrefix)
		rel = strings.TrimPrefix(rel, "/")
		url := strings.TrimSuffix(def.URL, "/") + "/" + rel
		if def.LineSuffix != "" && line > 0 {
			url += fmt.Sprintf("%s%d", def.LineSuffix, line)
		}
		return url
	}
	return ""
}
