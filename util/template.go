package util

import (
	"path/filepath"
	"time"

	"github.com/aymerick/raymond"
)

// RenderOutputPath expands {{date}}, {{time}}, {{algorithm}} and {{root}}
// in an output path. Paths without template markers are returned as is.
func RenderOutputPath(tpl string, root string, algorithm string, now time.Time) (string, error) {
	params := map[string]any{
		"date":      now.Format("2006-01-02"),
		"time":      now.Format("150405"),
		"algorithm": raymond.SafeString(algorithm),
		"root":      raymond.SafeString(filepath.Base(filepath.Clean(root))),
	}
	return raymond.Render(tpl, params)
}
