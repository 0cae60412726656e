package overpass

import (
	"fmt"
	"strings"

	"lintang/nightwalk/pkg/datastructure"
)

// Selector one overpass QL statement without its bbox filter, e.g. `node["shop"="convenience"]`.
type Selector string

// BBoxQuery union of selectors, each restricted to bbox.
// out is "body" for plain nodes or "center" when ways are included.
func BBoxQuery(timeoutSec int, selectors []Selector, bbox datastructure.BoundingBox, out string) string {
	filter := bbox.OverpassFilter()

	var sb strings.Builder
	fmt.Fprintf(&sb, "[out:json][timeout:%d];\n(\n", timeoutSec)
	for _, s := range selectors {
		fmt.Fprintf(&sb, "  %s%s;\n", s, filter)
	}
	fmt.Fprintf(&sb, ");\nout %s;\n", out)
	return sb.String()
}
