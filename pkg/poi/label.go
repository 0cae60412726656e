package poi

import (
	"fmt"
	"strings"

	"lintang/nightwalk/pkg/datastructure"

	"golang.org/x/exp/slices"
)

// Label display text of a point. tags are only looked at here.
func Label(kind datastructure.POIKind, tags datastructure.Tags) string {
	switch kind {
	case datastructure.KindStreetLamp:
		if len(tags) == 0 {
			return "street lamp"
		}
		keys := make([]string, 0, len(tags))
		for k := range tags {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s: %s", k, tags[k]))
		}
		return strings.Join(parts, ", ")
	case datastructure.KindConvenienceStore:
		name, _ := tags.Get("name")
		brand, _ := tags.Get("brand")
		label := strings.TrimSpace(name + " " + brand)
		if label == "" {
			return "convenience store"
		}
		return label
	case datastructure.KindPolicePost:
		if name, ok := tags.Get("name"); ok && name != "" {
			return name
		}
		return "police"
	case datastructure.KindIncident:
		if addr, ok := tags.Get("address"); ok && addr != "" {
			return addr
		}
		return "incident"
	}
	return string(kind)
}
