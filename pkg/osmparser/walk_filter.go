package osmparser

import (
	"github.com/paulmach/osm"
)

// osmnx "walk" network_type filter
var skipHighway = map[string]struct{}{
	"abandoned":     {},
	"bus_guideway":  {},
	"busway":        {},
	"construction":  {},
	"escape":        {},
	"motorway":      {},
	"motorway_link": {},
	"platform":      {},
	"proposed":      {},
	"raceway":       {},
	"trunk":         {},
	"trunk_link":    {},
}

// AcceptWalkWay true if the way is part of the walkable street network.
func AcceptWalkWay(tags osm.Tags) bool {
	highway := tags.Find("highway")
	if highway == "" {
		return false
	}
	if _, ok := skipHighway[highway]; ok {
		return false
	}
	if tags.Find("area") == "yes" {
		return false
	}
	if tags.Find("foot") == "no" {
		return false
	}
	if tags.Find("access") == "private" || tags.Find("service") == "private" {
		return false
	}
	return true
}
