package safety

import (
	"math"
	"runtime"

	"lintang/nightwalk/pkg/concurrent"
	"lintang/nightwalk/pkg/datastructure"
	"lintang/nightwalk/pkg/spatialindex"
)

// Model linear distance-decayed safety heuristic. every term is zero beyond its radius (meters).
type Model struct {
	IncidentRadius float64 `yaml:"incident_radius"`
	IncidentWeight float64 `yaml:"incident_weight"`
	LampRadius     float64 `yaml:"lamp_radius"`
	LampWeight     float64 `yaml:"lamp_weight"`
	StoreRadius    float64 `yaml:"store_radius"`
	StoreWeight    float64 `yaml:"store_weight"`
	PoliceRadius   float64 `yaml:"police_radius"`
	PoliceWeight   float64 `yaml:"police_weight"`
	MinCost        float64 `yaml:"min_cost"`
}

func DefaultModel() Model {
	return Model{
		IncidentRadius: 200,
		IncidentWeight: 5,
		LampRadius:     80,
		LampWeight:     1.5,
		StoreRadius:    150,
		StoreWeight:    4,
		PoliceRadius:   300,
		PoliceWeight:   8,
		MinCost:        1,
	}
}

// Distances planar distance from an edge midpoint to the nearest point of every kind.
// +Inf when that kind has no point.
type Distances struct {
	Incident float64
	Lamp     float64
	Store    float64
	Police   float64
}

func decay(radius, weight, dist float64) float64 {
	return math.Max(0, radius-dist) * weight
}

func (m Model) CrimePenalty(dist float64) float64 {
	return decay(m.IncidentRadius, m.IncidentWeight, dist)
}

func (m Model) LampBonus(dist float64) float64 {
	return decay(m.LampRadius, m.LampWeight, dist)
}

func (m Model) StoreBonus(dist float64) float64 {
	return decay(m.StoreRadius, m.StoreWeight, dist)
}

func (m Model) PoliceBonus(dist float64) float64 {
	return decay(m.PoliceRadius, m.PoliceWeight, dist)
}

// FloorCost lower bound of every safety cost. MinCost can only raise it.
const FloorCost = 1.0

// EdgeCost safety cost of an edge with the given length. never below max(FloorCost, MinCost).
func (m Model) EdgeCost(length float64, d Distances) float64 {
	cost := length + m.CrimePenalty(d.Incident) - m.LampBonus(d.Lamp) - m.StoreBonus(d.Store) - m.PoliceBonus(d.Police)
	return math.Max(math.Max(FloorCost, m.MinCost), cost)
}

// Indexes one nearest neighbour index per poi kind, all in the graph crs.
type Indexes struct {
	Incidents *spatialindex.NearestIndex
	Lamps     *spatialindex.NearestIndex
	Stores    *spatialindex.NearestIndex
	Police    *spatialindex.NearestIndex
}

func NewIndexes(incidents, lamps, stores, police []datastructure.ProjectedPoint) Indexes {
	return Indexes{
		Incidents: spatialindex.NewNearestIndex(incidents),
		Lamps:     spatialindex.NewNearestIndex(lamps),
		Stores:    spatialindex.NewNearestIndex(stores),
		Police:    spatialindex.NewNearestIndex(police),
	}
}

func nearest(idx *spatialindex.NearestIndex, p datastructure.ProjectedPoint) float64 {
	if idx == nil {
		return math.Inf(1)
	}
	dist, _ := idx.NearestDistance(p)
	return dist
}

func (ix Indexes) DistancesAt(p datastructure.ProjectedPoint) Distances {
	return Distances{
		Incident: nearest(ix.Incidents, p),
		Lamp:     nearest(ix.Lamps, p),
		Store:    nearest(ix.Stores, p),
		Police:   nearest(ix.Police, p),
	}
}

// ApplyCostModel overwrites the safety cost of every edge of g. costs from any previous run are cleared
// first. edges are split into contiguous ranges, each range is written by exactly one worker.
// workers <= 0 uses runtime.NumCPU().
func ApplyCostModel(g *datastructure.StreetGraph, ix Indexes, m Model, workers int) {
	g.ResetSafetyCosts()
	if g.NumEdges() == 0 {
		return
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	ranges := concurrent.SplitEdgeRanges(g.NumEdges(), workers*4)
	wp := concurrent.NewWorkerPool[concurrent.EdgeRange, int](workers, len(ranges))
	wp.Start(func(r concurrent.EdgeRange) int {
		for edgeID := r.From; edgeID < r.To; edgeID++ {
			e := g.GetEdge(edgeID)
			d := ix.DistancesAt(g.EdgeMidpoint(edgeID))
			g.SetSafetyCost(edgeID, m.EdgeCost(e.Length, d))
		}
		return int(r.To - r.From)
	})
	for _, r := range ranges {
		wp.AddJob(r)
	}
	wp.Close()
	wp.Wait()
}
