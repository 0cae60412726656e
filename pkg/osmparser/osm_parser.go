package osmparser

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"lintang/nightwalk/pkg/datastructure"
	"lintang/nightwalk/pkg/logger"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/paulmach/osm/osmxml"
)

type OsmParser struct {
	bbox *datastructure.BoundingBox
	log  *slog.Logger
}

type Option func(*OsmParser)

// WithBoundingBox keep only nodes inside bbox. ways crossing the border are cut at the last inside node.
func WithBoundingBox(bbox datastructure.BoundingBox) Option {
	return func(p *OsmParser) { p.bbox = &bbox }
}

func WithLogger(l *slog.Logger) Option {
	return func(p *OsmParser) { p.log = l }
}

func NewOSMParser(opts ...Option) *OsmParser {
	p := &OsmParser{log: logger.L()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ParseFile builds the walk graph of a .osm.pbf or .osm (xml) extract.
func (p *OsmParser) ParseFile(ctx context.Context, mapFile string) (*datastructure.StreetGraph, error) {
	f, err := os.Open(mapFile)
	if err != nil {
		return nil, fmt.Errorf("open osm extract: %w", err)
	}
	defer f.Close()

	if strings.HasSuffix(mapFile, ".pbf") {
		return p.ParsePBF(ctx, f)
	}
	return p.ParseXML(ctx, f)
}

// ParsePBF two passes over the extract like the pbf readers do: ways first, then only the nodes
// those ways reference.
func (p *OsmParser) ParsePBF(ctx context.Context, r io.ReadSeeker) (*datastructure.StreetGraph, error) {
	b := NewGraphBuilder()
	wayNodes := make(map[int64]struct{})

	scanner := osmpbf.New(ctx, r, runtime.GOMAXPROCS(-1))
	scanner.SkipNodes = true
	scanner.SkipRelations = true
	// must not be parallel
	err := p.scanWays(scanner, b, wayNodes)
	scanner.Close()
	if err != nil {
		return nil, err
	}

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	scanner = osmpbf.New(ctx, r, runtime.GOMAXPROCS(-1))
	scanner.SkipWays = true
	scanner.SkipRelations = true
	defer scanner.Close()
	if err := p.scanNodes(scanner, b, wayNodes); err != nil {
		return nil, err
	}
	return p.build(b)
}

// ParseXML single pass, the xml format is only used for small extracts.
func (p *OsmParser) ParseXML(ctx context.Context, r io.Reader) (*datastructure.StreetGraph, error) {
	b := NewGraphBuilder()
	scanner := osmxml.New(ctx, r)
	defer scanner.Close()

	for scanner.Scan() {
		switch o := scanner.Object().(type) {
		case *osm.Node:
			p.addNode(b, o)
		case *osm.Way:
			p.addWay(b, o)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan osm xml: %w", err)
	}
	return p.build(b)
}

func (p *OsmParser) scanWays(scanner osm.Scanner, b *GraphBuilder, wayNodes map[int64]struct{}) error {
	countWays := 0
	for scanner.Scan() {
		way, ok := scanner.Object().(*osm.Way)
		if !ok {
			continue
		}
		if !p.addWay(b, way) {
			continue
		}
		countWays++
		if countWays%50000 == 0 {
			p.log.Info("reading openstreetmap ways", "count", countWays)
		}
		for _, n := range way.Nodes {
			wayNodes[int64(n.ID)] = struct{}{}
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scan osm ways: %w", err)
	}
	return nil
}

func (p *OsmParser) scanNodes(scanner osm.Scanner, b *GraphBuilder, wayNodes map[int64]struct{}) error {
	for scanner.Scan() {
		node, ok := scanner.Object().(*osm.Node)
		if !ok {
			continue
		}
		if _, ok := wayNodes[int64(node.ID)]; !ok {
			continue
		}
		p.addNode(b, node)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scan osm nodes: %w", err)
	}
	return nil
}

func (p *OsmParser) addWay(b *GraphBuilder, way *osm.Way) bool {
	if len(way.Nodes) < 2 || !AcceptWalkWay(way.Tags) {
		return false
	}
	ids := make([]int64, 0, len(way.Nodes))
	for _, n := range way.Nodes {
		ids = append(ids, int64(n.ID))
	}
	b.AddWay(int64(way.ID), ids)
	return true
}

func (p *OsmParser) addNode(b *GraphBuilder, node *osm.Node) {
	if p.bbox != nil && !p.bbox.Contains(node.Lat, node.Lon) {
		return
	}
	b.AddNode(int64(node.ID), node.Lat, node.Lon)
}

func (p *OsmParser) build(b *GraphBuilder) (*datastructure.StreetGraph, error) {
	g, stats, err := b.Build()
	if err != nil {
		return nil, err
	}
	p.log.Info("walk_graph_built",
		"ways", stats.Ways,
		"nodes", g.NumNodes(),
		"edges", stats.Edges,
		"dropped_segments", stats.MissingSegments,
		"crs", g.CRS(),
	)
	return g, nil
}
