package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime/pprof"
	"strconv"
	"strings"

	"lintang/nightwalk/pkg/config"
	"lintang/nightwalk/pkg/datastructure"
	"lintang/nightwalk/pkg/kv"
	"lintang/nightwalk/pkg/logger"
	"lintang/nightwalk/pkg/osmparser"
)

var (
	configFile = flag.String("config", "config.yaml", "config file, only graph.cache_dir is used")
	mapFile    = flag.String("f", "saitama.osm.pbf", "openstreetmap extract (.osm.pbf or .osm) buat walk graphnya")
	bboxFlag   = flag.String("bbox", "", "south,west,north,east. empty keeps the whole extract")
	area       = flag.String("area", "", "area name the engine is queried with, the graph is cached as place:<area>")
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
	memprofile = flag.String("memprofile", "", "write memory profile to this file")
)

func main() {
	flag.Parse()
	log := logger.Setup()

	if *area == "" {
		log.Error("-area is required")
		os.Exit(2)
	}

	if *cpuprofile != "" {
		// https://go.dev/blog/pprof
		// ./bin/nightwalk-preprocessing -f saitama.osm.pbf -area さいたま市 -cpuprofile=cpu.prof -memprofile=mem.mprof
		f, err := os.Create(*cpuprofile)
		if err != nil {
			log.Error("cpuprofile", "error", err)
			os.Exit(1)
		}
		defer f.Close()

		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Error("config", "error", err)
		os.Exit(1)
	}

	opts := []osmparser.Option{osmparser.WithLogger(log)}
	if *bboxFlag != "" {
		bbox, err := parseBBox(*bboxFlag)
		if err != nil {
			log.Error("bbox", "error", err)
			os.Exit(2)
		}
		opts = append(opts, osmparser.WithBoundingBox(bbox))
	}

	ctx := context.Background()
	log.Info("reading osm file", "path", *mapFile)
	g, err := osmparser.NewOSMParser(opts...).ParseFile(ctx, *mapFile)
	if err != nil {
		log.Error("parse osm", "error", err)
		os.Exit(1)
	}
	recordMemProfile(memprofile, "parsing_osm_data")

	db, err := kv.OpenBadger(cfg.Graph.CacheDir)
	if err != nil {
		log.Error("graph cache", "error", err)
		os.Exit(1)
	}
	kvDB := kv.NewKVDB(db, kv.WithLogger(log))
	defer kvDB.Close()

	key := kv.PlaceKey(*area)
	if err := kvDB.SaveGraph(ctx, key, g); err != nil {
		log.Error("save graph", "error", err)
		os.Exit(1)
	}
	recordMemProfile(memprofile, "saving_graph")

	log.Info("walk graph cached", "key", key, "nodes", g.NumNodes(), "edges", g.NumEdges(), "crs", g.CRS())
}

func parseBBox(s string) (datastructure.BoundingBox, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return datastructure.BoundingBox{}, fmt.Errorf("want south,west,north,east got %q", s)
	}
	v := make([]float64, 4)
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return datastructure.BoundingBox{}, fmt.Errorf("bbox value %q: %w", p, err)
		}
		v[i] = f
	}
	bbox := datastructure.NewBoundingBox(v[0], v[1], v[2], v[3])
	if !bbox.IsValid() {
		return datastructure.BoundingBox{}, fmt.Errorf("invalid bbox %q", s)
	}
	return bbox, nil
}

func recordMemProfile(memprofile *string, name string) {
	if *memprofile != "" {
		*memprofile = strings.Replace(*memprofile, ".mprof", fmt.Sprintf("%s.mprof", name), -1)
		f, err := os.Create(*memprofile)
		if err != nil {
			logger.L().Error("memprofile", "error", err)
			return
		}
		pprof.WriteHeapProfile(f)
		f.Close()
	}
}
