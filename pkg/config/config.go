// Package config reads config.yaml, then .env, then environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"lintang/nightwalk/pkg/engine/safety"
	"lintang/nightwalk/pkg/geocoder"
	"lintang/nightwalk/pkg/incident"
	"lintang/nightwalk/pkg/overpass"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	GraphSourceOverpass = "overpass"
	GraphSourcePBF      = "pbf"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	ListenAddr string `yaml:"listen_addr"`

	Overpass struct {
		Mirrors      []string      `yaml:"mirrors"`
		Timeout      time.Duration `yaml:"timeout"`
		QueryTimeout int           `yaml:"query_timeout"`
	} `yaml:"overpass"`

	Nominatim struct {
		URL     string        `yaml:"url"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"nominatim"`

	Redis struct {
		Host string        `yaml:"host"`
		Port string        `yaml:"port"`
		Pass string        `yaml:"pass"`
		DB   int           `yaml:"db"`
		TTL  time.Duration `yaml:"ttl"`
	} `yaml:"redis"`

	Graph struct {
		Source   string `yaml:"source"`
		PBFPath  string `yaml:"pbf_path"`
		CacheDir string `yaml:"cache_dir"`
	} `yaml:"graph"`

	Incident struct {
		CSV               string `yaml:"csv"`
		HeatmapResolution int    `yaml:"heatmap_resolution"`
	} `yaml:"incident"`

	CostModel safety.Model `yaml:"cost_model"`
	// Workers goroutines of the per edge cost pass, 0 = NumCPU
	Workers int `yaml:"workers"`
}

func Default() Config {
	var c Config
	c.ListenAddr = ":6060"
	c.Overpass.Mirrors = append([]string{}, overpass.DefaultMirrors...)
	c.Overpass.Timeout = overpass.DefaultTimeout
	c.Overpass.QueryTimeout = overpass.DefaultQueryTimeout
	c.Nominatim.URL = geocoder.DefaultNominatimURL
	c.Nominatim.Timeout = geocoder.DefaultTimeout
	c.Redis.TTL = geocoder.DefaultRedisTTL
	c.Graph.Source = GraphSourceOverpass
	c.Graph.CacheDir = "./data/graph_cache"
	c.Incident.CSV = "./data/crime_geocoded.csv"
	c.Incident.HeatmapResolution = incident.DefaultHeatmapResolution
	c.CostModel = safety.DefaultModel()
	return c
}

// Load a missing file is not an error, the defaults are used.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	_ = godotenv.Load(".env")
	if err := applyEnv(&cfg, os.Getenv); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func applyEnv(cfg *Config, getenv func(string) string) error {
	if v := getenv("LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := getenv("OVERPASS_MIRRORS"); v != "" {
		mirrors := make([]string, 0)
		for _, m := range strings.Split(v, ",") {
			if m = strings.TrimSpace(m); m != "" {
				mirrors = append(mirrors, m)
			}
		}
		cfg.Overpass.Mirrors = mirrors
	}
	if v := getenv("NOMINATIM_URL"); v != "" {
		cfg.Nominatim.URL = v
	}
	if v := getenv("REDIS_HOST"); v != "" {
		cfg.Redis.Host = v
	}
	if v := getenv("REDIS_PORT"); v != "" {
		cfg.Redis.Port = v
	}
	if v := getenv("REDIS_PASS"); v != "" {
		cfg.Redis.Pass = v
	}
	if v := getenv("REDIS_DB"); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: REDIS_DB %q: %v", ErrInvalidConfig, v, err)
		}
		cfg.Redis.DB = db
	}
	if v := getenv("GRAPH_SOURCE"); v != "" {
		cfg.Graph.Source = v
	}
	if v := getenv("GRAPH_PBF"); v != "" {
		cfg.Graph.PBFPath = v
	}
	if v := getenv("GRAPH_CACHE_DIR"); v != "" {
		cfg.Graph.CacheDir = v
	}
	if v := getenv("INCIDENT_CSV"); v != "" {
		cfg.Incident.CSV = v
	}
	return nil
}

func (c Config) Validate() error {
	if c.ListenAddr == "" {
		return fmt.Errorf("%w: empty listen_addr", ErrInvalidConfig)
	}
	if len(c.Overpass.Mirrors) == 0 {
		return fmt.Errorf("%w: no overpass mirror", ErrInvalidConfig)
	}
	switch c.Graph.Source {
	case GraphSourceOverpass:
	case GraphSourcePBF:
		if c.Graph.PBFPath == "" {
			return fmt.Errorf("%w: graph source pbf needs pbf_path", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown graph source %q", ErrInvalidConfig, c.Graph.Source)
	}
	if c.CostModel.MinCost < safety.FloorCost {
		return fmt.Errorf("%w: cost_model.min_cost must be >= %v", ErrInvalidConfig, safety.FloorCost)
	}
	return nil
}

// RedisAddr empty when no redis host is configured.
func (c Config) RedisAddr() string {
	if c.Redis.Host == "" {
		return ""
	}
	port := c.Redis.Port
	if port == "" {
		port = "6379"
	}
	return c.Redis.Host + ":" + port
}
