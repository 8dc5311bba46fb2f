package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	cfg := Config{
		HTTP: HTTPConfig{Port: 8080},
		Feed: FeedConfig{URL: "https://blog.example.com/index.json"},
	}
	cfg.ApplyDefaults()
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string // "" means valid
	}{
		{"defaults", func(*Config) {}, ""},
		{"invalid port", func(c *Config) { c.HTTP.Port = 0 }, "http.port"},
		{"redis without addrs", func(c *Config) { c.Database.Driver = DriverRedis }, "database.addrs"},
		{"valkey with addrs", func(c *Config) {
			c.Database.Driver = DriverValkey
			c.Database.Addrs = []string{"localhost:6379"}
		}, ""},
		{"unknown driver", func(c *Config) { c.Database.Driver = "postgres" }, "database.driver"},
		{"no feed", func(c *Config) { c.Feed.URL = "" }, "feed.url"},
		{"both feeds", func(c *Config) { c.Feed.Path = "index.json" }, "feed.url"},
		{"watch without path", func(c *Config) { c.Feed.Watch = true }, "feed.watch"},
		{"page size above max", func(c *Config) { c.Search.DefaultPageSize = 500 }, "default_page_size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error mentioning %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()

	if cfg.Database.Driver != DriverMemory {
		t.Errorf("driver = %q, want memory", cfg.Database.Driver)
	}
	if cfg.Search.Debounce() != 300*time.Millisecond {
		t.Errorf("debounce = %v, want 300ms", cfg.Search.Debounce())
	}
	if cfg.Search.MinQueryLength != 3 {
		t.Errorf("min query length = %d, want 3", cfg.Search.MinQueryLength)
	}
	if cfg.Search.DefaultPageSize != 10 || cfg.Search.MaxPageSize != 100 {
		t.Errorf("page sizes = %d/%d", cfg.Search.DefaultPageSize, cfg.Search.MaxPageSize)
	}
	if cfg.Feed.Timeout() != 15*time.Second {
		t.Errorf("feed timeout = %v", cfg.Feed.Timeout())
	}
	if cfg.Interactions.MaxViewers != 10000 {
		t.Errorf("max viewers = %d, want 10000", cfg.Interactions.MaxViewers)
	}
}

func TestParse_ExpandsEnv(t *testing.T) {
	t.Setenv("BLOGSEARCH_TEST_PORT", "9090")

	cfg, err := Parse([]byte(`
http:
  port: ${BLOGSEARCH_TEST_PORT}
feed:
  path: ${BLOGSEARCH_TEST_FEED:-public/index.json}
search:
  debounce_ms: 150
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.HTTP.Port != 9090 {
		t.Errorf("port = %d, want 9090", cfg.HTTP.Port)
	}
	if cfg.Feed.Path != "public/index.json" {
		t.Errorf("feed.path = %q", cfg.Feed.Path)
	}
	if cfg.Search.DebounceMS != 150 {
		t.Errorf("debounce_ms = %d", cfg.Search.DebounceMS)
	}
}

func TestParse_Invalid(t *testing.T) {
	if _, err := Parse([]byte("http: [")); err == nil {
		t.Fatal("expected YAML error")
	}
	if _, err := Parse([]byte("http:\n  port: 8080\n")); err == nil {
		t.Fatal("expected validation error for missing feed")
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("BLOGSEARCH_SET", "x")

	got := string(expandEnvVars([]byte("${BLOGSEARCH_SET} ${BLOGSEARCH_UNSET:-d} ${BLOGSEARCH_UNSET}")))
	if got != "x d " {
		t.Errorf("expandEnvVars = %q, want %q", got, "x d ")
	}
}

func TestLoad_LocalConfig(t *testing.T) {
	cfg, err := Load("local")
	if err != nil {
		t.Fatalf("Load(local): %v", err)
	}
	if cfg.Database.Driver != DriverMemory {
		t.Errorf("driver = %q", cfg.Database.Driver)
	}
}
