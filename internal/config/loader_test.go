package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/hooplab/draftarena/internal/config"
)

// clearArenaEnv blanks any ARENA_ variables leaked in from the environment
// so tests see only what they set themselves.
func clearArenaEnv(t *testing.T) {
	t.Helper()
	for _, kv := range os.Environ() {
		key, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(key, "ARENA_") {
			t.Setenv(key, "")
			os.Unsetenv(key)
		}
	}
}

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	ctx := context.Background()

	convey.Convey("Given a clean environment", t, func() {
		clearArenaEnv(t)

		convey.Convey("When loading with no overrides", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then the defaults apply", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8000")
				convey.So(cfg.Store, convey.ShouldEqual, "memory")
				convey.So(cfg.TurnCap, convey.ShouldEqual, 200)
				convey.So(cfg.BidRoundCap, convey.ShouldEqual, 20)
				convey.So(cfg.PoolSize, convey.ShouldEqual, 24)
				convey.So(cfg.StartingBalance, convey.ShouldEqual, 100)
				convey.So(cfg.MaxLeaderboardLimit, convey.ShouldEqual, 100)
			})
		})

		convey.Convey("When environment variables override defaults", func() {
			t.Setenv("ARENA_ADDR", ":9090")
			t.Setenv("ARENA_TURN_CAP", "50")
			t.Setenv("ARENA_LOG_LEVEL", "debug")
			cfg, err := config.Load(ctx)

			convey.Convey("Then the overrides win", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.TurnCap, convey.ShouldEqual, 50)
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
				convey.So(cfg.Store, convey.ShouldEqual, "memory")
			})
		})

		convey.Convey("When a config file is provided", func() {
			path := writeConfigFile(t, "addr: \":7000\"\npool_size: 16\n")
			t.Setenv("ARENA_CONFIG", path)
			cfg, err := config.Load(ctx)

			convey.Convey("Then file values layer over defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7000")
				convey.So(cfg.PoolSize, convey.ShouldEqual, 16)
				convey.So(cfg.TurnCap, convey.ShouldEqual, 200)
			})
		})

		convey.Convey("When a file and environment both set a key", func() {
			path := writeConfigFile(t, "addr: \":7000\"\n")
			t.Setenv("ARENA_CONFIG", path)
			t.Setenv("ARENA_ADDR", ":9999")
			cfg, err := config.Load(ctx)

			convey.Convey("Then the environment wins", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9999")
			})
		})

		convey.Convey("When the config file does not exist", func() {
			t.Setenv("ARENA_CONFIG", filepath.Join(t.TempDir(), "nope.yaml"))
			_, err := config.Load(ctx)

			convey.Convey("Then loading fails with a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the config file is not valid YAML", func() {
			t.Setenv("ARENA_CONFIG", writeConfigFile(t, "addr: [unclosed"))
			_, err := config.Load(ctx)

			convey.Convey("Then loading fails with a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the store backend is unknown", func() {
			t.Setenv("ARENA_STORE", "cassandra")
			_, err := config.Load(ctx)

			convey.Convey("Then validation rejects it", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the latency bounds are inverted", func() {
			t.Setenv("ARENA_DECISION_LATENCY_MIN_MS", "500")
			t.Setenv("ARENA_DECISION_LATENCY_MAX_MS", "100")
			_, err := config.Load(ctx)

			convey.Convey("Then validation rejects it", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the address is blanked", func() {
			t.Setenv("ARENA_ADDR", " ")
			cfg, err := config.Load(ctx)

			convey.Convey("Then whitespace still counts as set", func() {
				// validate only rejects the empty string; trimming is the
				// caller's concern.
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, " ")
			})
		})
	})
}
