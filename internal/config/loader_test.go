package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/inmeta/pitwall/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func clearConfigEnvVars() {
	vars := []string{
		"PITWALL_CONFIG",
		"PITWALL_ADDR",
		"PITWALL_LOG_LEVEL",
		"PITWALL_DATABASE_URL",
		"PITWALL_SANITY_PROJECT_ID",
		"PITWALL_SANITY_DATASET",
		"PITWALL_SLACK_WEBHOOK_URL",
		"PITWALL_SITE_URL",
		"PITWALL_NOTIFY_QUEUE_SIZE",
		"PITWALL_NOTIFY_WORKERS",
	}
	for _, v := range vars {
		_ = os.Unsetenv(v)
	}
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load()

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.NotifyQueueSize, convey.ShouldEqual, 1024)
				convey.So(cfg.SanityAPIVersion, convey.ShouldEqual, "2023-05-03")
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("PITWALL_ADDR", ":9090")
			_ = os.Setenv("PITWALL_DATABASE_URL", "postgres://localhost/pitwall?sslmode=disable")
			_ = os.Setenv("PITWALL_SANITY_PROJECT_ID", "abc123")
			_ = os.Setenv("PITWALL_NOTIFY_WORKERS", "4")
			defer clearConfigEnvVars()

			cfg, err := config.Load()

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.DatabaseURL, convey.ShouldEqual, "postgres://localhost/pitwall?sslmode=disable")
				convey.So(cfg.SanityProjectID, convey.ShouldEqual, "abc123")
				convey.So(cfg.NotifyWorkers, convey.ShouldEqual, 4)
			})
		})

		convey.Convey("When loading config with a YAML file", func() {
			clearConfigEnvVars()

			dir := t.TempDir()
			path := filepath.Join(dir, "config.yaml")
			yaml := "addr: \":7070\"\nlog_level: debug\nsite_url: https://board.example/\n"
			convey.So(os.WriteFile(path, []byte(yaml), 0o600), convey.ShouldBeNil)
			_ = os.Setenv("PITWALL_CONFIG", path)
			defer clearConfigEnvVars()

			cfg, err := config.Load()

			convey.Convey("Then file values override defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
				convey.So(cfg.SiteURL, convey.ShouldEqual, "https://board.example/")
			})

			convey.Convey("And env vars override the file", func() {
				_ = os.Setenv("PITWALL_ADDR", ":6060")

				cfg, err := config.Load()
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":6060")
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
			})
		})

		convey.Convey("When the configuration is invalid", func() {
			clearConfigEnvVars()
			_ = os.Setenv("PITWALL_NOTIFY_WORKERS", "0")
			defer clearConfigEnvVars()

			_, err := config.Load()

			convey.Convey("Then loading fails with ErrInvalid", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err, convey.ShouldWrap, config.ErrInvalid)
			})
		})
	})
}
