package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/inmeta/pitwall/internal/adapters/http/api"
	"github.com/inmeta/pitwall/internal/adapters/http/site"
	"github.com/inmeta/pitwall/internal/adapters/http/swagger"
	app "github.com/inmeta/pitwall/internal/app"
	"github.com/inmeta/pitwall/internal/config"
	"github.com/inmeta/pitwall/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func TestConfigurationLoading(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		convey.Convey("When loading configuration from the environment", func() {
			_ = os.Setenv("PITWALL_ADDR", ":8081")
			_ = os.Setenv("PITWALL_NOTIFY_QUEUE_SIZE", "256")
			defer func() {
				_ = os.Unsetenv("PITWALL_ADDR")
				_ = os.Unsetenv("PITWALL_NOTIFY_QUEUE_SIZE")
			}()

			cfg, err := config.Load()

			convey.Convey("Then configuration should be loadable", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8081")
				convey.So(cfg.NotifyQueueSize, convey.ShouldEqual, 256)
			})
		})
	})
}

func TestRouteWiring(t *testing.T) {
	convey.Convey("Given the fully wired HTTP mux", t, func() {
		ctx := context.Background()

		svc := app.New()
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer svc.Stop()

		mux := http.NewServeMux()
		swagger.Register(ctx, mux)
		api.NewServer(svc, svc, "http://localhost:8080/").Register(ctx, mux)
		site.Register(ctx, mux)

		convey.Convey("When exercising a submission round trip", func() {
			body := `{"playerId":"p1","min":1,"sec":15,"ms":0}`
			req := httptest.NewRequest(http.MethodPost, "/scores", strings.NewReader(body))
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			convey.Convey("Then the score lands on the leaderboard", func() {
				convey.So(rec.Code, convey.ShouldEqual, http.StatusOK)

				boardReq := httptest.NewRequest(http.MethodGet, "/leaderboard", nil)
				boardRec := httptest.NewRecorder()
				mux.ServeHTTP(boardRec, boardReq)

				convey.So(boardRec.Code, convey.ShouldEqual, http.StatusOK)
				convey.So(boardRec.Body.String(), convey.ShouldContainSubstring, "1.15:000")
			})
		})

		convey.Convey("When fetching the root page and docs", func() {
			for _, path := range []string{"/", "/api-docs", "/openapi.yaml", "/healthz", "/stats"} {
				req := httptest.NewRequest(http.MethodGet, path, nil)
				rec := httptest.NewRecorder()
				mux.ServeHTTP(rec, req)

				convey.So(rec.Code, convey.ShouldEqual, http.StatusOK)
			}
		})
	})
}
