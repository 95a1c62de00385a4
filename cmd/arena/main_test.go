package main

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/arena/internal/config"
	"github.com/okian/arena/internal/domain/model"
	"github.com/okian/arena/pkg/logger"
	"github.com/okian/arena/pkg/metrics"
)

func TestRun(t *testing.T) {
	convey.Convey("Given a memory backed configuration", t, func() {
		convey.So(logger.Init(), convey.ShouldBeNil)
		cfg := config.New()
		cfg.Addr = "127.0.0.1:0"
		cfg.StorageBackend = "memory"

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		ready := make(chan string, 1)
		done := make(chan error, 1)
		go func() { done <- run(ctx, cfg, logger.Get(), ready) }()

		var addr string
		select {
		case addr = <-ready:
		case err := <-done:
			t.Fatalf("run exited early: %v", err)
		case <-time.After(5 * time.Second):
			t.Fatal("server did not start")
		}
		base := "http://" + addr

		convey.Convey("When a slot is saved over HTTP", func() {
			req, err := http.NewRequest(http.MethodPut, base+"/slots/mile/0", strings.NewReader(`{"name":"Runner","wisdom":1200,"goldSkill":10}`))
			convey.So(err, convey.ShouldBeNil)
			resp, err := http.DefaultClient.Do(req)
			convey.So(err, convey.ShouldBeNil)
			body, _ := io.ReadAll(resp.Body)
			_ = resp.Body.Close()

			convey.Convey("Then the scored slot is returned and shutdown is clean", func() {
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)
				convey.So(string(body), convey.ShouldContainSubstring, `"score":11100`)

				cancel()
				select {
				case err := <-done:
					convey.So(err, convey.ShouldBeNil)
				case <-time.After(5 * time.Second):
					t.Fatal("run did not stop")
				}
			})
		})
	})
}

func TestNewService(t *testing.T) {
	convey.Convey("Given config score overrides", t, func() {
		convey.So(logger.Init(), convey.ShouldBeNil)
		cfg := config.New()
		cfg.StorageBackend = "memory"
		cfg.GoldWeight = 2400

		svc := newService(cfg, nil, logger.Get())
		convey.So(svc.Start(context.Background()), convey.ShouldBeNil)

		convey.Convey("Then the calculator uses them", func() {
			gold, wisdom := 10, 1200.0
			view, err := svc.Save(context.Background(), model.SlotKey{Group: "mile", Index: 0}, model.Draft{GoldSkill: &gold, Wisdom: &wisdom})
			convey.So(err, convey.ShouldBeNil)
			convey.So(view.Score, convey.ShouldEqual, 22200)
		})
	})
}

func TestUpdateSystemMetrics(t *testing.T) {
	convey.Convey("Given the system metrics updater", t, func() {
		convey.So(updateSystemMetrics, convey.ShouldNotPanic)
	})
}

func TestRunAppliesMetricsConfig(t *testing.T) {
	convey.Convey("Given metrics disabled in config", t, func() {
		convey.So(logger.Init(), convey.ShouldBeNil)
		cfg := config.New()
		cfg.Addr = "127.0.0.1:0"
		cfg.StorageBackend = "memory"
		cfg.MetricsEnabled = false
		cfg.MetricsRefreshInterval = 3 * time.Second
		defer func() {
			metrics.SetEnabled(true)
			metrics.SetRefreshInterval(config.DefaultMetricsRefreshInterval)
		}()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		ready := make(chan string, 1)
		done := make(chan error, 1)
		go func() { done <- run(ctx, cfg, logger.Get(), ready) }()

		select {
		case <-ready:
		case err := <-done:
			t.Fatalf("run exited early: %v", err)
		case <-time.After(5 * time.Second):
			t.Fatal("server did not start")
		}

		convey.Convey("Then the collectors follow it", func() {
			convey.So(metrics.Enabled(), convey.ShouldBeFalse)
			convey.So(metrics.RefreshInterval(), convey.ShouldEqual, 3*time.Second)

			cancel()
			select {
			case err := <-done:
				convey.So(err, convey.ShouldBeNil)
			case <-time.After(5 * time.Second):
				t.Fatal("run did not stop")
			}
		})
	})
}
