package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/arena/internal/adapters/http/api"
	"github.com/okian/arena/internal/adapters/storage"
	service "github.com/okian/arena/internal/app"
	"github.com/okian/arena/internal/domain/types"
	"github.com/okian/arena/pkg/logger"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func newTestServer() (http.Handler, *service.Service) {
	svc := service.New(
		service.WithStorage(storage.NewMemoryKV()),
		service.WithLayout(map[string]int{"mile": 3, "long": 2}, []string{"mile", "long"}),
	)
	if err := svc.Start(context.Background()); err != nil {
		panic(err)
	}
	return api.NewServer(svc, svc).Router(), svc
}

func do(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func errorCode(rec *httptest.ResponseRecorder) string {
	var body struct {
		Code string `json:"code"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	return body.Code
}

func TestSlotRoutes(t *testing.T) {
	Convey("Given the board API", t, func() {
		h, _ := newTestServer()

		Convey("When a slot is saved", func() {
			rec := do(h, http.MethodPut, "/slots/mile/1", `{"name":"Runner","wisdom":1200,"goldSkill":10}`)

			Convey("Then the rendered slot comes back", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var view types.SlotView
				So(json.Unmarshal(rec.Body.Bytes(), &view), ShouldBeNil)
				So(view.Filled, ShouldBeTrue)
				So(view.Score, ShouldEqual, 11100)
				So(view.DisplayScore, ShouldEqual, "11,100 pt")
				So(view.RankLabel, ShouldEqual, "全体 1位")
				So(view.StyleLabel, ShouldEqual, "逃げ")
			})

			Convey("Then GET returns the same slot", func() {
				rec := do(h, http.MethodGet, "/slots/mile/1", "")
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(rec.Body.String(), ShouldContainSubstring, `"name":"Runner"`)
			})

			Convey("Then the board and ranks include it", func() {
				rec := do(h, http.MethodGet, "/board", "")
				So(rec.Code, ShouldEqual, http.StatusOK)
				var board types.BoardView
				So(json.Unmarshal(rec.Body.Bytes(), &board), ShouldBeNil)
				So(board.Filled, ShouldEqual, 1)
				So(board.Groups[0].Slots[0].Index, ShouldEqual, 1)

				rec = do(h, http.MethodGet, "/ranks", "")
				var ranks []types.RankView
				So(json.Unmarshal(rec.Body.Bytes(), &ranks), ShouldBeNil)
				So(len(ranks), ShouldEqual, 1)
				So(ranks[0].Name, ShouldEqual, "Runner")
			})

			Convey("Then DELETE empties it", func() {
				rec := do(h, http.MethodDelete, "/slots/mile/1", "")
				So(rec.Code, ShouldEqual, http.StatusNoContent)

				rec = do(h, http.MethodGet, "/slots/mile/1", "")
				So(rec.Body.String(), ShouldContainSubstring, `"filled":false`)
			})
		})

		Convey("When the index is not a number", func() {
			rec := do(h, http.MethodGet, "/slots/mile/first", "")

			Convey("Then it is a bad request", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
				So(errorCode(rec), ShouldEqual, "invalid_key")
			})
		})

		Convey("When the slot is outside the layout", func() {
			rec := do(h, http.MethodPut, "/slots/dirt/0", `{}`)

			Convey("Then it is not found", func() {
				So(rec.Code, ShouldEqual, http.StatusNotFound)
				So(errorCode(rec), ShouldEqual, "unknown_slot")
			})
		})

		Convey("When the body is not JSON", func() {
			rec := do(h, http.MethodPut, "/slots/mile/0", `name=Runner`)

			Convey("Then it is a bad request", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
				So(errorCode(rec), ShouldEqual, "invalid_body")
			})
		})
	})
}

func TestResetRoute(t *testing.T) {
	Convey("Given a board with one slot", t, func() {
		h, svc := newTestServer()
		_ = do(h, http.MethodPut, "/slots/long/0", `{"name":"A"}`)

		Convey("When reset is posted without confirmation", func() {
			rec := do(h, http.MethodPost, "/reset", "")

			Convey("Then nothing is wiped", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
				So(errorCode(rec), ShouldEqual, "confirm_required")
				So(svc.Board(context.Background()).Filled, ShouldEqual, 1)
			})
		})

		Convey("When reset is confirmed", func() {
			rec := do(h, http.MethodPost, "/reset?confirm=true", "")

			Convey("Then the empty board is returned", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(rec.Body.String(), ShouldContainSubstring, `"filled":0`)
			})
		})
	})
}

func TestOperationalRoutes(t *testing.T) {
	Convey("Given the board API", t, func() {
		h, _ := newTestServer()

		Convey("Then /healthz serves Prometheus metrics", func() {
			_ = do(h, http.MethodGet, "/board", "")
			rec := do(h, http.MethodGet, "/healthz", "")
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.String(), ShouldContainSubstring, "arena_board_http_requests_total")
		})

		Convey("Then /stats reports the layout", func() {
			rec := do(h, http.MethodGet, "/stats", "")
			So(rec.Code, ShouldEqual, http.StatusOK)
			var stats map[string]any
			So(json.Unmarshal(rec.Body.Bytes(), &stats), ShouldBeNil)
			So(stats["slots"], ShouldEqual, 5.0)
			So(stats["started"], ShouldEqual, true)
		})

		Convey("Then the OpenAPI document is served", func() {
			rec := do(h, http.MethodGet, "/openapi.yaml", "")
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.String(), ShouldContainSubstring, "/slots/{group}/{index}")
		})

		Convey("Then unknown routes answer with a JSON error", func() {
			rec := do(h, http.MethodGet, "/leaderboard", "")
			So(rec.Code, ShouldEqual, http.StatusNotFound)
			So(errorCode(rec), ShouldEqual, "not_found")
		})
	})
}

func TestMiddleware(t *testing.T) {
	Convey("Given the board API", t, func() {
		h, _ := newTestServer()

		Convey("When no request id is sent", func() {
			rec := do(h, http.MethodGet, "/board", "")

			Convey("Then a UUID is assigned", func() {
				_, err := uuid.Parse(rec.Header().Get(api.RequestIDHeader))
				So(err, ShouldBeNil)
			})
		})

		Convey("When a valid request id is sent", func() {
			id := uuid.NewString()
			req := httptest.NewRequest(http.MethodGet, "/board", nil)
			req.Header.Set(api.RequestIDHeader, id)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			Convey("Then it is echoed", func() {
				So(rec.Header().Get(api.RequestIDHeader), ShouldEqual, id)
			})
		})

		Convey("When a browser sends a preflight", func() {
			req := httptest.NewRequest(http.MethodOptions, "/slots/mile/0", nil)
			req.Header.Set("Origin", "http://localhost:3000")
			req.Header.Set("Access-Control-Request-Method", http.MethodPut)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			Convey("Then CORS allows it", func() {
				So(rec.Header().Get("Access-Control-Allow-Origin"), ShouldEqual, "*")
			})
		})
	})
}

func TestRequestIDFrom(t *testing.T) {
	Convey("Given a handler behind RequestID", t, func() {
		var seen string
		h := api.RequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			seen = api.RequestIDFrom(r.Context())
		}))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		So(seen, ShouldNotBeEmpty)
		So(seen, ShouldEqual, rec.Header().Get(api.RequestIDHeader))
		So(api.RequestIDFrom(context.Background()), ShouldEqual, "")
	})
}
