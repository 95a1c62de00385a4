package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoggerInit(t *testing.T) {
	Convey("Given a text logger writing to a buffer", t, func() {
		var buf bytes.Buffer
		So(Init(WithWriter(&buf)), ShouldBeNil)
		defer func() { So(Sync(), ShouldBeNil) }()

		Convey("Then info lines carry message, fields and source", func() {
			Get().Info(context.Background(), "slot saved", String("slot", "mile-0"), Int("score", 11100))
			out := buf.String()
			So(out, ShouldContainSubstring, "slot saved")
			So(out, ShouldContainSubstring, "slot=mile-0")
			So(out, ShouldContainSubstring, "score=11100")
			So(out, ShouldContainSubstring, "source=")
		})

		Convey("Then debug is filtered at the default level", func() {
			Get().Debug(context.Background(), "hidden")
			So(buf.String(), ShouldNotContainSubstring, "hidden")
		})

		Convey("Then named loggers group their fields", func() {
			Named("store").Warn(context.Background(), "retry", Bool("ok", false))
			So(buf.String(), ShouldContainSubstring, "store.ok=false")
		})
	})
}

func TestLoggerJSON(t *testing.T) {
	Convey("Given a json logger", t, func() {
		var buf bytes.Buffer
		So(Init(WithWriter(&buf), WithFormat("JSON")), ShouldBeNil)

		Get().Error(context.Background(), "load failed", Error(errors.New("boom")))

		var line map[string]any
		So(json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line), ShouldBeNil)
		So(line["msg"], ShouldEqual, "load failed")
		So(line["level"], ShouldEqual, "ERROR")
		So(line["error"], ShouldEqual, "boom")
	})
}

func TestSetLevelString(t *testing.T) {
	Convey("Given an initialized logger", t, func() {
		var buf bytes.Buffer
		So(Init(WithWriter(&buf)), ShouldBeNil)

		Convey("When the level is set to debug", func() {
			So(SetLevelString(" Debug "), ShouldBeNil)
			Get().Debug(context.Background(), "visible")
			So(buf.String(), ShouldContainSubstring, "visible")
		})

		Convey("When the level is set to error", func() {
			So(SetLevelString("error"), ShouldBeNil)
			Get().Warn(context.Background(), "quiet")
			So(strings.TrimSpace(buf.String()), ShouldEqual, "")
		})

		Convey("When the level is unknown", func() {
			So(SetLevelString("loud"), ShouldNotBeNil)
		})

		Convey("When the level is empty", func() {
			So(SetLevelString(""), ShouldBeNil)
		})
	})
}
