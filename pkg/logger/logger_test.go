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
	Convey("Given the global logger", t, func() {
		Convey("When initialised with defaults", func() {
			err := Init()

			Convey("Then Get returns a usable logger", func() {
				So(err, ShouldBeNil)
				So(Get(), ShouldNotBeNil)
				So(Sync(), ShouldBeNil)
			})
		})

		Convey("When initialised with an unknown format", func() {
			err := Init(WithFormat("xml"))

			Convey("Then it fails", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "unknown log format")
			})
		})
	})
}

func TestLoggerOutput(t *testing.T) {
	Convey("Given a JSON logger writing to a buffer", t, func() {
		var buf bytes.Buffer
		So(Init(WithWriter(&buf), WithFormat(FormatJSON)), ShouldBeNil)
		ctx := context.Background()

		Convey("When logging an info record with fields", func() {
			Get().Info(ctx, "cleaned table", Int("rows", 3), String("stage", "clean"))

			Convey("Then the record carries the fields and source", func() {
				var rec map[string]interface{}
				So(json.Unmarshal(buf.Bytes(), &rec), ShouldBeNil)
				So(rec["msg"], ShouldEqual, "cleaned table")
				So(rec["rows"], ShouldEqual, float64(3))
				So(rec["stage"], ShouldEqual, "clean")
				So(rec["source"], ShouldContainSubstring, "logger_test.go")
			})
		})

		Convey("When the level is raised to warn", func() {
			So(SetLevelString("warn"), ShouldBeNil)
			Get().Info(ctx, "hidden")
			Get().Warn(ctx, "shown", Error(errors.New("boom")))

			Convey("Then only the warning is written", func() {
				out := buf.String()
				So(out, ShouldNotContainSubstring, "hidden")
				So(out, ShouldContainSubstring, "shown")
				So(out, ShouldContainSubstring, "boom")
			})
		})

		Convey("When a named logger is used", func() {
			Named("render").Info(ctx, "figure built", Float64("frac", 0.1))

			Convey("Then fields are grouped under the name", func() {
				So(buf.String(), ShouldContainSubstring, `"render":{`)
			})
		})
	})
}

func TestSetLevelString(t *testing.T) {
	Convey("Given level names", t, func() {
		So(Init(WithWriter(&bytes.Buffer{})), ShouldBeNil)

		for _, lvl := range []string{"debug", "info", "", "warn", "WARNING", " error "} {
			So(SetLevelString(lvl), ShouldBeNil)
		}
		err := SetLevelString("verbose")
		So(err, ShouldNotBeNil)
		So(strings.Contains(err.Error(), "verbose"), ShouldBeTrue)
	})
}

func TestStandaloneLogger(t *testing.T) {
	Convey("Given a standalone logger", t, func() {
		var buf bytes.Buffer
		l := New(&buf)
		l.Debug(context.Background(), "debug visible")
		So(buf.String(), ShouldContainSubstring, "debug visible")
	})
}
