package figure_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/okian/wastewater/internal/adapters/figure"
	"github.com/okian/wastewater/internal/domain/cleaning"
	"github.com/okian/wastewater/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func cleaned(rows ...[]string) dataframe.DataFrame {
	records := append([][]string{{"method", "sars_cov_2", "sample_collect_date"}}, rows...)
	out, err := cleaning.Process(dataframe.LoadRecords(records))
	if err != nil {
		panic(err)
	}
	return out
}

func season() dataframe.DataFrame {
	start := time.Date(2021, time.January, 15, 0, 0, 0, 0, time.UTC)
	var rows [][]string
	for i := 0; i < 60; i++ {
		day := start.AddDate(0, 0, i*3)
		value := 20000 + 500*float64(i%7) + 1000*float64(i)
		rows = append(rows, []string{"1", fmt.Sprintf("%g", value), day.Format("2006-01-02")})
	}
	return cleaned(rows...)
}

func TestRender(t *testing.T) {
	ctx := context.Background()
	r := figure.NewRenderer()

	Convey("Given a cleaned season of samples", t, func() {
		df := season()

		Convey("When the figure is built", func() {
			fig, err := r.Render(ctx, df)
			So(err, ShouldBeNil)

			Convey("Then it has a scatter and a trend layer", func() {
				So(fig.Series, ShouldHaveLength, 2)
				scatter := fig.Series[0].(chart.TimeSeries)
				trend := fig.Series[1].(chart.TimeSeries)
				So(scatter.XValues, ShouldHaveLength, df.Nrow())
				So(scatter.Style.StrokeWidth, ShouldEqual, chart.Disabled)
				So(scatter.Style.DotColor, ShouldResemble, drawing.ColorFromHex("1E90FF"))
				So(trend.Style.StrokeColor, ShouldResemble, drawing.ColorFromHex("FF8C00"))
			})

			Convey("Then the trend has one whole-day point per sample", func() {
				So(fig.Trend, ShouldHaveLength, len(fig.Samples))
				for i, p := range fig.Trend {
					So(p.CollectedAt.Equal(fig.Samples[i].CollectedAt), ShouldBeTrue)
				}
			})

			Convey("Then the axes carry their names and month ticks", func() {
				So(fig.XAxis.Name, ShouldEqual, figure.XAxisName)
				So(fig.YAxis.Name, ShouldEqual, figure.YAxisName)
				So(fig.XAxis.TickStyle.TextRotationDegrees, ShouldEqual, 45)
				So(fig.XAxis.TickStyle.TextHorizontalAlign, ShouldEqual, chart.TextHorizontalAlignRight)
				So(fig.XAxis.Ticks, ShouldHaveLength, len(fig.MinorTicks)+2)

				var labels []string
				for _, tk := range fig.XAxis.Ticks {
					if tk.Label != "" {
						labels = append(labels, tk.Label)
					}
				}
				So(labels, ShouldResemble, []string{"2021-02", "2021-04", "2021-06"})
			})

			Convey("Then major ticks are month starts contained in the minor ticks", func() {
				So(fig.MajorTicks, ShouldNotBeEmpty)
				minor := map[time.Time]bool{}
				for _, m := range fig.MinorTicks {
					So(m.Day(), ShouldEqual, 1)
					minor[m] = true
				}
				for _, m := range fig.MajorTicks {
					So(m.Day(), ShouldEqual, 1)
					So(minor[m], ShouldBeTrue)
				}
			})

			Convey("Then y values are printed as plain decimals", func() {
				So(fig.YAxis.ValueFormatter(2500000.0), ShouldEqual, "2500000")
				for _, tk := range fig.YAxis.Ticks {
					So(tk.Label, ShouldNotContainSubstring, "e+")
				}
			})

			Convey("Then it can be exported as PNG and SVG", func() {
				var png, svg bytes.Buffer
				So(fig.Render(chart.PNG, &png), ShouldBeNil)
				So(bytes.HasPrefix(png.Bytes(), []byte("\x89PNG")), ShouldBeTrue)
				So(fig.Render(chart.SVG, &svg), ShouldBeNil)
				So(svg.String(), ShouldContainSubstring, "<svg")
			})
		})

		Convey("When built and exported", func() {
			fig, err := r.Render(ctx, df)
			So(err, ShouldBeNil)
			So(fig.Render(chart.PNG, &bytes.Buffer{}), ShouldBeNil)

			Convey("Then the x range still covers every sample", func() {
				assertCovers(fig)
			})
		})

		Convey("When built twice", func() {
			a, errA := r.Render(ctx, df)
			b, errB := r.Render(ctx, df)

			Convey("Then each call yields an independent figure", func() {
				So(errA, ShouldBeNil)
				So(errB, ShouldBeNil)
				So(a.ID, ShouldNotEqual, b.ID)
				So(a.Trend, ShouldResemble, b.Trend)
			})
		})
	})

	Convey("Given an empty cleaned table", t, func() {
		df := cleaned([]string{"0", "10", "2021-01-01"})
		_, err := r.Render(ctx, df)

		Convey("Then rendering fails with an empty input error", func() {
			So(errors.Is(err, figure.ErrEmptyInput), ShouldBeTrue)
			var ee *figure.EmptyInputError
			So(errors.As(err, &ee), ShouldBeTrue)
		})
	})

	Convey("Given a single row on a month start", t, func() {
		fig, err := r.Render(ctx, cleaned([]string{"1", "1500", "2021-03-01"}))

		Convey("Then both tick sets collapse to that month", func() {
			So(err, ShouldBeNil)
			want := []time.Time{time.Date(2021, time.March, 1, 0, 0, 0, 0, time.UTC)}
			So(fig.MajorTicks, ShouldResemble, want)
			So(fig.MinorTicks, ShouldResemble, want)
			So(fig.Trend, ShouldResemble, []model.Sample{{CollectedAt: want[0], Concentration: 1500}})
			So(fig.Render(chart.PNG, &bytes.Buffer{}), ShouldBeNil)
		})
	})

	Convey("Given two samples spanning one month start", t, func() {
		fig, err := r.Render(ctx, cleaned(
			[]string{"1", "1500", "2021-01-01"},
			[]string{"1", "2000", "2021-01-03"},
		))
		So(err, ShouldBeNil)

		Convey("Then the x range covers both samples", func() {
			assertCovers(fig)
		})

		Convey("Then the outermost ticks sit on the padded range ends", func() {
			ticks := fig.XAxis.Ticks
			So(ticks, ShouldHaveLength, 3)
			So(ticks[0].Value, ShouldEqual, fig.XAxis.Range.GetMin())
			So(ticks[0].Label, ShouldBeEmpty)
			So(ticks[1].Label, ShouldEqual, "2021-01")
			So(ticks[2].Value, ShouldEqual, fig.XAxis.Range.GetMax())
			So(ticks[2].Label, ShouldBeEmpty)
		})

		Convey("Then it exports as PNG and SVG and keeps its range", func() {
			min, max := fig.XAxis.Range.GetMin(), fig.XAxis.Range.GetMax()
			var png, svg bytes.Buffer
			So(fig.Render(chart.PNG, &png), ShouldBeNil)
			So(fig.Render(chart.SVG, &svg), ShouldBeNil)
			So(png.Len(), ShouldBeGreaterThan, 0)
			So(svg.String(), ShouldContainSubstring, "<svg")
			So(fig.XAxis.Range.GetMin(), ShouldEqual, min)
			So(fig.XAxis.Range.GetMax(), ShouldEqual, max)
			assertCovers(fig)
		})
	})

	Convey("Given a single row inside a month", t, func() {
		fig, err := r.Render(ctx, cleaned([]string{"1", "1500", "2021-03-14"}))

		Convey("Then no month start falls in the span and the chart still draws", func() {
			So(err, ShouldBeNil)
			So(fig.MajorTicks, ShouldBeEmpty)
			So(fig.MinorTicks, ShouldBeEmpty)
			So(fig.XAxis.Range.GetMin(), ShouldBeLessThan, fig.XAxis.Range.GetMax())
			So(fig.YAxis.Range.GetMin(), ShouldBeLessThan, fig.YAxis.Range.GetMax())
			So(fig.Render(chart.SVG, &bytes.Buffer{}), ShouldBeNil)
		})
	})

	Convey("Given a raw table", t, func() {
		raw := dataframe.LoadRecords([][]string{{"method", "sars_cov_2", "sample_collect_date"}, {"1", "2", "2021-01-01"}})
		_, err := r.Render(ctx, raw)

		Convey("Then the schema error is passed through", func() {
			So(errors.Is(err, cleaning.ErrSchema), ShouldBeTrue)
		})
	})

	Convey("Given a cancelled context", t, func() {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := r.Render(cctx, season())
		So(errors.Is(err, context.Canceled), ShouldBeTrue)
	})
}

func TestRendererOptions(t *testing.T) {
	Convey("Given size and title options", t, func() {
		r := figure.NewRenderer(figure.WithSize(800, 300), figure.WithTitle("Plant A"), figure.WithSize(-1, 0))
		fig, err := r.Build(context.Background(), []model.Sample{
			{CollectedAt: time.Date(2021, time.January, 1, 0, 0, 0, 0, time.UTC), Concentration: 10},
			{CollectedAt: time.Date(2021, time.February, 1, 0, 0, 0, 0, time.UTC), Concentration: 20},
		})

		Convey("Then the chart uses them", func() {
			So(err, ShouldBeNil)
			So(fig.Width, ShouldEqual, 800)
			So(fig.Height, ShouldEqual, 300)
			So(fig.Title, ShouldEqual, "Plant A")
		})
	})
}

func assertCovers(fig *figure.Figure) {
	min, max := fig.XAxis.Range.GetMin(), fig.XAxis.Range.GetMax()
	So(min, ShouldBeLessThan, max)
	for _, s := range fig.Samples {
		x := chart.TimeToFloat64(s.CollectedAt)
		So(x, ShouldBeGreaterThan, min)
		So(x, ShouldBeLessThan, max)
	}
}
