package cleaning_test

import (
	"errors"
	"testing"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/okian/wastewater/internal/domain/cleaning"
	"github.com/okian/wastewater/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func table(rows ...[]string) dataframe.DataFrame {
	records := append([][]string{{"method", "sars_cov_2", "sample_collect_date"}}, rows...)
	return dataframe.LoadRecords(records)
}

func TestProcessScenario(t *testing.T) {
	Convey("Given rows with an old method, an outlier and two keepers", t, func() {
		raw := table(
			[]string{"0", "100", "2021-01-01"},
			[]string{"1", "5000000", "2021-01-02"},
			[]string{"1", "2000", "2021-01-03"},
			[]string{"2", "1500", "2021-01-01"},
		)

		Convey("When the table is cleaned", func() {
			out, rep, err := cleaning.ProcessWithReport(raw)

			Convey("Then only the two keepers remain, ordered by date", func() {
				So(err, ShouldBeNil)
				So(out.Names(), ShouldResemble, []string{"sample_collect_date", "sars_cov_2"})
				So(out.Col("sample_collect_date").Records(), ShouldResemble, []string{"2021-01-01T00:00:00Z", "2021-01-03T00:00:00Z"})
				So(out.Col("sars_cov_2").Float(), ShouldResemble, []float64{1500, 2000})
				So(out.Col("sars_cov_2").Type(), ShouldEqual, series.Float)
			})

			Convey("And the report explains the dropped rows", func() {
				So(rep, ShouldResemble, cleaning.Report{Input: 4, OldMethod: 1, Outliers: 1, Output: 2})
			})

			Convey("And the raw table is untouched", func() {
				So(raw.Nrow(), ShouldEqual, 4)
				So(raw.Names(), ShouldResemble, []string{"method", "sars_cov_2", "sample_collect_date"})
				So(raw.Col("sample_collect_date").Records()[0], ShouldEqual, "2021-01-01")
			})
		})
	})
}

func TestProcessInvariants(t *testing.T) {
	Convey("Given a larger unordered table", t, func() {
		raw := table(
			[]string{"3", "2999999", "2021-03-10"},
			[]string{"0", "10", "2021-01-01"},
			[]string{"1", "3000000", "2021-02-01"},
			[]string{"1", "12.5", "2021-01-15 08:30:00"},
			[]string{"2", "800", "2021-01-15T06:00:00Z"},
			[]string{"1", "-4", "2020-12-31"},
			[]string{"0", "2999999", "2021-04-01"},
		)

		out, err := cleaning.Process(raw)
		So(err, ShouldBeNil)
		samples, err := cleaning.Samples(out)
		So(err, ShouldBeNil)

		Convey("Then no value reaches the outlier threshold", func() {
			for _, s := range samples {
				So(s.Concentration, ShouldBeLessThan, cleaning.OutlierThreshold)
			}
		})

		Convey("Then the threshold itself is excluded and old-method rows are gone", func() {
			So(out.Nrow(), ShouldEqual, 4)
			So(out.Col("sars_cov_2").Float(), ShouldResemble, []float64{-4, 800, 12.5, 2999999})
		})

		Convey("Then dates are non-decreasing including time of day", func() {
			for i := 1; i < len(samples); i++ {
				So(samples[i].CollectedAt.Before(samples[i-1].CollectedAt), ShouldBeFalse)
			}
		})
	})

	Convey("Given several rows on the same date", t, func() {
		raw := table(
			[]string{"1", "30", "2021-05-02"},
			[]string{"1", "10", "2021-05-01"},
			[]string{"1", "20", "2021-05-01"},
			[]string{"1", "5", "2021-05-01"},
		)

		out, err := cleaning.Process(raw)

		Convey("Then ties keep their input order", func() {
			So(err, ShouldBeNil)
			So(out.Col("sars_cov_2").Float(), ShouldResemble, []float64{10, 20, 5, 30})
		})
	})

	Convey("Given a row whose method is missing", t, func() {
		raw := table(
			[]string{"NaN", "40", "2021-05-01"},
			[]string{"1", "NaN", "2021-05-02"},
			[]string{"1", "50", "2021-05-03"},
		)

		out, rep, err := cleaning.ProcessWithReport(raw)

		Convey("Then it is kept while a missing value is dropped", func() {
			So(err, ShouldBeNil)
			So(out.Col("sars_cov_2").Float(), ShouldResemble, []float64{40, 50})
			So(rep.Outliers, ShouldEqual, 1)
		})
	})
}

func TestProcessIdempotent(t *testing.T) {
	Convey("Given a cleaned table", t, func() {
		first, err := cleaning.Process(table(
			[]string{"1", "700", "2021-02-03"},
			[]string{"2", "900", "2021-01-03"},
			[]string{"0", "100", "2021-01-04"},
		))
		So(err, ShouldBeNil)

		Convey("When it is cleaned again with a passing method column", func() {
			methods := make([]int, first.Nrow())
			for i := range methods {
				methods[i] = 1
			}
			again, err := cleaning.Process(first.Mutate(series.New(methods, series.Int, "method")))

			Convey("Then the rows are unchanged", func() {
				So(err, ShouldBeNil)
				So(again.Names(), ShouldResemble, first.Names())
				So(again.Records(), ShouldResemble, first.Records())
			})
		})
	})
}

func TestProcessEdgeCases(t *testing.T) {
	Convey("Given a table where every row is filtered out", t, func() {
		out, err := cleaning.Process(table(
			[]string{"0", "1", "2021-01-01"},
			[]string{"1", "9000000", "2021-01-02"},
		))

		Convey("Then an empty two-column table is returned", func() {
			So(err, ShouldBeNil)
			So(out.Nrow(), ShouldEqual, 0)
			So(out.Names(), ShouldResemble, model.CleanedColumns)
		})
	})

	Convey("Given a table without a method column", t, func() {
		raw := dataframe.LoadRecords([][]string{
			{"sars_cov_2", "sample_collect_date"},
			{"1", "2021-01-01"},
		})
		_, err := cleaning.Process(raw)

		Convey("Then a schema error names the column", func() {
			So(errors.Is(err, cleaning.ErrSchema), ShouldBeTrue)
			var se *cleaning.SchemaError
			So(errors.As(err, &se), ShouldBeTrue)
			So(se.Column, ShouldEqual, "method")
		})
	})

	Convey("Given a non-numeric concentration column", t, func() {
		_, err := cleaning.Process(table([]string{"1", "lots", "2021-01-01"}))

		Convey("Then a schema error is returned", func() {
			var se *cleaning.SchemaError
			So(errors.As(err, &se), ShouldBeTrue)
			So(se.Column, ShouldEqual, "sars_cov_2")
		})
	})

	Convey("Given an unparseable date on a kept row", t, func() {
		_, err := cleaning.Process(table(
			[]string{"1", "10", "2021-01-01"},
			[]string{"1", "20", "yesterday"},
		))

		Convey("Then a parse error points at the raw row", func() {
			So(errors.Is(err, cleaning.ErrParse), ShouldBeTrue)
			var pe *cleaning.ParseError
			So(errors.As(err, &pe), ShouldBeTrue)
			So(pe.Row, ShouldEqual, 1)
			So(pe.Value, ShouldEqual, "yesterday")
		})
	})

	Convey("Given an unparseable date on a dropped row", t, func() {
		out, err := cleaning.Process(table(
			[]string{"0", "10", "yesterday"},
			[]string{"1", "20", "2021-01-01"},
		))

		Convey("Then the row is filtered before parsing", func() {
			So(err, ShouldBeNil)
			So(out.Nrow(), ShouldEqual, 1)
		})
	})

	Convey("Given a raw table that failed to load", t, func() {
		_, err := cleaning.Process(dataframe.DataFrame{Err: errors.New("bad csv")})

		Convey("Then the load error is returned", func() {
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "bad csv")
		})
	})
}

func TestSamples(t *testing.T) {
	Convey("Given a cleaned table", t, func() {
		out, err := cleaning.Process(table(
			[]string{"1", "2000", "2021-01-03"},
			[]string{"2", "1500", "2021-01-01"},
		))
		So(err, ShouldBeNil)

		Convey("When decoded", func() {
			samples, err := cleaning.Samples(out)

			Convey("Then typed samples come back in order", func() {
				So(err, ShouldBeNil)
				So(samples, ShouldHaveLength, 2)
				So(samples[0].CollectedAt.Equal(time.Date(2021, time.January, 1, 0, 0, 0, 0, time.UTC)), ShouldBeTrue)
				So(samples[0].Concentration, ShouldEqual, 1500)
				So(cleaning.Rows(samples)[1], ShouldResemble, model.Row{SampleCollectDate: "2021-01-03T00:00:00Z", SARSCoV2: 2000})
			})
		})
	})

	Convey("Given a raw table", t, func() {
		_, err := cleaning.Samples(table([]string{"1", "2000", "2021-01-03"}))

		Convey("Then decoding refuses it", func() {
			So(errors.Is(err, cleaning.ErrSchema), ShouldBeTrue)
		})
	})
}

func TestParseDate(t *testing.T) {
	Convey("Given accepted date spellings", t, func() {
		want := time.Date(2021, time.January, 3, 0, 0, 0, 0, time.UTC)
		for _, s := range []string{"2021-01-03", "2021/01/03", "1/3/2021", "20210103", "2021-01-03T00:00:00Z", " 2021-01-03 00:00:00 "} {
			got, err := cleaning.ParseDate(s)
			So(err, ShouldBeNil)
			So(got.Equal(want), ShouldBeTrue)
		}
	})

	Convey("Given zoned timestamps", t, func() {
		got, err := cleaning.ParseDate("2021-01-03T23:30:00-05:00")
		So(err, ShouldBeNil)
		So(got.Day(), ShouldEqual, 3)
		So(got.UTC().Day(), ShouldEqual, 4)
	})

	Convey("Given rubbish", t, func() {
		_, err := cleaning.ParseDate("")
		So(err, ShouldNotBeNil)
		_, err = cleaning.ParseDate("03.01.2021")
		So(err, ShouldNotBeNil)
	})
}
