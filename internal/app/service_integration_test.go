package service_test

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	service "github.com/okian/wastewater/internal/app"
	"github.com/okian/wastewater/internal/adapters/source"
	"github.com/okian/wastewater/internal/domain/calendar"
	. "github.com/smartystreets/goconvey/convey"
)

// seasonCSV builds a year of twice-weekly samples with retired-method rows
// and outliers mixed in, in shuffled order.
func seasonCSV() string {
	var b strings.Builder
	b.WriteString("site,method,sars_cov_2,sample_collect_date\n")
	start := time.Date(2021, time.January, 4, 0, 0, 0, 0, time.UTC)
	for i := 103; i >= 0; i-- {
		day := start.AddDate(0, 0, i*3+i%2)
		method, value := 1, 40000+float64((i*7919)%20000)
		switch {
		case i%13 == 0:
			method = 0
		case i%17 == 0:
			value = 3_500_000
		}
		fmt.Fprintf(&b, "north,%d,%g,%s\n", method, value, day.Format("2006-01-02"))
	}
	return b.String()
}

func TestServiceIntegration(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := service.New()
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("When a season of CSV data is charted end-to-end", func() {
			fig, err := svc.Chart(ctx, strings.NewReader(seasonCSV()), source.CSV)
			So(err, ShouldBeNil)

			Convey("Then retired and outlier rows are gone and ticks are month starts", func() {
				for _, s := range fig.Samples {
					So(s.Concentration, ShouldBeLessThan, 3_000_000)
				}
				So(len(fig.MajorTicks), ShouldBeGreaterThan, 4)
				for i, tk := range fig.MinorTicks {
					So(tk.Day(), ShouldEqual, 1)
					if i > 0 {
						So(calendar.Ordinal(tk), ShouldBeGreaterThan, calendar.Ordinal(fig.MinorTicks[i-1]))
					}
				}
			})

			Convey("Then the chart encodes", func() {
				var buf bytes.Buffer
				So(svc.WriteChart(ctx, fig, service.ImagePNG, &buf), ShouldBeNil)
				So(buf.Len(), ShouldBeGreaterThan, 0)
			})
		})

		Convey("When the same data arrives as a workbook", func() {
			f := excelize.NewFile()
			sheet := f.GetSheetName(0)
			for i, line := range strings.Split(strings.TrimSpace(seasonCSV()), "\n") {
				cells := strings.Split(line, ",")
				row := make([]interface{}, len(cells))
				for j, c := range cells {
					row[j] = c
				}
				cell, _ := excelize.CoordinatesToCellName(1, i+1)
				So(f.SetSheetRow(sheet, cell, &row), ShouldBeNil)
			}
			buf, err := f.WriteToBuffer()
			So(err, ShouldBeNil)
			_ = f.Close()

			fromXLSX, err := svc.Chart(ctx, buf, source.XLSX)
			So(err, ShouldBeNil)
			fromCSV, err := svc.Chart(ctx, strings.NewReader(seasonCSV()), source.CSV)
			So(err, ShouldBeNil)

			Convey("Then both sources give the same trend", func() {
				So(fromXLSX.Trend, ShouldResemble, fromCSV.Trend)
			})
		})

		Convey("When many charts are built concurrently", func() {
			data := seasonCSV()
			var wg sync.WaitGroup
			errs := make(chan error, 8)
			for i := 0; i < 8; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					_, err := svc.Chart(ctx, strings.NewReader(data), source.CSV)
					errs <- err
				}()
			}
			wg.Wait()
			close(errs)

			Convey("Then every call succeeds independently", func() {
				for err := range errs {
					So(err, ShouldBeNil)
				}
				So(svc.GetStats()["chartsBuilt"], ShouldBeGreaterThanOrEqualTo, int64(8))
			})
		})
	})
}
