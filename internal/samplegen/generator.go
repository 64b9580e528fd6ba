package samplegen

import (
	"math"
	"math/rand/v2"

	"github.com/okian/wastewater/internal/domain/cleaning"
	"github.com/okian/wastewater/internal/domain/model"
)

// Curve parameters in gc/L.
const (
	baseline      = 60_000.0
	waveAmplitude = 250_000.0
	wavePeriod    = 120.0 // days
	noiseSigma    = 0.25
	outlierMin    = cleaning.OutlierThreshold
	outlierSpread = 6_000_000.0
	dateLayout    = "2006-01-02"
)

// Generate returns a shuffled table of samples following seasonal waves with
// log-normal noise, plus the counts cleaning must report for it.
func Generate(cfg *Config) ([]model.Measurement, Expectation) {
	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))

	every := cfg.Every
	if every <= 0 {
		every = 1
	}

	var (
		out []model.Measurement
		exp Expectation
	)
	for day := 0; day <= cfg.Days; day += every {
		wave := math.Max(0, math.Sin(2*math.Pi*float64(day)/wavePeriod))
		m := model.Measurement{
			Method:            1 + rng.IntN(3),
			SARSCoV2:          math.Round((baseline + waveAmplitude*wave*wave) * math.Exp(noiseSigma*rng.NormFloat64())),
			SampleCollectDate: cfg.Start.AddDate(0, 0, day).Format(dateLayout),
		}

		switch r := rng.Float64(); {
		case r < cfg.RetiredShare:
			m.Method = cleaning.RetiredMethod
			exp.OldMethod++
		case r < cfg.RetiredShare+cfg.OutlierShare:
			m.SARSCoV2 = math.Round(outlierMin + rng.Float64()*outlierSpread)
			exp.Outliers++
		default:
			if m.SARSCoV2 >= cleaning.OutlierThreshold {
				exp.Outliers++
			} else {
				exp.Kept++
			}
		}
		out = append(out, m)
	}

	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	exp.Rows = len(out)
	return out, exp
}
