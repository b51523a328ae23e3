package lidar

import (
	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
)

// Summary describes the distribution of hit distances in a scan. Misses only count towards Rays.
type Summary struct {
	Rays     int     `json:"rays"`
	Hits     int     `json:"hits"`
	HitRatio float64 `json:"hit_ratio"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Mean     float64 `json:"mean"`
	Median   float64 `json:"median"`
	StdDev   float64 `json:"std_dev"`
}

// Summarize computes statistics over the measurements that hit an obstacle. A scan without hits
// yields a summary with zero distance statistics.
func Summarize(ms Measurements) (Summary, error) {
	summary := Summary{Rays: len(ms)}
	var hits stats.Float64Data
	for _, m := range ms {
		if m.Hit() {
			hits = append(hits, m.Distance())
		}
	}
	summary.Hits = len(hits)
	if len(hits) == 0 {
		return summary, nil
	}
	summary.HitRatio = float64(len(hits)) / float64(len(ms))

	var err error
	if summary.Min, err = hits.Min(); err != nil {
		return Summary{}, errors.Wrap(err, "min")
	}
	if summary.Max, err = hits.Max(); err != nil {
		return Summary{}, errors.Wrap(err, "max")
	}
	if summary.Mean, err = hits.Mean(); err != nil {
		return Summary{}, errors.Wrap(err, "mean")
	}
	if summary.Median, err = hits.Median(); err != nil {
		return Summary{}, errors.Wrap(err, "median")
	}
	if summary.StdDev, err = hits.StandardDeviation(); err != nil {
		return Summary{}, errors.Wrap(err, "standard deviation")
	}
	return summary, nil
}
