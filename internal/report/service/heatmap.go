package service

import (
	"context"
	"sort"

	"github.com/mutazsaeed/fitzy/internal/cache"
	"github.com/mutazsaeed/fitzy/internal/report/daterange"
	"github.com/mutazsaeed/fitzy/internal/report/domain"
	visitdomain "github.com/mutazsaeed/fitzy/internal/visit/domain"
)

const (
	peakTopHours = 5
	peakTopDays  = 3
)

// GymHourlyHeatmap buckets check-in timestamps into a complete 7x24 grid
// in the display timezone. Only visits with a precise check-in timestamp
// participate. The default window is the last 7 days.
func (s *Service) GymHourlyHeatmap(ctx context.Context, q domain.HeatmapQuery) (domain.HeatmapResponse, error) {
	period := q.Period
	if period == "" {
		period = daterange.Period7D
	}
	rng, err := daterange.ResolvePeriod(period, q.From, q.To, s.clock.Now())
	if err != nil {
		return domain.HeatmapResponse{}, err
	}

	key := cache.Key("report:gym-hourly-heatmap", q)
	return cache.GetOrCompute(ctx, s.cache, key, heavyTTL, func(ctx context.Context) (domain.HeatmapResponse, error) {
		f := visitdomain.Filter{
			GymID:       &q.GymID,
			BranchID:    q.BranchID,
			From:        rng.FromStart,
			ToExclusive: rng.ToExclusive,
		}
		rows, err := s.repo.GroupByHourDow(ctx, f)
		if err != nil {
			return domain.HeatmapResponse{}, err
		}

		counts := make(map[[2]int]int, len(rows))
		for _, row := range rows {
			counts[[2]int{row.Dow, row.Hour}] = row.Visits
		}

		cells := make([]domain.HeatmapCell, 0, 7*24)
		hourTotals := make([]int, 24)
		dowTotals := make([]int, 7)
		for dow := 0; dow <= 6; dow++ {
			for hour := 0; hour <= 23; hour++ {
				visits := counts[[2]int{dow, hour}]
				cells = append(cells, domain.HeatmapCell{Dow: dow, Hour: hour, Visits: visits})
				hourTotals[hour] += visits
				dowTotals[dow] += visits
			}
		}

		return domain.HeatmapResponse{
			Range:   rangeInfo(rng),
			Params:  domain.HeatmapParams{GymID: q.GymID, BranchID: q.BranchID},
			Heatmap: cells,
			Peak: domain.HeatmapPeak{
				TopHours: topHours(hourTotals, peakTopHours),
				TopDays:  topDays(dowTotals, peakTopDays),
			},
		}, nil
	})
}

// topHours ranks hours by total visits descending; stable sort over the
// ascending hour order breaks ties toward the earlier hour.
func topHours(totals []int, n int) []domain.PeakHour {
	peaks := make([]domain.PeakHour, 0, len(totals))
	for hour, visits := range totals {
		peaks = append(peaks, domain.PeakHour{Hour: hour, Visits: visits})
	}
	sort.SliceStable(peaks, func(i, j int) bool { return peaks[i].Visits > peaks[j].Visits })
	if len(peaks) > n {
		peaks = peaks[:n]
	}
	return peaks
}

func topDays(totals []int, n int) []domain.PeakDay {
	peaks := make([]domain.PeakDay, 0, len(totals))
	for dow, visits := range totals {
		peaks = append(peaks, domain.PeakDay{Dow: dow, Visits: visits})
	}
	sort.SliceStable(peaks, func(i, j int) bool { return peaks[i].Visits > peaks[j].Visits })
	if len(peaks) > n {
		peaks = peaks[:n]
	}
	return peaks
}
