// Package stats computes summary statistics over a fetched page of wallet
// ledger rows for the dashboard header cards and sparkline. Everything is
// derived from the rows at request time; nothing is cached.
package stats

import (
	"sort"

	"github.com/markcheno/go-talib"
	"gonum.org/v1/gonum/stat"

	"github.com/adeyinka/paydesk/internal/domain"
)

// smaPeriod is the window of the daily-volume moving average.
const smaPeriod = 7

// DayVolume is the summed gross volume of one calendar day.
type DayVolume struct {
	Date  string  `json:"date"` // YYYY-MM-DD
	Total float64 `json:"total"`
}

// Summary aggregates one page of wallet entries.
type Summary struct {
	Count        int            `json:"count"`
	TotalAmount  float64        `json:"total_amount"`
	TotalFees    float64        `json:"total_fees"`
	CreditTotal  float64        `json:"credit_total"`
	DebitTotal   float64        `json:"debit_total"`
	NetFlow      float64        `json:"net_flow"`
	MeanAmount   float64        `json:"mean_amount"`
	StdDevAmount float64        `json:"stddev_amount"`
	ByStatus     map[string]int `json:"by_status"`
	DailyVolume  []DayVolume    `json:"daily_volume"`
	// VolumeTrend is the 7-day simple moving average of daily volume,
	// aligned with DailyVolume. Empty when fewer days than the window.
	VolumeTrend []float64 `json:"volume_trend,omitempty"`
}

// Summarize computes the summary for one page of entries.
func Summarize(entries []domain.WalletEntry) Summary {
	summary := Summary{
		Count:    len(entries),
		ByStatus: make(map[string]int),
	}
	if len(entries) == 0 {
		return summary
	}

	amounts := make([]float64, 0, len(entries))
	byDay := make(map[string]float64)

	for _, entry := range entries {
		amounts = append(amounts, entry.Amount)
		summary.TotalAmount += entry.Amount
		summary.TotalFees += entry.Fee
		summary.ByStatus[entry.Status.String()]++

		switch entry.Direction {
		case "credit":
			summary.CreditTotal += entry.Amount
		case "debit":
			summary.DebitTotal += entry.Amount
		}

		if !entry.CreatedAt.IsZero() {
			byDay[entry.CreatedAt.Format("2006-01-02")] += entry.Amount
		}
	}

	summary.NetFlow = summary.CreditTotal - summary.DebitTotal
	summary.MeanAmount = stat.Mean(amounts, nil)
	if len(amounts) > 1 {
		summary.StdDevAmount = stat.StdDev(amounts, nil)
	}

	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Strings(days)

	volumes := make([]float64, 0, len(days))
	for _, day := range days {
		summary.DailyVolume = append(summary.DailyVolume, DayVolume{Date: day, Total: byDay[day]})
		volumes = append(volumes, byDay[day])
	}

	if len(volumes) >= smaPeriod {
		summary.VolumeTrend = talib.Sma(volumes, smaPeriod)
	}

	return summary
}
