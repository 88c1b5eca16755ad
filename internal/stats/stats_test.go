package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adeyinka/paydesk/internal/domain"
)

func entry(direction string, amount, fee float64, status domain.Status, day int) domain.WalletEntry {
	return domain.WalletEntry{
		Direction: direction,
		Amount:    amount,
		Fee:       fee,
		Status:    status,
		CreatedAt: time.Date(2024, 3, day, 12, 0, 0, 0, time.UTC),
	}
}

func TestSummarize_Empty(t *testing.T) {
	summary := Summarize(nil)
	assert.Equal(t, 0, summary.Count)
	assert.Zero(t, summary.TotalAmount)
	assert.Empty(t, summary.DailyVolume)
}

func TestSummarize_Totals(t *testing.T) {
	entries := []domain.WalletEntry{
		entry("credit", 10000, 100, domain.StatusSuccessful, 1),
		entry("credit", 5000, 50, domain.StatusSuccessful, 1),
		entry("debit", 3000, 30, domain.StatusFailed, 2),
	}

	summary := Summarize(entries)
	assert.Equal(t, 3, summary.Count)
	assert.Equal(t, 18000.0, summary.TotalAmount)
	assert.Equal(t, 180.0, summary.TotalFees)
	assert.Equal(t, 15000.0, summary.CreditTotal)
	assert.Equal(t, 3000.0, summary.DebitTotal)
	assert.Equal(t, 12000.0, summary.NetFlow)
	assert.InDelta(t, 6000.0, summary.MeanAmount, 1e-9)
	assert.Greater(t, summary.StdDevAmount, 0.0)
	assert.Equal(t, 2, summary.ByStatus["successful"])
	assert.Equal(t, 1, summary.ByStatus["failed"])
}

func TestSummarize_DailyVolumeSortedByDate(t *testing.T) {
	entries := []domain.WalletEntry{
		entry("credit", 100, 0, domain.StatusSuccessful, 3),
		entry("credit", 200, 0, domain.StatusSuccessful, 1),
		entry("credit", 300, 0, domain.StatusSuccessful, 1),
	}

	summary := Summarize(entries)
	require.Len(t, summary.DailyVolume, 2)
	assert.Equal(t, "2024-03-01", summary.DailyVolume[0].Date)
	assert.Equal(t, 500.0, summary.DailyVolume[0].Total)
	assert.Equal(t, "2024-03-03", summary.DailyVolume[1].Date)
}

func TestSummarize_TrendNeedsFullWindow(t *testing.T) {
	var short []domain.WalletEntry
	for day := 1; day <= 6; day++ {
		short = append(short, entry("credit", 100, 0, domain.StatusSuccessful, day))
	}
	assert.Empty(t, Summarize(short).VolumeTrend)

	var full []domain.WalletEntry
	for day := 1; day <= 7; day++ {
		full = append(full, entry("credit", 700, 0, domain.StatusSuccessful, day))
	}
	trend := Summarize(full).VolumeTrend
	require.Len(t, trend, 7)
	// Constant volume gives a flat moving average once the window fills.
	assert.InDelta(t, 700.0, trend[6], 1e-9)
}

func TestSummarize_SingleEntryHasNoStdDev(t *testing.T) {
	summary := Summarize([]domain.WalletEntry{entry("credit", 100, 0, domain.StatusSuccessful, 1)})
	assert.Zero(t, summary.StdDevAmount)
	assert.Equal(t, 100.0, summary.MeanAmount)
}
