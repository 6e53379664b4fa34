package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindbankhq/mindbank-api/models"
)

func TestEarnings(t *testing.T) {
	tests := []struct {
		name    string
		seconds int
		rate    float64
		want    float64
	}{
		{"one hour", 3600, 65, 65},
		{"half hour", 1800, 65, 32.5},
		{"one minute", 60, 60, 1},
		{"zero seconds", 0, 100, 0},
		{"zero rate", 3600, 0, 0},
		{"rounds to cents", 1000, 65, 18.06},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Earnings(tt.seconds, tt.rate))
		})
	}
}

func TestMovingAverage(t *testing.T) {
	values := []float64{10, 20, 30, 40}
	avg := movingAverage(values, 2)

	assert.Equal(t, []float64{10, 15, 25, 35}, avg)
}

func TestRenderEarningsChart(t *testing.T) {
	start := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	series := make([]models.DailyEarnings, 10)
	for i := range series {
		series[i] = models.DailyEarnings{
			Date:        start.AddDate(0, 0, i),
			EarningsUSD: float64(i * 12),
		}
	}

	png, err := RenderEarningsChart(series)
	require.NoError(t, err)
	assert.NotEmpty(t, png)
	// PNG magic bytes.
	assert.Equal(t, []byte{0x89, 0x50, 0x4e, 0x47}, png[:4])
}

func TestRenderEarningsChartNeedsTwoPoints(t *testing.T) {
	_, err := RenderEarningsChart([]models.DailyEarnings{{Date: time.Now(), EarningsUSD: 5}})
	assert.Error(t, err)
}
