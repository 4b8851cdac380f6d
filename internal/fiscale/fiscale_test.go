package fiscale_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MakhBeth/forfettAIro/internal/fiscale"
)

func TestCoefficiente(t *testing.T) {
	tests := []struct {
		codice string
		want   int64
	}{
		{"62.01.00", 67}, // software development
		{"63.11.19", 67},
		{"72.19.09", 67},
		{"69.10.10", 78}, // legal
		{"74.90.99", 78},
		{"96.02.01", 78}, // unlisted division falls back to default
		{"6", 78},        // too short to key on a division
		{"", 78},
	}

	for _, tt := range tests {
		t.Run(tt.codice, func(t *testing.T) {
			assert.True(t, fiscale.Coefficiente(tt.codice).Equal(decimal.NewFromInt(tt.want)),
				"codice %q: want %d, got %s", tt.codice, tt.want, fiscale.Coefficiente(tt.codice))
		})
	}
}

func TestCoefficienteMedio(t *testing.T) {
	tests := []struct {
		name   string
		codici []string
		want   string
	}{
		{"no codes uses default", nil, "78"},
		{"single code", []string{"62.01.00"}, "67"},
		{"mixed codes averaged", []string{"62.01.00", "69.10.10"}, "72.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := fiscale.CoefficienteMedio(tt.codici)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)),
				"want %s, got %s", tt.want, got)
		})
	}
}

func TestTaxCalculations(t *testing.T) {
	fatturato := decimal.NewFromInt(30000)
	coefficiente := decimal.NewFromInt(67)

	imponibile := fiscale.Imponibile(fatturato, coefficiente)
	assert.True(t, imponibile.Equal(decimal.NewFromInt(20100)),
		"imponibile: got %s", imponibile)

	irpef := fiscale.IRPEF(imponibile, fiscale.AliquotaRidotta)
	assert.True(t, irpef.Equal(decimal.NewFromInt(1005)), "irpef: got %s", irpef)

	inps := fiscale.INPS(imponibile)
	assert.True(t, inps.Equal(decimal.RequireFromString("5240.07")), "inps: got %s", inps)

	reddito := fiscale.Reddito(fatturato, coefficiente, fiscale.AliquotaRidotta)
	assert.True(t, reddito.Equal(decimal.RequireFromString("23754.93")), "reddito: got %s", reddito)
}

func TestRevenueLimit(t *testing.T) {
	assert.False(t, fiscale.IsApproachingLimit(decimal.NewFromInt(60000)))
	assert.True(t, fiscale.IsApproachingLimit(decimal.NewFromInt(68000))) // exactly 80%
	assert.True(t, fiscale.IsApproachingLimit(decimal.NewFromInt(84000)))

	assert.False(t, fiscale.IsOverLimit(decimal.NewFromInt(85000))) // ceiling itself is allowed
	assert.True(t, fiscale.IsOverLimit(decimal.NewFromInt(85001)))

	progress := fiscale.ProgressoLimite(decimal.NewFromInt(42500))
	assert.True(t, progress.Equal(decimal.NewFromInt(50)), "progress: got %s", progress)
}

func TestDefaultConfig(t *testing.T) {
	config := fiscale.DefaultConfig()

	require.Equal(t, "main", config.ID)
	assert.Equal(t, time.Now().Year(), config.AnnoApertura)
	assert.True(t, config.Coefficiente.IsZero())
	assert.True(t, config.Aliquota.IsZero())
	assert.NotNil(t, config.CodiciAteco)
	assert.Empty(t, config.CodiciAteco)
}
