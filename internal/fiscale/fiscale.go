// Package fiscale holds the regime forfettario constants and the
// derived tax calculations.
package fiscale

import (
	"time"

	"github.com/shopspring/decimal"

	dec "github.com/MakhBeth/forfettAIro/internal/decimal"
	"github.com/MakhBeth/forfettAIro/internal/model"
)

// Regime forfettario parameters (2024 rules).
var (
	// LimiteFatturato is the yearly revenue ceiling of the regime.
	LimiteFatturato = decimal.NewFromInt(85000)
	// INPSGestioneSeparata is the social-security contribution rate.
	INPSGestioneSeparata = decimal.RequireFromString("0.2607")
	// AliquotaRidotta applies for the first five years of activity.
	AliquotaRidotta = decimal.RequireFromString("0.05")
	// AliquotaStandard is the flat substitute tax rate.
	AliquotaStandard = decimal.RequireFromString("0.15")
)

// MaxHistoricalYears bounds how far back the dashboard aggregates.
const MaxHistoricalYears = 10

// Profitability coefficients by leading ATECO division.
var coefficientiAteco = map[string]int64{
	"62": 67, "63": 67, "70": 78, "71": 78, "72": 67,
	"73": 78, "74": 78, "69": 78, "85": 78, "86": 78,
}

const coefficienteDefault int64 = 78

// Coefficiente returns the profitability coefficient (as a percentage)
// for one ATECO code, keyed on its leading division.
func Coefficiente(codiceAteco string) decimal.Decimal {
	if len(codiceAteco) >= 2 {
		if coeff, ok := coefficientiAteco[codiceAteco[:2]]; ok {
			return decimal.NewFromInt(coeff)
		}
	}
	return decimal.NewFromInt(coefficienteDefault)
}

// CoefficienteMedio averages the coefficients of the configured ATECO
// codes; with none configured it returns the default coefficient.
func CoefficienteMedio(codiciAteco []string) decimal.Decimal {
	if len(codiciAteco) == 0 {
		return decimal.NewFromInt(coefficienteDefault)
	}
	total := dec.Zero
	for _, codice := range codiciAteco {
		total = total.Add(Coefficiente(codice))
	}
	return dec.Div(total, decimal.NewFromInt(int64(len(codiciAteco))))
}

// Imponibile computes the taxable base: fatturato * (coefficiente/100).
func Imponibile(fatturato, coefficiente decimal.Decimal) decimal.Decimal {
	return dec.Percent(fatturato, coefficiente)
}

// IRPEF computes the substitute tax on the taxable base.
func IRPEF(imponibile, aliquota decimal.Decimal) decimal.Decimal {
	return dec.RoundEuro(imponibile.Mul(aliquota))
}

// INPS computes the social-security contribution on the taxable base.
func INPS(imponibile decimal.Decimal) decimal.Decimal {
	return dec.RoundEuro(imponibile.Mul(INPSGestioneSeparata))
}

// Reddito computes the net income after IRPEF and INPS.
func Reddito(fatturato, coefficiente, aliquota decimal.Decimal) decimal.Decimal {
	imponibile := Imponibile(fatturato, coefficiente)
	return fatturato.Sub(IRPEF(imponibile, aliquota)).Sub(INPS(imponibile))
}

// ProgressoLimite returns how much of the revenue ceiling is used, as
// a percentage.
func ProgressoLimite(fatturato decimal.Decimal) decimal.Decimal {
	return dec.Div(fatturato.Mul(decimal.NewFromInt(100)), LimiteFatturato)
}

// IsApproachingLimit reports whether revenue reached 80% of the ceiling.
func IsApproachingLimit(fatturato decimal.Decimal) bool {
	threshold := LimiteFatturato.Mul(decimal.RequireFromString("0.8"))
	return fatturato.GreaterThanOrEqual(threshold)
}

// IsOverLimit reports whether revenue exceeds the ceiling.
func IsOverLimit(fatturato decimal.Decimal) bool {
	return fatturato.GreaterThan(LimiteFatturato)
}

// DefaultConfig returns the profile used before the user (or the
// auto-populate path) fills anything in.
func DefaultConfig() model.Config {
	return model.Config{
		ID:           "main",
		Coefficiente: dec.Zero,
		Aliquota:     dec.Zero,
		AnnoApertura: time.Now().Year(),
		CodiciAteco:  []string{},
	}
}
