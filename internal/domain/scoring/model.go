package scoring

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// Category is a stat category key as stored on a player period line.
type Category string

const (
	PassTouchdowns      Category = "passTD"
	PassYards           Category = "passYds"
	RushTouchdowns      Category = "rushTD"
	RushYards           Category = "rushYds"
	ReceivingTouchdowns Category = "recTD"
	ReceivingYards      Category = "recYds"
	Interceptions       Category = "interceptions"
	FumblesLost         Category = "fumblesLost"
	TwoPointConversions Category = "twoPt"
)

var AllCategories = []Category{
	PassTouchdowns,
	PassYards,
	RushTouchdowns,
	RushYards,
	ReceivingTouchdowns,
	ReceivingYards,
	Interceptions,
	FumblesLost,
	TwoPointConversions,
}

func IsKnownCategory(c Category) bool {
	for _, known := range AllCategories {
		if known == c {
			return true
		}
	}
	return false
}

// Coefficients weight each category. Touchdown and penalty fields are points
// per unit; *YardsPerPoint fields are divisors.
type Coefficients struct {
	PassTouchdown          float64 `json:"passTouchdown"`
	PassYardsPerPoint      float64 `json:"passYardsPerPoint"`
	RushTouchdown          float64 `json:"rushTouchdown"`
	RushYardsPerPoint      float64 `json:"rushYardsPerPoint"`
	ReceivingTouchdown     float64 `json:"receivingTouchdown"`
	ReceivingYardsPerPoint float64 `json:"receivingYardsPerPoint"`
	Interception           float64 `json:"interception"`
	FumbleLost             float64 `json:"fumbleLost"`
	TwoPointConversion     float64 `json:"twoPointConversion"`
}

func DefaultCoefficients() Coefficients {
	return Coefficients{
		PassTouchdown:          5,
		PassYardsPerPoint:      25,
		RushTouchdown:          6,
		RushYardsPerPoint:      10,
		ReceivingTouchdown:     6,
		ReceivingYardsPerPoint: 10,
		Interception:           -2,
		FumbleLost:             -2,
		TwoPointConversion:     2,
	}
}

func (c Coefficients) Validate() error {
	values := map[string]float64{
		"passTouchdown":          c.PassTouchdown,
		"passYardsPerPoint":      c.PassYardsPerPoint,
		"rushTouchdown":          c.RushTouchdown,
		"rushYardsPerPoint":      c.RushYardsPerPoint,
		"receivingTouchdown":     c.ReceivingTouchdown,
		"receivingYardsPerPoint": c.ReceivingYardsPerPoint,
		"interception":           c.Interception,
		"fumbleLost":             c.FumbleLost,
		"twoPointConversion":     c.TwoPointConversion,
	}
	for name, value := range values {
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return fmt.Errorf("coefficient %s must be a finite number", name)
		}
	}
	for name, value := range map[string]float64{
		"passYardsPerPoint":      c.PassYardsPerPoint,
		"rushYardsPerPoint":      c.RushYardsPerPoint,
		"receivingYardsPerPoint": c.ReceivingYardsPerPoint,
	} {
		if value < 0 {
			return fmt.Errorf("coefficient %s must not be negative", name)
		}
	}
	return nil
}

// Calculate scores one stat line. Missing categories count as zero and a
// divisor of zero disables its category. The result is rounded to 2 places.
func Calculate(stats map[Category]float64, c Coefficients) decimal.Decimal {
	total := decimal.Zero
	total = total.Add(perUnit(stats[PassTouchdowns], c.PassTouchdown))
	total = total.Add(perDivisor(stats[PassYards], c.PassYardsPerPoint))
	total = total.Add(perUnit(stats[RushTouchdowns], c.RushTouchdown))
	total = total.Add(perDivisor(stats[RushYards], c.RushYardsPerPoint))
	total = total.Add(perUnit(stats[ReceivingTouchdowns], c.ReceivingTouchdown))
	total = total.Add(perDivisor(stats[ReceivingYards], c.ReceivingYardsPerPoint))
	total = total.Add(perUnit(stats[Interceptions], c.Interception))
	total = total.Add(perUnit(stats[FumblesLost], c.FumbleLost))
	total = total.Add(perUnit(stats[TwoPointConversions], c.TwoPointConversion))
	return total.Round(2)
}

func perUnit(count, weight float64) decimal.Decimal {
	if count == 0 || weight == 0 {
		return decimal.Zero
	}
	return decimal.NewFromFloat(count).Mul(decimal.NewFromFloat(weight))
}

func perDivisor(amount, divisor float64) decimal.Decimal {
	if amount == 0 || divisor <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromFloat(amount).Div(decimal.NewFromFloat(divisor))
}
