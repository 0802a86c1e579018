package finance

import (
	"errors"
	"fmt"
	"math"

	"github.com/rotacerta/backend/internal/models"
	"github.com/rotacerta/backend/internal/utils"
)

func roundTo2Decimals(value float64) float64 {
	return math.Round(value*100) / 100
}

type LateInterestInput struct {
	Principal          float64
	DaysLate           int
	FinePct            float64
	MonthlyInterestPct float64
}

type LateInterestResult struct {
	Fine      float64 `json:"fine"`
	Interest  float64 `json:"interest"`
	TotalOwed float64 `json:"total_owed"`
	DailyRate float64 `json:"daily_rate_pct"`
	DaysLate  int     `json:"days_late"`
}

// CalculateLateInterest applies the standard late charges on an
// overdue installment: a one-time fine plus pro-rata daily interest on
// the principal. Zero days late yields the bare principal.
func CalculateLateInterest(input LateInterestInput) (LateInterestResult, error) {
	if input.Principal <= 0 {
		return LateInterestResult{}, errors.New("principal must be positive")
	}
	if input.Principal > MaxPrincipal {
		return LateInterestResult{}, fmt.Errorf("principal exceeds the %.2f cap", MaxPrincipal)
	}
	if input.DaysLate < 0 {
		return LateInterestResult{}, errors.New("days late cannot be negative")
	}
	if input.DaysLate > MaxDaysLate {
		return LateInterestResult{}, fmt.Errorf("days late exceeds the %d-day cap", MaxDaysLate)
	}
	if input.MonthlyInterestPct < 0 || input.MonthlyInterestPct > MaxRatePct {
		return LateInterestResult{}, fmt.Errorf("monthly rate must be between 0 and %.1f%%", MaxRatePct)
	}

	finePct := input.FinePct
	if finePct == 0 {
		finePct = DefaultFinePct
	}
	monthlyPct := input.MonthlyInterestPct
	if monthlyPct == 0 {
		monthlyPct = DefaultMonthlyInterestPct
	}

	var fine, interest float64
	dailyRate := monthlyPct / 100 / 30
	if input.DaysLate > 0 {
		fine = input.Principal * finePct / 100
		interest = input.Principal * dailyRate * float64(input.DaysLate)
	}

	return LateInterestResult{
		Fine:      roundTo2Decimals(fine),
		Interest:  roundTo2Decimals(interest),
		TotalOwed: roundTo2Decimals(input.Principal + fine + interest),
		DailyRate: roundTo2Decimals(dailyRate * 100),
		DaysLate:  input.DaysLate,
	}, nil
}

type ScoreResult struct {
	CustomerID string `json:"customer_id"`
	Score      int    `json:"score"`
	Band       string `json:"band"`
}

// MockScore produces a deterministic placeholder score until the real
// bureau integration lands. The base comes from a hash of the customer
// id so repeated calls agree, then debt and a block both drag it down.
func MockScore(c models.Customer) ScoreResult {
	h := utils.HashStringToUint64(c.ID)
	score := ScoreFloor + int(h%400)

	if c.TotalDebt > 0 {
		penalty := int(c.TotalDebt / 100)
		if penalty > 200 {
			penalty = 200
		}
		score -= penalty
	}
	if c.Status == models.CustomerBlocked {
		score -= 100
	}

	if score < ScoreFloor {
		score = ScoreFloor
	}
	if score > ScoreCeiling {
		score = ScoreCeiling
	}

	band := "C"
	switch {
	case score >= 700:
		band = "A"
	case score >= 550:
		band = "B"
	}

	return ScoreResult{CustomerID: c.ID, Score: score, Band: band}
}
