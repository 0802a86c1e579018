package finance

import (
	"testing"

	"github.com/rotacerta/backend/internal/models"
)

func TestCalculateLateInterest_NotLate(t *testing.T) {
	result, err := CalculateLateInterest(LateInterestInput{Principal: 1000})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Fine != 0 || result.Interest != 0 {
		t.Fatalf("no charges expected when not late, got %+v", result)
	}
	if result.TotalOwed != 1000 {
		t.Fatalf("expected bare principal, got %.2f", result.TotalOwed)
	}
}

func TestCalculateLateInterest_ThirtyDays(t *testing.T) {
	result, err := CalculateLateInterest(LateInterestInput{Principal: 1000, DaysLate: 30})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Fine != 20.0 {
		t.Fatalf("expected 2%% fine of 20.00, got %.2f", result.Fine)
	}
	if result.Interest != 10.0 {
		t.Fatalf("expected 10.00 interest after a full month at 1%%, got %.2f", result.Interest)
	}
	if result.TotalOwed != 1030.0 {
		t.Fatalf("expected 1030.00 total, got %.2f", result.TotalOwed)
	}
}

func TestCalculateLateInterest_InvalidInput(t *testing.T) {
	cases := []LateInterestInput{
		{Principal: 0, DaysLate: 10},
		{Principal: -50, DaysLate: 10},
		{Principal: 100, DaysLate: -1},
		{Principal: MaxPrincipal + 1, DaysLate: 1},
		{Principal: 100, DaysLate: MaxDaysLate + 1},
		{Principal: 100, DaysLate: 1, MonthlyInterestPct: MaxRatePct + 1},
	}
	for i, input := range cases {
		if _, err := CalculateLateInterest(input); err == nil {
			t.Fatalf("case %d: expected validation error for %+v", i, input)
		}
	}
}

func TestMockScoreDeterministic(t *testing.T) {
	c := models.Customer{ID: "cust-42", Status: models.CustomerActive, TotalDebt: 1500}
	a := MockScore(c)
	b := MockScore(c)
	if a.Score != b.Score {
		t.Fatalf("score must be stable for the same customer: %d vs %d", a.Score, b.Score)
	}
	if a.Score < ScoreFloor || a.Score > ScoreCeiling {
		t.Fatalf("score out of range: %d", a.Score)
	}
}

func TestMockScoreBlockedPenalty(t *testing.T) {
	active := MockScore(models.Customer{ID: "cust-77", Status: models.CustomerActive})
	blocked := MockScore(models.Customer{ID: "cust-77", Status: models.CustomerBlocked})
	if blocked.Score >= active.Score && active.Score > ScoreFloor {
		t.Fatalf("blocked customer should score lower: active=%d blocked=%d", active.Score, blocked.Score)
	}
}
