package finance

const (
	MaxPrincipal = 10_000_000.0 // per-contract cap
	MaxDaysLate  = 3650         // 10 years, beyond that the contract is written off
	MaxRatePct   = 20.0         // monthly interest ceiling

	DefaultFinePct            = 2.0 // one-time late fine (multa)
	DefaultMonthlyInterestPct = 1.0 // pro-rata daily interest (mora)

	ScoreFloor   = 300
	ScoreCeiling = 850
)
