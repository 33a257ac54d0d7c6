package offers

// Options tunes offer pricing. Zero values fall back to the defaults below.
type Options struct {
	FactorTiers       []float64 `yaml:"factor_tiers,omitempty" json:"factorTiers,omitempty"`
	AdvanceMultiple   float64   `yaml:"advance_multiple,omitempty" json:"advanceMultiple,omitempty"`
	HoldbackPercents  []float64 `yaml:"holdback_percents,omitempty" json:"holdbackPercents,omitempty"`
	DaysPerWeek       int       `yaml:"days_per_week,omitempty" json:"daysPerWeek,omitempty"`
	TermDays          int       `yaml:"term_days,omitempty" json:"termDays,omitempty"`
	MaxDebtServicePct float64   `yaml:"max_debt_service_pct,omitempty" json:"maxDebtServicePct,omitempty"`
	// BuyRate, when set, adds an expected margin to each offer.
	BuyRate *float64 `yaml:"buy_rate,omitempty" json:"buyRate,omitempty"`
}

// Defaults.
var (
	DefaultFactorTiers      = []float64{1.20, 1.30, 1.40}
	DefaultHoldbackPercents = []float64{0.08, 0.10, 0.12}
)

const (
	DefaultAdvanceMultiple   = 0.8
	DefaultDaysPerWeek       = 5
	DefaultTermDays          = 120
	DefaultMaxDebtServicePct = 0.25

	// Calendar approximations used for capacity; not configurable.
	businessDaysPerMonth = 22
	weeksPerMonth        = 4.33
)

// DefaultOptions returns Options with every field at its default.
func DefaultOptions() Options {
	return Options{}.withDefaults()
}

func (o Options) withDefaults() Options {
	if len(o.FactorTiers) == 0 {
		o.FactorTiers = append([]float64(nil), DefaultFactorTiers...)
	}
	if o.AdvanceMultiple == 0 {
		o.AdvanceMultiple = DefaultAdvanceMultiple
	}
	if len(o.HoldbackPercents) == 0 {
		o.HoldbackPercents = append([]float64(nil), DefaultHoldbackPercents...)
	}
	if o.DaysPerWeek <= 0 {
		o.DaysPerWeek = DefaultDaysPerWeek
	}
	if o.TermDays <= 0 {
		o.TermDays = DefaultTermDays
	}
	if o.MaxDebtServicePct == 0 {
		o.MaxDebtServicePct = DefaultMaxDebtServicePct
	}
	return o
}
