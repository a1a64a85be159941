package domain

// DataDirection selects how bond returns are sourced during a cycle.
type DataDirection string

const (
	// DirectionBack back-tests against the historic real-return series only.
	DirectionBack DataDirection = "back"
	// DirectionForward takes bond and index-bond growth from today's forward curves and
	// equity growth from history.
	DirectionForward DataDirection = "forward"
)

// PolicyKind names a withdrawal formula.
type PolicyKind string

const (
	PolicyConstant      PolicyKind = "constant"
	PolicyConstantBonus PolicyKind = "constantbonus"
	PolicyConstantFlex  PolicyKind = "constantflex"
	PolicyProportional  PolicyKind = "proportional"
	PolicyYale          PolicyKind = "yale"
	PolicyVanguard      PolicyKind = "vanguard"
	PolicyVPW           PolicyKind = "vpw"
)

// PolicyKinds lists every supported withdrawal formula.
func PolicyKinds() []PolicyKind {
	return []PolicyKind{
		PolicyConstant, PolicyConstantBonus, PolicyConstantFlex,
		PolicyProportional, PolicyYale, PolicyVanguard, PolicyVPW,
	}
}

// IsProportional reports whether the policy sizes draws off the running portfolio value.
func (k PolicyKind) IsProportional() bool {
	switch k {
	case PolicyProportional, PolicyYale, PolicyVanguard, PolicyVPW:
		return true
	}
	return false
}

// IndexationMode controls how an annuity's income evolves after purchase, in real terms.
type IndexationMode string

const (
	// IndexFixed is a level nominal annuity: real income shrinks by CPI each year.
	IndexFixed IndexationMode = "fixed"
	// IndexEscalating grows nominally by a fixed rate, then deflates by CPI.
	IndexEscalating IndexationMode = "escalating"
	// IndexReal is fully inflation-linked: real income stays flat.
	IndexReal IndexationMode = "real"
	// IndexNominal grows by a fixed rate with no CPI deflation (state-pension style uprating).
	IndexNominal IndexationMode = "nominal"
)

// MaxAnnuities is the number of annuity slots a scenario may configure.
const MaxAnnuities = 3

// RawSeries holds the nominal inputs sliced to the requested year range. All historic
// arrays are index aligned.
type RawSeries struct {
	Years            []int
	Equity           []float64
	Bond             []float64 // yield, percent
	IndexBond        []float64 // yield, percent
	CPI              []float64
	FX               []float64
	BondForward      []float64 // percent
	IndexBondForward []float64 // percent
}

// ReturnParams are the tax, fee and coupon assumptions applied while preparing returns.
// Rates are fractions; coupons are per 100 face value.
type ReturnParams struct {
	EquityTax       float64
	BondTax         float64
	Fees            float64
	BondCoupon      float64
	IndexBondCoupon float64
	Circular        bool
}

// ReturnSeries is the prepared, immutable real-return data consumed by the engine.
type ReturnSeries struct {
	EquityReal    []float64
	BondReal      []float64
	IndexBondReal []float64
	CPIChange     []float64

	BondForward      []float64 // tax and fee adjusted, fraction
	IndexBondForward []float64 // tax and fee adjusted, fraction
	SpotCurve        []float64 // compounded from the index-bond forward curve
}

// Len is the number of aligned annual observations.
func (rs *ReturnSeries) Len() int {
	if rs == nil {
		return 0
	}
	return len(rs.EquityReal)
}

// Cycles is the number of rolling windows of the given length the series supports.
func (rs *ReturnSeries) Cycles(years int) int {
	n := rs.Len() - years
	if n < 0 {
		return 0
	}
	return n
}

// AssetMix weights are fractions that sum to one.
type AssetMix struct {
	Equity    float64 `json:"equity" yaml:"equity"`
	Bond      float64 `json:"bond" yaml:"bond"`
	IndexBond float64 `json:"index_bond" yaml:"index_bond"`
}

// Weights returns the five asset slots in engine order. Slots 1 and 2 are reserved for
// future asset classes and are always zero.
func (m AssetMix) Weights() [5]float64 {
	return [5]float64{m.Equity, 0, 0, m.Bond, m.IndexBond}
}

// MortalityTable holds survival percentages indexed by age-65.
type MortalityTable struct {
	Male   []float64 `json:"male"`
	Female []float64 `json:"female"`
	Joint  []float64 `json:"joint"`
}

// AnnuitySpec configures one annuity purchase.
type AnnuitySpec struct {
	Name string
	// PercentOfWithdrawal is the share of the base withdrawal the annuity should replace.
	PercentOfWithdrawal float64
	// StartYear is 1-based relative to the full horizon.
	StartYear int
	// Price is the income bought per 100 of premium, in percent.
	Price       float64
	TaxRate     float64
	Indexation  IndexationMode
	Increase    float64 // post-purchase escalation, fraction
	AccrualRate float64 // pre-purchase growth of the target income, fraction
}

// PolicyParams configures the withdrawal formula. Rates are fractions unless noted.
type PolicyParams struct {
	Kind             PolicyKind
	WithdrawalAmount float64
	AnnualIncrease   float64
	DrawTax          float64
	// DrawAdjust is the per-year multiplier on the base withdrawal (1.0 = normal).
	DrawAdjust []float64

	BonusTarget        float64
	TargetPercent      float64 // percent of portfolio
	MinWithdrawalFloor float64

	FlexDecrease float64 // percent
	FlexIncrease float64 // percent
	YearsNoFlex  int
	SpringBack   bool

	YaleWeight      float64 // fraction given to last year's draw
	VanguardCeiling float64 // percent
	VanguardFloor   float64 // percent

	// NetOtherIncome makes portfolio-proportional policies deduct annuity income.
	NetOtherIncome bool
}

// Adjust returns the draw multiplier for year b, 1.0 past the end of the schedule.
func (p PolicyParams) Adjust(b int) float64 {
	if b < 0 || b >= len(p.DrawAdjust) {
		return 1
	}
	return p.DrawAdjust[b]
}

// HorizonParams describes the simulated lifetime.
type HorizonParams struct {
	StartSum             float64
	Years                int
	StartAge             int
	YearsToWithdrawal    int
	Contribution         float64
	ContributionIncrease float64
}

// SimulationInput bundles everything one engine run needs.
type SimulationInput struct {
	Returns   *ReturnSeries
	Mix       AssetMix
	Horizon   HorizonParams
	Policy    PolicyParams
	Annuities []AnnuitySpec
	Direction DataDirection
	Mortality MortalityTable
	// SafeCurve is the safe withdrawal rate in percent by simulation year, used as the
	// ceiling for bonus and flex draws.
	SafeCurve []float64
}
