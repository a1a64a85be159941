package calculation

import (
	"fmt"
	"math"

	"github.com/rpgo/swr-simulator/internal/domain"
)

// DrawInput is what a withdrawal policy sees in one simulated year.
type DrawInput struct {
	Year         int     // 0-based over the full horizon
	Portfolio    float64 // value available before the draw
	AnnuityNet   float64 // after-tax annuity income received this year
	MinMultiple  float64 // portfolio/draw cover required by the safe withdrawal curve
	StartAge     int
	EquityWeight float64
}

// PolicyState carries policy variables from one year of a cycle to the next.
type PolicyState struct {
	Flex           float64
	PrevUnadjusted float64
	Started        bool
}

// NewPolicyState returns the state at the start of a cycle.
func NewPolicyState() PolicyState {
	return PolicyState{Flex: 1}
}

// Draw is a policy's decision for one year. Amounts are gross of draw tax.
type Draw struct {
	Amount     float64
	Unadjusted float64 // constant-family amount before the draw-adjust multiplier
	Bonus      float64 // requested bonus before the safe-curve cap
}

// Policy computes the year's withdrawal.
type Policy interface {
	Draw(in DrawInput, st *PolicyState) Draw
}

// NewPolicy builds the policy named in p.
func NewPolicy(p domain.PolicyParams) (Policy, error) {
	switch p.Kind {
	case domain.PolicyConstant, "":
		return constantPolicy{p}, nil
	case domain.PolicyConstantBonus:
		return bonusPolicy{constantPolicy{p}}, nil
	case domain.PolicyConstantFlex:
		return flexPolicy{constantPolicy{p}}, nil
	case domain.PolicyProportional:
		return proportionalPolicy{p}, nil
	case domain.PolicyYale:
		return yalePolicy{p}, nil
	case domain.PolicyVanguard:
		return vanguardPolicy{p}, nil
	case domain.PolicyVPW:
		return vpwPolicy{p}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownPolicy, p.Kind)
}

// grossUp scales a net amount so that after draw tax the intended net is received.
func grossUp(net, drawTax float64) float64 {
	return net / (1 - drawTax)
}

func growth(rate float64, year int) float64 {
	return math.Pow(1+rate, float64(year))
}

type constantPolicy struct {
	p domain.PolicyParams
}

func (c constantPolicy) amounts(in DrawInput) (adjusted, unadjusted float64) {
	base := c.p.WithdrawalAmount * growth(c.p.AnnualIncrease, in.Year)
	adjusted = grossUp(base*c.p.Adjust(in.Year)-in.AnnuityNet, c.p.DrawTax)
	unadjusted = grossUp(base-in.AnnuityNet, c.p.DrawTax)
	return adjusted, unadjusted
}

func (c constantPolicy) Draw(in DrawInput, _ *PolicyState) Draw {
	adj, unadj := c.amounts(in)
	return Draw{Amount: adj, Unadjusted: unadj}
}

type bonusPolicy struct {
	constantPolicy
}

func (b bonusPolicy) Draw(in DrawInput, st *PolicyState) Draw {
	d := b.constantPolicy.Draw(in, st)
	p := b.p
	d.Bonus = grossUp(p.BonusTarget*p.Adjust(in.Year)*growth(p.AnnualIncrease, in.Year), p.DrawTax)
	return d
}

// flexPolicy steps a running multiplier up while the portfolio covers the safe-curve
// multiple of the raised draw, and down when it no longer covers the current one.
type flexPolicy struct {
	constantPolicy
}

func (f flexPolicy) Draw(in DrawInput, st *PolicyState) Draw {
	adj, unadj := f.amounts(in)
	d := Draw{Amount: adj, Unadjusted: unadj}
	if unadj <= 0 || in.Year < f.p.YearsNoFlex {
		return d
	}
	up := f.p.FlexIncrease / 100
	down := f.p.FlexDecrease / 100
	switch {
	case in.Portfolio/(unadj*st.Flex*(1+up)) > in.MinMultiple:
		if f.p.SpringBack && st.Flex < 1 {
			st.Flex = math.Min(in.Portfolio/(unadj*in.MinMultiple), 1)
		} else {
			st.Flex += up
		}
	case in.Portfolio/(unadj*st.Flex) >= in.MinMultiple:
	default:
		st.Flex = math.Max(st.Flex-down, 0)
	}
	d.Amount = adj * st.Flex
	return d
}

// otherIncome is the annuity income a portfolio-proportional policy deducts.
func otherIncome(p domain.PolicyParams, in DrawInput) float64 {
	if p.NetOtherIncome {
		return in.AnnuityNet
	}
	return 0
}

type proportionalPolicy struct {
	p domain.PolicyParams
}

func (pp proportionalPolicy) Draw(in DrawInput, _ *PolicyState) Draw {
	p := pp.p
	scale := p.Adjust(in.Year) * growth(p.AnnualIncrease, in.Year)
	income := otherIncome(p, in)
	result := grossUp(in.Portfolio*(p.TargetPercent/100)*scale-income, p.DrawTax)
	floor := grossUp(p.MinWithdrawalFloor*scale-income, p.DrawTax)
	return Draw{Amount: math.Max(result, floor)}
}

// yalePolicy blends last year's spending, escalated, with the proportional target.
type yalePolicy struct {
	p domain.PolicyParams
}

func (y yalePolicy) Draw(in DrawInput, st *PolicyState) Draw {
	p := y.p
	target := in.Portfolio * p.TargetPercent / 100
	u := target
	if st.Started {
		u = p.YaleWeight*st.PrevUnadjusted*(1+p.AnnualIncrease) + (1-p.YaleWeight)*target
	}
	st.PrevUnadjusted = u
	st.Started = true
	return Draw{Amount: grossUp(u*p.Adjust(in.Year)-otherIncome(p, in), p.DrawTax)}
}

// vanguardPolicy collars the proportional draw between a floor and ceiling on last year's.
type vanguardPolicy struct {
	p domain.PolicyParams
}

func (v vanguardPolicy) Draw(in DrawInput, st *PolicyState) Draw {
	p := v.p
	u := in.Portfolio * p.TargetPercent / 100
	if st.Started {
		lo := st.PrevUnadjusted * (1 - p.VanguardFloor/100)
		hi := st.PrevUnadjusted * (1 + p.VanguardCeiling/100)
		u = math.Min(math.Max(u, lo), hi)
	}
	st.PrevUnadjusted = u
	st.Started = true
	return Draw{Amount: grossUp(u*p.Adjust(in.Year)-otherIncome(p, in), p.DrawTax)}
}

type vpwPolicy struct {
	p domain.PolicyParams
}

func (v vpwPolicy) Draw(in DrawInput, _ *PolicyState) Draw {
	p := v.p
	rate := VPWRate(in.EquityWeight, VPWRow(in.StartAge, in.Year))
	return Draw{Amount: grossUp(in.Portfolio*rate*p.Adjust(in.Year)-otherIncome(p, in), p.DrawTax)}
}
