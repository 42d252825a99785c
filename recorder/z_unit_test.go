package recorder

import (
	"math"
	"testing"

	"github.com/zintix-labs/edgesim/errs"
	"github.com/zintix-labs/edgesim/spec"
)

func twoPlayers() spec.Params {
	return spec.Params{
		PlayerCount:  2,
		HouseEdge:    0.5,
		Bonuses:      []spec.Bonus{{Name: "a", Rate: 0.5}, {Name: "b", Rate: 0.25}},
		LosebackRate: 0.5,
		Seed:         1,
	}
}

func TestSettleMath(t *testing.T) {
	r, err := NewPopulationRecorder(twoPlayers())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	r.SetDeposit(0, 10)
	r.SetDeposit(1, 4)
	r.SetMultiplier(0, 10)
	r.SetMultiplier(1, 100)
	if r.Wager[0] != 100 || r.ExpectedLoss[0] != 50 {
		t.Fatalf("wager/expected loss got %v %v", r.Wager[0], r.ExpectedLoss[0])
	}
	r.Settle(0, 40)
	r.Settle(1, -3)

	// player 0: fixed = 100*0.5*0.5 + 100*0.5*0.25 = 25 + 12.5
	if r.FixedBonus[0] != 37.5 || r.PerBonus[0][0] != 25 || r.PerBonus[1][0] != 12.5 {
		t.Fatalf("fixed bonus got %v", r.FixedBonus[0])
	}
	if r.Loseback[0] != 20 || r.BonusPaid[0] != 57.5 {
		t.Fatalf("loseback/paid got %v %v", r.Loseback[0], r.BonusPaid[0])
	}
	if r.ActualProfit[0] != -17.5 || r.ExpectedProfit[0] != 12.5 {
		t.Fatalf("profit got %v %v", r.ActualProfit[0], r.ExpectedProfit[0])
	}
	if r.ActualLoss[1] != 0 {
		t.Fatalf("negative loss should clamp to 0, got %v", r.ActualLoss[1])
	}

	rep, err := r.Done()
	if err != nil {
		t.Fatalf("done: %v", err)
	}
	res := rep.Result
	if res.TotalPlayers != 2 || res.ProfitablePlayers != 2 || res.LosingPlayers != 0 {
		t.Fatalf("partition got %+v", res)
	}
	if res.ProfitablePlayerPercentage != 100 {
		t.Fatalf("percentage got %v", res.ProfitablePlayerPercentage)
	}
	if res.ExpectedRTP != 0.5 {
		t.Fatalf("expected rtp got %v", res.ExpectedRTP)
	}
	want := 1 - res.TotalActualProfit/res.TotalWager
	if res.ActualRTP != want {
		t.Fatalf("actual rtp got %v want %v", res.ActualRTP, want)
	}
	if len(rep.Breakdown.Bonuses) != 2 || rep.Breakdown.Bonuses[0].Name != "a" {
		t.Fatalf("breakdown order got %+v", rep.Breakdown.Bonuses)
	}
	sum := rep.Breakdown.LosebackPaid
	for _, b := range rep.Breakdown.Bonuses {
		sum += b.Paid
	}
	if math.Abs(sum-res.TotalBonusesPaid) > 1e-9 {
		t.Fatalf("breakdown sum %v != total %v", sum, res.TotalBonusesPaid)
	}
}

func TestDoneRejectsZeroWager(t *testing.T) {
	p := twoPlayers()
	r, err := NewPopulationRecorder(p)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	// 未填入任何押注
	if _, err := r.Done(); !errs.IsComputation(err) {
		t.Fatalf("zero wager should be a computation error, got %v", err)
	}

	r, _ = NewPopulationRecorder(p)
	r.SetDeposit(0, math.Inf(1))
	r.SetMultiplier(0, 10)
	if _, err := r.Done(); !errs.IsComputation(err) {
		t.Fatalf("infinite wager should be a computation error, got %v", err)
	}
}

func TestNewValidates(t *testing.T) {
	p := twoPlayers()
	p.PlayerCount = 0
	if _, err := NewPopulationRecorder(p); !errs.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
