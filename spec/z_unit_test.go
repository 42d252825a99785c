package spec

import (
	"math"
	"testing"

	"github.com/zintix-labs/edgesim/errs"
)

func TestDefaultParamsValid(t *testing.T) {
	p := Default()
	if err := p.Validate(); err != nil {
		t.Fatalf("default params should be valid: %v", err)
	}
	if err := UILimits.Check(p); err != nil {
		t.Fatalf("default params should be inside UI limits: %v", err)
	}
	if p.Seed != DefaultSeed {
		t.Fatalf("default seed got %d", p.Seed)
	}
	if b := p.Bonuses[2]; b != (Bonus{Name: "Rakeback", Rate: 0.10}) {
		t.Fatalf("rakeback got %+v", b)
	}
}

func TestValidateRejects(t *testing.T) {
	cases := map[string]func(p *Params){
		"zero players":      func(p *Params) { p.PlayerCount = 0 },
		"negative players":  func(p *Params) { p.PlayerCount = -3 },
		"zero edge":         func(p *Params) { p.HouseEdge = 0 },
		"edge one":          func(p *Params) { p.HouseEdge = 1 },
		"nan edge":          func(p *Params) { p.HouseEdge = math.NaN() },
		"negative loseback": func(p *Params) { p.LosebackRate = -0.1 },
		"loseback one":      func(p *Params) { p.LosebackRate = 1 },
		"bonus rate one":    func(p *Params) { p.Bonuses[0].Rate = 1 },
		"inf bonus rate":    func(p *Params) { p.Bonuses[1].Rate = math.Inf(1) },
		"empty bonus name":  func(p *Params) { p.Bonuses[2].Name = "  " },
		"duplicate bonus":   func(p *Params) { p.Bonuses = append(p.Bonuses, Bonus{Name: "Rakeback", Rate: 0.01}) },
	}
	for name, mut := range cases {
		p := Default()
		mut(&p)
		err := p.Validate()
		if err == nil {
			t.Fatalf("%s: expected error", name)
		}
		if !errs.IsValidation(err) {
			t.Fatalf("%s: expected validation kind, got %v", name, err)
		}
	}
}

func TestLimits(t *testing.T) {
	p := Default()
	p.PlayerCount = 100001
	if err := UILimits.Check(p); !errs.IsValidation(err) {
		t.Fatalf("players above limit should fail, got %v", err)
	}
	p = Default()
	p.HouseEdge = 0.5
	if err := p.Validate(); err != nil {
		t.Fatalf("model accepts 0.5 edge: %v", err)
	}
	if err := UILimits.Check(p); err == nil {
		t.Fatalf("UI limits should reject 0.5 edge")
	}
	p = Default()
	p.SetBonus("Weekly Bonus", 0.21)
	if err := UILimits.Check(p); err == nil {
		t.Fatalf("UI limits should reject bonus 0.21")
	}
}

func TestCloneAndSetBonus(t *testing.T) {
	p := Default()
	c := p.Clone()
	c.SetBonus("Weekly Bonus", 0)
	c.SetBonus("VIP", 0.01)
	if p.Bonuses[0].Rate != 0.08 {
		t.Fatalf("clone shares bonuses with source")
	}
	if len(c.Bonuses) != 4 || c.Bonuses[3].Name != "VIP" {
		t.Fatalf("SetBonus should append unknown names: %+v", c.Bonuses)
	}
}

func TestScenarioYAML(t *testing.T) {
	raw := []byte(`
name: No Bonus
description: bonuses disabled
params:
  player_count: 500
  bonuses: []
  loseback_rate: 0
`)
	sc, err := GetScenarioByYAML(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if sc.Name != "no bonus" {
		t.Fatalf("name should be normalised, got %q", sc.Name)
	}
	if sc.Params.PlayerCount != 500 || len(sc.Params.Bonuses) != 0 {
		t.Fatalf("unexpected params: %+v", sc.Params)
	}
	if sc.Params.HouseEdge != 0.01 || sc.Params.Seed != DefaultSeed {
		t.Fatalf("missing fields should fall back to defaults: %+v", sc.Params)
	}

	if _, err := GetScenarioByYAML([]byte("name: x\nparams:\n  house_egde: 0.02\n")); err == nil {
		t.Fatalf("unknown field should be rejected")
	}
	if _, err := GetScenarioByYAML([]byte("name: x\nparams:\n  player_count: 0\n")); !errs.IsValidation(err) {
		t.Fatalf("invalid params should surface a validation error, got %v", err)
	}
}

func TestScenarioJSON(t *testing.T) {
	raw := []byte(`{"name":"edge2","params":{"house_edge":0.02,"seed":7,"bonuses":[{"name":"Rakeback","rate":0.1}]}}`)
	sc, err := GetScenarioByJSON(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if sc.Params.HouseEdge != 0.02 || sc.Params.Seed != 7 || len(sc.Params.Bonuses) != 1 {
		t.Fatalf("unexpected params: %+v", sc.Params)
	}
	if sc.Params.PlayerCount != 10000 {
		t.Fatalf("player_count should default, got %d", sc.Params.PlayerCount)
	}
	if _, err := GetScenarioByJSON([]byte(`{"params":{}}`)); err == nil {
		t.Fatalf("missing name should fail")
	}
}

func TestScenarioJSONAndYAMLAgreeOnBonuses(t *testing.T) {
	cases := []struct {
		name string
		json string
		yaml string
		want []Bonus
	}{
		{
			name: "partial bonus gets zero rate",
			json: `{"name":"x","params":{"bonuses":[{"name":" Cashback "}]}}`,
			yaml: "name: x\nparams:\n  bonuses:\n    - name: \" Cashback \"\n",
			want: []Bonus{{Name: "Cashback", Rate: 0}},
		},
		{
			name: "omitted bonuses use defaults",
			json: `{"name":"x","params":{"player_count":10}}`,
			yaml: "name: x\nparams:\n  player_count: 10\n",
			want: DefaultBonuses(),
		},
		{
			name: "empty list disables bonuses",
			json: `{"name":"x","params":{"bonuses":[]}}`,
			yaml: "name: x\nparams:\n  bonuses: []\n",
			want: []Bonus{},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			js, err := GetScenarioByJSON([]byte(tc.json))
			if err != nil {
				t.Fatalf("json: %v", err)
			}
			ys, err := GetScenarioByYAML([]byte(tc.yaml))
			if err != nil {
				t.Fatalf("yaml: %v", err)
			}
			for label, got := range map[string][]Bonus{"json": js.Params.Bonuses, "yaml": ys.Params.Bonuses} {
				if len(got) != len(tc.want) {
					t.Fatalf("%s bonuses got %+v, want %+v", label, got, tc.want)
				}
				for i := range got {
					if got[i] != tc.want[i] {
						t.Fatalf("%s bonus %d got %+v, want %+v", label, i, got[i], tc.want[i])
					}
				}
			}
		})
	}

	// 解析結果不能與預設值共用底層陣列
	sc, err := GetScenarioByJSON([]byte(`{"name":"x","params":{"bonuses":[{"name":"Weekly Bonus","rate":0.01}]}}`))
	if err != nil {
		t.Fatalf("json: %v", err)
	}
	if r := Default().Bonuses[0].Rate; r != 0.08 || sc.Params.Bonuses[0].Rate != 0.01 {
		t.Fatalf("defaults were mutated: default %v parsed %v", r, sc.Params.Bonuses[0].Rate)
	}
}
