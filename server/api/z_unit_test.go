package api

import (
	"encoding/csv"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/zintix-labs/edgesim"
	"github.com/zintix-labs/edgesim/presets/configs"
	"github.com/zintix-labs/edgesim/sdk/core"
	"github.com/zintix-labs/edgesim/server/logger"
	"github.com/zintix-labs/edgesim/server/netsvr"
	"github.com/zintix-labs/edgesim/server/svrcfg"
	"github.com/zintix-labs/edgesim/spec"
	"github.com/zintix-labs/edgesim/stats"
)

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	lab, err := edgesim.NewAuto(core.Default(), edgesim.Configs(configs.FS))
	if err != nil {
		t.Fatalf("lab: %v", err)
	}
	sc := &svrcfg.SvrCfg{Lab: lab, Log: logger.NewDefaultLogger(logger.ModeSilence), Concurrency: 2}
	rt, err := sc.BuildRuntime()
	if err != nil {
		t.Fatalf("runtime: %v", err)
	}
	svr := netsvr.NewChiServer(":0")
	if err := RegisterRoutes(svr, sc, rt); err != nil {
		t.Fatalf("routes: %v", err)
	}
	return svr.Handler()
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeReport(t *testing.T, rec *httptest.ResponseRecorder) stats.Report {
	t.Helper()
	var rep stats.Report
	if err := json.Unmarshal(rec.Body.Bytes(), &rep); err != nil {
		t.Fatalf("decode report: %v (%s)", err, rec.Body.String())
	}
	return rep
}

func TestIndexAndScenarios(t *testing.T) {
	h := newTestHandler(t)
	rec := do(t, h, http.MethodGet, "/", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "/v1/sim") {
		t.Fatalf("index got %d %s", rec.Code, rec.Body.String())
	}

	rec = do(t, h, http.MethodGet, "/v1/scenarios", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("scenarios got %d", rec.Code)
	}
	var body struct {
		Scenarios []struct {
			Name string `json:"name"`
		} `json:"scenarios"`
		Limits struct {
			MaxPlayers int `json:"max_players"`
		} `json:"limits"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	names := map[string]bool{}
	for _, s := range body.Scenarios {
		names[s.Name] = true
	}
	if !names["default"] || !names["no_bonus"] {
		t.Fatalf("scenarios got %+v", body.Scenarios)
	}
	if body.Limits.MaxPlayers != 100000 {
		t.Fatalf("limits got %+v", body.Limits)
	}
}

func TestSimGet(t *testing.T) {
	h := newTestHandler(t)
	rec := do(t, h, http.MethodGet, "/v1/sim?players=1000&edge=0.01&seed=42", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("code %d: %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("X-Run-Id") == "" {
		t.Fatalf("run id header missing")
	}
	rep := decodeReport(t, rec)
	if rep.Result.TotalPlayers != 1000 || rep.Result.ExpectedRTP != 0.99 {
		t.Fatalf("result got %+v", rep.Result)
	}
	if rep.Result.TotalBonusesPaid <= 0 {
		t.Fatalf("default bonuses should pay out")
	}

	again := decodeReport(t, do(t, h, http.MethodGet, "/v1/sim?players=1000&edge=0.01&seed=42", ""))
	if again.Result != rep.Result {
		t.Fatalf("same seed should reproduce the same result")
	}
}

func TestSimPostScenario(t *testing.T) {
	h := newTestHandler(t)
	rec := do(t, h, http.MethodPost, "/v1/sim", `{"scenario":"no_bonus","player_count":500}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("code %d: %s", rec.Code, rec.Body.String())
	}
	rep := decodeReport(t, rec)
	if rep.Scenario != "no_bonus" || rep.Result.TotalPlayers != 500 {
		t.Fatalf("report got %s %+v", rep.Scenario, rep.Result)
	}
	if rep.Result.TotalBonusesPaid != 0 || rep.Result.TotalActualProfit != rep.Result.TotalActualLoss {
		t.Fatalf("no bonus scenario should keep the full loss: %+v", rep.Result)
	}
}

func TestSimRejects(t *testing.T) {
	h := newTestHandler(t)
	cases := []struct {
		method, target, body string
		want                 int
	}{
		{http.MethodGet, "/v1/sim?players=0", "", http.StatusBadRequest},
		{http.MethodGet, "/v1/sim?players=abc", "", http.StatusBadRequest},
		{http.MethodGet, "/v1/sim?players=200000", "", http.StatusBadRequest},
		{http.MethodGet, "/v1/sim?edge=0.5", "", http.StatusBadRequest},
		{http.MethodGet, "/v1/sim?bonus=Weekly", "", http.StatusBadRequest},
		{http.MethodGet, "/v1/sim?scenario=missing", "", http.StatusBadRequest},
		{http.MethodPost, "/v1/sim", `{"players":10}`, http.StatusBadRequest},
		{http.MethodPost, "/v1/sim", `{"bonuses":[{"name":"a","rate":0.1},{"name":"a","rate":0.1}]}`, http.StatusBadRequest},
		{http.MethodDelete, "/v1/sim", "", http.StatusMethodNotAllowed},
	}
	for i, c := range cases {
		rec := do(t, h, c.method, c.target, c.body)
		if rec.Code != c.want {
			t.Fatalf("case %d %s %s: got %d want %d (%s)", i, c.method, c.target, rec.Code, c.want, rec.Body.String())
		}
	}
}

func TestSimCSV(t *testing.T) {
	h := newTestHandler(t)
	rec := do(t, h, http.MethodGet, "/v1/sim/csv?players=100&no_bonus=true", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("code %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.HasPrefix(rec.Header().Get("Content-Type"), "text/csv") {
		t.Fatalf("content type got %q", rec.Header().Get("Content-Type"))
	}
	if !strings.Contains(rec.Header().Get("Content-Disposition"), "casino_simulation_results.csv") {
		t.Fatalf("disposition got %q", rec.Header().Get("Content-Disposition"))
	}
	rows, err := csv.NewReader(rec.Body).ReadAll()
	if err != nil {
		t.Fatalf("csv: %v", err)
	}
	if len(rows) != 2 || strings.Join(rows[0], ",") != strings.Join(stats.Columns(), ",") {
		t.Fatalf("rows got %v", rows)
	}
	if rows[1][0] != "100" {
		t.Fatalf("TotalPlayers column got %q", rows[1][0])
	}
}

func TestSweep(t *testing.T) {
	h := newTestHandler(t)
	rec := do(t, h, http.MethodPost, "/v1/sweep", `{"player_count":300,"edges":[0.01,0.03,0.05]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("code %d: %s", rec.Code, rec.Body.String())
	}
	var reps []stats.Report
	if err := json.Unmarshal(rec.Body.Bytes(), &reps); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(reps) != 3 {
		t.Fatalf("len got %d", len(reps))
	}
	for i, want := range []float64{0.01, 0.03, 0.05} {
		if reps[i].Params.HouseEdge != want {
			t.Fatalf("order broken at %d: %v", i, reps[i].Params.HouseEdge)
		}
	}
	if reps[0].Result.TotalWager != reps[2].Result.TotalWager {
		t.Fatalf("same seed should share wagers")
	}
	if !(reps[0].Result.TotalExpectedLoss < reps[1].Result.TotalExpectedLoss &&
		reps[1].Result.TotalExpectedLoss < reps[2].Result.TotalExpectedLoss) {
		t.Fatalf("expected loss should grow with house edge")
	}

	rec = do(t, h, http.MethodPost, "/v1/sweep?format=csv&edges=0.01,0.02", `{"player_count":50}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("csv code %d: %s", rec.Code, rec.Body.String())
	}
	if lines := strings.Count(strings.TrimSpace(rec.Body.String()), "\n"); lines != 2 {
		t.Fatalf("csv lines got %d", lines+1)
	}

	single := do(t, h, http.MethodPost, "/v1/sweep", `{"player_count":10,"edges":[0.02]}`)
	if !strings.HasPrefix(strings.TrimSpace(single.Body.String()), "[") {
		t.Fatalf("single point sweep should still be a list")
	}

	bad := do(t, h, http.MethodPost, "/v1/sweep", `{"edges":[0.01,0.9]}`)
	if bad.Code != http.StatusBadRequest {
		t.Fatalf("out of range edge got %d", bad.Code)
	}
	if empty := do(t, h, http.MethodPost, "/v1/sweep", `{}`); empty.Code != http.StatusBadRequest {
		t.Fatalf("empty edges got %d", empty.Code)
	}
}

func TestSimTrimsBonusNames(t *testing.T) {
	h := newTestHandler(t)
	rec := do(t, h, http.MethodGet, "/v1/sim?players=100&bonus=%20Rakeback%20:0.1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("code %d: %s", rec.Code, rec.Body.String())
	}
	rep := decodeReport(t, rec)
	if bs := rep.Params.Bonuses; len(bs) != 1 || bs[0] != (spec.Bonus{Name: "Rakeback", Rate: 0.1}) {
		t.Fatalf("bonus name should be trimmed, got %+v", rep.Params.Bonuses)
	}

	rec = do(t, h, http.MethodPost, "/v1/sim", `{"player_count":100,"bonuses":[{"name":"Rakeback","rate":0.1},{"name":" Rakeback","rate":0.05}]}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("names equal after trimming should be rejected, got %d", rec.Code)
	}
}
