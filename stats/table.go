// Copyright 2025 Zintix Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package stats

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var lang language.Tag = language.English

// StdOut 將報表以表格輸出至 w
func (r *Report) StdOut(w io.Writer, ut time.Duration) {
	fmt.Fprint(w, formatDuration(ut, r.Result.TotalPlayers))
	title := "Casino Simulation"
	if r.Scenario != "" {
		title += " [" + r.Scenario + "]"
	}
	keys, msg := r.fmtBasic()
	fmt.Fprintln(w, fmtTable(title, keys, msg))
	if len(r.Breakdown.Bonuses) > 0 || r.Breakdown.LosebackPaid > 0 {
		keys, msg = r.fmtBreakdown()
		fmt.Fprintln(w, fmtTable("Bonus Breakdown", keys, msg))
	}
	keys, msg = r.fmtDistribution()
	fmt.Fprintln(w, fmtTable("House Profit per Player", keys, msg))
}

func (r *Report) fmtBasic() ([]string, map[string]string) {
	p := message.NewPrinter(lang)
	res := r.Result
	basic := map[string]string{
		"Total Players":         p.Sprintf("%d", res.TotalPlayers),
		"Total Wager":           fmtMoney(res.TotalWager),
		"Total Expected Loss":   fmtMoney(res.TotalExpectedLoss),
		"Total Actual Loss":     fmtMoney(res.TotalActualLoss),
		"Total Bonuses Paid":    fmtMoney(res.TotalBonusesPaid),
		"Total Expected Profit": fmtMoney(res.TotalExpectedProfit),
		"Total Actual Profit":   fmtMoney(res.TotalActualProfit),
		"Expected RTP":          p.Sprintf("%.4f %%", 100.0*res.ExpectedRTP),
		"Actual RTP":            p.Sprintf("%.4f %%", 100.0*res.ActualRTP),
		"Profitable Players":    p.Sprintf("%d", res.ProfitablePlayers),
		"Losing Players":        p.Sprintf("%d", res.LosingPlayers),
		"Profitable Player %":   p.Sprintf("%.2f %%", res.ProfitablePlayerPercentage),
		"Run ID":                r.RunID,
	}
	keys := []string{"Total Players", "Total Wager", "Total Expected Loss", "Total Actual Loss", "Total Bonuses Paid", "Total Expected Profit", "Total Actual Profit", "Expected RTP", "Actual RTP", "Profitable Players", "Losing Players", "Profitable Player %", "Run ID"}
	return keys, basic
}

func (r *Report) fmtBreakdown() ([]string, map[string]string) {
	p := message.NewPrinter(lang)
	keys := make([]string, 0, len(r.Breakdown.Bonuses)+1)
	msg := make(map[string]string, len(r.Breakdown.Bonuses)+1)
	for _, b := range r.Breakdown.Bonuses {
		k := p.Sprintf("%s (%.2f%%)", b.Name, 100*b.Rate)
		keys = append(keys, k)
		msg[k] = fmtMoney(b.Paid)
	}
	k := p.Sprintf("Loseback (%.2f%%)", 100*r.Params.LosebackRate)
	keys = append(keys, k)
	msg[k] = fmtMoney(r.Breakdown.LosebackPaid)
	return keys, msg
}

func (r *Report) fmtDistribution() ([]string, map[string]string) {
	d := r.Distribution
	msg := map[string]string{
		"Mean":             fmtMoney(d.ProfitMean),
		"Std":              fmtMoney(d.ProfitStd),
		"P10":              fmtMoneyCI(d.ProfitP10),
		"Median":           fmtMoneyCI(d.ProfitMedian),
		"P90":              fmtMoneyCI(d.ProfitP90),
		"House-loss share": fmt.Sprintf("%.2f%% [%.2f%%, %.2f%%]", 100*d.ProfitableShare.Hat, 100*d.ProfitableShare.CI.Lo, 100*d.ProfitableShare.CI.Hi),
	}
	keys := []string{"Mean", "Std", "P10", "Median", "P90", "House-loss share"}
	return keys, msg
}

// fmtMoney 四捨五入到分並加上千分位
func fmtMoney(v float64) string {
	p := message.NewPrinter(lang)
	d := decimal.NewFromFloat(v).Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	s := d.StringFixed(2)
	return sign + p.Sprintf("%d", d.IntPart()) + s[len(s)-3:]
}

func fmtMoneyCI(ps PointStat) string {
	return fmtMoney(ps.Hat) + " [" + fmtMoney(ps.CI.Lo) + ", " + fmtMoney(ps.CI.Hi) + "]"
}

func formatDuration(d time.Duration, players int) string {
	p := message.NewPrinter(lang)
	if d < 0 {
		d = -d
	}
	sec := d.Seconds()
	if sec <= 0 {
		sec = 1e-9
	}
	pps := int(float64(players) / sec)
	return p.Sprintf("used: %.3f seconds\npps : %d players/sec\n", sec, pps)
}

func fmtTable(title string, keys []string, msg map[string]string) string {
	maxKeyLen := 0
	maxValLen := 0
	for k, m := range msg {
		if w := runewidth.StringWidth(k); w > maxKeyLen {
			maxKeyLen = w
		}
		if w := runewidth.StringWidth(m); w > maxValLen {
			maxValLen = w
		}
	}
	maxKeyLen += 2
	maxValLen += 2

	totalInner := maxKeyLen + maxValLen + 1
	titleW := runewidth.StringWidth(title)
	if titleW > totalInner {
		maxValLen += titleW - totalInner
		totalInner = titleW
	}

	divider := "+" + strings.Repeat("-", maxKeyLen) + "+" + strings.Repeat("-", maxValLen) + "+\n"
	top := "+" + strings.Repeat("-", totalInner) + "+\n"

	left := (totalInner - titleW) / 2
	right := totalInner - titleW - left

	var sb strings.Builder
	sb.WriteString(top)
	sb.WriteString("|" + blank(left) + title + blank(right) + "|\n")
	sb.WriteString(divider)
	for _, k := range keys {
		sb.WriteString("| " + k + blank(maxKeyLen-2-runewidth.StringWidth(k)) + " | " + msg[k] + blank(maxValLen-2-runewidth.StringWidth(msg[k])) + " |\n")
	}
	sb.WriteString(divider)
	return sb.String()
}

func blank(w int) string {
	if w < 1 {
		return ""
	}
	return strings.Repeat(" ", w)
}
