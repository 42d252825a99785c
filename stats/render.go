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
	"encoding/csv"
	"encoding/json"
	"io"
	"strings"

	"github.com/zintix-labs/edgesim/errs"
	"gopkg.in/yaml.v3"
)

// ReportRender 定義輸出行為；一次可輸出多份報表（例如 sweep）
type ReportRender interface {
	Write(w io.Writer, rs ...*Report) error
	ContentType() string
}

// Json渲染：單份輸出物件，多份輸出陣列；List 為 true 時一律輸出陣列
type JsonReportRender struct {
	List bool
}

func (jr *JsonReportRender) Write(w io.Writer, rs ...*Report) error {
	if len(rs) == 1 && !jr.List {
		return json.NewEncoder(w).Encode(rs[0])
	}
	return json.NewEncoder(w).Encode(rs)
}

func (jr *JsonReportRender) ContentType() string { return "application/json" }

// YAML渲染；List 語意同 JsonReportRender
type YAMLReportRender struct {
	List bool
}

func (yr *YAMLReportRender) Write(w io.Writer, rs ...*Report) error {
	// 只有「最內層的一維陣列」輸出成 flow style：[..., ...]
	if len(rs) == 1 && !yr.List {
		return forceReadableList(w, rs[0])
	}
	return forceReadableList(w, &rs)
}

func (yr *YAMLReportRender) ContentType() string { return "application/yaml" }

// CSV渲染：一列標頭 + 每份報表一列 Result
type CSVReportRender struct{}

func (cr *CSVReportRender) Write(w io.Writer, rs ...*Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns()); err != nil {
		return errs.Wrap(err, "write csv header failed")
	}
	for _, r := range rs {
		if err := cw.Write(r.Result.Row()); err != nil {
			return errs.Wrap(err, "write csv row failed")
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return errs.Wrap(err, "flush csv failed")
	}
	return nil
}

func (cr *CSVReportRender) ContentType() string { return "text/csv; charset=utf-8" }

// RenderByName 依名稱取得渲染器：json | yaml | csv
func RenderByName(name string) (ReportRender, error) {
	return renderByName(name, false)
}

// ListRenderByName 與 RenderByName 相同，但 json / yaml 一律輸出陣列
func ListRenderByName(name string) (ReportRender, error) {
	return renderByName(name, true)
}

func renderByName(name string, list bool) (ReportRender, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "json":
		return &JsonReportRender{List: list}, nil
	case "yaml", "yml":
		return &YAMLReportRender{List: list}, nil
	case "csv":
		return &CSVReportRender{}, nil
	default:
		return nil, errs.Validationf("unsupported format: %q", name)
	}
}

// YAML 內層方法
func forceReadableList[T any](w io.Writer, t *T) error {
	var node yaml.Node
	if err := node.Encode(t); err != nil {
		return err
	}
	styleReadableSequences(&node)

	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(&node)
}

func styleReadableSequences(n *yaml.Node) {
	if n == nil {
		return
	}
	switch n.Kind {
	case yaml.DocumentNode, yaml.MappingNode:
		for _, c := range n.Content {
			styleReadableSequences(c)
		}
	case yaml.SequenceNode:
		nested := false
		for _, c := range n.Content {
			if c != nil && (c.Kind == yaml.SequenceNode || c.Kind == yaml.MappingNode) {
				nested = true
			}
			styleReadableSequences(c)
		}
		if !nested {
			n.Style = yaml.FlowStyle
		}
	}
}
