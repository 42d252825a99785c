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
// Package logger 組裝 edgesim 的 slog logger。
//
// 每筆 log 都帶 service=edgesim；模擬參數以 ParamsAttr 收成同一個 group，
// 方便在 Loki 等地方以 params.seed / params.house_edge 查詢某次模擬。
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/zintix-labs/edgesim/errs"
	"github.com/zintix-labs/edgesim/spec"
)

// Service 附加在每筆 log 上的服務名稱
const Service = "edgesim"

// 非同步 logger 預設的佇列長度
const defaultAsyncBuf = 8192

// LogMode 對應 cmd/svr 的 -log-mode
type LogMode uint8

const (
	ModeDev     LogMode = iota // text → stderr，debug 以上（含每次模擬的參數）
	ModeProd                   // JSON → stdout，info 以上
	ModeSilence                // 全部丟棄
)

var modeNames = map[LogMode]string{
	ModeDev:     "dev",
	ModeProd:    "prod",
	ModeSilence: "silence",
}

func (m LogMode) String() string {
	if s, ok := modeNames[m]; ok {
		return s
	}
	return "unknown"
}

// ParseMode 解析命令列的 -log-mode（dev / prod / silence，大小寫不拘）
func ParseMode(s string) (LogMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "dev":
		return ModeDev, nil
	case "prod":
		return ModeProd, nil
	case "silence", "silent", "off":
		return ModeSilence, nil
	}
	return ModeDev, errs.Validationf("unknown log mode: %q (want dev, prod or silence)", s)
}

// ParamsAttr 把一次模擬的參數收成 "params" group
func ParamsAttr(p spec.Params) slog.Attr {
	attrs := []any{
		slog.Int("players", p.PlayerCount),
		slog.Float64("house_edge", p.HouseEdge),
		slog.Float64("loseback_rate", p.LosebackRate),
		slog.Int64("seed", p.Seed),
	}
	for _, b := range p.Bonuses {
		attrs = append(attrs, slog.Float64("bonus."+b.Name, b.Rate))
	}
	return slog.Group("params", attrs...)
}

// New 以 mode 的格式與等級寫到 w
func New(w io.Writer, mode LogMode) *slog.Logger {
	return slog.New(buildHandler(w, mode))
}

// NewDefaultLogger dev 寫 stderr、prod 寫 stdout
func NewDefaultLogger(mode LogMode) *slog.Logger {
	return New(defaultWriter(mode), mode)
}

// NewDefaultAsyncLogger 與 NewDefaultLogger 相同，但寫出改由背景 goroutine 負責
func NewDefaultAsyncLogger(mode LogMode) *slog.Logger {
	return slog.New(NewAsyncHandler(buildHandler(defaultWriter(mode), mode), defaultAsyncBuf))
}

// NewAsync 同 NewDefaultAsyncLogger，另外回傳 handler 供呼叫端 Close / 觀察 Dropped
func NewAsync(buf int, mode LogMode) (*slog.Logger, *AsyncHandler) {
	ah := NewAsyncHandler(buildHandler(defaultWriter(mode), mode), buf)
	return slog.New(ah), ah
}

func defaultWriter(mode LogMode) io.Writer {
	if mode == ModeProd {
		return os.Stdout
	}
	return os.Stderr
}

func buildHandler(w io.Writer, mode LogMode) slog.Handler {
	var h slog.Handler
	switch mode {
	case ModeSilence:
		return slog.DiscardHandler
	case ModeProd:
		// 正式環境：JSON，給 Loki / Promtail
		h = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	default:
		h = slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	return h.WithAttrs([]slog.Attr{slog.String("service", Service)})
}

// AsyncHandler 讓請求路徑上的 log 不阻塞模擬：
// Handle 只把 record 放進佇列，背景 goroutine 依序交給 next 寫出。
// 佇列滿或已 Close 時直接丟棄並計數，模擬延遲不受 log I/O 影響。
//
// slog.Logger 會忽略 Handle 的 error，寫出錯誤需由 next 自行處理。
type AsyncHandler struct {
	next slog.Handler
	q    *recordQueue
}

// recordQueue 由同一個 AsyncHandler 衍生出的 WithAttrs / WithGroup 共用
type recordQueue struct {
	ch      chan queued
	closed  chan struct{}
	once    sync.Once
	wg      sync.WaitGroup
	dropped atomic.Uint64
}

type queued struct {
	ctx context.Context
	rec slog.Record
	h   slog.Handler
}

// NewAsyncHandler 包裝 next；buf <= 0 時使用 1024
func NewAsyncHandler(next slog.Handler, buf int) *AsyncHandler {
	if next == nil {
		next = buildHandler(os.Stderr, ModeDev)
	}
	if buf <= 0 {
		buf = 1024
	}
	q := &recordQueue{
		ch:     make(chan queued, buf),
		closed: make(chan struct{}),
	}
	q.wg.Add(1)
	go q.drain()
	return &AsyncHandler{next: next, q: q}
}

func (h *AsyncHandler) Ready() bool {
	return h != nil && h.q != nil
}

// Dropped 回傳因佇列滿或 Close 後才送入而丟棄的筆數
func (h *AsyncHandler) Dropped() uint64 {
	if !h.Ready() {
		return 0
	}
	return h.q.dropped.Load()
}

// Close 停止收件並寫完佇列中剩下的 record；可重複呼叫
func (h *AsyncHandler) Close() {
	if !h.Ready() {
		return
	}
	h.q.once.Do(func() { close(h.q.closed) })
	h.q.wg.Wait()
}

func (q *recordQueue) drain() {
	defer q.wg.Done()
	for {
		select {
		case it := <-q.ch:
			_ = it.h.Handle(it.ctx, it.rec)
		case <-q.closed:
			for {
				select {
				case it := <-q.ch:
					_ = it.h.Handle(it.ctx, it.rec)
				default:
					return
				}
			}
		}
	}
}

func (h *AsyncHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *AsyncHandler) Handle(ctx context.Context, r slog.Record) error {
	if !h.Ready() {
		return nil
	}
	select {
	case <-h.q.closed:
		h.q.dropped.Add(1)
		return nil
	default:
	}
	// Clone：record 會跨 goroutine
	select {
	case h.q.ch <- queued{ctx: ctx, rec: r.Clone(), h: h.next}:
	default:
		h.q.dropped.Add(1)
	}
	return nil
}

func (h *AsyncHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &AsyncHandler{next: h.next.WithAttrs(attrs), q: h.q}
}

func (h *AsyncHandler) WithGroup(name string) slog.Handler {
	return &AsyncHandler{next: h.next.WithGroup(name), q: h.q}
}
