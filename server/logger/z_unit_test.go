package logger

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/zintix-labs/edgesim/errs"
	"github.com/zintix-labs/edgesim/spec"
)

func TestParseMode(t *testing.T) {
	cases := map[string]LogMode{
		"":        ModeDev,
		"dev":     ModeDev,
		"PROD":    ModeProd,
		"silence": ModeSilence,
		"off":     ModeSilence,
	}
	for in, want := range cases {
		got, err := ParseMode(in)
		if err != nil || got != want {
			t.Fatalf("ParseMode(%q) got %v %v want %v", in, got, err, want)
		}
	}
	if _, err := ParseMode("loud"); !errs.IsValidation(err) {
		t.Fatalf("unknown mode should be a validation error, got %v", err)
	}
	if ModeProd.String() != "prod" {
		t.Fatalf("String got %s", ModeProd.String())
	}
}

func TestAsyncHandlerDrainsOnClose(t *testing.T) {
	var buf bytes.Buffer
	ah := NewAsyncHandler(slog.NewJSONHandler(&buf, nil), 64)
	log := slog.New(ah).With(slog.String("svc", "edgesim"))
	for i := 0; i < 10; i++ {
		log.Info("simulate", slog.Int("i", i))
	}
	ah.Close()

	lines := strings.Count(buf.String(), "\n")
	if uint64(lines)+ah.Dropped() != 10 {
		t.Fatalf("written %d + dropped %d != 10", lines, ah.Dropped())
	}
	if lines > 0 && !strings.Contains(buf.String(), `"svc":"edgesim"`) {
		t.Fatalf("attrs lost: %s", buf.String())
	}

	log.Info("after close")
	if ah.Dropped() == 0 {
		t.Fatalf("records after close should be dropped")
	}
}

func TestSilenceModeDisabled(t *testing.T) {
	log := NewDefaultLogger(ModeSilence)
	if log.Enabled(t.Context(), slog.LevelError) {
		t.Fatalf("silence logger should not be enabled")
	}
}

func TestServiceAndParamsAttrs(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, ModeProd)
	p := spec.Default()
	p.Seed = 7
	log.Info("simulate", ParamsAttr(p))
	log.Debug("hidden in prod")

	out := buf.String()
	for _, want := range []string{`"service":"edgesim"`, `"params":{`, `"seed":7`, `"house_edge":0.01`, `"bonus.Rakeback":0.1`} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %s in %s", want, out)
		}
	}
	if strings.Contains(out, "hidden in prod") {
		t.Fatalf("prod logger should drop debug records")
	}

	buf.Reset()
	New(&buf, ModeDev).Debug("simulate")
	if !strings.Contains(buf.String(), "service=edgesim") {
		t.Fatalf("dev logger should tag the service: %s", buf.String())
	}
}
