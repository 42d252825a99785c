package httperr

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/zintix-labs/edgesim/errs"
)

func TestStatusCode(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{errs.Validation("bad"), http.StatusBadRequest},
		{errs.Wrap(errs.Validation("bad"), "ctx"), http.StatusBadRequest},
		{errs.Computation("zero wager"), http.StatusUnprocessableEntity},
		{errs.NewWarn("warn"), http.StatusBadRequest},
		{errs.NewFatal("fatal"), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
		{context.DeadlineExceeded, http.StatusGatewayTimeout},
		{errs.Wrap(context.Canceled, "sweep canceled"), http.StatusRequestTimeout},
	}
	for i, c := range cases {
		if got := StatusCode(c.err); got != c.want {
			t.Fatalf("case %d: got %d want %d", i, got, c.want)
		}
	}
}

func TestErrsBody(t *testing.T) {
	rec := httptest.NewRecorder()
	Errs(rec, errs.Computation("total wager must be finite and > 0"))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("code got %d", rec.Code)
	}
	var b Body
	if err := json.Unmarshal(rec.Body.Bytes(), &b); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b.Kind != "computation" || b.Status != http.StatusUnprocessableEntity {
		t.Fatalf("body got %+v", b)
	}
}
