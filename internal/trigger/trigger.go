package trigger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/jmehdipour/matcha-call/internal/config"
	"github.com/jmehdipour/matcha-call/internal/metrics"
	"github.com/jmehdipour/matcha-call/internal/model"
	"go.uber.org/zap"
)

// Caller places one call and returns whatever the provider answered.
type Caller interface {
	CreateCall(ctx context.Context, call model.Call) (model.CallResponse, error)
}

// Trigger places the test call and prints the raw outcome:
// the status code on one line and the decoded body on the next.
// The status code never changes the flow; 4xx/5xx bodies print like 201 ones.
type Trigger struct {
	client Caller
	to     string
	from   string
	out    io.Writer
	log    *zap.Logger
}

func New(client Caller, cfg config.TwilioConfig, out io.Writer, log *zap.Logger) *Trigger {
	if log == nil {
		log = zap.NewNop()
	}

	return &Trigger{
		client: client,
		to:     cfg.ToNumber,
		from:   cfg.FromNumber,
		out:    out,
		log:    log,
	}
}

// Run performs exactly one request. On error nothing is written to out.
func (t *Trigger) Run(ctx context.Context) (model.CallResponse, error) {
	call := model.NewCall(t.to, t.from)

	t.log.Debug("placing call")

	res, err := t.client.CreateCall(ctx, call)
	if err != nil {
		metrics.CallsTotal.WithLabelValues("error", metrics.StatusClass(0)).Inc()
		return model.CallResponse{}, err
	}

	metrics.CallsTotal.WithLabelValues("response", metrics.StatusClass(res.StatusCode)).Inc()
	t.log.Info("call response",
		zap.Int("status_code", res.StatusCode),
		zap.String("call_sid", res.SID()),
		zap.String("call_status", res.Status().String()),
	)

	if err := Print(t.out, res); err != nil {
		return res, fmt.Errorf("print response: %w", err)
	}

	return res, nil
}

// Print writes the status code, then the body as compact JSON.
// Object keys come out sorted, not in the provider's order, since the body is decoded into a map.
func Print(w io.Writer, res model.CallResponse) error {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%d\n", res.StatusCode)

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(res.Body); err != nil {
		return err
	}

	_, err := w.Write(buf.Bytes())
	return err
}
