package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/adam/adam/internal/types"
	"github.com/rs/zerolog"
)

// backdate applied to startsAt so Alertmanager's minimum-firing-duration
// handling never suppresses a freshly fired alert. Protocol constant.
const startsAtBackdate = 2 * time.Minute

// Kind classifies a failed dispatch.
type Kind int

const (
	KindUnexpected Kind = iota
	KindTimeout
	KindUnreachable
	KindRejected
)

// Error is a classified dispatch failure.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

// postableAlert is the Alertmanager v2 alert object. The API takes an
// array of these; a nil EndsAt means the alert is still firing.
type postableAlert struct {
	Labels      map[string]string `json:"labels"`
	Annotations map[string]string `json:"annotations"`
	StartsAt    time.Time         `json:"startsAt"`
	EndsAt      *time.Time        `json:"endsAt"`
}

// Dispatcher sends fire and resolve calls to an Alertmanager-compatible backend.
type Dispatcher struct {
	baseURL string
	logger  zerolog.Logger
	client  *http.Client
}

// NewDispatcher creates a dispatcher for the given Alertmanager base URL.
func NewDispatcher(baseURL string, timeout time.Duration, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger.With().Str("component", "dispatch").Logger(),
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Fire sends a firing alert for the record.
func (d *Dispatcher) Fire(ctx context.Context, rec types.AlertRecord) error {
	return d.post(ctx, d.buildAlert(rec, nil))
}

// Resolve sends a resolved alert for the record, bounding its end time at now.
func (d *Dispatcher) Resolve(ctx context.Context, rec types.AlertRecord) error {
	now := time.Now().UTC()
	return d.post(ctx, d.buildAlert(rec, &now))
}

// buildAlert assembles the wire payload. Built-in labels and annotations
// come first so caller-supplied entries may shadow them.
func (d *Dispatcher) buildAlert(rec types.AlertRecord, endsAt *time.Time) postableAlert {
	labels := map[string]string{
		"alertname": rec.Summary,
		"severity":  rec.Severity,
		"service":   rec.Service,
	}
	for k, v := range rec.Labels {
		if k != "" && v != "" {
			labels[k] = v
		}
	}

	annotations := map[string]string{
		"summary":     rec.Summary,
		"description": rec.Description,
	}
	for k, v := range rec.Annotations {
		if k != "" && v != "" {
			annotations[k] = v
		}
	}

	return postableAlert{
		Labels:      labels,
		Annotations: annotations,
		StartsAt:    time.Now().UTC().Add(-startsAtBackdate),
		EndsAt:      endsAt,
	}
}

func (d *Dispatcher) post(ctx context.Context, alert postableAlert) error {
	payload, err := json.Marshal([]postableAlert{alert})
	if err != nil {
		return &Error{Kind: KindUnexpected, Message: fmt.Sprintf("encoding alert payload: %v", err), Err: err}
	}

	url := d.baseURL + "/api/v2/alerts"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return &Error{Kind: KindUnexpected, Message: fmt.Sprintf("building request: %v", err), Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	d.logger.Debug().
		Str("url", url).
		Str("alertname", alert.Labels["alertname"]).
		Bool("resolved", alert.EndsAt != nil).
		Msg("Posting alert to Alertmanager")

	resp, err := d.client.Do(req)
	if err != nil {
		return d.classify(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &Error{
			Kind:    KindRejected,
			Message: fmt.Sprintf("Alertmanager rejected alert: HTTP %d - %s", resp.StatusCode, strings.TrimSpace(string(body))),
		}
	}
	return nil
}

// classify maps transport-level failures onto the dispatch taxonomy.
func (d *Dispatcher) classify(err error) *Error {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &Error{Kind: KindTimeout, Message: "Timeout while sending alert", Err: err}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: KindTimeout, Message: "Timeout while sending alert", Err: err}
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return &Error{
			Kind:    KindUnreachable,
			Message: fmt.Sprintf("Connection error. Cannot connect to Alertmanager at %s", d.baseURL),
			Err:     err,
		}
	}
	return &Error{Kind: KindUnexpected, Message: fmt.Sprintf("Error sending alert: %v", err), Err: err}
}
