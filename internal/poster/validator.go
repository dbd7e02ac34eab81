// Package poster checks that project poster URLs resolve to images and
// substitutes alternates when they do not. It is best-effort: failures only
// change which URL is returned.
package poster

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/pyushmatania/version-8-circle-sub002/internal/models"
)

// Where a resolved poster URL came from
const (
	SourceOriginal    = "original"
	SourceFallback    = "fallback"
	SourcePlaceholder = "placeholder"
)

var (
	errNotImage  = errors.New("response is not an image")
	errPermanent = errors.New("permanent failure")

	probes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_poster_probes_total",
			Help: "Poster URL probes by result",
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(probes)
}

// Config holds validator settings
type Config struct {
	Timeout     time.Duration
	Retries     int
	Delay       time.Duration
	Placeholder string
}

// Resolution is the outcome of resolving one project's poster
type Resolution struct {
	ProjectID string `json:"projectId"`
	URL       string `json:"url"`
	Source    string `json:"source"`
	Original  string `json:"original"`
}

// Validator probes poster URLs sequentially
type Validator struct {
	client      *http.Client
	retries     int
	delay       time.Duration
	placeholder string
	fallbacks   Fallbacks
}

// NewValidator creates a validator. A nil fallbacks map uses DefaultFallbacks.
func NewValidator(cfg Config, fallbacks map[string]string) *Validator {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.Retries <= 0 {
		cfg.Retries = 1
	}
	if fallbacks == nil {
		fallbacks = DefaultFallbacks
	}

	return &Validator{
		client:      &http.Client{Timeout: cfg.Timeout},
		retries:     cfg.Retries,
		delay:       cfg.Delay,
		placeholder: cfg.Placeholder,
		fallbacks:   Fallbacks(fallbacks),
	}
}

// Resolve returns the first usable poster for p: its own URL, then the
// fallback table entry for its title, then the placeholder
func (v *Validator) Resolve(ctx context.Context, p *models.Project) Resolution {
	res := Resolution{ProjectID: p.ID, Original: p.PosterURL}

	if p.PosterURL != "" {
		err := v.Check(ctx, p.PosterURL)
		if err == nil {
			res.URL, res.Source = p.PosterURL, SourceOriginal
			return res
		}
		slog.Debug("poster check failed", "project", p.ID, "url", p.PosterURL, "error", err)
	}

	if alt, ok := v.fallbacks.Lookup(p.Title); ok && alt != p.PosterURL && v.wait(ctx) == nil {
		err := v.Check(ctx, alt)
		if err == nil {
			res.URL, res.Source = alt, SourceFallback
			return res
		}
		slog.Debug("fallback poster check failed", "project", p.ID, "url", alt, "error", err)
	}

	res.URL, res.Source = v.placeholder, SourcePlaceholder
	return res
}

// ResolveAll resolves every project in order, pausing between projects
func (v *Validator) ResolveAll(ctx context.Context, projects []*models.Project) []Resolution {
	out := make([]Resolution, 0, len(projects))
	for i, p := range projects {
		if i > 0 {
			if err := v.wait(ctx); err != nil {
				break
			}
		}
		out = append(out, v.Resolve(ctx, p))
	}
	return out
}

// Check probes url up to the configured number of attempts. Transport errors
// and 5xx/429 responses are retried; other failures are final.
func (v *Validator) Check(ctx context.Context, url string) error {
	var err error
	for attempt := 1; attempt <= v.retries; attempt++ {
		if attempt > 1 {
			if werr := v.wait(ctx); werr != nil {
				return werr
			}
		}

		err = v.probe(ctx, url)
		if err == nil {
			probes.WithLabelValues("ok").Inc()
			return nil
		}
		if errors.Is(err, errPermanent) || errors.Is(err, errNotImage) || ctx.Err() != nil {
			break
		}
		slog.Debug("poster probe failed, retrying", "url", url, "attempt", attempt, "error", err)
	}

	probes.WithLabelValues("failed").Inc()
	return err
}

func (v *Validator) probe(ctx context.Context, url string) error {
	resp, err := v.do(ctx, http.MethodHead, url)
	if err != nil {
		return err
	}
	if resp.StatusCode == http.StatusMethodNotAllowed || resp.StatusCode == http.StatusNotImplemented {
		resp, err = v.do(ctx, http.MethodGet, url)
		if err != nil {
			return err
		}
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	default:
		return fmt.Errorf("%w: status %d", errPermanent, resp.StatusCode)
	}

	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(strings.ToLower(ct), "image/") {
		return fmt.Errorf("%w: content type %q", errNotImage, ct)
	}
	return nil
}

func (v *Validator) do(ctx context.Context, method, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errPermanent, err)
	}
	if method == http.MethodGet {
		req.Header.Set("Range", "bytes=0-0")
	}

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, err
	}
	resp.Body.Close()
	return resp, nil
}

// wait sleeps for the inter-request delay or until ctx is done
func (v *Validator) wait(ctx context.Context) error {
	if v.delay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(v.delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
