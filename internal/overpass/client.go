// Package overpass fetches raw vector features for a bounding box from an
// Overpass-compatible query service, with ordered mirror fallback.
package overpass

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/wegman-software/voxcity-go/internal/config"
	"github.com/wegman-software/voxcity-go/internal/events"
	"github.com/wegman-software/voxcity-go/internal/logger"
	"github.com/wegman-software/voxcity-go/internal/sources"
)

const bboxPlaceholder = "{{bbox}}"

// SourceUnavailableError means every configured mirror failed for a feature
// kind. It carries the last underlying cause.
type SourceUnavailableError struct {
	Kind Kind
	Last error
}

func (e *SourceUnavailableError) Error() string {
	return fmt.Sprintf("all query endpoints failed for %s: %v", e.Kind, e.Last)
}

func (e *SourceUnavailableError) Unwrap() error {
	return e.Last
}

// Client executes Overpass queries against an ordered mirror list. Each
// mirror gets exactly one attempt per query; the first valid successful
// response wins.
type Client struct {
	mirrors []string
	queries sources.Queries
	client  *http.Client
	sink    events.Sink
}

// NewClient creates a fetcher from the source tables. The timeout bounds each
// individual mirror attempt.
func NewClient(cfg *sources.Config, timeout time.Duration) *Client {
	return &Client{
		mirrors: cfg.Mirrors,
		queries: cfg.Queries,
		client: &http.Client{
			Timeout: timeout,
		},
		sink: events.Nop{},
	}
}

// WithSink sets the progress event sink. Events are informational only.
func (c *Client) WithSink(sink events.Sink) *Client {
	if sink != nil {
		c.sink = sink
	}
	return c
}

// FetchAll fetches the three feature kinds sequentially. A failure for any
// kind fails the whole fetch; there is no partial result.
func (c *Client) FetchAll(ctx context.Context, bbox config.BBox) (*FeatureSet, error) {
	set := &FeatureSet{}
	for _, kind := range Kinds {
		c.sink.KindStarted(string(kind))
		feats, err := c.Fetch(ctx, bbox, kind)
		if err != nil {
			return nil, err
		}
		c.sink.KindFetched(string(kind), len(feats))
		switch kind {
		case KindBuildings:
			set.Buildings = feats
		case KindRoads:
			set.Roads = feats
		case KindGreens:
			set.Greens = feats
		}
	}
	return set, nil
}

// Fetch executes the query for one feature kind, trying mirrors in order.
func (c *Client) Fetch(ctx context.Context, bbox config.BBox, kind Kind) ([]Feature, error) {
	body, err := c.queryBody(bbox, kind)
	if err != nil {
		return nil, err
	}

	log := logger.Get()
	var lastErr error

	for _, mirror := range c.mirrors {
		log.Debug("Querying mirror",
			zap.String("mirror", mirror),
			zap.String("kind", string(kind)))

		resp, err := c.post(ctx, mirror, body)
		if err != nil {
			lastErr = err
			log.Debug("Mirror failed",
				zap.String("mirror", mirror),
				zap.Error(err))
			continue
		}

		feats := make([]Feature, 0, len(resp.Elements))
		for i := range resp.Elements {
			if f, ok := resp.Elements[i].feature(kind); ok {
				feats = append(feats, f)
			}
		}
		return feats, nil
	}

	return nil, &SourceUnavailableError{Kind: kind, Last: lastErr}
}

// queryBody builds the full Overpass query for a kind with the bbox
// substituted into the template.
func (c *Client) queryBody(bbox config.BBox, kind Kind) (string, error) {
	var tmpl string
	switch kind {
	case KindBuildings:
		tmpl = c.queries.Buildings
	case KindRoads:
		tmpl = c.queries.Roads
	case KindGreens:
		tmpl = c.queries.Greens
	default:
		return "", fmt.Errorf("unknown feature kind %q", kind)
	}

	timeoutSec := int(c.client.Timeout / time.Second)
	if timeoutSec < 1 {
		timeoutSec = 1
	}
	q := strings.ReplaceAll(tmpl, bboxPlaceholder, bbox.OverpassString())
	return fmt.Sprintf("[out:json][timeout:%d];%s", timeoutSec, q), nil
}

// post sends one query attempt to one mirror and decodes the JSON reply.
func (c *Client) post(ctx context.Context, mirror, body string) (*response, error) {
	form := url.Values{"data": {body}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, mirror,
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", "voxcity-go/1.0")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused by the next attempt.
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var out response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &out, nil
}
