package inventory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/inventory-portal/internal/config"
	"github.com/mamadbah2/inventory-portal/internal/domain/normalize"
)

// Failure reasons reported per probed path.
const (
	ReasonTransport = "transport"
	ReasonStatus    = "status"
	ReasonDecode    = "decode"
)

var errNotList = errors.New("body is not a JSON list")

// PathFailure describes one read path that could not be used.
type PathFailure struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
	Status int    `json:"status,omitempty"`
	Err    string `json:"error"`
}

// Collection is the result of fetching one logical resource.
type Collection struct {
	Resource string
	Records  []normalize.Raw
	// Source is the path that served Records; empty when nothing was found.
	Source   string
	Probed   int
	Failures []PathFailure
}

// Failed reports whether every probed path failed, as opposed to answering
// with an empty list.
func (c Collection) Failed() bool {
	return c.Probed > 0 && len(c.Failures) == c.Probed
}

// Err summarises a failed collection, or returns nil.
func (c Collection) Err() error {
	if !c.Failed() {
		return nil
	}
	last := c.Failures[len(c.Failures)-1]
	return fmt.Errorf("fetch %s: all %d paths failed, last %s: %s", c.Resource, c.Probed, last.Path, last.Err)
}

// Fetch probes the resource's read paths in order and returns the first
// non-empty list. Failing paths are logged and skipped; Fetch never returns
// an error, callers inspect Collection.Failed instead.
func (c *APIClient) Fetch(ctx context.Context, res config.Resource) Collection {
	start := time.Now()
	col := Collection{Resource: res.Name}

	for _, path := range res.Read {
		if ctx.Err() != nil {
			col.Failures = append(col.Failures, PathFailure{Path: path, Reason: ReasonTransport, Err: ctx.Err().Error()})
			col.Probed++
			break
		}
		col.Probed++

		records, failure := c.probe(ctx, path)
		if failure != nil {
			col.Failures = append(col.Failures, *failure)
			c.observer.PathFailed(res.Name, failure.Reason)
			c.logger.Warn("collection path failed",
				zap.String("resource", res.Name),
				zap.String("path", path),
				zap.String("reason", failure.Reason),
				zap.Int("status", failure.Status),
				zap.String("error", failure.Err),
			)
			continue
		}
		if len(records) == 0 {
			c.logger.Debug("collection path returned no records",
				zap.String("resource", res.Name),
				zap.String("path", path),
			)
			continue
		}

		col.Records = records
		col.Source = path
		break
	}

	c.observer.ObserveFetch(res.Name, col.Source != "", time.Since(start))
	return col
}

func (c *APIClient) probe(ctx context.Context, path string) ([]normalize.Raw, *PathFailure) {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		Get(path)
	if err != nil {
		return nil, &PathFailure{Path: path, Reason: ReasonTransport, Err: err.Error()}
	}
	if resp.StatusCode() < http.StatusOK || resp.StatusCode() >= http.StatusMultipleChoices {
		return nil, &PathFailure{
			Path:   path,
			Reason: ReasonStatus,
			Status: resp.StatusCode(),
			Err:    newAPIError(resp.StatusCode(), nil).Error(),
		}
	}

	records, err := decodeList(resp.Body())
	if err != nil {
		return nil, &PathFailure{Path: path, Reason: ReasonDecode, Status: resp.StatusCode(), Err: err.Error()}
	}
	return records, nil
}

// decodeList accepts a bare JSON list or an object wrapping one under
// "data". Non-object elements are dropped.
func decodeList(body []byte) ([]normalize.Raw, error) {
	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("decode list: %w", err)
	}

	if obj, ok := decoded.(map[string]any); ok {
		decoded = obj["data"]
	}
	items, ok := decoded.([]any)
	if !ok {
		return nil, errNotList
	}

	out := make([]normalize.Raw, 0, len(items))
	for _, item := range items {
		if obj, ok := item.(map[string]any); ok {
			out = append(out, normalize.Raw(obj))
		}
	}
	return out, nil
}
