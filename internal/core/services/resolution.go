// Copyright 2024 Google, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package services contains the business logic of the phrase-to-media
// application. Every service is a plain struct holding the store interfaces it
// needs; the concrete backends are chosen once at start-up (see
// cloud.ServiceClients) and injected here.
//
// This file, `resolution.go`, defines the ResolutionService: it matches free
// text against the media catalog and records each successful match in the
// event log.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/jaycherian/gcp-go-phrase-media-map/internal/core/model"
	"github.com/jaycherian/gcp-go-phrase-media-map/internal/core/store"
)

const meterName = "github.com/jaycherian/gcp-go-phrase-media-map/services"

// CatalogOrder selects the order in which catalog entries are scanned. The
// first matching entry wins, so the order decides overlapping matches.
type CatalogOrder string

const (
	// OrderStore keeps whatever order the configured store documents.
	OrderStore CatalogOrder = "store"
	// OrderSentence scans entries sorted lexicographically by sentence.
	OrderSentence CatalogOrder = "sentence"
)

// ParseCatalogOrder maps a configuration value to a CatalogOrder. An empty
// value selects OrderStore.
func ParseCatalogOrder(in string) (CatalogOrder, error) {
	switch CatalogOrder(strings.ToLower(strings.TrimSpace(in))) {
	case "", OrderStore:
		return OrderStore, nil
	case OrderSentence:
		return OrderSentence, nil
	}
	return "", fmt.Errorf("%w: unknown catalog order %q", model.ErrValidation, in)
}

// ResolutionService resolves phrases against the catalog.
type ResolutionService struct {
	Catalog store.CatalogStore  // Source of sentence -> media entries.
	Log     store.EventLogStore // Receives one event per successful match.
	Order   CatalogOrder        // Scan order; see CatalogOrder.
	hits    metric.Int64Counter // resolution.hit
	misses  metric.Int64Counter // resolution.miss
	logErrs metric.Int64Counter // resolution.log_failure
}

// NewResolutionService wires the service and its OpenTelemetry counters.
func NewResolutionService(catalog store.CatalogStore, log store.EventLogStore, order CatalogOrder) *ResolutionService {
	meter := otel.Meter(meterName)
	s := &ResolutionService{Catalog: catalog, Log: log, Order: order}
	var err error
	if s.hits, err = meter.Int64Counter("resolution.hit"); err != nil {
		slog.Error("failed to create counter", "name", "resolution.hit", "error", err)
	}
	if s.misses, err = meter.Int64Counter("resolution.miss"); err != nil {
		slog.Error("failed to create counter", "name", "resolution.miss", "error", err)
	}
	if s.logErrs, err = meter.Int64Counter("resolution.log_failure"); err != nil {
		slog.Error("failed to create counter", "name", "resolution.log_failure", "error", err)
	}
	return s
}

// Resolve matches input against the catalog.
//
// Inputs:
//   - ctx: The request context.
//   - input: Free text typed by the user.
//
// Outputs:
//   - model.Resolution: Matched is false when nothing matched, which is not an
//     error. When matched, Logged reports whether the event log append succeeded.
//   - error: Wraps model.ErrStoreUnavailable when the catalog cannot be read.
func (s *ResolutionService) Resolve(ctx context.Context, input string) (model.Resolution, error) {
	if strings.TrimSpace(input) == "" {
		s.count(ctx, s.misses)
		return model.Resolution{}, nil
	}

	entries, err := s.Catalog.List(ctx)
	if err != nil {
		return model.Resolution{}, storeErr("list catalog", err)
	}

	entry, ok := Match(entries, input, s.Order)
	if !ok {
		s.count(ctx, s.misses)
		return model.Resolution{}, nil
	}
	s.count(ctx, s.hits)

	res := model.Resolution{Matched: true, Entry: entry, Ref: entry.Reference()}
	if _, err := s.Log.Append(ctx, input, entry.Src); err != nil {
		s.count(ctx, s.logErrs)
		slog.WarnContext(ctx, "failed to record resolution", "prompt", input, "src", entry.Src, "error", err)
		return res, nil
	}
	res.Logged = true
	return res, nil
}

// Match returns the first entry, in the given order, whose lower-cased
// sentence is a substring of the lower-cased input. Entries with an empty
// sentence never match. The entries slice is not modified.
func Match(entries []model.CatalogEntry, input string, order CatalogOrder) (model.CatalogEntry, bool) {
	if order == OrderSentence {
		sorted := make([]model.CatalogEntry, len(entries))
		copy(sorted, entries)
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Sentence < sorted[j].Sentence })
		entries = sorted
	}
	needle := strings.ToLower(input)
	for _, e := range entries {
		if e.Sentence == "" {
			continue
		}
		if strings.Contains(needle, strings.ToLower(e.Sentence)) {
			return e, true
		}
	}
	return model.CatalogEntry{}, false
}

func (s *ResolutionService) count(ctx context.Context, c metric.Int64Counter) {
	if c != nil {
		c.Add(ctx, 1, metric.WithAttributes(attribute.String("order", string(s.Order))))
	}
}
