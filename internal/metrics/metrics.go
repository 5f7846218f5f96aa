// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package metrics is the typed external collaborator through which the
// core reports counts. It never serves HTTP; the only consumer of a
// PrometheusSink's private registry is its own Render method.
package metrics

import (
	"encoding/json"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/allaunthefox/DeDupeLab/internal/durable"
)

// Sink is the small interface the core reports to. No component in the
// indexing/grouping/planning/applying pipeline depends on a concrete
// implementation; only the CLI wires one in.
type Sink interface {
	IncFilesScanned(n int)
	AddBytesScanned(n int64)
	IncDuplicateGroups(n int)
	ObserveApply(attempted, succeeded, skipped, errs int, bytesMoved int64)
	ObserveRollback(restored, errs int)
}

// NoopSink discards everything. It is the default for library callers
// that don't care about metrics.
type NoopSink struct{}

func (NoopSink) IncFilesScanned(n int)                  {}
func (NoopSink) AddBytesScanned(n int64)                {}
func (NoopSink) IncDuplicateGroups(n int)               {}
func (NoopSink) ObserveApply(int, int, int, int, int64) {}
func (NoopSink) ObserveRollback(int, int)               {}

// PrometheusSink accumulates counts against a private prometheus
// registry (never the global DefaultRegisterer, and never served over
// HTTP) and renders it to a flat metrics.json document.
type PrometheusSink struct {
	registry *prometheus.Registry

	filesScanned     prometheus.Counter
	bytesScanned     prometheus.Counter
	duplicateGroups  prometheus.Counter
	applyAttempted   prometheus.Counter
	applySucceeded   prometheus.Counter
	applySkipped     prometheus.Counter
	applyErrors      prometheus.Counter
	applyBytesMoved  prometheus.Counter
	rollbackRestored prometheus.Counter
	rollbackErrors   prometheus.Counter
}

// NewPrometheusSink builds a sink backed by a fresh private registry.
func NewPrometheusSink() *PrometheusSink {
	reg := prometheus.NewRegistry()
	s := &PrometheusSink{
		registry:         reg,
		filesScanned:     prometheus.NewCounter(prometheus.CounterOpts{Name: "deduplab_files_scanned_total", Help: "Total files scanned."}),
		bytesScanned:     prometheus.NewCounter(prometheus.CounterOpts{Name: "deduplab_bytes_scanned_total", Help: "Total bytes scanned."}),
		duplicateGroups:  prometheus.NewCounter(prometheus.CounterOpts{Name: "deduplab_duplicate_groups_total", Help: "Total duplicate groups found."}),
		applyAttempted:   prometheus.NewCounter(prometheus.CounterOpts{Name: "deduplab_apply_attempted_total", Help: "Total plan rows attempted."}),
		applySucceeded:   prometheus.NewCounter(prometheus.CounterOpts{Name: "deduplab_apply_succeeded_total", Help: "Total plan rows succeeded."}),
		applySkipped:     prometheus.NewCounter(prometheus.CounterOpts{Name: "deduplab_apply_skipped_total", Help: "Total plan rows skipped."}),
		applyErrors:      prometheus.NewCounter(prometheus.CounterOpts{Name: "deduplab_apply_errors_total", Help: "Total plan rows errored."}),
		applyBytesMoved:  prometheus.NewCounter(prometheus.CounterOpts{Name: "deduplab_apply_bytes_moved_total", Help: "Total bytes moved by apply."}),
		rollbackRestored: prometheus.NewCounter(prometheus.CounterOpts{Name: "deduplab_rollback_restored_total", Help: "Total files restored by rollback."}),
		rollbackErrors:   prometheus.NewCounter(prometheus.CounterOpts{Name: "deduplab_rollback_errors_total", Help: "Total rollback errors."}),
	}
	reg.MustRegister(
		s.filesScanned, s.bytesScanned, s.duplicateGroups,
		s.applyAttempted, s.applySucceeded, s.applySkipped, s.applyErrors, s.applyBytesMoved,
		s.rollbackRestored, s.rollbackErrors,
	)
	return s
}

func (s *PrometheusSink) IncFilesScanned(n int)    { s.filesScanned.Add(float64(n)) }
func (s *PrometheusSink) AddBytesScanned(n int64)  { s.bytesScanned.Add(float64(n)) }
func (s *PrometheusSink) IncDuplicateGroups(n int) { s.duplicateGroups.Add(float64(n)) }

func (s *PrometheusSink) ObserveApply(attempted, succeeded, skipped, errs int, bytesMoved int64) {
	s.applyAttempted.Add(float64(attempted))
	s.applySucceeded.Add(float64(succeeded))
	s.applySkipped.Add(float64(skipped))
	s.applyErrors.Add(float64(errs))
	s.applyBytesMoved.Add(float64(bytesMoved))
}

func (s *PrometheusSink) ObserveRollback(restored, errs int) {
	s.rollbackRestored.Add(float64(restored))
	s.rollbackErrors.Add(float64(errs))
}

// snapshot is the flat document Render writes to metrics.json.
type snapshot struct {
	FilesScanned     float64 `json:"files_scanned"`
	BytesScanned     float64 `json:"bytes_scanned"`
	DuplicateGroups  float64 `json:"duplicate_groups"`
	ApplyAttempted   float64 `json:"apply_attempted"`
	ApplySucceeded   float64 `json:"apply_succeeded"`
	ApplySkipped     float64 `json:"apply_skipped"`
	ApplyErrors      float64 `json:"apply_errors"`
	ApplyBytesMoved  float64 `json:"apply_bytes_moved"`
	RollbackRestored float64 `json:"rollback_restored"`
	RollbackErrors   float64 `json:"rollback_errors"`
}

func counterValue(c prometheus.Counter) float64 {
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		return 0
	}
	return m.GetCounter().GetValue()
}

// Render gathers the current registry sample values into path as JSON.
func (s *PrometheusSink) Render(path string) error {
	snap := snapshot{
		FilesScanned:     counterValue(s.filesScanned),
		BytesScanned:     counterValue(s.bytesScanned),
		DuplicateGroups:  counterValue(s.duplicateGroups),
		ApplyAttempted:   counterValue(s.applyAttempted),
		ApplySucceeded:   counterValue(s.applySucceeded),
		ApplySkipped:     counterValue(s.applySkipped),
		ApplyErrors:      counterValue(s.applyErrors),
		ApplyBytesMoved:  counterValue(s.applyBytesMoved),
		RollbackRestored: counterValue(s.rollbackRestored),
		RollbackErrors:   counterValue(s.rollbackErrors),
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	return durable.WriteFile(path, data, 0o644)
}
