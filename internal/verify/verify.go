// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package verify performs a structural (non-rehashing) audit of a
// checkpoint: every recorded destination must still exist.
package verify

import (
	"os"

	"github.com/allaunthefox/DeDupeLab/internal/checkpoint"
)

// Result is the outcome of an audit run.
type Result struct {
	Checked int
	Missing []string
}

// OK reports whether the audit found every destination present.
func (r Result) OK() bool { return len(r.Missing) == 0 }

// Run checks every move recorded in cp and reports which destinations
// no longer exist.
func Run(cp checkpoint.Checkpoint) Result {
	res := Result{Checked: len(cp.Moves)}
	for _, mv := range cp.Moves {
		if _, err := os.Stat(mv.Dst); os.IsNotExist(err) {
			res.Missing = append(res.Missing, mv.Dst)
		}
	}
	return res
}
