// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package categorize applies lightweight MIME+filename heuristics used
// only by the per-folder meta exporter; the core pipeline never
// consults a file's category.
package categorize

import (
	"regexp"
	"strings"
)

// Category is the heuristic classification of one file.
type Category struct {
	Category string
	Subtype  string
	Topic    string // "" means no topic was inferred
}

var (
	financeRe = regexp.MustCompile(`(?i)(invoice|receipt|tax)`)
	travelRe  = regexp.MustCompile(`(?i)(vacation|travel|trip)`)
	familyRe  = regexp.MustCompile(`(?i)(wedding|birthday|family)`)
	workRe    = regexp.MustCompile(`(?i)(project|report|proposal)`)
	cameraRe  = regexp.MustCompile(`(?i)(camera|img_|dsc_)`)
)

// File infers category/subtype/topic from a MIME type and a filename.
func File(mime, name string) Category {
	cat, subtype := "other", "other"

	switch {
	case strings.HasPrefix(mime, "image/"):
		cat, subtype = "image", "photo"
	case strings.HasPrefix(mime, "video/"):
		cat, subtype = "video", "clip"
	case strings.HasPrefix(mime, "audio/"):
		cat, subtype = "audio", "track"
	case strings.HasPrefix(mime, "application/pdf"):
		cat, subtype = "document", "pdf"
	case strings.HasPrefix(mime, "text/"):
		cat, subtype = "document", "text"
	case strings.HasSuffix(mime, "zip"), strings.Contains(mime, "zip"), strings.Contains(mime, "x-7z"), strings.Contains(mime, "rar"):
		cat, subtype = "archive", "compressed"
	}

	var topic string
	switch {
	case financeRe.MatchString(name):
		topic = "finance"
	case travelRe.MatchString(name):
		topic = "travel"
	case familyRe.MatchString(name):
		topic = "family"
	case workRe.MatchString(name):
		topic = "work"
	case cameraRe.MatchString(name):
		topic = "camera_uploads"
	}

	return Category{Category: cat, Subtype: subtype, Topic: topic}
}
