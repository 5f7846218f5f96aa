// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package folderstats is the per-folder descriptive metadata exporter.
// It is an external collaborator behind the Exporter interface: the
// core pipeline supplies FileRecords and never reads meta.json back.
package folderstats

import (
	"context"
	"encoding/json"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/allaunthefox/DeDupeLab/internal/categorize"
	"github.com/allaunthefox/DeDupeLab/internal/durable"
	"github.com/allaunthefox/DeDupeLab/internal/record"
)

const (
	schemaV4 = "deduplab_meta_v4"
	schemaV3 = "deduplab_meta_v3"
)

// Exporter is the only way the core touches this concern.
type Exporter interface {
	Export(ctx context.Context, folder string, records []record.File) error
}

// Entry is one file's row within a folder's meta.json.
type Entry struct {
	Name     string `json:"name"`
	Size     int64  `json:"size"`
	MTime    int64  `json:"mtime"`
	SHA256   string `json:"sha256"`
	MIME     string `json:"mime"`
	Category string `json:"category"`
	Subtype  string `json:"subtype"`
	Topic    string `json:"topic,omitempty"`
}

// Summary aggregates a folder's entries.
type Summary struct {
	FilesTotal int            `json:"files_total"`
	BytesTotal int64          `json:"bytes_total"`
	Categories map[string]int `json:"categories"`
	Topics     []string       `json:"topics"`
	Keywords   []string       `json:"keywords"`
}

// Meta is the full meta.json document.
type Meta struct {
	Spec        string  `json:"spec"`
	GeneratedAt string  `json:"generated_at"`
	FolderRel   string  `json:"folder_rel"`
	ParentRel   *string `json:"parent_rel"`
	Summary     Summary `json:"summary"`
	Entries     []Entry `json:"entries"`
}

// nowFunc exists so tests can pin generated_at; production uses time.Now.
var nowFunc = time.Now

// FileExporter writes meta.json into each scanned folder, durably.
type FileExporter struct {
	Root     string
	LegacyV3 bool
	Pretty   bool   // indent the JSON output
	FileName string // "" => "meta.json"
}

// Export renders and durably writes folder/meta.json for records, all of
// which must live directly inside folder.
func (e *FileExporter) Export(ctx context.Context, folder string, records []record.File) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	categories := map[string]int{}
	topicSet := map[string]struct{}{}
	keywordSet := map[string]struct{}{}
	entries := make([]Entry, 0, len(records))
	var bytesTotal int64

	for _, rec := range records {
		name := filepath.Base(rec.Path)
		cat := categorize.File(rec.MIME, name)
		categories[cat.Category]++
		bytesTotal += rec.Size
		if cat.Topic != "" {
			topicSet[cat.Topic] = struct{}{}
		}
		for _, kw := range extractKeywords(name) {
			keywordSet[kw] = struct{}{}
		}
		entries = append(entries, Entry{
			Name:     name,
			Size:     rec.Size,
			MTime:    rec.MTime,
			SHA256:   rec.SHA256,
			MIME:     rec.MIME,
			Category: cat.Category,
			Subtype:  cat.Subtype,
			Topic:    cat.Topic,
		})
	}

	topics := sortedKeys(topicSet)
	if len(topics) > 8 {
		topics = topics[:8]
	}
	keywords := sortedKeys(keywordSet)
	if len(keywords) > 16 {
		keywords = keywords[:16]
	}

	folderRel, parentRel := relPaths(e.Root, folder)

	spec := schemaV4
	if e.LegacyV3 {
		spec = schemaV3
	}

	meta := Meta{
		Spec:        spec,
		GeneratedAt: nowFunc().UTC().Format("2006-01-02T15:04:05Z"),
		FolderRel:   folderRel,
		ParentRel:   parentRel,
		Summary: Summary{
			FilesTotal: len(records),
			BytesTotal: bytesTotal,
			Categories: categories,
			Topics:     topics,
			Keywords:   keywords,
		},
		Entries: entries,
	}

	var data []byte
	var err error
	if e.Pretty {
		data, err = json.MarshalIndent(meta, "", "  ")
	} else {
		data, err = json.Marshal(meta)
	}
	if err != nil {
		return err
	}

	name := e.FileName
	if name == "" {
		name = "meta.json"
	}
	return durable.WriteFile(filepath.Join(folder, name), data, 0o644)
}

func relPaths(root, folder string) (folderRel string, parentRel *string) {
	if folder == root {
		return ".", nil
	}
	rel, err := filepath.Rel(root, folder)
	if err != nil {
		rel = folder
	}
	parent := filepath.Dir(folder)
	if parent == root {
		v := "."
		return rel, &v
	}
	parentR, err := filepath.Rel(root, parent)
	if err != nil {
		parentR = parent
	}
	return rel, &parentR
}

func extractKeywords(name string) []string {
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	stem = strings.ReplaceAll(stem, "_", " ")
	stem = strings.ReplaceAll(stem, "-", " ")

	var out []string
	for _, tok := range strings.Fields(stem) {
		if len(tok) < 3 || !isASCII(tok) || !isAlpha(rune(tok[0])) {
			continue
		}
		if len(tok) > 32 {
			tok = tok[:32]
		}
		out = append(out, tok)
	}
	return out
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > 127 {
			return false
		}
	}
	return true
}

func isAlpha(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
