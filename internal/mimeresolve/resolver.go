// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package mimeresolve resolves a file path to a MIME type string. It
// never fails: an unrecognized extension falls back to
// application/octet-stream rather than returning an error.
package mimeresolve

import (
	"mime"
	"path/filepath"
	"strings"
	"sync"
)

// modernFormats enriches the system-registered extension table with
// formats that are common in practice but not always present in a
// host's MIME database.
var modernFormats = map[string]string{
	".webp": "image/webp",
	".avif": "image/avif",
	".heic": "image/heic",
	".heif": "image/heif",
	".jxl":  "image/jxl",

	".mkv":  "video/x-matroska",
	".webm": "video/webm",
	".m4v":  "video/x-m4v",

	".opus": "audio/opus",
	".flac": "audio/flac",
	".m4a":  "audio/mp4",
	".aac":  "audio/aac",

	".epub": "application/epub+zip",
	".mobi": "application/x-mobipocket-ebook",

	".7z":  "application/x-7z-compressed",
	".rar": "application/vnd.rar",
	".zst": "application/zstd",
	".br":  "application/x-brotli",
}

// builtinFallback covers common developer/text extensions that a host's
// registered MIME table frequently omits.
var builtinFallback = map[string]string{
	".md":   "text/markdown",
	".yaml": "text/yaml",
	".yml":  "text/yaml",
	".toml": "text/toml",
	".ini":  "text/plain",
	".log":  "text/plain",
	".conf": "text/plain",
	".cfg":  "text/plain",
	".sh":   "application/x-sh",
	".bash": "application/x-sh",
	".zsh":  "application/x-sh",
	".py":   "text/x-python",
	".js":   "application/javascript",
	".ts":   "application/typescript",
	".jsx":  "text/jsx",
	".tsx":  "text/tsx",
	".rs":   "text/x-rust",
	".go":   "text/x-go",
	".c":    "text/x-c",
	".cpp":  "text/x-c++",
	".h":    "text/x-c",
	".hpp":  "text/x-c++",
}

const fallbackMIME = "application/octet-stream"

var registerOnce sync.Once

// register enriches the process-wide mime table exactly once. All
// extension registration is confined here; nothing else in this
// codebase calls mime.AddExtensionType.
func register() {
	registerOnce.Do(func() {
		for ext, typ := range modernFormats {
			_ = mime.AddExtensionType(ext, typ)
		}
	})
}

// Resolve returns a non-empty MIME type for path. It never returns an
// error: resolution falls through system table → modern-format table
// (registered into the same system table) → builtin fallback table →
// application/octet-stream.
func Resolve(path string) string {
	register()

	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return fallbackMIME
	}

	if typ := mime.TypeByExtension(ext); typ != "" {
		return stripParams(typ)
	}
	if typ, ok := builtinFallback[ext]; ok {
		return typ
	}
	return fallbackMIME
}

// stripParams drops any "; charset=..." suffix the system table may
// attach, so callers always get a bare MIME type.
func stripParams(typ string) string {
	if i := strings.IndexByte(typ, ';'); i >= 0 {
		return strings.TrimSpace(typ[:i])
	}
	return typ
}
