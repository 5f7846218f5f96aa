// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package categorize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFile_ClassifiesByMIMEPrefix(t *testing.T) {
	assert.Equal(t, Category{Category: "image", Subtype: "photo"}, File("image/png", "photo.png"))
	assert.Equal(t, Category{Category: "video", Subtype: "clip"}, File("video/mp4", "clip.mp4"))
	assert.Equal(t, Category{Category: "audio", Subtype: "track"}, File("audio/mpeg", "song.mp3"))
	assert.Equal(t, Category{Category: "document", Subtype: "pdf"}, File("application/pdf", "doc.pdf"))
	assert.Equal(t, Category{Category: "document", Subtype: "text"}, File("text/plain", "notes.txt"))
	assert.Equal(t, Category{Category: "archive", Subtype: "compressed"}, File("application/zip", "a.zip"))
	assert.Equal(t, Category{Category: "other", Subtype: "other"}, File("application/octet-stream", "bin.dat"))
}

func TestFile_InfersTopicFromFilename(t *testing.T) {
	assert.Equal(t, "finance", File("application/pdf", "2026_invoice.pdf").Topic)
	assert.Equal(t, "travel", File("image/jpeg", "vacation_photo.jpg").Topic)
	assert.Equal(t, "family", File("image/jpeg", "wedding_2020.jpg").Topic)
	assert.Equal(t, "work", File("application/pdf", "quarterly_report.pdf").Topic)
	assert.Equal(t, "camera_uploads", File("image/jpeg", "IMG_0001.jpg").Topic)
	assert.Equal(t, "", File("image/jpeg", "random.jpg").Topic)
}
