package download

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	assert_ "github.com/stretchr/testify/assert"

	"github.com/alanbriolat/media-archiver"
	"github.com/alanbriolat/media-archiver/generic"
	"github.com/alanbriolat/media-archiver/quality"
)

func TestNamer_Stem(t *testing.T) {
	tests := []struct {
		name string
		item Item
		stem string
	}{
		{
			"provider with quality",
			Item{
				Asset:     media_archiver.AssetID{Provider: "reddit", ID: "abc123"},
				Selection: quality.Selection{Quality: "720p"},
			},
			"reddit_abc123_720p",
		},
		{
			"provider ignores title",
			Item{
				MediaReference: media_archiver.MediaReference{Title: "Funny Cat"},
				Asset:          media_archiver.AssetID{Provider: "redgifs", ID: "funnycat"},
			},
			"redgifs_funnycat",
		},
		{
			"title with metadata",
			Item{
				MediaReference: media_archiver.MediaReference{Title: "Sunset over the Bay!", Subreddit: "pics", Author: "alice"},
				Asset:          media_archiver.AssetID{ID: "https://i.redd.it/xyz.jpg"},
			},
			"sunset_over_the_bay_pics_alice",
		},
		{
			"title from URL",
			Item{
				Asset:     media_archiver.AssetID{ID: "https://i.redd.it/xyz.jpg"},
				Selection: quality.Selection{URL: generic.Some("https://i.redd.it/XYZ.jpg")},
			},
			"xyz",
		},
		{
			"nothing usable",
			Item{MediaReference: media_archiver.MediaReference{Title: "???", SourceURL: "https://example.com/"}},
			"untitled",
		},
	}
	namer := DefaultNamer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stem, err := namer.Stem(tt.item)
			assert_.NoError(t, err)
			assert_.Equal(t, tt.stem, stem)
		})
	}
}

func TestNamer_CustomTemplate(t *testing.T) {
	assert := assert_.New(t)
	_, err := NewNamer("{{.Provider", DefaultTitleTemplate)
	assert.Error(err)

	namer, err := NewNamer("{{.ID}}/{{.Provider}}", "{{.Author}}")
	if !assert.NoError(err) {
		return
	}
	item := Item{Asset: media_archiver.AssetID{Provider: "reddit", ID: "abc"}}
	assert.Equal("abc_reddit.mp4", namer.Name(item, ".mp4"))
	assert.Equal("untitled.txt", namer.Name(Item{}, ".txt"))
}

func TestChooseExtension(t *testing.T) {
	tests := []struct {
		url, contentType string
		kind             media_archiver.MediaKind
		ext              string
	}{
		{"https://i.redd.it/abc.PNG", "image/jpeg", media_archiver.KindImage, ".png"},
		{"https://redgifs.com/watch/abc", "video/mp4", media_archiver.KindVideo, ".mp4"},
		{"https://example.com/view.php?id=1", "image/webp", media_archiver.KindImage, ".webp"},
		{"https://example.com/media", "application/octet-stream", media_archiver.KindGIF, ".gif"},
		{"https://example.com/media", "text/plain", media_archiver.KindVideo, ".mp4"},
	}
	for _, tt := range tests {
		assert_.Equal(t, tt.ext, chooseExtension(tt.url, tt.contentType, tt.kind), tt.url)
	}
}

func TestFailureLog(t *testing.T) {
	assert := assert_.New(t)
	path := filepath.Join(t.TempDir(), "failures.tsv")
	outcomes := []Outcome{
		{SourceURL: "https://v.redd.it/ok", URL: "https://v.redd.it/ok/DASH_720.mp4", Status: StatusSaved},
		{SourceURL: "https://v.redd.it/a", URL: "https://v.redd.it/a/DASH_720.mp4", Status: StatusFailed, Err: ErrForbidden},
		{SourceURL: "https://v.redd.it/b", Status: StatusFailed, Err: ErrNoViableURL},
		{SourceURL: "https://i.redd.it/c.jpg", Status: StatusPending, Err: context.Canceled},
		{SourceURL: "https://v.redd.it/b", Status: StatusFailed, Err: ErrNoViableURL},
	}

	n, err := WriteFailureLog(path, "run-1", outcomes)
	assert.NoError(err)
	assert.Equal(4, n)

	data, _ := os.ReadFile(path)
	assert.Contains(string(data), "# run run-1\n")
	assert.Contains(string(data), "https://v.redd.it/a/DASH_720.mp4\tforbidden (403)\n")

	urls, err := ReadFailureLog(path)
	assert.NoError(err)
	assert.Equal([]string{
		"https://v.redd.it/a/DASH_720.mp4",
		"https://v.redd.it/b",
		"https://i.redd.it/c.jpg",
	}, urls)
}

func TestFailureLog_NothingFailed(t *testing.T) {
	assert := assert_.New(t)
	path := filepath.Join(t.TempDir(), "failures.tsv")
	n, err := WriteFailureLog(path, "run-1", []Outcome{{Status: StatusSaved}})
	assert.NoError(err)
	assert.Zero(n)
	_, err = os.Stat(path)
	assert.True(os.IsNotExist(err))

	_, err = ReadFailureLog(path)
	assert.Error(err)
}
