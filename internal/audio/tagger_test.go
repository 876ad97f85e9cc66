package audio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bogem/id3v2"
	"github.com/handiism/album-downloader/internal/model"
)

func TestTagger_SaveTags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "01 - Song.mp3")
	if err := os.WriteFile(path, []byte("not really audio, but id3v2 does not care"), 0644); err != nil {
		t.Fatal(err)
	}

	track := model.Track{TrackNo: "03", Title: "Song", Artist: "Artist", Album: "Album", Lyrics: "la la"}
	tagger := NewTagger(nil)
	if err := tagger.SaveTags(path, track, []byte{0xFF, 0xD8, 0xFF}); err != nil {
		t.Fatalf("SaveTags: %v", err)
	}

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer tag.Close()

	if tag.Artist() != "Artist" {
		t.Errorf("Artist = %q", tag.Artist())
	}
	if tag.Album() != "Album" {
		t.Errorf("Album = %q", tag.Album())
	}
	if tag.Title() != "Song" {
		t.Errorf("Title = %q", tag.Title())
	}
	if got := tag.GetTextFrame("TRCK").Text; got != "3" {
		t.Errorf("TRCK = %q, want 3", got)
	}
	if pics := tag.GetFrames(tag.CommonID("Attached picture")); len(pics) != 1 {
		t.Errorf("attached pictures = %d, want 1", len(pics))
	}
}

func TestTagger_MissingFile(t *testing.T) {
	tagger := NewTagger(DefaultTagConfig())
	err := tagger.SaveTags(filepath.Join(t.TempDir(), "missing.mp3"), model.Track{}, nil)
	if err == nil {
		t.Error("expected error for missing file")
	}
}

func TestTrackNumber(t *testing.T) {
	tests := map[string]string{
		"01": "1",
		"12": "12",
		"A1": "A1",
	}
	for in, want := range tests {
		if got := trackNumber(in); got != want {
			t.Errorf("trackNumber(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestProbeDuration_NotMP3(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.mp3")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ProbeDuration(path); err == nil {
		t.Error("expected error for empty file")
	}
	if _, err := ProbeDuration(filepath.Join(t.TempDir(), "missing.mp3")); err == nil {
		t.Error("expected error for missing file")
	}
}
