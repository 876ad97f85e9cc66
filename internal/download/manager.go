package download

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/dustin/go-humanize"
	"github.com/handiism/album-downloader/internal/audio"
	"github.com/handiism/album-downloader/internal/config"
	"github.com/handiism/album-downloader/internal/http"
	ioutils "github.com/handiism/album-downloader/internal/io"
	"github.com/handiism/album-downloader/internal/listing"
	"github.com/handiism/album-downloader/internal/model"
)

var (
	// ErrNoTracks is returned when the listing holds no downloadable track.
	ErrNoTracks = errors.New("no tracks found")

	// ErrTrackOutOfRange is returned when Options.SingleTrack does not name
	// a track of the album.
	ErrTrackOutOfRange = errors.New("track number out of range")
)

// Options controls a single Run.
type Options struct {
	// ConcurrencyLimit is the number of tracks downloaded at once. Must be >= 1.
	ConcurrencyLimit int

	// Debug adds scheduler details to the verbose events.
	Debug bool

	// SingleTrack is the 1-based position of the only track to download.
	// 0 downloads the whole album.
	SingleTrack int
}

// Manager coordinates album downloads.
type Manager struct {
	settings     *config.Settings
	httpClient   *http.Client
	tagger       *audio.Tagger
	playlist     *audio.PlaylistCreator
	imageService *ioutils.ImageService

	receivedBytes   int64
	totalFiles      int32
	downloadedFiles int32
	failedFiles     int32

	onProgress func(ProgressEvent)
	mu         sync.Mutex
}

// NewManager creates a new download Manager.
//
// onProgress may be nil. Calls to it are serialized.
func NewManager(settings *config.Settings, onProgress func(ProgressEvent)) *Manager {
	return &Manager{
		settings:     settings,
		httpClient:   http.NewClient(settings.UserAgent, settings.Timeout()),
		tagger:       audio.NewTagger(audio.DefaultTagConfig()),
		playlist:     audio.NewPlaylistCreator(settings.ToPlaylistFormat(), settings.M3UExtended, settings.TrackExtension),
		imageService: ioutils.NewImageService(),
		onProgress:   onProgress,
	}
}

// GetProgress returns current download progress.
func (m *Manager) GetProgress() (received int64, downloaded, failed, total int32) {
	return atomic.LoadInt64(&m.receivedBytes),
		atomic.LoadInt32(&m.downloadedFiles),
		atomic.LoadInt32(&m.failedFiles),
		atomic.LoadInt32(&m.totalFiles)
}

// FetchAlbum downloads and parses the listing at albumURL.
func (m *Manager) FetchAlbum(ctx context.Context, albumURL string) (*model.Album, error) {
	if _, err := listing.ParseURL(albumURL); err != nil {
		return nil, err
	}

	m.progress(ProgressEvent{Message: fmt.Sprintf("Fetching album info: %s", albumURL), Level: LevelVerbose})

	doc, err := m.httpClient.GetString(ctx, albumURL)
	if err != nil {
		return nil, fmt.Errorf("fetching listing: %w", err)
	}

	album, err := listing.Extract(doc, albumURL)
	if err != nil {
		return nil, fmt.Errorf("parsing listing: %w", err)
	}
	return album, nil
}

// Run downloads the album listed at albumURL into the configured root.
//
// Track failures are reported through progress events and do not make Run
// fail. Run returns an error when the listing cannot be fetched or holds no
// tracks, when the album directory cannot be created, and when ctx is
// cancelled before every track was dispatched.
func (m *Manager) Run(ctx context.Context, albumURL string, opts Options) error {
	if opts.ConcurrencyLimit < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidLimit, opts.ConcurrencyLimit)
	}

	album, err := m.FetchAlbum(ctx, albumURL)
	if err != nil {
		return err
	}
	if len(album.Tracks) == 0 {
		return fmt.Errorf("%s: %w", albumURL, ErrNoTracks)
	}

	tracks := album.Tracks
	limit := opts.ConcurrencyLimit
	if opts.SingleTrack != 0 {
		if opts.SingleTrack < 1 || opts.SingleTrack > len(album.Tracks) {
			return fmt.Errorf("%w: track %d requested, album has %d", ErrTrackOutOfRange, opts.SingleTrack, len(album.Tracks))
		}
		tracks = []model.Track{album.Tracks[opts.SingleTrack-1]}
		limit = 1
	}

	m.progress(ProgressEvent{
		Message: fmt.Sprintf("Found album: %s - %s (%d tracks)", album.Artist, album.Title, len(album.Tracks)),
		Level:   LevelInfo,
		Kind:    EventAlbumFound,
	})

	dir := album.Dir(m.settings.DownloadsPath)
	if err := ioutils.EnsureDir(dir); err != nil {
		return fmt.Errorf("preparing album directory: %w", err)
	}

	var artwork []byte
	if opts.SingleTrack == 0 {
		artwork = m.downloadCover(ctx, album, dir)
	}

	atomic.StoreInt32(&m.totalFiles, int32(len(tracks)))

	downloaded, summary, err := m.downloadTracks(ctx, tracks, limit, artwork, opts.Debug)
	if err != nil {
		m.progress(ProgressEvent{
			Message: fmt.Sprintf("Stopped after %d of %d tracks", summary.Dispatched, len(tracks)),
			Level:   LevelError,
			Kind:    EventBatchDone,
		})
		return fmt.Errorf("cannot continue scheduling: %w", err)
	}

	if m.settings.CreatePlaylist && opts.SingleTrack == 0 && len(downloaded) > 0 {
		m.writePlaylist(ctx, album, dir, downloaded)
	}

	if summary.Failed == 0 {
		m.progress(ProgressEvent{
			Message: fmt.Sprintf("Successfully downloaded %d tracks of %s", summary.Succeeded, album.Title),
			Level:   LevelSuccess,
			Kind:    EventBatchDone,
		})
	} else {
		m.progress(ProgressEvent{
			Message: fmt.Sprintf("Finished %s: %d downloaded, %d failed", album.Title, summary.Succeeded, summary.Failed),
			Level:   LevelWarning,
			Kind:    EventBatchDone,
		})
	}
	return nil
}

// downloadTracks runs one download task per track with at most limit in
// flight and returns the successful tracks in album order.
func (m *Manager) downloadTracks(ctx context.Context, tracks []model.Track, limit int, artwork []byte, debug bool) ([]model.Track, Summary, error) {
	succeeded := make([]bool, len(tracks))

	sched, err := NewScheduler(limit, func(r Result[model.Track]) {
		if r.Err == nil {
			succeeded[r.Index] = true
		}
		if debug {
			m.progress(ProgressEvent{
				Message: fmt.Sprintf("Slot %d settled %s (%d/%d)", r.Slot, r.Item.Label(), r.Index+1, len(tracks)),
				Level:   LevelVerbose,
			})
		}
	})
	if err != nil {
		return nil, Summary{}, err
	}

	summary, err := sched.Run(ctx, tracks, func(ctx context.Context, track model.Track) error {
		return m.downloadTrack(ctx, track, artwork)
	})

	var downloaded []model.Track
	for i, ok := range succeeded {
		if ok {
			downloaded = append(downloaded, tracks[i])
		}
	}
	return downloaded, summary, err
}

// trackPath returns root/{artist}/{album}/{trackNo} - {title}.{ext}.
func (m *Manager) trackPath(track model.Track) string {
	return filepath.Join(m.settings.DownloadsPath, filepath.FromSlash(track.RelPath(m.settings.TrackExtension)))
}

func (m *Manager) downloadTrack(ctx context.Context, track model.Track, artwork []byte) error {
	label := track.Sanitized().Label()
	path := m.trackPath(track)

	m.progress(ProgressEvent{Message: fmt.Sprintf("Starting %s", label), Level: LevelInfo, Kind: EventTrackStarting, Track: &track})

	n, err := m.httpClient.DownloadFile(ctx, track.URL, path, func(delta, _ int64) {
		atomic.AddInt64(&m.receivedBytes, delta)
	})
	if err != nil {
		atomic.AddInt32(&m.failedFiles, 1)
		m.progress(ProgressEvent{Message: fmt.Sprintf("Failed %s: %v", label, err), Level: LevelError, Kind: EventTrackFailed, Track: &track})
		return fmt.Errorf("downloading %s: %w", label, err)
	}

	if m.settings.ModifyTags {
		if err := m.tagger.SaveTags(path, track, artwork); err != nil {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Error tagging %s: %v", label, err), Level: LevelWarning, Track: &track})
		}
	}

	atomic.AddInt32(&m.downloadedFiles, 1)
	m.progress(ProgressEvent{
		Message: fmt.Sprintf("Finished %s (%s)", label, humanize.Bytes(uint64(n))),
		Level:   LevelSuccess,
		Kind:    EventTrackFinished,
		Track:   &track,
	})
	return nil
}

// downloadCover fetches the album cover, saves it into dir and returns the
// JPEG to embed in tags. Failures are reported as warnings and yield nil.
func (m *Manager) downloadCover(ctx context.Context, album *model.Album, dir string) []byte {
	if !album.HasCover() {
		m.progress(ProgressEvent{Message: "No cover art on listing", Level: LevelVerbose})
		return nil
	}
	if !m.settings.SaveCoverArt && !m.settings.SaveCoverArtInTags {
		return nil
	}

	data, err := m.httpClient.DownloadBytes(ctx, album.CoverURL)
	if err != nil {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Could not download cover art: %v", err), Level: LevelWarning})
		return nil
	}

	cover, err := m.imageService.PrepareCover(ctx, data, m.settings.CoverArtMaxSize)
	if err != nil {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Could not decode cover art: %v", err), Level: LevelWarning})
		return nil
	}

	if m.settings.SaveCoverArt {
		path := filepath.Join(dir, m.settings.CoverArtFileName)
		if err := ioutils.WriteFile(ctx, path, cover); err != nil {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Error saving cover art: %v", err), Level: LevelWarning})
		} else {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Saved cover art (%s)", humanize.Bytes(uint64(len(cover)))), Level: LevelVerbose})
		}
	}

	if !m.settings.SaveCoverArtInTags {
		return nil
	}
	return cover
}

// writePlaylist writes a playlist of tracks into dir. Missing durations are
// read from the downloaded files.
func (m *Manager) writePlaylist(ctx context.Context, album *model.Album, dir string, tracks []model.Track) {
	entries := make([]model.Track, len(tracks))
	for i, track := range tracks {
		if track.Duration == 0 {
			if d, err := audio.ProbeDuration(m.trackPath(track)); err == nil {
				track.Duration = d
			}
		}
		entries[i] = track
	}

	path := filepath.Join(dir, m.playlist.FileName(album))
	content := m.playlist.CreatePlaylist(album, entries)
	if err := ioutils.WriteFile(ctx, path, []byte(content)); err != nil {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Error creating playlist: %v", err), Level: LevelWarning})
		return
	}
	m.progress(ProgressEvent{Message: fmt.Sprintf("Created playlist %s", filepath.Base(path)), Level: LevelSuccess})
}

func (m *Manager) progress(event ProgressEvent) {
	if m.onProgress == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onProgress(event)
}
