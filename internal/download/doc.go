// Package download provides the download orchestration logic for
// fetching an album listing and its tracks.
//
// # Manager
//
// The Manager coordinates one album run:
//
//  1. Fetch and parse the listing page
//  2. Create the album directory
//  3. Download cover art (best effort)
//  4. Download tracks through a bounded Scheduler
//  5. Tag MP3 files with ID3 metadata
//  6. Generate a playlist (optional)
//
// # Basic Usage
//
//	manager := download.NewManager(settings, func(event download.ProgressEvent) {
//	    fmt.Println(event.Message)
//	})
//
//	err := manager.Run(ctx, "https://artist.bandcamp.com/album/name", download.Options{
//	    ConcurrencyLimit: 5,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Concurrency
//
// Scheduler keeps at most ConcurrencyLimit tracks in flight. It starts one
// worker per slot; a slot whose track settles takes the next track from the
// front of the backlog, whether the previous one succeeded or failed.
// Cancelling the run context stops new tracks from starting but lets
// in-flight downloads finish.
//
// # Progress Tracking
//
// Progress is reported via a callback function that receives ProgressEvent:
//
//	type ProgressEvent struct {
//	    Message string
//	    Level   ProgressLevel // Info, Verbose, Warning, Error, Success
//	    Kind    EventKind     // TrackStarting, TrackFinished, TrackFailed, ...
//	    Track   *model.Track
//	}
//
// Failed tracks are reported once and not retried.
package download
