// Package deliver hands finished export artifacts to their destination.
//
// A [Sink] receives an [archive.Artifact] and returns where it ended up.
// [DirSink] saves into a download directory, [SandboxSink] asks for write
// permission first and saves under "Download/" like a mobile app would,
// [WriterSink] streams the bytes (the CLI's "-o -"), and [S3Sink] uploads to
// an S3-compatible bucket.
package deliver

import (
	"context"

	"github.com/matzehuels/boardexport/pkg/archive"
)

// Sink stores an artifact and returns its location.
type Sink interface {
	Deliver(ctx context.Context, a archive.Artifact) (string, error)
}
