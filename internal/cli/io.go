package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/matzehuels/boardexport/pkg/board"
	"github.com/matzehuels/boardexport/pkg/deliver"
	"github.com/matzehuels/boardexport/pkg/errors"
	"github.com/matzehuels/boardexport/pkg/store"
)

// =============================================================================
// Board Input
// =============================================================================

// loadBoards reads the boards from a snapshot file, or from the configured
// MongoDB collection when fromMongo is set.
func loadBoards(ctx context.Context, cfg Config, input string, fromMongo bool) ([]board.Board, error) {
	if fromMongo {
		if cfg.Mongo.URI == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "--mongo requires [mongo] uri in the config file")
		}
		src, disconnect, err := store.ConnectMongo(ctx, cfg.Mongo)
		if err != nil {
			return nil, err
		}
		defer disconnect(context.WithoutCancel(ctx))
		return src.Boards(ctx)
	}
	if input == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "a snapshot file or --mongo is required")
	}
	return store.NewFileSource(input).Boards(ctx)
}

// =============================================================================
// Delivery
// =============================================================================

// sinkOpts selects where an export goes.
type sinkOpts struct {
	output    string // directory, or "-" for stdout
	toS3      bool
	sandboxed bool
	yes       bool // grant sandbox write permission without asking
}

// newSink builds the sink for opts. Prompts for sandbox permission read from
// in and write to out.
func newSink(ctx context.Context, cfg Config, opts sinkOpts, stdout io.Writer, in io.Reader, out io.Writer) (deliver.Sink, error) {
	switch {
	case opts.toS3:
		if cfg.S3.Bucket == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "--s3 requires [s3] bucket in the config file")
		}
		client, err := deliver.NewS3Client(ctx, cfg.S3)
		if err != nil {
			return nil, err
		}
		sink := deliver.NewS3Sink(client, cfg.S3.Bucket, cfg.S3.Prefix)
		if err := sink.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return sink, nil
	case opts.output == "-":
		return deliver.WriterSink{W: stdout}, nil
	case opts.sandboxed:
		perm := deliver.Granted
		if !opts.yes {
			perm = promptPermission(in, out)
		}
		return deliver.NewSandboxSink(opts.output, perm), nil
	}
	return deliver.NewDirSink(opts.output), nil
}

// promptPermission asks on out and grants write access when the answer
// read from in starts with "y".
func promptPermission(in io.Reader, out io.Writer) deliver.Permission {
	return deliver.PermissionFunc(func(ctx context.Context) (bool, error) {
		fmt.Fprint(out, StyleWarning.Render("Allow writing to the Download folder? [y/N] "))
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && err != io.EOF {
			return false, err
		}
		answer := strings.ToLower(strings.TrimSpace(line))
		return strings.HasPrefix(answer, "y"), nil
	})
}
