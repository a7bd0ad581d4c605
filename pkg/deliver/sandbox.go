package deliver

import (
	"context"
	"path/filepath"

	"github.com/matzehuels/boardexport/pkg/archive"
	"github.com/matzehuels/boardexport/pkg/errors"
)

// DownloadDir is the sandbox folder exports are written to.
const DownloadDir = "Download"

// Permission asks the platform for write access.
type Permission interface {
	Request(ctx context.Context) (bool, error)
}

// PermissionFunc adapts a function to [Permission].
type PermissionFunc func(ctx context.Context) (bool, error)

func (f PermissionFunc) Request(ctx context.Context) (bool, error) { return f(ctx) }

// Granted is a permission that is always given.
var Granted Permission = PermissionFunc(func(context.Context) (bool, error) { return true, nil })

// SandboxSink writes into the Download folder of a sandboxed file system,
// requesting write permission before every delivery.
type SandboxSink struct {
	Root       string
	Permission Permission
}

// NewSandboxSink returns a sink rooted at root. A nil permission is always
// granted.
func NewSandboxSink(root string, perm Permission) *SandboxSink {
	if perm == nil {
		perm = Granted
	}
	return &SandboxSink{Root: root, Permission: perm}
}

// Deliver requests permission and writes a to Root/Download/a.Name. It
// returns a PERMISSION_DENIED error when the request is refused or fails.
func (s *SandboxSink) Deliver(ctx context.Context, a archive.Artifact) (string, error) {
	ok, err := s.Permission.Request(ctx)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodePermissionDenied, err, "request write permission")
	}
	if !ok {
		return "", errors.New(errors.ErrCodePermissionDenied, "write permission denied for %s", a.Name)
	}
	return writeFile(filepath.Join(s.Root, DownloadDir), a)
}
