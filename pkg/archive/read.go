package archive

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/klauspost/compress/zip"

	"github.com/matzehuels/boardexport/pkg/errors"
	"github.com/matzehuels/boardexport/pkg/obf"
)

// Contents is a decoded OBZ archive.
type Contents struct {
	Manifest *Manifest
	Files    map[string][]byte
}

// Read decodes an OBZ archive.
func Read(data []byte) (*Contents, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "open archive")
	}

	c := &Contents{Files: make(map[string][]byte, len(zr.File))}
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "open %s", f.Name)
		}
		body, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read %s", f.Name)
		}
		c.Files[f.Name] = body
	}

	raw, ok := c.Files[ManifestName]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "archive has no %s", ManifestName)
	}
	if err := json.Unmarshal(raw, &c.Manifest); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode manifest")
	}
	return c, nil
}

// Board decodes the document of a board listed in the manifest.
func (c *Contents) Board(id string) (*obf.Document, error) {
	path, ok := c.Manifest.Paths.Boards[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "board %s not in manifest", id)
	}
	var doc obf.Document
	if err := json.Unmarshal(c.Files[path], &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode %s", path)
	}
	return &doc, nil
}

// Check verifies that every path in the manifest exists in the archive,
// that the root is one of the board paths, and that the image paths of each
// board document name the same entries as the manifest.
func (c *Contents) Check() error {
	rootFound := false
	for id, path := range c.Manifest.Paths.Boards {
		if _, ok := c.Files[path]; !ok {
			return errors.New(errors.ErrCodeInvalidFormat, "board %s: missing %s", id, path)
		}
		if path == c.Manifest.Root {
			rootFound = true
		}
		doc, err := c.Board(id)
		if err != nil {
			return err
		}
		for _, img := range doc.Images {
			if img.Path == "" {
				continue
			}
			if want := c.Manifest.Paths.Images[img.ID]; "images"+img.Path != want {
				return errors.New(errors.ErrCodeInvalidFormat, "board %s: image %s at %s, manifest has %s", id, img.ID, img.Path, want)
			}
		}
	}
	for id, path := range c.Manifest.Paths.Images {
		if _, ok := c.Files[path]; !ok {
			return errors.New(errors.ErrCodeInvalidFormat, "image %s: missing %s", id, path)
		}
	}
	if !rootFound {
		return errors.New(errors.ErrCodeInvalidFormat, "root %q is not a board path", c.Manifest.Root)
	}
	return nil
}
