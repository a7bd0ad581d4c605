package print

import (
	"context"
	"encoding/json"
	"time"

	"github.com/matzehuels/boardexport/pkg/generate"
)

// Generator turns a document definition into output bytes.
type Generator interface {
	// MIME is the media type of the generated bytes.
	MIME() string
	// Suffix is the filename suffix, such as "board-print.json".
	Suffix() string
	Generate(ctx context.Context, doc *Document) ([]byte, error)
}

// DefinitionGenerator writes the document definition as indented JSON, ready
// for a pdfmake renderer.
type DefinitionGenerator struct{}

func (DefinitionGenerator) MIME() string   { return "application/json" }
func (DefinitionGenerator) Suffix() string { return "board-print.json" }

func (DefinitionGenerator) Generate(ctx context.Context, doc *Document) ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}

// Generate runs gen on doc, bounded by timeout. A zero timeout uses
// [generate.DefaultTimeout].
func Generate(ctx context.Context, doc *Document, gen Generator, timeout time.Duration) ([]byte, error) {
	if gen == nil {
		gen = DefinitionGenerator{}
	}
	return generate.Run(ctx, timeout, func(ctx context.Context) ([]byte, error) {
		return gen.Generate(ctx, doc)
	})
}
