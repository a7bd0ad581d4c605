package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/boardexport/pkg/board"
	"github.com/matzehuels/boardexport/pkg/errors"
	"github.com/matzehuels/boardexport/pkg/render"
)

// Graph output formats.
const (
	graphDOT = "dot"
	graphSVG = "svg"
	graphPNG = "png"
	graphPDF = "pdf"
)

// graphCommand creates the graph command, which draws the board-link graph.
func (c *CLI) graphCommand() *cobra.Command {
	var (
		format string
		root   string
		output string
		mongo  bool
		scale  float64
	)

	cmd := &cobra.Command{
		Use:   "graph [snapshot.json]",
		Short: "Draw how boards link to each other",
		Long: `Draw the board-link graph: one node per board and one edge per board a
tile opens. With --root only the boards an export from that root would
contain are drawn.

Formats: dot, svg (default), png, pdf. png and pdf require rsvg-convert.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			input := ""
			if len(args) > 0 {
				input = args[0]
			}
			ctx := cmd.Context()
			boards, err := loadBoards(ctx, cfg, input, mongo)
			if err != nil {
				return err
			}
			if root != "" {
				boards = board.Reachable(boards, root)
				if len(boards) == 0 {
					return errors.New(errors.ErrCodeNotFound, "root board %q not found", root)
				}
			}

			data, err := renderGraph(ctx, boards, format, scale)
			if err != nil {
				return err
			}
			if output == "" || output == "-" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			printSuccess("Drew %d boards", len(boards))
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", graphSVG, "output format: dot, svg, png, pdf")
	cmd.Flags().StringVar(&root, "root", "", "only draw boards reachable from this board")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&mongo, "mongo", false, "read boards from the configured MongoDB collection")
	cmd.Flags().Float64Var(&scale, "scale", 2, "png zoom factor")

	return cmd
}

// renderGraph produces the board-link graph in format.
func renderGraph(ctx context.Context, boards []board.Board, format string, scale float64) ([]byte, error) {
	if format == graphDOT {
		return []byte(board.ToDOT(boards)), nil
	}
	switch format {
	case graphSVG, graphPNG, graphPDF:
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "invalid graph format: %q (must be dot, svg, png, or pdf)", format)
	}

	svg, err := board.RenderGraphSVG(ctx, boards)
	if err != nil {
		return nil, err
	}
	switch format {
	case graphPNG:
		return render.ToPNG(ctx, svg, scale)
	case graphPDF:
		return render.ToPDF(ctx, svg)
	}
	return svg, nil
}
