package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/boardexport/pkg/board"
	"github.com/matzehuels/boardexport/pkg/export"
	"github.com/matzehuels/boardexport/pkg/print"
	"github.com/matzehuels/boardexport/pkg/render"
)

// exportFlags holds the command-line flags for the export command. Flags
// that are set override the config file.
type exportFlags struct {
	format        string
	root          string
	pick          bool
	output        string
	s3            bool
	mongo         bool
	sandboxed     bool
	yes           bool
	picsee        bool
	labelPosition string
	locale        string
	translations  string
	timeout       time.Duration
	noCache       bool
}

// exportCommand creates the export command.
func (c *CLI) exportCommand() *cobra.Command {
	var flags exportFlags

	cmd := &cobra.Command{
		Use:   "export [snapshot.json]",
		Short: "Export boards to OBF, OBZ, a native snapshot, or a print layout",
		Long: `Export boards from a native snapshot file or a MongoDB collection.

Formats:
  obf     one board as an Open Board Format document with embedded images
  obz     the root board and every board reachable from it as an archive
  cboard  the boards as a native snapshot
  pdf     a printable grid layout of the boards

Without --root, obf exports the first board and the other formats export
every board. Use --pick to choose the root interactively.`,
		Example: `  boardexport export boards.json
  boardexport export boards.json --format pdf --root root --label-position Above
  boardexport export --mongo --format obf --pick -o -`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			applyExportFlags(cmd, &cfg, flags)

			input := ""
			if len(args) > 0 {
				input = args[0]
			}
			return c.runExport(cmd, cfg, flags, input)
		},
	}

	cmd.Flags().StringVarP(&flags.format, "format", "f", export.DefaultFormat, "export format: "+strings.Join(export.Formats, ", "))
	cmd.Flags().StringVar(&flags.root, "root", "", "id of the board to export from")
	cmd.Flags().BoolVar(&flags.pick, "pick", false, "choose the root board interactively")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output directory, or - for stdout")
	cmd.Flags().BoolVar(&flags.s3, "s3", false, "upload to the configured S3 bucket")
	cmd.Flags().BoolVar(&flags.mongo, "mongo", false, "read boards from the configured MongoDB collection")
	cmd.Flags().BoolVar(&flags.sandboxed, "sandboxed", false, "write into the Download folder after asking for permission")
	cmd.Flags().BoolVarP(&flags.yes, "yes", "y", false, "grant write permission without asking")
	cmd.Flags().BoolVar(&flags.picsee, "picsee", false, "lay out prints for the PicseePal viewer")
	cmd.Flags().StringVar(&flags.labelPosition, "label-position", "", "print label position: Above, Below (default), Hidden")
	cmd.Flags().StringVar(&flags.locale, "locale", "", "locale of the exported boards (e.g. en-US)")
	cmd.Flags().StringVar(&flags.translations, "translations", "", "translation catalog file, or a directory of catalogs")
	cmd.Flags().DurationVar(&flags.timeout, "timeout", 0, "document generation timeout (default 20s)")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable the image cache")

	return cmd
}

// applyExportFlags copies flags the user set over the config values.
func applyExportFlags(cmd *cobra.Command, cfg *Config, flags exportFlags) {
	changed := cmd.Flags().Changed
	if changed("output") {
		cfg.OutputDir = flags.output
	}
	if changed("sandboxed") {
		cfg.Sandboxed = flags.sandboxed
	}
	if changed("picsee") {
		cfg.PicseePal = flags.picsee
	}
	if changed("label-position") {
		cfg.LabelPosition = flags.labelPosition
	}
	if changed("locale") {
		cfg.Locale = flags.locale
	}
	if changed("translations") {
		cfg.Translations = flags.translations
	}
	if changed("timeout") {
		cfg.Timeout = Duration{flags.timeout}
	}
}

// runExport loads the boards, runs the export, and delivers the artifact.
func (c *CLI) runExport(cmd *cobra.Command, cfg Config, flags exportFlags, input string) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	prog := newProgress(logger)
	boards, err := loadBoards(ctx, cfg, input, flags.mongo)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Loaded %d boards", len(boards)))

	root := flags.root
	if flags.pick {
		picked, err := pickBoard(boards, flags.format)
		if err != nil {
			return err
		}
		if picked == "" {
			printWarning("No board selected")
			return nil
		}
		root = picked
	}

	translate, err := cfg.translator()
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, cfg, flags.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	opts := export.Options{
		Format:        flags.format,
		Boards:        boards,
		Root:          root,
		Locale:        cfg.Locale,
		LabelPosition: print.LabelPosition(cfg.LabelPosition),
		PicseePal:     cfg.PicseePal,
		Translate:     translate,
		Resources:     cfg.resources(),
		Timeout:       timeoutOr(cfg.Timeout.Duration),
		Logger:        logger,
	}
	if flags.format == export.FormatPDF {
		opts.Rasterizer = rasterizer(ctx)
	}

	sink, err := newSink(ctx, cfg, sinkOpts{
		output:    cfg.OutputDir,
		toS3:      flags.s3,
		sandboxed: cfg.Sandboxed,
		yes:       flags.yes,
	}, cmd.OutOrStdout(), cmd.InOrStdin(), os.Stderr)
	if err != nil {
		return err
	}

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Exporting %s...", flags.format))
	spinner.Start()
	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Export failed")
		return err
	}
	spinner.Stop()

	location, err := sink.Deliver(ctx, result.Artifact)
	if err != nil {
		return err
	}
	if location == "-" {
		return nil
	}

	printSuccess("Exported %s", StyleHighlight.Render(result.Artifact.Name))
	printFile(location)
	printStats(result.Stats.Boards, result.Stats.Size, result.Stats.Duration)
	return nil
}

// rasterizer returns an SVG rasterizer when rsvg-convert is installed.
func rasterizer(ctx context.Context) print.Rasterizer {
	if !render.Available() {
		loggerFromContext(ctx).Warn("rsvg-convert not found, SVG tiles will print as not found")
		return nil
	}
	return render.NewRasterizer()
}

// boardLabel formats a board for lists and prompts.
func boardLabel(b *board.Board) string {
	return fmt.Sprintf("%s (%s)", b.DisplayName(), b.ID)
}
