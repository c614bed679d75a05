// Command buntool assembles a court bundle from local files, synchronously.
// It is the CLI twin of the HTTP service and shares the whole pipeline.
package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/alecthomas/kong"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/chancerylabs/buntool/internal/bundle"
	"github.com/chancerylabs/buntool/internal/logging"
	"github.com/chancerylabs/buntool/internal/pipeline"
)

var cli struct {
	Inputs []string `arg:"" help:"Input PDF files in bundle order." type:"existingfile"`

	Index      string `short:"i" help:"CSV index file (filename,title,date,flag). Generated from the inputs when omitted." type:"existingfile"`
	Coversheet string `help:"Optional coversheet PDF prepended to the index." type:"existingfile"`

	Title       string `short:"b" default:"Bundle" help:"Bundle title shown on the index."`
	CaseName    string `short:"c" help:"Case name, e.g. Smith v Jones."`
	ClaimNumber string `short:"n" help:"Claim number shown top right of the index."`

	Confidential bool   `help:"Mark the bundle CONFIDENTIAL on the index."`
	Dates        string `default:"show_date" enum:"show_date,hide_date" help:"Show or hide the index date column."`
	IndexFont    string `default:"sans" enum:"serif,sans,mono,traditional" help:"Index typeface."`
	FooterFont   string `default:"sans" enum:"serif,sans,mono,traditional" help:"Footer typeface."`
	Align        string `default:"centre" enum:"left,right,centre" help:"Footer alignment."`
	NumberStyle  string `default:"page_x_of_y" enum:"x,x_of_y,page_x,page_x_of_y,x_slash_y" help:"Footer page number style."`
	FooterPrefix string `help:"Text placed before every footer page number."`
	RomanPreface bool   `help:"Number the frontmatter i, ii, iii and restart content at 1."`
	Zip          bool   `help:"Also write a zip of inputs and outputs."`

	TempDir  string `default:"/tmp/tempfiles" help:"Scratch and output directory root."`
	LogsDir  string `default:"/tmp/logs" help:"Session transcript directory."`
	FontsDir string `help:"Directory holding Charter TTF faces for the traditional font."`
}

func main() {
	_ = godotenv.Load()
	kctx := kong.Parse(&cli,
		kong.Name("buntool"),
		kong.Description("Assemble paginated, indexed, hyperlinked court bundles from PDF exhibits."))

	sessionID := uuid.NewString()[:8]
	base := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	log, closer, err := logging.NewSession(base, cli.LogsDir, sessionID)
	if err != nil {
		log = base.With("session_id", sessionID)
	} else {
		defer closer.Close()
	}

	cfg := bundle.Config{
		SessionID:    sessionID,
		Timestamp:    time.Now().Format("20060102_150405"),
		BundleTitle:  cli.Title,
		CaseName:     cli.CaseName,
		ClaimNumber:  cli.ClaimNumber,
		Confidential: cli.Confidential,
		DateSetting:  bundle.ParseDateSetting(cli.Dates),
		IndexFont:    bundle.ParseFontChoice(cli.IndexFont),
		FooterFont:   bundle.ParseFontChoice(cli.FooterFont),
		Alignment:    bundle.ParseAlignment(cli.Align),
		NumberStyle:  bundle.ParseNumberStyle(cli.NumberStyle),
		FooterPrefix: cli.FooterPrefix,
		RomanPreface: cli.RomanPreface,
		Zip:          cli.Zip,
		TempDir:      filepath.Join(cli.TempDir, sessionID),
		LogsDir:      cli.LogsDir,
		FontsDir:     cli.FontsDir,
	}

	in, err := buildInputs(cfg)
	kctx.FatalIfErrorf(err)

	res, err := pipeline.Assemble(context.Background(), cfg, in, log, nil)
	kctx.FatalIfErrorf(err)

	fmt.Println(res.OutputPath)
	if res.ArchivePath != "" {
		fmt.Println(res.ArchivePath)
	}
}

func buildInputs(cfg bundle.Config) (pipeline.Inputs, error) {
	files := make(map[string]string, len(cli.Inputs))
	order := make([]string, 0, len(cli.Inputs))
	for _, p := range cli.Inputs {
		abs, err := filepath.Abs(p)
		if err != nil {
			return pipeline.Inputs{}, fmt.Errorf("resolve %s: %w", p, err)
		}
		files[filepath.Base(abs)] = abs
		order = append(order, abs)
	}

	indexPath := cli.Index
	if indexPath == "" {
		var err error
		indexPath, err = writeGeneratedIndex(cfg.TempDir, order)
		if err != nil {
			return pipeline.Inputs{}, err
		}
	}

	coversheet := ""
	if cli.Coversheet != "" {
		abs, err := filepath.Abs(cli.Coversheet)
		if err != nil {
			return pipeline.Inputs{}, fmt.Errorf("resolve coversheet: %w", err)
		}
		coversheet = abs
	}

	return pipeline.Inputs{
		Files:      files,
		FileOrder:  order,
		IndexFile:  indexPath,
		Coversheet: coversheet,
	}, nil
}

// writeGeneratedIndex synthesizes a minimal index when none was supplied:
// one document row per input, titles and dates left for the pipeline's
// filename and creation date fallbacks.
func writeGeneratedIndex(tempDir string, order []string) (string, error) {
	if err := os.MkdirAll(tempDir, 0o755); err != nil {
		return "", fmt.Errorf("create temp dir: %w", err)
	}
	path := filepath.Join(tempDir, "index.csv")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create index: %w", err)
	}
	cw := csv.NewWriter(f)
	cw.Write([]string{"Filename", "Title", "Date", "Section"})
	for _, p := range order {
		cw.Write([]string{filepath.Base(p), "", "", "0"})
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		f.Close()
		return "", fmt.Errorf("write index: %w", err)
	}
	return path, f.Close()
}
