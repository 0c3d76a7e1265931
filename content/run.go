package content

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	"hilite/archive"
	"hilite/config"
	"hilite/content/text"
	"hilite/note"
	"hilite/state"
	"hilite/tree"
	"hilite/utils/debug"
)

// Run implements the apply subcommand: anchor a YAML note set onto an XML
// document and write the annotated result.
func Run(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	log := env.Log

	if cmd.Args().Len() < 2 {
		return errors.New("not enough arguments, need SOURCE and NOTES")
	}
	srcName := cmd.Args().Get(0)
	notesName := cmd.Args().Get(1)
	dstName := cmd.Args().Get(2)

	env.Overwrite = cmd.Bool("overwrite")
	env.Strict = cmd.Bool("strict")

	src, docName, err := openSource(srcName)
	if err != nil {
		return fmt.Errorf("unable to open source document: %w", err)
	}
	defer src.Close()
	env.Rpt.Store("input/"+filepath.Base(srcName), srcName)

	doc, err := Prepare(ctx, src, docName, log)
	if err != nil {
		return err
	}

	nf, err := os.Open(notesName)
	if err != nil {
		return fmt.Errorf("unable to open annotations: %w", err)
	}
	defer nf.Close()
	env.Rpt.Store("input/"+filepath.Base(notesName), notesName)

	notes, err := note.Load(nf)
	if err != nil {
		return err
	}
	if err := note.FillIDs(notes, log); err != nil {
		return err
	}
	log.Info("Applying annotations", zap.String("src", srcName), zap.Int("count", len(notes)))

	if err := doc.Annotate(notes, env.Cfg.Document.Annotations.AllowDegenerate, log); err != nil {
		if env.Strict {
			return fmt.Errorf("unable to anchor all annotations: %w", err)
		}
		// default policy: skipped annotations are already logged, keep going
		log.Warn("Some annotations were not anchored", zap.Error(err))
	}
	env.Rpt.StoreData("annotated-tree.txt", []byte(debug.DumpTree(doc.Root, tree.NewEtreeEditor())))

	dstName, err = outputPath(srcName, dstName, env.Overwrite)
	if err != nil {
		return err
	}

	out, err := os.Create(dstName)
	if err != nil {
		return fmt.Errorf("unable to create destination: %w", err)
	}
	defer out.Close()

	if err := doc.WriteTo(out); err != nil {
		return err
	}
	env.Rpt.Store("output/"+filepath.Base(dstName), dstName)

	log.Info("Annotated document written", zap.String("dst", dstName))
	return nil
}

// RunSentences implements the sentences subcommand: list rune spans of the
// sentences in the document's flattened text, an aid for authoring
// annotation offsets.
func RunSentences(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	log := env.Log

	if cmd.Args().Len() < 1 {
		return errors.New("not enough arguments, need SOURCE")
	}
	srcName := cmd.Args().Get(0)

	src, docName, err := openSource(srcName)
	if err != nil {
		return fmt.Errorf("unable to open source document: %w", err)
	}
	defer src.Close()

	doc, err := Prepare(ctx, src, docName, log)
	if err != nil {
		return err
	}

	lang, err := language.Parse(env.Cfg.Document.Language)
	if err != nil {
		log.Warn("Unable to parse configured language, assuming English",
			zap.String("language", env.Cfg.Document.Language), zap.Error(err))
		lang = language.English
	}

	flat := doc.Text()
	runes := []rune(flat)
	for _, span := range text.NewSplitter(lang, log).Spans(flat) {
		excerpt := runes[span.Start:span.End]
		suffix := ""
		if len(excerpt) > 60 {
			excerpt = excerpt[:60]
			suffix = "..."
		}
		fmt.Printf("%6d %6d  %s%s\n", span.Start, span.End, strings.ReplaceAll(string(excerpt), "\n", " "), suffix)
	}
	return nil
}

// openSource opens the document to annotate. A zip container is searched
// for its first document entry instead of being read directly.
func openSource(srcName string) (io.ReadCloser, string, error) {
	if strings.EqualFold(filepath.Ext(srcName), ".zip") {
		rc, entry, err := archive.OpenDocument(srcName, ".xml", ".xhtml", ".html")
		if err != nil {
			return nil, "", err
		}
		return rc, srcName + "!" + entry, nil
	}
	src, err := os.Open(srcName)
	if err != nil {
		return nil, "", err
	}
	return src, srcName, nil
}

// outputPath derives the destination file name, guarding existing files
// unless overwrite was requested.
func outputPath(srcName, dstName string, overwrite bool) (string, error) {
	if dstName == "" {
		base := config.CleanFileName(strings.TrimSuffix(filepath.Base(srcName), filepath.Ext(srcName)))
		dstName = base + ".annotated.xml"
	}
	if _, err := os.Stat(dstName); err == nil && !overwrite {
		return "", fmt.Errorf("destination '%s' already exists, use --overwrite to replace it", dstName)
	}
	return dstName, nil
}
