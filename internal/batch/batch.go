// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package batch runs calendar extraction over many documents: PDF files,
// directories of PDFs and ZIP archives. Records are tagged with the base
// name of the document they came from and sorted by date.
package batch

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pdiddy/calparse/internal/extract"
	"github.com/pdiddy/calparse/internal/pdfdoc"
	"github.com/pdiddy/calparse/pkg/types"
)

// pdfExt is matched case-insensitively against file and member names.
const pdfExt = ".pdf"

// ErrNoDocuments is returned when the inputs hold no PDF documents.
var ErrNoDocuments = errors.New("no PDF files found")

// Document is an open document that must be closed after extraction.
type Document interface {
	extract.Document
	io.Closer
}

// Opener opens PDF documents from disk or from memory. PDFOpener is the
// production implementation; tests substitute fakes.
type Opener interface {
	Open(path string) (Document, error)
	OpenReader(r io.ReaderAt, size int64) (Document, error)
}

// PDFOpener opens documents with pdfdoc.
type PDFOpener struct{}

// Open implements Opener.
func (PDFOpener) Open(path string) (Document, error) {
	d, err := pdfdoc.Open(path)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// OpenReader implements Opener.
func (PDFOpener) OpenReader(r io.ReaderAt, size int64) (Document, error) {
	d, err := pdfdoc.OpenReader(r, size)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// Result holds the outcome of a batch run.
type Result struct {
	Records []types.Record

	// Sources names the documents that parsed, in processing order,
	// including those that yielded no records.
	Sources []string

	Documents int
	Failed    int
}

// Total returns the number of documents attempted.
func (r Result) Total() int {
	return r.Documents + r.Failed
}

// HasFailures reports whether any document failed to parse.
func (r Result) HasFailures() bool {
	return r.Failed > 0
}

// Runner extracts records from documents and reports per-document
// progress to w.
type Runner struct {
	ext    *extract.Extractor
	opener Opener
	w      io.Writer
}

// New returns a Runner. A nil w discards progress output.
func New(ext *extract.Extractor, opener Opener, w io.Writer) *Runner {
	if w == nil {
		w = io.Discard
	}
	return &Runner{ext: ext, opener: opener, w: w}
}

// ParseFile extracts the records of one PDF on disk. Records are not
// tagged with a source.
func (r *Runner) ParseFile(ctx context.Context, path string) ([]types.Record, error) {
	doc, err := r.opener.Open(path)
	if err != nil {
		return nil, err
	}
	defer doc.Close()
	return r.ext.ExtractAll(ctx, doc)
}

// source is one document to process: a name for tagging and progress, and
// a way to open it. path is the fuller slash-separated name used when two
// sources share a base name.
type source struct {
	name string
	path string
	open func() (Document, error)
}

// ProcessPaths runs every PDF named by paths. A path may be a PDF file, a
// ZIP archive or a directory, which is searched recursively for PDFs.
// Inputs are processed in the order given; files found in a directory or
// archive are processed in name order.
func (r *Runner) ProcessPaths(ctx context.Context, paths []string) (Result, error) {
	var sources []source
	for _, p := range paths {
		found, err := r.expand(p)
		if err != nil {
			return Result{}, err
		}
		sources = append(sources, found...)
	}
	return r.run(ctx, sources)
}

// ProcessArchive runs every PDF member of the ZIP archive read from ra.
// Directory entries and members without a .pdf extension are ignored. It
// returns ErrNoDocuments when the archive holds no PDFs.
func (r *Runner) ProcessArchive(ctx context.Context, ra io.ReaderAt, size int64) (Result, error) {
	zr, err := zip.NewReader(ra, size)
	if err != nil {
		return Result{}, fmt.Errorf("reading ZIP archive: %w", err)
	}
	return r.run(ctx, r.archiveSources(zr.File))
}

func (r *Runner) run(ctx context.Context, sources []source) (Result, error) {
	var result Result
	if len(sources) == 0 {
		return result, ErrNoDocuments
	}
	disambiguate(sources)

	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		records, err := r.one(ctx, src)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return result, ctxErr
			}
			fmt.Fprintf(r.w, "failed:  %s (%v)\n", src.name, err)
			result.Failed++
			continue
		}
		if len(records) == 0 {
			fmt.Fprintf(r.w, "skipped: %s (no calendar pages)\n", src.name)
		} else {
			fmt.Fprintf(r.w, "parsed: %s (%d records)\n", src.name, len(records))
		}
		for i := range records {
			records[i].Source = src.name
		}
		result.Records = append(result.Records, records...)
		result.Sources = append(result.Sources, src.name)
		result.Documents++
	}

	SortByDate(result.Records)
	fmt.Fprintf(r.w, "\nBatch summary: %d documents, %d records, %d failed\n",
		result.Documents, len(result.Records), result.Failed)
	return result, nil
}

func (r *Runner) one(ctx context.Context, src source) ([]types.Record, error) {
	doc, err := src.open()
	if err != nil {
		return nil, err
	}
	defer doc.Close()
	return r.ext.ExtractAll(ctx, doc)
}

// SortByDate orders records by date, keeping the existing order of records
// that share a date.
func SortByDate(records []types.Record) {
	slices.SortStableFunc(records, func(a, b types.Record) int {
		return a.Date.Compare(b.Date)
	})
}

// disambiguate renames sources whose base names collide to their full
// path, so records from different files are never filed under one name.
// Any name still repeated gets a "#n" suffix.
func disambiguate(sources []source) {
	count := make(map[string]int, len(sources))
	for _, src := range sources {
		count[src.name]++
	}
	seen := make(map[string]int, len(sources))
	for i := range sources {
		if count[sources[i].name] > 1 && sources[i].path != "" {
			sources[i].name = sources[i].path
		}
		seen[sources[i].name]++
		if n := seen[sources[i].name]; n > 1 {
			sources[i].name = fmt.Sprintf("%s#%d", sources[i].name, n)
		}
	}
}

func (r *Runner) expand(p string) ([]source, error) {
	info, err := os.Stat(p)
	if err != nil {
		return nil, fmt.Errorf("input not found: %w", err)
	}
	if info.IsDir() {
		return r.dirSources(p)
	}
	if strings.EqualFold(filepath.Ext(p), ".zip") {
		return r.zipFileSources(p)
	}
	return []source{r.fileSource(p)}, nil
}

func (r *Runner) fileSource(p string) source {
	return source{
		name: filepath.Base(p),
		path: filepath.ToSlash(p),
		open: func() (Document, error) { return r.opener.Open(p) },
	}
}

func (r *Runner) dirSources(dir string) ([]source, error) {
	var files []string
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && isPDF(p) {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", dir, err)
	}
	slices.Sort(files)

	out := make([]source, len(files))
	for i, f := range files {
		out[i] = r.fileSource(f)
	}
	return out, nil
}

// zipFileSources reads the archive's PDF members into memory up front so
// the archive file can be closed before extraction starts.
func (r *Runner) zipFileSources(p string) ([]source, error) {
	zr, err := zip.OpenReader(p)
	if err != nil {
		return nil, fmt.Errorf("reading ZIP archive %s: %w", p, err)
	}
	defer zr.Close()

	members := pdfMembers(zr.File)
	out := make([]source, len(members))
	for i, f := range members {
		data, err := readMember(f)
		out[i] = source{
			name: path.Base(f.Name),
			path: filepath.ToSlash(p) + "/" + f.Name,
			open: func() (Document, error) {
				if err != nil {
					return nil, err
				}
				return r.opener.OpenReader(bytes.NewReader(data), int64(len(data)))
			},
		}
	}
	return out, nil
}

func (r *Runner) archiveSources(files []*zip.File) []source {
	members := pdfMembers(files)
	out := make([]source, len(members))
	for i, f := range members {
		out[i] = source{
			name: path.Base(f.Name),
			path: f.Name,
			open: func() (Document, error) {
				data, err := readMember(f)
				if err != nil {
					return nil, err
				}
				return r.opener.OpenReader(bytes.NewReader(data), int64(len(data)))
			},
		}
	}
	return out
}

// pdfMembers returns the archive's PDF file members sorted by name.
func pdfMembers(files []*zip.File) []*zip.File {
	var members []*zip.File
	for _, f := range files {
		if f.FileInfo().IsDir() || !isPDF(f.Name) {
			continue
		}
		members = append(members, f)
	}
	slices.SortFunc(members, func(a, b *zip.File) int {
		return strings.Compare(a.Name, b.Name)
	})
	return members
}

func readMember(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", f.Name, err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", f.Name, err)
	}
	return data, nil
}

func isPDF(name string) bool {
	return strings.EqualFold(path.Ext(name), pdfExt)
}
