// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert transforms the corpus's markdown documents into the
// single-line text files the retrieval engine ingests.
package convert

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/graphchat/pkg/types"
)

// ErrNoDocuments reports that the corpus tree held no markup documents.
// An empty corpus almost always means a misconfiguration; silently
// producing an empty index would waste a full build cycle, so the whole
// conversion fails instead.
var ErrNoDocuments = errors.New("no markup documents found in input")

// Converter renders one document's markup into flattened text. The
// goldmark-backed implementation is the production one; tests inject
// fakes.
type Converter interface {
	Convert(src []byte) (string, error)
}

// BatchResult holds the outcome of a conversion pass.
type BatchResult struct {
	Converted int
	Failed    int
}

// Total returns the number of documents attempted.
func (r BatchResult) Total() int {
	return r.Converted + r.Failed
}

// HasFailures reports whether any document failed conversion.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// ConvertTree discovers every document under inputDir matching the
// configured extension, converts each, and writes the result to
// outputDir under the same base name with a .txt extension. Outputs are
// overwritten wholesale; there is no incremental diffing. Per-file
// failures are reported on w and skipped, so one bad document never
// aborts the batch. Zero discovered documents fails with ErrNoDocuments
// before anything is written.
func ConvertTree(conv Converter, cfg types.ConversionConfig, inputDir, outputDir string, w io.Writer) (BatchResult, error) {
	ext := cfg.Extension
	if ext == "" {
		ext = ".md"
	}

	docs, err := discover(inputDir, ext)
	if err != nil {
		return BatchResult{}, fmt.Errorf("discovering documents in %s: %w", inputDir, err)
	}
	if len(docs) == 0 {
		return BatchResult{}, fmt.Errorf("%w: %s", ErrNoDocuments, inputDir)
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return BatchResult{}, fmt.Errorf("creating output directory: %w", err)
	}

	var result BatchResult
	for _, doc := range docs {
		base := strings.TrimSuffix(filepath.Base(doc), ext)
		outPath := filepath.Join(outputDir, base+".txt")

		if err := convertFile(conv, doc, outPath); err != nil {
			fmt.Fprintf(w, "failed:    %s (%v)\n", doc, err)
			result.Failed++
			continue
		}
		fmt.Fprintf(w, "converted: %s\n", base)
		result.Converted++
	}

	fmt.Fprintf(w, "\nConverted %d of %d documents into %s\n",
		result.Converted, result.Total(), outputDir)
	return result, nil
}

func convertFile(conv Converter, srcPath, outPath string) error {
	src, err := os.ReadFile(srcPath)
	if err != nil {
		return err
	}

	text, err := conv.Convert(src)
	if err != nil {
		return err
	}

	return os.WriteFile(outPath, []byte(text), 0o644)
}

// discover walks inputDir recursively and returns every file with the
// given extension. Dot-directories (notably the corpus's .git) are
// skipped.
func discover(inputDir, ext string) ([]string, error) {
	var docs []string
	err := filepath.WalkDir(inputDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if name := d.Name(); name != "." && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ext) {
			docs = append(docs, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return docs, nil
}
