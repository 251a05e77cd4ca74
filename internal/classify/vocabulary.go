// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package classify

import (
	"fmt"
	"io"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/calparse/pkg/types"
)

// LoadVocabulary reads a YAML vocabulary file. Tables missing from the file
// keep their default entries; a table present in the file replaces the
// default table entirely.
func LoadVocabulary(path string) (types.Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Vocabulary{}, fmt.Errorf("reading vocabulary file: %w", err)
	}
	var v types.Vocabulary
	if err := yaml.Unmarshal(data, &v); err != nil {
		return types.Vocabulary{}, fmt.Errorf("parsing vocabulary file %s: %w", path, err)
	}
	return v.Merge(types.DefaultVocabulary()), nil
}

// WriteVocabulary writes v as YAML, in the form LoadVocabulary reads.
func WriteVocabulary(w io.Writer, v types.Vocabulary) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&v); err != nil {
		return fmt.Errorf("encoding vocabulary: %w", err)
	}
	return enc.Close()
}
