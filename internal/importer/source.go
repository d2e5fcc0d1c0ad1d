package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Source yields raw drink records whose name starts with a letter.
type Source interface {
	FetchByLetter(ctx context.Context, letter rune) ([]RawRecord, error)
}

// FileSource serves records from a JSON document shaped like a search.php
// response.
type FileSource struct {
	records []RawRecord
}

// NewFileSource reads and decodes path.
func NewFileSource(path string) (*FileSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var response searchResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return &FileSource{records: response.Drinks}, nil
}

// NewRecordSource wraps records already in memory.
func NewRecordSource(records []RawRecord) *FileSource {
	return &FileSource{records: records}
}

func (s *FileSource) FetchByLetter(ctx context.Context, letter rune) ([]RawRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	letter = unicode.ToLower(letter)
	var matches []RawRecord
	for _, record := range s.records {
		first, _ := utf8.DecodeRuneInString(strings.ToLower(record.Name()))
		if first == letter {
			matches = append(matches, record)
		}
	}
	return matches, nil
}
