// Package testutil provides source-file fixtures for biglist tests.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// Well-known records of the Words fixture.
const (
	WordsLen       = 5000
	WordsFirst     = "page_title"
	WordsAt4000    = "-sti"
	WordsAt4970    = "-λάτρης"
	WordsLongIndex = 1999
)

// WordsLong is the record at WordsLongIndex.
var WordsLong = strings.Repeat("Lorem ipsum dolor sit amet, consectetur adipiscing elit. ", 16) + "Nullam auctor sit amet orci at euismod."

// Words returns WordsLen non-empty records with a few well-known values.
func Words() []string {
	words := make([]string, WordsLen)
	for i := range words {
		words[i] = fmt.Sprintf("word-%04d", i)
	}
	words[0] = WordsFirst
	words[WordsLongIndex] = WordsLong
	words[4000] = WordsAt4000
	words[4970] = WordsAt4970
	return words
}

// Join joins records with sep and terminates the last one.
func Join(records []string, sep string) string {
	if len(records) == 0 {
		return ""
	}
	return strings.Join(records, sep) + sep
}

// WriteSource writes content to dir/name and backdates its modification
// time by an hour, so an index written afterwards is strictly newer even on
// filesystems with coarse timestamps. It returns the file path.
func WriteSource(tb testing.TB, dir, name, content string) string {
	tb.Helper()
	path := filepath.Join(dir, name)
	require.NoError(tb, os.WriteFile(path, []byte(content), 0o644), "write source")
	SetModTime(tb, path, time.Now().Add(-time.Hour))
	return path
}

// SetModTime sets the access and modification times of path.
func SetModTime(tb testing.TB, path string, t time.Time) {
	tb.Helper()
	require.NoError(tb, os.Chtimes(path, t, t), "chtimes")
}

// ReadFile returns the contents of path.
func ReadFile(tb testing.TB, path string) []byte {
	tb.Helper()
	data, err := os.ReadFile(path)
	require.NoError(tb, err, "read file")
	return data
}
