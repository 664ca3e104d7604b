// Package sources implements one parser per data source. Each parser reads
// one raw file (fixed-position CSV, locale-formatted delimited text,
// multi-header Excel, UTF-16 exports), normalizes its time representation
// through domain/timeline, and returns a tagged frame with a tz-naive UTC
// index. A registry maps source names to parsers so the read service never
// branches on source names itself.
package sources

import (
	"encoding/csv"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"powerts/internal/errors"
)

// MinFileSize is the minimal-content threshold in bytes. Anything smaller is
// treated as an empty download and yields an empty frame.
const MinFileSize = 128

// fileTooSmall reports whether the file is below the empty-download
// threshold. Stat errors count as too small; the caller will fail on open
// anyway if the file matters.
func fileTooSmall(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return true
	}
	return info.Size() < MinFileSize
}

// textReader wraps f with the charset decoder named by encoding. The TenneT
// exports are Latin-1, the PSE ones UTF-16; everything else is UTF-8.
func textReader(f io.Reader, encoding string) io.Reader {
	switch encoding {
	case "latin1":
		return transform.NewReader(f, charmap.ISO8859_1.NewDecoder())
	case "utf16":
		return transform.NewReader(f, unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder())
	default:
		return f
	}
}

// readDelimited reads a delimited text file, skipping the given number of
// leading lines. Ragged rows are tolerated; callers index defensively.
// Unreadable files are marked skippable so the batch continues past them.
func readDelimited(path string, comma rune, skip int, encoding string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WithCode(errors.CodeSkippableFile, err)
	}
	defer f.Close()

	r := csv.NewReader(textReader(f, encoding))
	r.Comma = comma
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	rows, err := r.ReadAll()
	if err != nil {
		return nil, errors.WithCode(errors.CodeSkippableFile, err)
	}
	if skip >= len(rows) {
		return nil, nil
	}
	return rows[skip:], nil
}

// missing values appear in the raw files as empty cells or explicit markers.
var missingMarkers = map[string]bool{"": true, "n.a.": true, "N.A.": true, "n/e": true, "-": true}

// parseNumber converts a locale-formatted numeric cell. decimalComma swaps
// the German convention (comma decimal separator, optional dot thousands
// separator). Missing markers come back as NaN with ok=true; anything else
// unparseable is ok=false.
func parseNumber(s string, decimalComma bool) (float64, bool) {
	s = strings.TrimSpace(s)
	if missingMarkers[s] {
		return math.NaN(), true
	}
	if decimalComma {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	} else {
		s = strings.ReplaceAll(s, ",", "")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN(), false
	}
	return v, true
}

// dayLayouts are the date formats seen across the source files.
var dayLayouts = []string{"2006-01-02", "02.01.2006", "02/01/2006", "2006/01/02"}

// parseDay parses a calendar date cell, preferring day-first formats as the
// sources do.
func parseDay(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	var firstErr error
	for _, layout := range dayLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}

// wall builds the naive local wall-clock time for a day plus clock reading,
// encoded in UTC as domain/timeline expects.
func wall(day time.Time, hour, minute int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, time.UTC)
}

// clockHHMM parses a "HH:MM..." cell, tolerating trailing range suffixes
// like "00:00 - 00:15" by truncating after five characters.
func clockHHMM(s string) (hour, minute int, err error) {
	s = strings.TrimSpace(s)
	if len(s) > 5 {
		s = s[:5]
	}
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, 0, err
	}
	return t.Hour(), t.Minute(), nil
}
