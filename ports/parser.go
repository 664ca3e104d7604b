package ports

import (
	"powerts/domain/core"
	"powerts/domain/series"
)

// ParseRequest carries everything a parser needs for one raw file: its
// location, the (source, variable) pair it belongs to, and the declarative
// settings for that pair.
type ParseRequest struct {
	Filepath   string
	Source     string
	Variable   string
	Web        string
	Resolution core.Resolution
	Timezone   string
	Columns    map[string]series.ColumnSpec
}

// SourceParser reads one raw source file and produces a tagged frame with a
// tz-naive UTC index. Parsers are pure functions of the file's bytes plus
// static configuration: no side effects beyond reading the input. A file
// below the minimal-content threshold yields an empty frame, not an error,
// so the caller can skip it without aborting the batch.
type SourceParser interface {
	Parse(req ParseRequest) (*series.Frame, error)
}
