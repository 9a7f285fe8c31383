// Package plan parses line-oriented reorganization scripts.
//
// A script is UTF-8 text with one instruction per line. Blank lines and
// lines starting with '#' are ignored. Tokens follow shell quoting rules so
// paths containing spaces stay a single argument:
//
//	# tidy downloads
//	MKDIR "Documents/Invoices"
//	MOVE "invoice 2024.pdf" "Documents/Invoices"
//	RENAME "IMG_0001.jpg" "vacation.jpg"
//
// Path tokens are normalized to Unicode NFC so plans written against a
// listing produced on macOS (which reports NFD names) still match the names
// the executor resolves on disk.
package plan

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/shlex"
	"golang.org/x/text/unicode/norm"
)

// ErrSyntax marks lines that cannot be parsed into a statement: bad quoting,
// unknown commands, and arity mismatches.
var ErrSyntax = errors.New("plan syntax error")

// Kind identifies a plan operation.
type Kind string

const (
	KindMkdir  Kind = "MKDIR"
	KindMove   Kind = "MOVE"
	KindRename Kind = "RENAME"
)

// arity maps each command to its exact argument count.
var arity = map[Kind]int{
	KindMkdir:  1,
	KindMove:   2,
	KindRename: 2,
}

// Statement is one parsed plan instruction.
type Statement struct {
	Line int
	Kind Kind
	Args []string
}

// ParseLine parses a single script line. The second return value reports
// whether the line carries no instruction (blank or comment) and should be
// skipped silently. Parse failures wrap ErrSyntax.
func ParseLine(number int, raw string) (Statement, bool, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return Statement{}, true, nil
	}

	tokens, err := shlex.Split(trimmed)
	if err != nil {
		return Statement{}, false, fmt.Errorf("%w: line %d: %v", ErrSyntax, number, err)
	}
	if len(tokens) == 0 {
		return Statement{}, true, nil
	}

	kind := Kind(strings.ToUpper(tokens[0]))
	want, known := arity[kind]
	if !known {
		return Statement{}, false, fmt.Errorf("%w: line %d: unknown command %q", ErrSyntax, number, tokens[0])
	}

	args := tokens[1:]
	if len(args) != want {
		return Statement{}, false, fmt.Errorf("%w: line %d: %s takes %d argument(s), got %d", ErrSyntax, number, kind, want, len(args))
	}

	normalized := make([]string, len(args))
	for i, arg := range args {
		normalized[i] = norm.NFC.String(arg)
	}

	return Statement{Line: number, Kind: kind, Args: normalized}, false, nil
}
