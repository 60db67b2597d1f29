package css

import "fmt"

// ErrorKind classifies a parse diagnostic.
type ErrorKind int

const (
	UnexpectedToken ErrorKind = iota
	UnterminatedBlock
	InvalidValue
	UnsupportedSelector
)

func (k ErrorKind) String() string {
	switch k {
	case UnexpectedToken:
		return "unexpected token"
	case UnterminatedBlock:
		return "unterminated block"
	case InvalidValue:
		return "invalid value"
	case UnsupportedSelector:
		return "unsupported selector"
	}
	return "unknown"
}

// ParseError is a recoverable per-rule diagnostic. The rule (or
// declaration) it refers to was dropped; the rest of the sheet parsed
// normally.
type ParseError struct {
	Kind    ErrorKind
	Line    int
	Offset  int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("css: %s at line %d (offset %d): %s", e.Kind, e.Line, e.Offset, e.Message)
}
