package sqlfile

import (
	"errors"
	"fmt"
)

// ErrEmptyScript is returned for a file that holds nothing but whitespace.
var ErrEmptyScript = errors.New("script is empty")

// Kind classifies where an execution failed.
type Kind int

// Failure kinds, in the order the executor's phases run.
const (
	KindFileAccess Kind = iota + 1
	KindConfig
	KindConnection
	KindQuery
)

func (k Kind) String() string {
	switch k {
	case KindFileAccess:
		return "file access"
	case KindConfig:
		return "config"
	case KindConnection:
		return "connection"
	case KindQuery:
		return "query"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ExecError is returned by ExecuteFile for every failure.
// Err is the underlying cause and stays reachable through errors.Is/As.
type ExecError struct {
	Kind Kind
	Path string
	Err  error
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("%s error executing %s: %v", e.Kind, e.Path, e.Err)
}

func (e *ExecError) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is an *ExecError of kind k.
func IsKind(err error, k Kind) bool {
	var execErr *ExecError
	return errors.As(err, &execErr) && execErr.Kind == k
}
