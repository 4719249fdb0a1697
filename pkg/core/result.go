package core

// Field describes one column of a result set.
type Field struct {
	Name string `json:"name" yaml:"name"`
	// Type is the engine's name for the column type, when the driver reports one.
	Type string `json:"type,omitempty" yaml:"type,omitempty"`
}

// QueryResult is one result set reported by the engine.
type QueryResult struct {
	// Command is the engine's command tag (e.g. "SELECT 3", "INSERT 0 1").
	// Drivers that don't expose tags leave it empty.
	Command      string
	RowsAffected int64
	Fields       []Field
	Rows         []*Row
}

// FieldNames returns the column names in result order.
func (q *QueryResult) FieldNames() []string {
	names := make([]string, len(q.Fields))
	for i, f := range q.Fields {
		names[i] = f.Name
	}
	return names
}

// ScriptResult holds every result set produced by one script execution,
// in the order the engine returned them.
type ScriptResult []*QueryResult

// Last returns the final result set, or nil if there is none.
func (s ScriptResult) Last() *QueryResult {
	if len(s) == 0 {
		return nil
	}
	return s[len(s)-1]
}
