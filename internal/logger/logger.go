package logger

import "sync"

type Logger interface {
	Debug(component, message string, fields map[string]interface{})
	Info(component, message string, fields map[string]interface{})
	Warning(component, message string, fields map[string]interface{})
	Error(component string, err error, fields map[string]interface{})
}

type nopLogger struct{}

func Nop() Logger { return nopLogger{} }

func (nopLogger) Debug(string, string, map[string]interface{})   {}
func (nopLogger) Info(string, string, map[string]interface{})    {}
func (nopLogger) Warning(string, string, map[string]interface{}) {}
func (nopLogger) Error(string, error, map[string]interface{})    {}

// Entry is a single call captured by a Recorder.
type Entry struct {
	Level     string
	Component string
	Message   string
	Err       error
	Fields    map[string]interface{}
}

// Recorder keeps every log call in memory so callers can assert on warnings.
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) record(e Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
}

func (r *Recorder) Debug(component, message string, fields map[string]interface{}) {
	r.record(Entry{Level: "debug", Component: component, Message: message, Fields: fields})
}

func (r *Recorder) Info(component, message string, fields map[string]interface{}) {
	r.record(Entry{Level: "info", Component: component, Message: message, Fields: fields})
}

func (r *Recorder) Warning(component, message string, fields map[string]interface{}) {
	r.record(Entry{Level: "warn", Component: component, Message: message, Fields: fields})
}

func (r *Recorder) Error(component string, err error, fields map[string]interface{}) {
	r.record(Entry{Level: "error", Component: component, Err: err, Fields: fields})
}

// Entries returns a copy of the recorded calls at the given level, or all of
// them when level is empty.
func (r *Recorder) Entries(level string) []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]Entry, 0, len(r.entries))
	for _, e := range r.entries {
		if level == "" || e.Level == level {
			result = append(result, e)
		}
	}
	return result
}
