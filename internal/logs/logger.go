package logs

import (
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

type Level string

const (
	INFO  Level = "INFO"
	WARN  Level = "WARN"
	ERROR Level = "ERROR"
	DEBUG Level = "DEBUG"
)

// levelPriority defines the priority of each log level
// higher value= more severe
var levelPriority = map[Level]int{
	DEBUG: 1,
	INFO:  2,
	WARN:  3,
	ERROR: 4,
}

var zerologLevels = map[Level]zerolog.Level{
	DEBUG: zerolog.DebugLevel,
	INFO:  zerolog.InfoLevel,
	WARN:  zerolog.WarnLevel,
	ERROR: zerolog.ErrorLevel,
}

type Entry struct {
	TimeStamp time.Time      `json:"timestamp"`
	Level     Level          `json:"level"`
	Message   string         `json:"message"`
	Fields    map[string]any `json:"fields,omitempty"`
}

// Logger records leveled messages into a bounded in-memory ring and
// forwards them to a zerolog sink.
//
// A nil *Logger discards everything.
type Logger struct {
	mu      sync.Mutex
	entries []Entry
	maxSize int
	level   Level
	sink    zerolog.Logger
}

// level: minimum log level to record(e.g., INFO, WARN, ERROR,DEBUG)
//
// maxsize:maximum number of log entries kept in memory
//
// The returned logger only keeps entries in memory; use WithSink or Open
// to also emit them.
func NewLogger(maxSize int, level Level) *Logger {
	return &Logger{
		entries: make([]Entry, 0, maxSize),
		maxSize: maxSize,
		level:   level,
		sink:    zerolog.Nop(),
	}
}

// WithSink sets the zerolog logger that receives every recorded entry.
func (l *Logger) WithSink(sink zerolog.Logger) *Logger {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.sink = sink
	return l
}

// ParseLevel maps a case-insensitive level name to a Level.
func ParseLevel(s string) (Level, bool) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(s))
	if err != nil {
		return "", false
	}
	for k, v := range zerologLevels {
		if v == lvl {
			return k, true
		}
	}
	return "", false
}

// log is the internal logging function
// it applies level filtering and ring buffer behavior
func (l *Logger) log(level Level, msg string, kv []any) {
	if l == nil {
		return
	}
	//filter logs below the current level
	if levelPriority[level] < levelPriority[l.level] {
		return
	}

	fields := toFields(kv)

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.maxSize > 0 {
		if len(l.entries) >= l.maxSize {
			//remove oldest entry(ring behavior)
			l.entries = l.entries[1:]
		}

		l.entries = append(l.entries, Entry{
			TimeStamp: time.Now(),
			Level:     level,
			Message:   msg,
			Fields:    fields,
		})
	}

	ev := l.sink.WithLevel(zerologLevels[level])
	if len(fields) > 0 {
		ev = ev.Fields(fields)
	}
	ev.Msg(msg)
}

// toFields turns alternating key/value pairs into a map.
// A trailing key without a value is recorded with a nil value.
func toFields(kv []any) map[string]any {
	if len(kv) == 0 {
		return nil
	}
	fields := make(map[string]any, (len(kv)+1)/2)
	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		var val any
		if i+1 < len(kv) {
			val = kv[i+1]
		}
		fields[key] = val
	}
	return fields
}

func (l *Logger) Debug(msg string, kv ...any) {
	l.log(DEBUG, msg, kv)
}

func (l *Logger) Info(msg string, kv ...any) {
	l.log(INFO, msg, kv)
}

func (l *Logger) Warn(msg string, kv ...any) {
	l.log(WARN, msg, kv)
}

func (l *Logger) Error(msg string, kv ...any) {
	l.log(ERROR, msg, kv)
}

func (l *Logger) GetLast(n int) []Entry {
	if l == nil || n <= 0 {
		return []Entry{}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if n > len(l.entries) {
		out := make([]Entry, len(l.entries))
		copy(out, l.entries)
		return out
	}

	start := len(l.entries) - n
	out := make([]Entry, n)
	copy(out, l.entries[start:])
	return out
}
