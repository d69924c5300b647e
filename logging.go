package scenegl

import (
	"fmt"
	"log"
	"os"
	"sync"
)

type Logger interface {
	DebugEnabled() bool
	SetDebug(enabled bool)
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

type DefaultLogger struct {
	mu     sync.Mutex
	debug  bool
	prefix string
	out    *log.Logger
	err    *log.Logger
}

func NewDefaultLogger(prefix string, debug bool) *DefaultLogger {
	flags := log.LstdFlags | log.Lmicroseconds
	return &DefaultLogger{
		debug:  debug,
		prefix: prefix,
		out:    log.New(os.Stdout, "", flags),
		err:    log.New(os.Stderr, "", flags),
	}
}

func (l *DefaultLogger) DebugEnabled() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.debug
}

func (l *DefaultLogger) SetDebug(enabled bool) {
	l.mu.Lock()
	l.debug = enabled
	l.mu.Unlock()
}

func (l *DefaultLogger) prefixf(level string, format string, args ...any) string {
	if l.prefix != "" {
		return fmt.Sprintf("[%s] %s: %s", l.prefix, level, fmt.Sprintf(format, args...))
	}
	return fmt.Sprintf("%s: %s", level, fmt.Sprintf(format, args...))
}

func (l *DefaultLogger) Debugf(format string, args ...any) {
	if !l.DebugEnabled() {
		return
	}
	l.out.Print(l.prefixf("DEBUG", format, args...))
}

func (l *DefaultLogger) Infof(format string, args ...any) {
	l.out.Print(l.prefixf("INFO", format, args...))
}

func (l *DefaultLogger) Warnf(format string, args ...any) {
	l.err.Print(l.prefixf("WARN", format, args...))
}

func (l *DefaultLogger) Errorf(format string, args ...any) {
	l.err.Print(l.prefixf("ERROR", format, args...))
}

type nopLogger struct{}

func NewNopLogger() Logger                                 { return &nopLogger{} }
func (n *nopLogger) DebugEnabled() bool                    { return false }
func (n *nopLogger) SetDebug(enabled bool)                 {}
func (n *nopLogger) Debugf(format string, args ...any)     {}
func (n *nopLogger) Infof(format string, args ...any)      {}
func (n *nopLogger) Warnf(format string, args ...any)      {}
func (n *nopLogger) Errorf(format string, args ...any)     {}

// DefaultWarnLimit is the number of warnings a WarnLimiter forwards before going quiet.
const DefaultWarnLimit = 100

// WarnLimiter forwards warnings to a Logger until a cap is reached, then logs
// a single notice and drops everything after it.
type WarnLimiter struct {
	mu     sync.Mutex
	logger Logger
	limit  int
	count  int
	what   string
}

// NewWarnLimiter returns a limiter that names its warnings after what
// ("program", "geometry") in the final notice.
func NewWarnLimiter(logger Logger, what string, limit int) *WarnLimiter {
	if logger == nil {
		logger = NewNopLogger()
	}
	if limit <= 0 {
		limit = DefaultWarnLimit
	}
	return &WarnLimiter{logger: logger, limit: limit, what: what}
}

func (w *WarnLimiter) Warnf(format string, args ...any) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.count > w.limit {
		return
	}
	w.logger.Warnf(format, args...)
	w.count++
	if w.count > w.limit {
		w.logger.Warnf("more than %d %s warnings - stopping logs", w.limit, w.what)
	}
}

// Count reports how many warnings were forwarded so far.
func (w *WarnLimiter) Count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.count
}

// Exhausted reports whether the limiter has stopped forwarding.
func (w *WarnLimiter) Exhausted() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.count > w.limit
}
