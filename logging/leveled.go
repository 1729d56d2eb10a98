package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dlshle/lrucache/errors"
)

type LevelLogger struct {
	writer            LogWriter
	prefix            string
	logLevelWaterMark int
	lock              *sync.RWMutex
	context           map[string]string
	enableGRContext   bool
}

const LogAllWaterMark = -1

func StdOutLevelLogger(prefix string) Logger {
	return CreateLevelLogger(NewConsoleLogWriter(os.Stdout), prefix, LogAllWaterMark)
}

func NewLevelLogger(writer io.Writer, prefix string, waterMark int) Logger {
	return CreateLevelLogger(NewConsoleLogWriter(writer), prefix, waterMark)
}

func CreateLevelLogger(entityWriter LogWriter, prefix string, loggingMark int) Logger {
	return &LevelLogger{
		writer:            entityWriter,
		prefix:            prefix,
		logLevelWaterMark: loggingMark,
		lock:              new(sync.RWMutex),
		context:           make(map[string]string),
	}
}

func (l *LevelLogger) Enabled(level int) bool {
	return level >= l.logLevelWaterMark
}

func (l *LevelLogger) output(ctx context.Context, level int, message string) {
	logEntity := newLogEntity(level, l.prefix, l.prepareContext(ctx), time.Now(), message, l.getFileName())
	l.writer.Write(logEntity)
	logEntity.recycle()
}

func (l *LevelLogger) log(ctx context.Context, level int, records []string) {
	if !l.Enabled(level) {
		return
	}
	switch len(records) {
	case 0:
		l.output(ctx, level, "nil")
	case 1:
		l.output(ctx, level, records[0])
	default:
		l.output(ctx, level, strings.Join(records, ""))
	}
}

func (l *LevelLogger) logf(ctx context.Context, level int, format string, args []interface{}) {
	if !l.Enabled(level) {
		return
	}
	l.output(ctx, level, fmt.Sprintf(format, args...))
}

// caller of Info/Infof etc., output and log(f) sit in between
func (l *LevelLogger) getFileName() string {
	_, file, line, ok := runtime.Caller(4)
	if !ok {
		file = "???"
		line = 0
	}
	if i := strings.LastIndexByte(file, '/'); i >= 0 {
		file = file[i+1:]
	}
	return file + ":" + strconv.Itoa(line)
}

func (l *LevelLogger) prepareContext(ctx context.Context) map[string]string {
	allContext := make(map[string]string)
	l.lock.RLock()
	for k, v := range l.context {
		allContext[k] = v
	}
	l.lock.RUnlock()
	if l.enableGRContext {
		for k, v := range goroutineContext() {
			allContext[k] = v
		}
	}
	if ctx != nil {
		if loggingCtx, ok := ctx.Value(CtxValLoggingContext).(map[string]string); ok {
			for k, v := range loggingCtx {
				allContext[k] = v
			}
		}
	}
	return allContext
}

func (l *LevelLogger) Trace(ctx context.Context, records ...string) {
	l.log(ctx, TRACE, records)
}

func (l *LevelLogger) Debug(ctx context.Context, records ...string) {
	l.log(ctx, DEBUG, records)
}

func (l *LevelLogger) Info(ctx context.Context, records ...string) {
	l.log(ctx, INFO, records)
}

func (l *LevelLogger) Warn(ctx context.Context, records ...string) {
	l.log(ctx, WARN, records)
}

func (l *LevelLogger) Error(ctx context.Context, records ...string) {
	l.log(ctx, ERROR, records)
}

func (l *LevelLogger) TrackableError(ctx context.Context, err *errors.TrackableError, records ...string) {
	l.log(ctx, ERROR, append(records, " ", err.Verbose()))
}

func (l *LevelLogger) Tracef(ctx context.Context, format string, records ...interface{}) {
	l.logf(ctx, TRACE, format, records)
}

func (l *LevelLogger) Debugf(ctx context.Context, format string, records ...interface{}) {
	l.logf(ctx, DEBUG, format, records)
}

func (l *LevelLogger) Infof(ctx context.Context, format string, records ...interface{}) {
	l.logf(ctx, INFO, format, records)
}

func (l *LevelLogger) Warnf(ctx context.Context, format string, records ...interface{}) {
	l.logf(ctx, WARN, format, records)
}

func (l *LevelLogger) Errorf(ctx context.Context, format string, records ...interface{}) {
	l.logf(ctx, ERROR, format, records)
}

func (l *LevelLogger) SetContext(k, v string) {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.context[k] = v
}

func (l *LevelLogger) DeleteContext(k string) {
	l.lock.Lock()
	defer l.lock.Unlock()
	delete(l.context, k)
}

func (l *LevelLogger) SetWaterMark(mark int) {
	l.logLevelWaterMark = mark
}

func (l *LevelLogger) copyContext() map[string]string {
	l.lock.RLock()
	defer l.lock.RUnlock()
	copied := make(map[string]string, len(l.context))
	for k, v := range l.context {
		copied[k] = v
	}
	return copied
}

func (l *LevelLogger) derive() *LevelLogger {
	return &LevelLogger{
		writer:            l.writer,
		prefix:            l.prefix,
		logLevelWaterMark: l.logLevelWaterMark,
		lock:              new(sync.RWMutex),
		context:           l.copyContext(),
		enableGRContext:   l.enableGRContext,
	}
}

// create new logger
func (l *LevelLogger) WithPrefix(prefix string) Logger {
	sub := l.derive()
	sub.prefix = prefix
	return sub
}

func (l *LevelLogger) WithWriter(writer LogWriter) Logger {
	sub := l.derive()
	sub.writer = writer
	return sub
}

func (l *LevelLogger) WithGRContextLogging(useGRCL bool) Logger {
	sub := l.derive()
	sub.enableGRContext = useGRCL
	return sub
}

func (l *LevelLogger) WithContext(context map[string]string) Logger {
	sub := l.derive()
	for k, v := range context {
		sub.context[k] = v
	}
	return sub
}

func (l *LevelLogger) WithWaterMark(mark int) Logger {
	sub := l.derive()
	sub.logLevelWaterMark = mark
	return sub
}
