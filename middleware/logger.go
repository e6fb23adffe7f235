package middleware

import (
	"encoding/json"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/satchel-cli/satchel/internal/pool"
)

// RequestInfo describes one handler invocation for logging.
type RequestInfo struct {
	Command   string
	Args      []string
	StartTime time.Time
	Duration  time.Duration
	Error     error
}

// requestInfoPool recycles RequestInfo objects across invocations.
var requestInfoPool = pool.NewPoolWithReset(
	func() *RequestInfo {
		return &RequestInfo{}
	},
	func(info *RequestInfo) {
		info.Command = ""
		info.Args = info.Args[:0]
		info.StartTime = time.Time{}
		info.Duration = 0
		info.Error = nil
	},
)

// Logger logs handler start and completion with timing.
func Logger(options ...Option) Middleware {
	config := DefaultConfig()
	for _, option := range options {
		option(config)
	}

	return func(next ActionFunc) ActionFunc {
		return func(ctx Context) error {
			if config.LogLevel == LogLevelNone {
				return next(ctx)
			}

			info := requestInfoPool.Get()
			defer requestInfoPool.Put(info)

			info.Command = commandName(ctx)
			if config.IncludeArgs {
				info.Args = append(info.Args, ctx.Args()...)
			}
			info.StartTime = time.Now()

			if config.LogLevel >= LogLevelDebug {
				logRequest(config, info, "START")
			}

			err := next(ctx)

			info.Duration = time.Since(info.StartTime)
			info.Error = err
			logRequest(config, info, resultLevel(err))

			return err
		}
	}
}

func resultLevel(err error) string {
	if err != nil {
		return "ERROR"
	}
	return "SUCCESS"
}

func logRequest(config *Config, info *RequestInfo, level string) {
	if !shouldLog(config.LogLevel, level) {
		return
	}
	writer := logWriter(config.LogOutput)
	if writer == nil {
		return
	}
	if config.LogFormat == LogFormatJSON {
		writeJSONLog(writer, info, level)
		return
	}
	writeTextLog(writer, info, level)
}

func shouldLog(configLevel LogLevel, messageLevel string) bool {
	switch messageLevel {
	case "ERROR":
		return configLevel >= LogLevelError
	case "START":
		return configLevel >= LogLevelDebug
	default:
		return configLevel >= LogLevelInfo
	}
}

func logWriter(output LogOutput) io.Writer {
	switch output {
	case LogOutputStdout:
		return os.Stdout
	case LogOutputStderr:
		return os.Stderr
	default:
		return nil
	}
}

func writeTextLog(w io.Writer, info *RequestInfo, level string) {
	buf := pool.GetBuffer(128)
	defer pool.PutBuffer(buf)

	b := *buf
	b = info.StartTime.AppendFormat(b, time.RFC3339)
	b = append(b, ' ')
	b = append(b, level...)
	b = append(b, " command="...)
	b = append(b, info.Command...)
	if len(info.Args) > 0 {
		b = append(b, " args="...)
		for i, a := range info.Args {
			if i > 0 {
				b = append(b, ',')
			}
			b = append(b, a...)
		}
	}
	if info.Duration > 0 {
		b = append(b, " duration="...)
		b = append(b, info.Duration.String()...)
	}
	if info.Error != nil {
		b = append(b, " error="...)
		b = strconv.AppendQuote(b, info.Error.Error())
	}
	b = append(b, '\n')
	_, _ = w.Write(b)
	*buf = b[:0]
}

type jsonLogEntry struct {
	Time     string   `json:"time"`
	Level    string   `json:"level"`
	Command  string   `json:"command"`
	Args     []string `json:"args,omitempty"`
	Duration string   `json:"duration,omitempty"`
	Error    string   `json:"error,omitempty"`
}

func writeJSONLog(w io.Writer, info *RequestInfo, level string) {
	entry := jsonLogEntry{
		Time:    info.StartTime.Format(time.RFC3339),
		Level:   level,
		Command: info.Command,
		Args:    info.Args,
	}
	if info.Duration > 0 {
		entry.Duration = info.Duration.String()
	}
	if info.Error != nil {
		entry.Error = info.Error.Error()
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	data = append(data, '\n')
	_, _ = w.Write(data)
}
