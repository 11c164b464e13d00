package logsvc

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/trezcool/gce/core"
	"github.com/trezcool/gce/core/user"
)

// Init sets the global level and, for the console format, a human-readable writer.
func Init(level string, format string) {
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if format == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

type ZeroLogger struct {
	zl zerolog.Logger
}

var _ core.Logger = (*ZeroLogger)(nil)

// NewZeroLogger logs through zl; use log.Logger for the global one set up by Init.
func NewZeroLogger(zl zerolog.Logger) *ZeroLogger {
	return &ZeroLogger{zl: zl}
}

// NewJSONLogger writes JSON lines to w.
func NewJSONLogger(w io.Writer) *ZeroLogger {
	return NewZeroLogger(zerolog.New(w).With().Timestamp().Logger())
}

// expected args: error, map[string]interface{}, user.User
func (l ZeroLogger) send(evt *zerolog.Event, msg string, args []interface{}) {
	for i, arg := range args {
		switch a := arg.(type) {
		case error:
			evt = evt.AnErr(errorKey(i), a)
		case map[string]interface{}:
			evt = evt.Fields(a)
		case user.User:
			evt = evt.Str("user", a.Username)
		default:
			evt = evt.Interface(fmt.Sprintf("arg%d", i), a)
		}
	}
	evt.Msg(msg)
}

func errorKey(i int) string {
	if i == 0 {
		return zerolog.ErrorFieldName
	}
	return fmt.Sprintf("%s%d", zerolog.ErrorFieldName, i)
}

func (l ZeroLogger) Debug(msg string, args ...interface{}) { l.send(l.zl.Debug(), msg, args) }
func (l ZeroLogger) Info(msg string, args ...interface{})  { l.send(l.zl.Info(), msg, args) }
func (l ZeroLogger) Warn(msg string, args ...interface{})  { l.send(l.zl.Warn(), msg, args) }
func (l ZeroLogger) Error(msg string, args ...interface{}) { l.send(l.zl.Error(), msg, args) }
func (l ZeroLogger) Fatal(msg string, args ...interface{}) { l.send(l.zl.Fatal(), msg, args) }
