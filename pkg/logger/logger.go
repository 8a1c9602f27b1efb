package logger

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

var log = newLogger("development")

func newLogger(env string) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)
	if env == "development" {
		l.SetLevel(logrus.DebugLevel)
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		l.SetLevel(logrus.InfoLevel)
		l.SetFormatter(&logrus.JSONFormatter{})
	}
	return l
}

// Init configures the package logger for the given environment.
func Init(env string) {
	log = newLogger(env)
	log.WithField("env", env).Debug("logger initialized")
}

// SetOutput redirects log output, mostly so tests can silence it.
func SetOutput(w io.Writer) {
	log.SetOutput(w)
}

// fields turns loosely typed args into logrus fields. Errors land under
// "error", a string followed by a value becomes a key/value pair, and
// anything else is collected under "args".
func fields(args []any) logrus.Fields {
	f := logrus.Fields{}
	var rest []any

	for i := 0; i < len(args); i++ {
		switch v := args[i].(type) {
		case nil:
			continue
		case error:
			f["error"] = v.Error()
		case string:
			if i+1 < len(args) {
				f[v] = args[i+1]
				i++
				continue
			}
			rest = append(rest, v)
		case fmt.Stringer:
			rest = append(rest, v.String())
		default:
			rest = append(rest, v)
		}
	}

	if len(rest) == 1 {
		f["args"] = rest[0]
	} else if len(rest) > 1 {
		f["args"] = rest
	}
	return f
}

func Debug(msg string, args ...any) {
	log.WithFields(fields(args)).Debug(msg)
}

func Info(msg string, args ...any) {
	log.WithFields(fields(args)).Info(msg)
}

func Warn(msg string, args ...any) {
	log.WithFields(fields(args)).Warn(msg)
}

func Error(msg string, args ...any) {
	log.WithFields(fields(args)).Error(msg)
}

func Fatal(msg string, args ...any) {
	log.WithFields(fields(args)).Fatal(msg)
}
