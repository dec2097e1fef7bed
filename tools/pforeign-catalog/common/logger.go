package common

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ------------------------------------------------------------
// If the verbosity at the call site is less than or equal to
// level requested, the log will be enabled.  Higher callsite
// verbosity values are less likely to be output.
//
// if (2 <= verbosity) { log-is-enabled }
// ------------------------------------------------------------

type LogWriter struct {
	verbosity int
	logger    *zap.SugaredLogger
}

var logWriter *LogWriter

func NewLogWriter(logfileName string, vLevel int) *LogWriter {
	if logWriter != nil {
		return logWriter
	}

	var erx error
	var fp *os.File

	wrx := zapcore.Lock(os.Stderr)
	logfilePath := strings.TrimSpace(logfileName)
	if logfilePath != "" {
		if fp, erx = os.Create(logfilePath); erx == nil {
			wrx = zapcore.Lock(fp)
		}
	}

	encoderCfg := zap.NewDevelopmentEncoderConfig()
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderCfg), wrx, zapcore.DebugLevel)
	logger := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1)).Sugar()

	// Advise if the requested logfile was not created
	if erx != nil {
		logger.Warnf("Unable to Create/Open requested logfile: %q", logfilePath)
	}

	logWriter = &LogWriter{vLevel, logger}
	return logWriter
}

func GetLogWriter() *LogWriter {
	return NewLogWriter("", 0)
}

func (lW *LogWriter) VerboseLevel(v int) bool {
	return v <= lW.verbosity
}

func (lW *LogWriter) Printf(format string, v ...any) {
	lW.logger.Infof(format, v...)
}

func (lW *LogWriter) Warnf(format string, v ...any) {
	lW.logger.Warnf(format, v...)
}

func (lW *LogWriter) Sync() error {
	return lW.logger.Sync()
}
