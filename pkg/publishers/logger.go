package publishers

// Logger is the structured logging surface publishers write delivery
// outcomes to. internal/logger.Logger satisfies it.
type Logger interface {
	InfoObj(msg, key string, obj any)
	DebugObj(msg, key string, obj any)
	WarnObj(msg, key string, obj any)
	ErrorObj(msg, key string, obj any)
}

type discardLogger struct{}

func (discardLogger) InfoObj(string, string, any)  {}
func (discardLogger) DebugObj(string, string, any) {}
func (discardLogger) WarnObj(string, string, any)  {}
func (discardLogger) ErrorObj(string, string, any) {}

func ensureLogger(log Logger) Logger {
	if log != nil {
		return log
	}
	return discardLogger{}
}
