package market

import "go.uber.org/zap"

// zapLogger adapts a zap SugaredLogger to Logger
type zapLogger struct {
	sugar *zap.SugaredLogger
}

// NewZapLogger wraps sugar so it can be passed as ClientOptions.Logger
func NewZapLogger(sugar *zap.SugaredLogger) Logger {
	if sugar == nil {
		sugar = zap.NewNop().Sugar()
	}
	return &zapLogger{sugar: sugar.Named("market")}
}

func (l *zapLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.sugar.Debugw(msg, keysAndValues...)
}

func (l *zapLogger) Info(msg string, keysAndValues ...interface{}) {
	l.sugar.Infow(msg, keysAndValues...)
}

func (l *zapLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.sugar.Warnw(msg, keysAndValues...)
}

func (l *zapLogger) Error(msg string, keysAndValues ...interface{}) {
	l.sugar.Errorw(msg, keysAndValues...)
}
