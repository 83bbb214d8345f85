package dice

import "go.uber.org/zap"

// loggedSource wraps a Source and logs every draw at debug level.
type loggedSource struct {
	src    Source
	logger *zap.Logger
}

// NewLoggedSource returns a Source that draws from src and logs each value.
//
// Precondition: src must be non-nil. A nil logger disables logging.
func NewLoggedSource(src Source, logger *zap.Logger) Source {
	if logger == nil {
		return src
	}
	return &loggedSource{src: src, logger: logger}
}

// Intn draws from the wrapped source and logs the bound and result.
func (l *loggedSource) Intn(n int) int {
	v := l.src.Intn(n)
	l.logger.Debug("random draw",
		zap.Int("n", n),
		zap.Int("value", v),
	)
	return v
}
