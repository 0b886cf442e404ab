package retained

import (
	"log/slog"
	"sync/atomic"
)

var (
	pkgLogger atomic.Pointer[slog.Logger]
	pkgMarker atomic.Pointer[func(name string)]
)

func init() {
	pkgLogger.Store(slog.New(slog.DiscardHandler))
}

// SetLogger installs the logger used by the package. Passing nil silences it.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	pkgLogger.Store(l)
}

func logger() *slog.Logger {
	return pkgLogger.Load()
}

// SetMarker installs a telemetry hook that receives named markers such as
// "Button.onClick". Passing nil restores the default, which logs the marker
// at debug level.
func SetMarker(fn func(name string)) {
	if fn == nil {
		pkgMarker.Store(nil)
		return
	}
	pkgMarker.Store(&fn)
}

func emitMarker(name string) {
	if fn := pkgMarker.Load(); fn != nil {
		(*fn)(name)
		return
	}
	logger().Debug("marker", "name", name)
}
