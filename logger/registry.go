package logger

import "sync"

var registry sync.Map // name -> *Logger

// Register stores a named logger.
func Register(name string, l *Logger) {
	registry.Store(name, l)
}

// Get returns the logger registered under name, or the global logger tagged
// with name as its component.
func Get(name string) *Logger {
	if l, ok := registry.Load(name); ok {
		return l.(*Logger)
	}
	return WithComponent(name)
}
