package gowire

import (
	"fmt"

	"go.uber.org/zap"
)

// Option is a function that configures an Injector.
type Option func(*Injector) error

// WithLogger routes the injector's debug logging through log. Every
// silent-skip path in the engine (orphaned declarations, failed setter
// injection, missing write accessors) emits a debug entry, so a real
// logger is the way to see what wiring actually did.
func WithLogger(log *zap.Logger) Option {
	return func(inj *Injector) error {
		if log == nil {
			return fmt.Errorf("logger cannot be nil")
		}
		inj.log = log
		return nil
	}
}

// WithParser installs the path resolver at construction time, equivalent
// to calling SetParser before anything else.
func WithParser(p Parser) Option {
	return func(inj *Injector) error {
		if p == nil {
			return fmt.Errorf("parser cannot be nil")
		}
		inj.parser = p
		return nil
	}
}
