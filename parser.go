package gowire

// Parser resolves an external path to a value. It is the single point
// where this package touches configuration: the engine never interprets
// paths itself, it only hands them to the installed parser.
//
// The parsers subpackage ships ready-made implementations for nested
// maps, JSON and YAML documents, and watched config files.
type Parser func(path string) (any, error)

// defaultParser resolves every path to nil. Injection against a nil
// value succeeds for nilable target types and is treated as a resolution
// failure otherwise.
func defaultParser(string) (any, error) {
	return nil, nil
}
