package parsers

import (
	"github.com/tidwall/gjson"

	"github.com/cosmic17/gowire"
)

// JSON returns a parser resolving paths against a JSON document using
// gjson path syntax, of which plain dotted paths are a subset. JSON
// numbers come back as float64; coercion at the injection site narrows
// them to the accessor's numeric type.
func JSON(data []byte) gowire.Parser {
	return func(path string) (any, error) {
		res := gjson.GetBytes(data, path)
		if !res.Exists() {
			return nil, &NotFoundError{Path: path}
		}
		return res.Value(), nil
	}
}
