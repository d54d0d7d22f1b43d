package criteria

import (
	"github.com/viant/rotor/service/dao"
)

// Matches reports whether every parameter that names one of fields accepts
// its value. Parameters naming other fields are ignored.
func Matches(fields map[string]string, parameters []*dao.Parameter) bool {
	for _, parameter := range parameters {
		actual, ok := fields[parameter.Name]
		if !ok {
			continue
		}
		if !accepts(parameter.Value, actual) {
			return false
		}
	}
	return true
}

func accepts(expected interface{}, actual string) bool {
	switch candidate := expected.(type) {
	case string:
		return candidate == actual
	case []string:
		for _, s := range candidate {
			if s == actual {
				return true
			}
		}
		return false
	}
	return true
}
