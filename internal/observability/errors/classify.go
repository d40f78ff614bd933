// Package errors turns error chains into stable metric and log tags.
package errors

import (
	goerrors "errors"
	"reflect"
	"strings"

	apperrors "github.com/ynyg-work/CorelDRAW-QRCode-Generate-Plugin/internal/errors"
)

// Classify returns a normalized error class suitable for tagging metrics/logs.
// Application errors are tagged by their code; anything else by the type name
// of the innermost error, snake_case-ish.
func Classify(err error) string {
	if err == nil {
		return ""
	}
	if code := apperrors.GetCode(err); code != "" {
		return string(code)
	}

	for {
		unwrapped := goerrors.Unwrap(err)
		if unwrapped == nil {
			break
		}
		err = unwrapped
	}

	t := reflect.TypeOf(err)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return "unknown"
	}

	name := strings.ToLower(strings.ReplaceAll(t.String(), "*", ""))
	name = strings.ReplaceAll(name, ".", "_")
	if name == "" {
		return "unknown"
	}
	return name
}
