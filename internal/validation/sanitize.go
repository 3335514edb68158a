package validation

import (
	"reflect"
	"strings"

	"golang.org/x/text/unicode/norm"
)

const sanitizeTag = "sanitize"

// htmlEscaper matches the character set escaped by validator.js, which the
// web client already expects to unescape.
var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	`"`, "&quot;",
	"'", "&#x27;",
	"<", "&lt;",
	">", "&gt;",
	"/", "&#x2F;",
	`\`, "&#x5C;",
	"`", "&#96;",
)

// EscapeHTML escapes markup-significant characters.
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

// NormalizeEmail trims, lowercases and NFKC-normalizes an address. It is idempotent.
func NormalizeEmail(email string) string {
	return norm.NFKC.String(strings.ToLower(strings.TrimSpace(email)))
}

// Sanitize applies the pre-validation steps (trim, email) of every sanitize tag.
// s must be a pointer to a struct; string and *string fields are supported.
func Sanitize(s any) {
	walk(s, func(op, value string) string {
		switch op {
		case "trim":
			return strings.TrimSpace(value)
		case "email":
			return NormalizeEmail(value)
		}
		return value
	})
}

// Escape applies the post-validation escape step of every sanitize tag.
func Escape(s any) {
	walk(s, func(op, value string) string {
		if op == "escape" {
			return EscapeHTML(value)
		}
		return value
	})
}

func walk(s any, apply func(op, value string) string) {
	rv := reflect.ValueOf(s)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return
	}
	rv = rv.Elem()
	if rv.Kind() != reflect.Struct {
		return
	}

	rt := rv.Type()
	for i := range rt.NumField() {
		field := rt.Field(i)
		tag := field.Tag.Get(sanitizeTag)
		if tag == "" || !field.IsExported() {
			continue
		}

		fv := rv.Field(i)
		var target reflect.Value
		switch {
		case fv.Kind() == reflect.String:
			target = fv
		case fv.Kind() == reflect.Pointer && !fv.IsNil() && fv.Elem().Kind() == reflect.String:
			target = fv.Elem()
		default:
			continue
		}

		value := target.String()
		for op := range strings.SplitSeq(tag, ",") {
			value = apply(strings.TrimSpace(op), value)
		}
		target.SetString(value)
	}
}
