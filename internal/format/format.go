// Package format checks the named string formats a string node can declare.
// The checks are the go-playground/validator baked-in tags, plus a "clock"
// tag for time-of-day values.
package format

import (
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

var tags = map[string]string{
	"uuid":   "uuid",
	"email":  "email",
	"ip":     "ip",
	"ipv4":   "ipv4",
	"ipv6":   "ipv6",
	"url":    "url",
	"base64": "base64",
	"time":   "clock",
}

var clockLayouts = []string{"15:04:05", "15:04:05.999999999", "15:04"}

var (
	once     sync.Once
	validate *validator.Validate
)

func engine() *validator.Validate {
	once.Do(func() {
		validate = validator.New()
		// RegisterValidation only fails on an empty tag or a nil func.
		_ = validate.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
			s := fl.Field().String()
			for _, layout := range clockLayouts {
				if _, err := time.Parse(layout, s); err == nil {
					return true
				}
			}
			return false
		})
	})
	return validate
}

// Known reports whether name is a format checked by Valid.
func Known(name string) bool {
	_, ok := tags[name]
	return ok
}

// Valid reports whether s satisfies the named format. Unknown formats, and
// the calendar formats handled elsewhere, always pass.
func Valid(name, s string) bool {
	tag, ok := tags[name]
	if !ok {
		return true
	}
	return engine().Var(s, tag) == nil
}
