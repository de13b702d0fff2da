// Package validation validates configuration structs through
// go-playground/validator struct tags and reports failures as
// errors.AppError values with per-field details.
//
//	type ProxyConfig struct {
//	    HTTPProxy string `mapstructure:"http" validate:"omitempty,url"`
//	}
//	if err := validation.Validate(cfg); err != nil { ... }
//
// Besides the stock tags, "urlsegment" accepts a non-empty string that can
// be placed in a URL path as a single segment.
package validation
