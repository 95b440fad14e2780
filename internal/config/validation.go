package config

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"git.home.luguber.info/inful/mdxcheck/internal/foundation/errors"
)

var extensionPattern = regexp.MustCompile(`^\.[A-Za-z0-9]+$`)

// normalize case-folds enumerations and rejects unknown spellings.
func normalize(cfg *Config) error {
	level, err := logLevelNormalizer.NormalizeWithError(string(cfg.Logging.Level))
	if err != nil {
		return errors.WrapError(err, errors.CategoryConfig, "invalid logging.level").Build()
	}
	cfg.Logging.Level = level

	format, err := logFormatNormalizer.NormalizeWithError(string(cfg.Logging.Format))
	if err != nil {
		return errors.WrapError(err, errors.CategoryConfig, "invalid logging.format").Build()
	}
	cfg.Logging.Format = format

	lintFormat, err := logFormatNormalizer.NormalizeWithError(string(cfg.Lint.Format))
	if err != nil {
		return errors.WrapError(err, errors.CategoryConfig, "invalid lint.format").Build()
	}
	cfg.Lint.Format = lintFormat
	return nil
}

// Validate checks value ranges and shapes.
func (c *Config) Validate() error {
	err := validation.Errors{
		"content": validation.ValidateStruct(&c.Content,
			validation.Field(&c.Content.Extensions,
				validation.Required,
				validation.Each(validation.Required, validation.Match(extensionPattern).Error("must look like .md"))),
			validation.Field(&c.Content.Paths, validation.Each(validation.Required)),
			validation.Field(&c.Content.Ignore, validation.Each(validation.Required)),
		),
		"lint": validation.ValidateStruct(&c.Lint,
			validation.Field(&c.Lint.Workers, validation.Min(0), validation.Max(256)),
		),
		"history": validation.ValidateStruct(&c.History,
			validation.Field(&c.History.Keep, validation.Min(0)),
		),
	}.Filter()
	if err != nil {
		return errors.WrapError(err, errors.CategoryConfig, "invalid configuration").Build()
	}
	return nil
}
