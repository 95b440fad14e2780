// Package errors provides the classified error type used across mdxcheck.
//
// A ClassifiedError carries a category (config, validation, content,
// filesystem, ...), a severity, a retry strategy and structured context. The
// fluent ErrorBuilder is the only way to construct one:
//
//	err := errors.WrapError(cause, errors.CategoryFileSystem, "failed to read document").
//		WithContext("path", path).
//		Build()
//
// CLIErrorAdapter turns classified errors into exit codes and user-facing
// messages for the command line.
package errors
