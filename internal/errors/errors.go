// Package errors provides standardized error handling for mdocx.
// It defines the error kinds surfaced to the user (validation, read, network,
// service and download failures) and helpers for creating, wrapping and
// classifying them.
package errors

import (
	"errors"
	"fmt"
)

// Standard errors package errors that we re-export for convenience
var (
	// Unwrap unwraps an error to access the underlying error
	Unwrap = errors.Unwrap
	// Is reports whether any error in err's chain matches target
	Is = errors.Is
	// As finds the first error in err's chain that matches target
	As = errors.As
)

// ErrorKind represents the kind of error
type ErrorKind int

// Error kinds
const (
	Unknown ErrorKind = iota
	// Intake error kinds
	InvalidFile
	FileTooLarge
	FileReadFailed
	// Conversion error kinds
	ServiceUnreachable
	ServiceFailed
	DownloadFailed
	// Config error kinds
	InvalidConfig
	ConfigNotFound
)

// String returns the name of the kind
func (k ErrorKind) String() string {
	switch k {
	case InvalidFile:
		return "invalid_file"
	case FileTooLarge:
		return "file_too_large"
	case FileReadFailed:
		return "file_read_failed"
	case ServiceUnreachable:
		return "service_unreachable"
	case ServiceFailed:
		return "service_failed"
	case DownloadFailed:
		return "download_failed"
	case InvalidConfig:
		return "invalid_config"
	case ConfigNotFound:
		return "config_not_found"
	default:
		return "unknown"
	}
}

// ApplicationError is the base error type for all application errors
type ApplicationError struct {
	msg  string
	err  error
	kind ErrorKind
}

// Error returns the error message
func (e *ApplicationError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

// Message returns the message without the wrapped cause. It is the text
// shown to the user.
func (e *ApplicationError) Message() string {
	return e.msg
}

// Unwrap returns the wrapped error
func (e *ApplicationError) Unwrap() error {
	return e.err
}

// Kind returns the kind of error
func (e *ApplicationError) Kind() ErrorKind {
	return e.kind
}

// FileError represents errors related to local files: rejected candidates,
// unreadable previews and failed downloads.
type FileError struct {
	ApplicationError
	path string
}

// NewFileError creates a new file error
func NewFileError(msg string, path string, kind ErrorKind, err error) *FileError {
	return &FileError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		path: path,
	}
}

// Error returns the file error message
func (e *FileError) Error() string {
	if e.path != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.path, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.path)
	}
	return e.ApplicationError.Error()
}

// Path returns the file path associated with the error
func (e *FileError) Path() string {
	return e.path
}

// NetworkError means no response was obtained from the conversion service.
type NetworkError struct {
	ApplicationError
	endpoint string
}

// NewNetworkError creates a new network error
func NewNetworkError(msg string, endpoint string, err error) *NetworkError {
	return &NetworkError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: ServiceUnreachable,
		},
		endpoint: endpoint,
	}
}

// Endpoint returns the URL that could not be reached
func (e *NetworkError) Endpoint() string {
	return e.endpoint
}

// ServiceError means the service answered with a failure. The message is the
// best-effort detail extracted from the response.
type ServiceError struct {
	ApplicationError
	statusCode int
}

// NewServiceError creates a new service error
func NewServiceError(msg string, statusCode int) *ServiceError {
	return &ServiceError{
		ApplicationError: ApplicationError{
			msg:  msg,
			kind: ServiceFailed,
		},
		statusCode: statusCode,
	}
}

// Error returns the service error message
func (e *ServiceError) Error() string {
	return fmt.Sprintf("service returned %d: %s", e.statusCode, e.msg)
}

// StatusCode returns the HTTP status code of the failed response
func (e *ServiceError) StatusCode() int {
	return e.statusCode
}

// ConfigError represents errors related to configuration
type ConfigError struct {
	ApplicationError
	param string
}

// NewConfigError creates a new configuration error
func NewConfigError(msg string, param string, kind ErrorKind, err error) *ConfigError {
	return &ConfigError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		param: param,
	}
}

// Error returns the config error message
func (e *ConfigError) Error() string {
	if e.param != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.param, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.param)
	}
	return e.ApplicationError.Error()
}

// Param returns the configuration parameter associated with the error
func (e *ConfigError) Param() string {
	return e.param
}

// New creates a new error with a message
func New(msg string) error {
	return &ApplicationError{
		msg:  msg,
		kind: Unknown,
	}
}

// Newf creates a new error with a formatted message
func Newf(format string, args ...interface{}) error {
	return &ApplicationError{
		msg:  fmt.Sprintf(format, args...),
		kind: Unknown,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return &ApplicationError{
		msg:  msg,
		err:  err,
		kind: Unknown,
	}
}

// Wrapf wraps an existing error with additional formatted context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &ApplicationError{
		msg:  fmt.Sprintf(format, args...),
		err:  err,
		kind: Unknown,
	}
}

// kinder is implemented by every error type in this package.
type kinder interface {
	Kind() ErrorKind
	Message() string
}

// KindOf returns the first known kind found in err's chain.
func KindOf(err error) ErrorKind {
	for e := err; e != nil; e = errors.Unwrap(e) {
		if k, ok := e.(kinder); ok && k.Kind() != Unknown {
			return k.Kind()
		}
	}
	return Unknown
}

// UserMessage returns the text to show for err: the application message when
// there is one, otherwise the full error string.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var k kinder
	if errors.As(err, &k) && k.Message() != "" {
		return k.Message()
	}
	return err.Error()
}

// IsValidation checks if the error rejected a candidate file
func IsValidation(err error) bool {
	kind := KindOf(err)
	return kind == InvalidFile || kind == FileTooLarge
}

// IsRead checks if the error is a preview read failure
func IsRead(err error) bool {
	return KindOf(err) == FileReadFailed
}

// IsNetwork checks if the service could not be reached
func IsNetwork(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}

// IsService checks if the service answered with a failure
func IsService(err error) bool {
	var svcErr *ServiceError
	return errors.As(err, &svcErr)
}

// IsDownload checks if saving the generated document failed
func IsDownload(err error) bool {
	return KindOf(err) == DownloadFailed
}

// IsInvalidConfig checks if the error is an invalid configuration error
func IsInvalidConfig(err error) bool {
	var configErr *ConfigError
	if errors.As(err, &configErr) {
		return configErr.Kind() == InvalidConfig
	}
	return false
}
