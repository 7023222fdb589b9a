package crypto

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// LoggerHelper carries the standard fields (package, function, operation)
// used for structured logging across the module. It never formats key
// material; callers pass only non-secret values or SecureFieldHash previews.
type LoggerHelper struct {
	base     *logrus.Logger
	function string
	pkg      string
	fields   logrus.Fields
}

// NewLogger creates a helper for function in the crypto package that writes
// to the logrus standard logger.
func NewLogger(function string) *LoggerHelper {
	return NewPackageLogger(nil, "crypto", function)
}

// NewPackageLogger creates a helper for function in pkg that writes to
// base. A nil base uses the logrus standard logger.
func NewPackageLogger(base *logrus.Logger, pkg, function string) *LoggerHelper {
	if base == nil {
		base = logrus.StandardLogger()
	}
	return &LoggerHelper{
		base:     base,
		function: function,
		pkg:      pkg,
		fields: logrus.Fields{
			"function": function,
			"package":  pkg,
		},
	}
}

// WithField adds a custom field to the logger
func (l *LoggerHelper) WithField(key string, value interface{}) *LoggerHelper {
	l.fields[key] = value
	return l
}

// WithFields adds multiple custom fields to the logger
func (l *LoggerHelper) WithFields(fields logrus.Fields) *LoggerHelper {
	for k, v := range fields {
		l.fields[k] = v
	}
	return l
}

// WithError adds error information to the logger
func (l *LoggerHelper) WithError(err error, errorType, operation string) *LoggerHelper {
	l.fields["error"] = err.Error()
	l.fields["error_type"] = errorType
	l.fields["operation"] = operation
	return l
}

// Debug logs a debug message
func (l *LoggerHelper) Debug(message string) {
	l.base.WithFields(l.fields).Debug(message)
}

// Info logs an info message
func (l *LoggerHelper) Info(message string) {
	l.base.WithFields(l.fields).Info(message)
}

// Warn logs a warning message
func (l *LoggerHelper) Warn(message string) {
	l.base.WithFields(l.fields).Warn(message)
}

// Error logs an error message
func (l *LoggerHelper) Error(message string) {
	l.base.WithFields(l.fields).Error(message)
}

// SecureFieldHash creates a short preview of data for logging: the first
// 8 bytes in hex plus the total size. Use it only for public values such as
// ciphertext, signatures and public keys.
func SecureFieldHash(data []byte, name string) logrus.Fields {
	preview := "nil"
	if len(data) > 0 {
		previewLen := 8
		if len(data) < previewLen {
			previewLen = len(data)
		}
		preview = fmt.Sprintf("%x", data[:previewLen])
		if len(data) > previewLen {
			preview += "..."
		}
	}

	return logrus.Fields{
		name + "_preview": preview,
		name + "_size":    len(data),
	}
}

// OperationFields creates standardized operation logging fields
func OperationFields(operation, status string, additional ...logrus.Fields) logrus.Fields {
	fields := logrus.Fields{
		"operation": operation,
		"status":    status,
	}

	for _, extra := range additional {
		for k, v := range extra {
			fields[k] = v
		}
	}

	return fields
}
