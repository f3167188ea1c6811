package usermgmt

import (
	"errors"

	"github.com/sirupsen/logrus"
)

// Option configures a UserManager or UserGroupManager.
type Option func(*options)

type options struct {
	log logrus.FieldLogger
}

// WithLogger sets the logger that receives diagnostics for failed and
// successful operations. The default is logrus.StandardLogger().
func WithLogger(log logrus.FieldLogger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

func newOptions(opts []Option) options {
	o := options{log: logrus.StandardLogger()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// report logs the outcome of op and converts it into the boolean result
// returned to callers.
func report(log logrus.FieldLogger, op string, fields logrus.Fields, err error) bool {
	entry := log.WithField("op", op).WithFields(fields)
	switch {
	case err == nil:
		entry.Debug("operation succeeded")
		return true
	case errors.Is(err, ErrReservedName):
		entry.WithError(err).Error("an integer as name is not supported")
	case errors.Is(err, ErrNameCollision):
		entry.WithError(err).Error("name already taken")
	case isSoft(err):
		entry.WithError(err).Warn("operation rejected")
	default:
		entry.WithError(err).Error("operation failed")
	}
	return false
}

func isSoft(err error) bool {
	for _, target := range []error{ErrEmptyName, ErrNotFound, ErrAlreadyMember, ErrNotAMember} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
