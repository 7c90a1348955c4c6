package apperr

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

// FromBind turns a gin binding error into a ValidationError. Failed
// "required" tags report missingMsg; anything else is a malformed body.
func FromBind(err error, missingMsg string) *Error {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		fields := make([]string, 0, len(ve))
		for _, fe := range ve {
			fields = append(fields, strings.ToLower(fe.Field())+":"+fe.Tag())
		}
		logrus.WithField("fields", fields).Debug("request validation failed")
		return Wrap(KindValidation, missingMsg, err)
	}
	return Wrap(KindValidation, "Invalid JSON body", err)
}
