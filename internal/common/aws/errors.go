package aws

import (
	"errors"

	"github.com/aws/smithy-go"
)

var throttlingCodes = map[string]bool{
	"Throttling":               true,
	"ThrottlingException":      true,
	"TooManyRequestsException": true,
	"RequestLimitExceeded":     true,
}

// ErrorCode returns the AWS API error code carried by err, or "".
func ErrorCode(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return ""
}

// IsPermanent reports whether err is a client-side API error that a retry
// cannot fix, such as a rejected message or an unverified sender.
func IsPermanent(err error) bool {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	if throttlingCodes[apiErr.ErrorCode()] {
		return false
	}
	return apiErr.ErrorFault() == smithy.FaultClient
}
