package monitoring

import "errors"

var (
	// ErrQueryFailure means a user's spend or the user list could not be read.
	ErrQueryFailure = errors.New("balance query failed")
	// ErrSendFailure means the mail transport rejected an alert.
	ErrSendFailure = errors.New("alert send failed")
	// ErrConfigurationMissing means there is no mail transport or no usable threshold.
	ErrConfigurationMissing = errors.New("alert configuration missing")
)
