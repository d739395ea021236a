package model

import "errors"

var (
	ErrVerificationFailed = errors.New("webhook signature verification failed")
	ErrUnparseablePayload = errors.New("webhook payload could not be parsed")
	ErrUnknownTransaction = errors.New("no transaction for gateway reference")
	ErrDuplicateWebhook   = errors.New("webhook already applied")
)
