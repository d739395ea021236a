package model

import "errors"

var (
	ErrGatewayNotFound  = errors.New("payment gateway not found")
	ErrGatewayInactive  = errors.New("payment gateway is inactive")
	ErrInvalidGateway   = errors.New("invalid payment gateway")
	ErrAmountOutOfRange = errors.New("amount outside gateway limits")
)
