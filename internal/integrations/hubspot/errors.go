package hubspot

import "errors"

var (
	// ErrRecordNotFound remote record does not exist (deleted or merged in the CRM)
	ErrRecordNotFound = errors.New("hubspot client: record not found")

	// ErrUnauthorized access token rejected
	ErrUnauthorized = errors.New("hubspot client: unauthorized")

	// ErrRateLimited CRM asked to slow down
	ErrRateLimited = errors.New("hubspot client: rate limited")

	// ErrUnavailable CRM returned 5xx or could not be reached
	ErrUnavailable = errors.New("hubspot client: service unavailable")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("hubspot client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("hubspot client: invalid response")
)
