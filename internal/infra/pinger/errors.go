package pinger

import "errors"

var (
	ErrPingerAlreadyRegistered = errors.New("pinger already registered")
	ErrPingerNotFound          = errors.New("pinger not found")
)
