package main

import (
	"errors"

	"github.com/ezrec/ifetch/translate"
)

var f = translate.From

var ErrConfigType = errors.New(f("wrong type"))

// ErrConfig reports the configuration value that could not be used.
type ErrConfig struct {
	Key string
	Err error
}

func (err *ErrConfig) Error() string {
	return f("config %v: %v", err.Key, err.Err)
}

func (err *ErrConfig) Unwrap() error {
	return err.Err
}
