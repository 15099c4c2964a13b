package config

import "errors"

var (
	ErrUsage            = errors.New("wrong number of arguments")
	ErrPathNotFound     = errors.New("folder does not exist")
	ErrNotDirectory     = errors.New("path is not a folder")
	ErrValidationFailed = errors.New("validation failed")
)
