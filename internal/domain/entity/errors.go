package entity

import "errors"

// Standard domain errors
var (
	ErrUnsafeQuery     = errors.New("query was not recognized as a food")
	ErrImageGeneration = errors.New("image generation produced no usable image")
	ErrObjectNotFound  = errors.New("object not found in store")
	ErrCacheMiss       = errors.New("classification cache miss")
	ErrNoTextParts     = errors.New("model response carried no text parts")
)
