package domain

import "errors"

var (
	ErrUnknownNode      = errors.New("unknown node")
	ErrNoPathFound      = errors.New("no path found")
	ErrInvalidWeightKey = errors.New("invalid weight key")
	ErrEmptyTargetSet   = errors.New("empty target set")
	ErrInvalidGraph     = errors.New("invalid graph")
)
