package service

import "errors"

var (
	ErrGameNotFound   = errors.New("game not found")
	ErrGameExists     = errors.New("game already exists")
	ErrForbidden      = errors.New("game belongs to another client")
	ErrInvalidRequest = errors.New("invalid request")
	ErrNoResultStore  = errors.New("results are not being recorded")
)
