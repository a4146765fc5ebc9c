package middleware

import (
	"net/http"

	"go.uber.org/zap"
)

type Middleware func(http.Handler, *zap.SugaredLogger) http.Handler

func Conveyor(h http.Handler, sugar *zap.SugaredLogger, middlewares ...Middleware) http.Handler {
	for _, middleware := range middlewares {
		h = middleware(h, sugar)
	}
	return h
}

// Chain adapts a Conveyor to the func(http.Handler) http.Handler form chi's Use and With expect.
func Chain(sugar *zap.SugaredLogger, middlewares ...Middleware) func(http.Handler) http.Handler {
	return func(h http.Handler) http.Handler {
		return Conveyor(h, sugar, middlewares...)
	}
}
