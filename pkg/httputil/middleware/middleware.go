package middleware

import (
	"github.com/edgeflare/pgtables/pkg/httputil"
)

// Default returns the request pipeline installed on every router: request ids outermost, then
// request logging, then metrics next to the mux. Logging is skipped when logOpts is nil.
func Default(logOpts *LoggerOptions) []httputil.Middleware {
	mws := []httputil.Middleware{RequestID}
	if logOpts != nil {
		mws = append(mws, LoggerWithOptions(logOpts))
	}
	return append(mws, Metrics)
}
