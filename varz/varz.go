/*
varz provides expvar counters with package-qualified names, so
"rulesFileReads" declared in state shows up as
"github.com/ts4z/robotstxt/state.rulesFileReads".

The webapp mounts Handler at /debug/vars.
*/
package varz

import (
	"expvar"
	"net/http"
	"runtime"
	"strings"
)

const unknownPackage = "varz.unknown"

// callerPackage returns the package of whoever called our caller.  For a
// package-level var block the function is "<pkg>.init", so trimming the last
// dot-component leaves the package path.
func callerPackage() string {
	pc, _, _, ok := runtime.Caller(2)
	if !ok {
		return unknownPackage
	}
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return unknownPackage
	}

	n := fn.Name()
	if dot := strings.LastIndex(n, "."); dot != -1 {
		n = n[:dot]
	}
	return n
}

func NewInt(name string) *expvar.Int {
	return expvar.NewInt(callerPackage() + "." + name)
}

// Handler serves every published variable as JSON.
func Handler() http.Handler {
	return expvar.Handler()
}
