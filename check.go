package bufview

import (
	"fmt"
	"runtime"
	"sync/atomic"

	"github.com/rs/zerolog/log"
)

// CheckMode selects the process-wide policy applied when an index falls
// outside the valid logical range of a View or Slice. It is resolved at
// startup and not meant to be flipped per call site.
type CheckMode int32

const (
	// CheckHook invokes the configured hook and returns its error to the
	// caller. This is the default.
	CheckHook CheckMode = iota

	// CheckAbort emits a diagnostic with the call site, the condition text
	// and the failing value, then terminates the process.
	CheckAbort

	// CheckDisabled skips the library's bounds check entirely. Violations
	// are then unspecified behavior (in practice the runtime panics when
	// the physical position leaves the backing slice, but a strided
	// position inside the block is served without complaint). Opt-in only.
	CheckDisabled
)

// Hook receives the call site, the failing index, the bound it was compared
// against and the text of the violated condition, and produces the error
// returned to the caller.
type Hook func(loc string, index, bound int, cond string) error

var (
	checkMode atomic.Int32
	checkHook atomic.Value // holds Hook
)

func init() {
	checkHook.Store(Hook(defaultHook))
}

// SetCheckMode installs the process-wide bounds policy.
func SetCheckMode(m CheckMode) { checkMode.Store(int32(m)) }

// Checking returns the current bounds policy.
func Checking() CheckMode { return CheckMode(checkMode.Load()) }

// SetHook replaces the hook used in CheckHook mode. Passing nil restores
// the default hook.
func SetHook(h Hook) {
	if h == nil {
		h = defaultHook
	}
	checkHook.Store(h)
}

// boundsFail reports a violated index condition through the configured
// policy. Callers have already established the violation; in CheckAbort
// mode this does not return.
func boundsFail(index, bound int, cond string) error {
	loc := "unknown"
	if _, file, line, ok := runtime.Caller(2); ok {
		loc = fmt.Sprintf("%s:%d", file, line)
	}
	if Checking() == CheckAbort {
		log.Fatal().
			Str("at", loc).
			Str("cond", cond).
			Int("index", index).
			Int("bound", bound).
			Msg("bufview: bounds check failed")
	}
	return checkHook.Load().(Hook)(loc, index, bound, cond)
}

// errStatic is the pre-allocated fallback returned when building the
// detailed diagnostic fails. The violation itself must never be dropped.
var errStatic = &RangeError{Index: -1, Bound: -1, msg: "bufview: access out of bounds"}

// formatDiag builds the human-readable part of the default hook's error.
// A variable so tests can exercise the fallback path.
var formatDiag = func(loc string, index, bound int, cond string) string {
	return fmt.Sprintf("%s: bounds check failed: got %d against bound %d from %q", loc, index, bound, cond)
}

func defaultHook(loc string, index, bound int, cond string) (err error) {
	defer func() {
		if recover() != nil {
			err = errStatic
		}
	}()
	return &RangeError{Index: index, Bound: bound, msg: formatDiag(loc, index, bound, cond)}
}
