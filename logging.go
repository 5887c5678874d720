package heliland

import (
	"os"

	kitlog "github.com/go-kit/kit/log"
)

// NewComponentLogger returns a logfmt logger bound to a component name,
// mirroring spacecraft.go's SCLogInit in the teacher repo.
func NewComponentLogger(component string) kitlog.Logger {
	l := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stdout))
	return kitlog.With(l, "component", component)
}
