package jsonbind

import (
	"io"
	"sync"

	"github.com/reoring/jsonbind/source"
	gojsonsrc "github.com/reoring/jsonbind/source/gojson"
	jsonsrc "github.com/reoring/jsonbind/source/json"
)

// JSONDriver tokenizes JSON input via a pluggable SPI. The default
// implementation is based on goccy/go-json and may be swapped with
// SetJSONDriver.
type JSONDriver interface {
	NewReader(r io.Reader) source.TokenSource
	NewBytes(b []byte) source.TokenSource
	Name() string
}

var (
	jsonDriverMu      sync.RWMutex
	currentJSONDriver JSONDriver = goJSONDriver{}
)

// SetJSONDriver replaces the global JSON driver; nil values are ignored.
func SetJSONDriver(d JSONDriver) {
	if d == nil {
		return
	}
	jsonDriverMu.Lock()
	currentJSONDriver = d
	jsonDriverMu.Unlock()
}

// UseDefaultJSONDriver restores the default go-json-backed driver.
func UseDefaultJSONDriver() { SetJSONDriver(goJSONDriver{}) }

// CurrentJSONDriver returns the driver used by Parse and DecodeJSON.
func CurrentJSONDriver() JSONDriver {
	jsonDriverMu.RLock()
	d := currentJSONDriver
	jsonDriverMu.RUnlock()
	return d
}

// StdlibJSONDriver returns a driver backed by encoding/json. It reports byte
// offsets, which makes ParseOpt.MaxBytes effective while tokenizing.
func StdlibJSONDriver() JSONDriver { return stdJSONDriver{} }

type goJSONDriver struct{}

func (goJSONDriver) NewReader(r io.Reader) source.TokenSource { return gojsonsrc.NewReader(r) }
func (goJSONDriver) NewBytes(b []byte) source.TokenSource     { return gojsonsrc.NewBytes(b) }
func (goJSONDriver) Name() string                             { return gojsonsrc.Name }

type stdJSONDriver struct{}

func (stdJSONDriver) NewReader(r io.Reader) source.TokenSource { return jsonsrc.NewReader(r) }
func (stdJSONDriver) NewBytes(b []byte) source.TokenSource     { return jsonsrc.NewBytes(b) }
func (stdJSONDriver) Name() string                             { return jsonsrc.Name }
