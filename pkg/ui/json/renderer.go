// Package json provides machine-readable JSON output
package json

import (
	"encoding/json"
	"io"

	"github.com/arthur-debert/assetdeploy/pkg/errors"
)

// ErrorView is the JSON shape of a structured error
type ErrorView struct {
	Code    errors.ErrorCode       `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Envelope wraps a command result together with its errors
type Envelope struct {
	Command string      `json:"command"`
	OK      bool        `json:"ok"`
	Result  interface{} `json:"result,omitempty"`
	Errors  []ErrorView `json:"errors,omitempty"`
}

// Renderer provides JSON output for machine consumption
type Renderer struct {
	encoder *json.Encoder
}

// New creates a new JSON renderer
func New(output io.Writer) *Renderer {
	encoder := json.NewEncoder(output)
	encoder.SetIndent("", "  ")
	return &Renderer{encoder: encoder}
}

// RenderResult renders a command result and the errors it produced
func (r *Renderer) RenderResult(command string, result interface{}, err error) error {
	return r.encoder.Encode(Envelope{
		Command: command,
		OK:      err == nil,
		Result:  result,
		Errors:  Errors(err),
	})
}

// RenderError renders a failure that produced no result
func (r *Renderer) RenderError(err error) error {
	return r.encoder.Encode(Envelope{OK: false, Errors: Errors(err)})
}

// Errors flattens err into one view per member error
func Errors(err error) []ErrorView {
	var views []ErrorView
	for _, e := range errors.Flatten(err) {
		view := ErrorView{
			Code:    errors.GetErrorCode(e),
			Message: e.Error(),
			Details: errors.GetErrorDetails(e),
		}
		if len(view.Details) == 0 {
			view.Details = nil
		}
		views = append(views, view)
	}
	return views
}
