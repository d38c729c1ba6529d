package display

import (
	"io"

	"github.com/arthur-debert/assetdeploy/pkg/types"
	uijson "github.com/arthur-debert/assetdeploy/pkg/ui/json"
	"github.com/arthur-debert/assetdeploy/pkg/verify"
)

// JSONRenderer writes one JSON document per command
type JSONRenderer struct {
	r *uijson.Renderer
}

// NewJSONRenderer creates a new JSON renderer
func NewJSONRenderer(w io.Writer) *JSONRenderer {
	return &JSONRenderer{r: uijson.New(w)}
}

// RenderDeploy implements Renderer
func (j *JSONRenderer) RenderDeploy(result *types.DeployResult, err error) error {
	if result == nil {
		return j.RenderError(err)
	}
	return j.r.RenderResult("deploy", result, err)
}

// RenderVerify implements Renderer
func (j *JSONRenderer) RenderVerify(report *verify.Report, err error) error {
	if report == nil {
		return j.RenderError(err)
	}
	return j.r.RenderResult("verify", report, err)
}

// RenderPlan implements Renderer
func (j *JSONRenderer) RenderPlan(plan []types.ResolvedEntry) error {
	if plan == nil {
		plan = []types.ResolvedEntry{}
	}
	return j.r.RenderResult("plan", plan, nil)
}

// RenderError implements Renderer
func (j *JSONRenderer) RenderError(err error) error {
	if err == nil {
		return nil
	}
	return j.r.RenderError(err)
}
