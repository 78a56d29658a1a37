package brain

import (
	"bytes"
	"text/template"

	"github.com/stephen-netu/brain-bridge/internal/util"
)

// maxContractChars bounds a module's contract summary in the rendered
// document.
const maxContractChars = 200

// contextTemplate has a fixed section order: changed files, CI status,
// module contracts and risks. Empty sections carry an explicit marker
// so downstream instruction text can rely on section presence.
const contextTemplate = `# Brain context snapshot

## Changed files

{{if .ChangedFiles}}{{range .ChangedFiles}}- ` + "`{{.}}`" + `
{{end}}{{else}}_No changed files reported._
{{end}}
## CI status

{{if .CIJobs}}| Job | Status |
|-----|--------|
{{range .CIJobs}}| {{.Name}} | {{.Status}} |
{{end}}{{else}}_No CI jobs reported._
{{end}}
## Module contracts and risks

{{if .Modules}}{{range .Modules}}### {{.Name}}

{{if .ContractSummary}}{{.ContractSummary}}{{else}}_No contract summary available._{{end}}

{{if .Risks}}Known risks:
{{range .Risks}}- {{.}}
{{end}}{{else}}_No known risks._
{{end}}
{{end}}{{else}}_No affected modules reported._
{{end}}
---

_This snapshot is regenerated on every qualifying PR event. If it is
missing or stale, the review should say so and limit its claims._
`

var contextTmpl = template.Must(template.New("brain-context").Parse(contextTemplate))

type renderData struct {
	ChangedFiles ChangeSet
	CIJobs       []renderJob
	Modules      []renderModule
}

type renderJob struct {
	Name   string
	Status string
}

type renderModule struct {
	Name            string
	ContractSummary string
	Risks           []string
}

// Render serializes the bounded context into the markdown document.
// Output is deterministic: identical inputs yield byte-identical text.
func Render(ctx Context, changed ChangeSet) (string, error) {
	data := renderData{
		ChangedFiles: changed,
		CIJobs:       make([]renderJob, 0, len(ctx.CIJobs)),
		Modules:      make([]renderModule, 0, len(ctx.Modules)),
	}
	for _, j := range ctx.CIJobs {
		data.CIJobs = append(data.CIJobs, renderJob{Name: j.Name, Status: j.Status})
	}
	for _, m := range ctx.Modules {
		data.Modules = append(data.Modules, renderModule{
			Name:            m.Name,
			ContractSummary: util.TruncateString(m.ContractSummary, maxContractChars),
			Risks:           m.Risks,
		})
	}

	var buf bytes.Buffer
	if err := contextTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
