package export

import (
	"html/template"
	"io"
)

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"h": func(r report, key string) string { return r.heading(key) },
}).Parse(`<!DOCTYPE html>
<html lang="{{.Lang}}">
<head>
<meta charset="utf-8">
<title>{{.R.Title}}</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; margin-bottom: 1em; }
th, td { border: 1px solid #999; padding: 4px 8px; text-align: left; vertical-align: top; }
th { background: #eee; }
</style>
</head>
<body>
<h1>{{.R.Title}}</h1>
{{- with .R.Fields}}
<h2>{{h $.R "incident"}}</h2>
<dl>
{{- range .}}
<dt>{{.Label}}</dt><dd>{{.Value}}</dd>
{{- end}}
</dl>
{{- end}}
{{- with .R.Description}}
<p>{{.}}</p>
{{- end}}
{{- with .R.Flash}}
<h2>{{h $.R "flash_report"}}</h2>
{{- if .ReportedAt}}
<p><strong>{{h $.R "reported_at"}}:</strong> {{.ReportedAt}}</p>
{{- end}}
<p>{{.Summary}}</p>
{{- with .ImmediateActions}}
<h3>{{h $.R "immediate_actions"}}</h3>
<ul>
{{- range .}}
<li>{{.}}</li>
{{- end}}
</ul>
{{- end}}
{{- end}}
{{- with .R.Levels}}
<h2>{{h $.R "causal_tree"}}</h2>
{{- range .}}
<h3>{{.Title}}</h3>
<table class="level-{{.Depth}}">
<tr><th>{{h $.R "numero"}}</th><th>{{h $.R "type"}}</th><th>{{h $.R "fact"}}</th><th>{{h $.R "causes"}}</th></tr>
{{- range .Rows}}
<tr><td>{{.Numero}}</td><td>{{.Type}}</td><td>{{.Fact}}</td><td>{{.Causes}}</td></tr>
{{- end}}
</table>
{{- end}}
{{- with $.R.Unreachable}}
<p class="warning">{{h $.R "unreachable"}}: {{range $i, $n := .}}{{if $i}}, {{end}}{{$n}}{{end}}</p>
{{- end}}
{{- end}}
{{- with .R.Actions}}
<h2>{{h $.R "action_plan"}}</h2>
<table>
<tr><th>ID</th><th>{{h $.R "description"}}</th><th>{{h $.R "responsible"}}</th><th>{{h $.R "due_date"}}</th><th>{{h $.R "status"}}</th><th>{{h $.R "causes"}}</th></tr>
{{- range .}}
<tr><td>{{.ID}}</td><td>{{.Description}}</td><td>{{.Responsible}}</td><td>{{.DueDate}}</td><td>{{.Status}}</td><td>{{.Causes}}</td></tr>
{{- end}}
</table>
{{- end}}
{{- with .R.Final}}
<h2>{{h $.R "final_report"}}</h2>
{{- if .ClosedAt}}
<p><strong>{{h $.R "closed_at"}}:</strong> {{.ClosedAt}}</p>
{{- end}}
<h3>{{h $.R "conclusions"}}</h3>
<p>{{.Conclusions}}</p>
{{- with .LessonsLearned}}
<h3>{{h $.R "lessons_learned"}}</h3>
<ul>
{{- range .}}
<li>{{.}}</li>
{{- end}}
</ul>
{{- end}}
{{- end}}
</body>
</html>
`))

func renderHTML(w io.Writer, r report) error {
	return htmlTemplate.Execute(w, struct {
		Lang string
		R    report
	}{
		Lang: r.Locale.Tag().String(),
		R:    r,
	})
}
