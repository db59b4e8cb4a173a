package report

import (
	"html/template"
	"io"

	"golang-ledger-summary-service/internal/summarize"
	"golang-ledger-summary-service/pkg/errors"
)

// HTMLRenderer writes the result as a standalone HTML document with
// expandable drill-downs under each summary row and a filter form populated
// from the full-dataset options.
type HTMLRenderer struct {
	template *template.Template
}

// NewHTMLRenderer parses the embedded page template.
func NewHTMLRenderer() (*HTMLRenderer, error) {
	tmpl, err := template.New("summary").Funcs(template.FuncMap{
		"currency": FormatCurrency,
	}).Parse(summaryPage)
	if err != nil {
		return nil, errors.InternalError("html template parsing", err)
	}
	return &HTMLRenderer{template: tmpl}, nil
}

func (r *HTMLRenderer) Render(w io.Writer, result *summarize.SummaryResult) error {
	if err := r.template.Execute(w, result); err != nil {
		return errors.InternalError("html rendering", err)
	}
	return nil
}

const summaryPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Ledger summary {{.Month.Format "January 2006"}}</title>
<style>
body { font-family: sans-serif; margin: 2rem; }
table { border-collapse: collapse; margin-bottom: 2rem; }
th, td { border: 1px solid #ccc; padding: 0.3rem 0.6rem; text-align: right; }
th:first-child, td:first-child { text-align: left; }
tr.totals { font-weight: bold; background: #f0f0f0; }
details { margin: 0.2rem 0; }
</style>
</head>
<body>
<h1>Ledger summary for {{.Month.Format "January 2006"}}</h1>

<form method="get">
<label>Start date
<select name="start_date"><option value=""></option>
{{range .FilterOptions.Dates}}<option>{{.}}</option>{{end}}
</select></label>
<label>End date
<select name="end_date"><option value=""></option>
{{range .FilterOptions.Dates}}<option>{{.}}</option>{{end}}
</select></label>
<fieldset><legend>Statuses</legend>
{{range .FilterOptions.Statuses}}<label><input type="checkbox" name="statuses" value="{{.}}"> {{.}}</label>{{end}}
</fieldset>
<label>Sort by
<select name="sort_by">
<option value="none">none</option>
<option value="approved_count_desc">approved count desc</option>
<option value="rejected_count_desc">rejected count desc</option>
</select></label>
<button type="submit">Apply</button>
</form>

{{if not .HasTables}}
<p>No statuses selected. Choose at least one status to build the summary tables.</p>
{{else}}

<h2>By customer email</h2>
<table>
<tr><th>Email</th><th>Approved</th><th>Approved sum</th><th>Rejected</th><th>Rejected sum</th><th>Total</th><th>Total sum</th></tr>
{{range .ByEmail.Rows}}
<tr>
<td><details><summary>{{.Email}}</summary>
{{range .Details}}<div>{{.Date}} · order {{.OrderID}} · account {{.AccountNumber}} · card {{.CardLast4}} · {{currency .Amount}} · {{.Status}}</div>{{end}}
</details></td>
<td>{{.ApprovedCount}}</td><td>{{currency .ApprovedSum}}</td>
<td>{{.RejectedCount}}</td><td>{{currency .RejectedSum}}</td>
<td>{{.TotalCount}}</td><td>{{currency .TotalSum}}</td>
</tr>
{{end}}
<tr class="totals"><td>Total</td>
<td>{{.ByEmail.Totals.ApprovedCount}}</td><td>{{currency .ByEmail.Totals.ApprovedSum}}</td>
<td>{{.ByEmail.Totals.RejectedCount}}</td><td>{{currency .ByEmail.Totals.RejectedSum}}</td>
<td>{{.ByEmail.Totals.TotalCount}}</td><td>{{currency .ByEmail.Totals.TotalSum}}</td>
</tr>
</table>

<h2>By account number</h2>
<table>
<tr><th>Account</th><th>Approved</th><th>Approved sum</th><th>Rejected</th><th>Rejected sum</th><th>Total</th><th>Total sum</th></tr>
{{range .ByAccount.Rows}}
<tr>
<td><details><summary>{{.AccountNumber}}</summary>
{{range .Emails}}<div>{{.}}</div>{{end}}
</details></td>
<td>{{.ApprovedCount}}</td><td>{{currency .ApprovedSum}}</td>
<td>{{.RejectedCount}}</td><td>{{currency .RejectedSum}}</td>
<td>{{.TotalCount}}</td><td>{{currency .TotalSum}}</td>
</tr>
{{end}}
<tr class="totals"><td>Total</td>
<td>{{.ByAccount.Totals.ApprovedCount}}</td><td>{{currency .ByAccount.Totals.ApprovedSum}}</td>
<td>{{.ByAccount.Totals.RejectedCount}}</td><td>{{currency .ByAccount.Totals.RejectedSum}}</td>
<td>{{.ByAccount.Totals.TotalCount}}</td><td>{{currency .ByAccount.Totals.TotalSum}}</td>
</tr>
</table>

<h2>Distinct emails by account number</h2>
<table>
<tr><th>Account</th><th>Approved emails</th><th>Rejected emails</th><th>Total</th></tr>
{{range .ByDistinctEmail.Rows}}
<tr>
<td><details><summary>{{.AccountNumber}}</summary>
{{range .Emails}}<div>{{.}}</div>{{end}}
</details></td>
<td>{{.ApprovedEmails}}</td><td>{{.RejectedEmails}}</td><td>{{.TotalEmails}}</td>
</tr>
{{end}}
<tr class="totals"><td>Total</td>
<td>{{.ByDistinctEmail.Totals.ApprovedEmails}}</td>
<td>{{.ByDistinctEmail.Totals.RejectedEmails}}</td>
<td>{{.ByDistinctEmail.Totals.TotalEmails}}</td>
</tr>
</table>

{{end}}
</body>
</html>
`
