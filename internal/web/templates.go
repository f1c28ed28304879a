package web

import (
	"html/template"

	"QuoteAdjuster/internal/export"
)

var pageTmpl = template.Must(template.New("page").Funcs(template.FuncMap{
	"num": export.FormatFloat,
}).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Yahoo Finance Adjusted Data Downloader</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; font-size: 0.9em; }
th, td { border: 1px solid #ccc; padding: 2px 8px; text-align: right; }
.error { color: #b00; }
.success { color: #070; }
</style>
</head>
<body>
<h1>Yahoo Finance Adjusted Data Downloader</h1>
<form method="post" action="/">
  <p><label>Enter ticker symbols separated by commas (e.g., AAPL, MSFT, BTC-USD):<br>
  <input type="text" name="tickers" size="60" value="{{.Tickers}}"></label></p>
  <p><label>Start Date <input type="date" name="start" value="{{.Start}}"></label>
  <label>End Date <input type="date" name="end" value="{{.End}}"></label></p>
  <p><button type="submit">Download Data</button></p>
</form>
{{if .Error}}<p class="error">{{.Error}}</p>{{end}}
{{if .Table}}
<p class="success">Data downloaded and adjusted successfully!</p>
<p>{{range $i, $d := .Downloads}}{{if $i}} | {{end}}<a href="{{$d.Href}}" download="{{$d.Name}}">{{$d.Label}}</a>{{end}}</p>
<table>
<tr>{{range .Header}}<th>{{.}}</th>{{end}}</tr>
{{range .Table.Rows}}<tr><td>{{.Ticker}}</td><td>{{.Period}}</td><td>{{.Date}}</td><td>{{num .Open}}</td><td>{{num .High}}</td><td>{{num .Low}}</td><td>{{num .Close}}</td><td>{{.Volume}}</td></tr>
{{end}}</table>
{{end}}
</body>
</html>
`))
