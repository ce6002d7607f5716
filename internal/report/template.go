package report

// briefingTemplate is the HTML template for the market briefing.
// It is embedded as a Go constant — no external file dependencies.
const briefingTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.Title}}</title>
<style>
  :root {
    --bg: #ffffff;
    --text: #1a1a2e;
    --muted: #6b7280;
    --border: #e5e7eb;
    --accent: #2563eb;
    --section-bg: #f8fafc;
  }
  * { margin: 0; padding: 0; box-sizing: border-box; }
  body {
    font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
    color: var(--text);
    background: var(--bg);
    line-height: 1.6;
    max-width: 900px;
    margin: 0 auto;
    padding: 20px;
  }
  h1, h2, h3 { font-weight: 600; }
  h1 { font-size: 1.5rem; margin-bottom: 4px; }
  h2 { font-size: 1.2rem; margin: 24px 0 12px; padding-bottom: 6px; border-bottom: 2px solid var(--accent); }
  h3 { font-size: 1rem; margin: 16px 0 8px; }
  .muted { color: var(--muted); font-size: 0.85rem; }

  .header {
    display: flex;
    justify-content: space-between;
    align-items: flex-start;
    border-bottom: 3px solid var(--accent);
    padding-bottom: 12px;
    margin-bottom: 16px;
  }
  .header-left h1 { color: var(--accent); }
  .header-right { text-align: right; }
  .country-badge {
    display: inline-block;
    background: var(--accent);
    color: white;
    padding: 2px 12px;
    border-radius: 4px;
    font-weight: 700;
    font-size: 1.1rem;
    margin-right: 8px;
  }

  .request-bar {
    display: grid;
    grid-template-columns: repeat(auto-fill, minmax(160px, 1fr));
    gap: 8px;
    background: var(--section-bg);
    padding: 12px;
    border-radius: 8px;
    margin-bottom: 16px;
  }
  .request-item { text-align: center; }
  .request-item .label { font-size: 0.75rem; color: var(--muted); text-transform: uppercase; }
  .request-item .value { font-size: 1rem; font-weight: 600; }

  .dominance-section { margin-bottom: 8px; }
  .metric-label { color: var(--muted); font-size: 0.85rem; margin-bottom: 8px; }

  table { width: 100%; border-collapse: collapse; margin: 8px 0 16px; font-size: 0.9rem; }
  th { background: var(--section-bg); text-align: left; padding: 8px; font-weight: 600; }
  td { padding: 8px; border-bottom: 1px solid var(--border); }

  .sources { margin-top: 24px; padding-top: 12px; border-top: 1px solid var(--border); }
  .source-badge {
    display: inline-block;
    background: var(--section-bg);
    border: 1px solid var(--border);
    border-radius: 12px;
    padding: 2px 10px;
    margin-right: 6px;
    font-size: 0.8rem;
  }
</style>
</head>
<body>

<div class="header">
  <div class="header-left">
    <h1>{{.Title}}</h1>
    <p class="muted">{{.Subtitle}}</p>
  </div>
  <div class="header-right">
    <span class="country-badge">{{.CountryCode}}</span>
    <p class="muted">{{.GeneratedAt}}</p>
  </div>
</div>

<div class="request-bar">
  <div class="request-item"><div class="label">Item</div><div class="value">{{.Item}}</div></div>
  {{if .HSCode}}<div class="request-item"><div class="label">HS Code</div><div class="value">{{.HSCode}}</div></div>{{end}}
  <div class="request-item"><div class="label">Research Types</div><div class="value">{{.ResearchTypes}}</div></div>
</div>

{{range .Sections}}
<div class="dominance-section">
  <h2>{{.DisplayLabel}}</h2>
  <p class="metric-label">{{.MetricLabel}}</p>
  {{.ChartSVG}}
</div>
{{end}}

{{if .Companies}}
<h2>Recommended Companies</h2>
<table>
  <tr><th>Company</th><th>Country</th><th>Products / HS</th><th>Contact Source</th><th>Reason</th></tr>
  {{range .Companies}}
  <tr>
    <td>{{.Name}}</td>
    <td>{{.Country}}</td>
    <td>{{.Products}}</td>
    <td>{{.ContactSource}}</td>
    <td>{{.Reason}}</td>
  </tr>
  {{end}}
</table>
{{end}}

<div class="sources">
  <p class="muted">Data sources</p>
  {{range .DataSources}}<span class="source-badge">{{.}}</span>{{end}}
</div>

</body>
</html>
`
