package webui

import (
	"html/template"
)

// Templates contains all HTML templates for the web UI
var Templates = template.Must(template.New("").Funcs(template.FuncMap{
	"severityClass": func(severity string) string {
		switch severity {
		case "critical":
			return "sev-critical"
		case "warning":
			return "sev-warning"
		default:
			return "sev-info"
		}
	},
}).Parse(`
{{define "style"}}
<style>
    :root {
        --bg-primary: #0d1117;
        --bg-secondary: #161b22;
        --bg-tertiary: #21262d;
        --border-color: #30363d;
        --text-primary: #e6edf3;
        --text-secondary: #8b949e;
        --accent-green: #3fb950;
        --accent-green-dim: #238636;
        --accent-red: #f85149;
        --accent-yellow: #d29922;
        --accent-blue: #58a6ff;
    }

    * {
        margin: 0;
        padding: 0;
        box-sizing: border-box;
    }

    body {
        font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', sans-serif;
        background: var(--bg-primary);
        color: var(--text-primary);
        line-height: 1.6;
        min-height: 100vh;
    }

    .container {
        max-width: 900px;
        margin: 0 auto;
        padding: 2rem;
    }

    header {
        display: flex;
        justify-content: space-between;
        align-items: center;
        margin-bottom: 2rem;
        padding-bottom: 1.5rem;
        border-bottom: 1px solid var(--border-color);
    }

    header h1 {
        font-size: 1.5rem;
    }

    header nav a {
        color: var(--accent-blue);
        text-decoration: none;
        margin-left: 1rem;
    }

    .card {
        background: var(--bg-secondary);
        border: 1px solid var(--border-color);
        border-radius: 8px;
        padding: 1.5rem;
        margin-bottom: 1.5rem;
    }

    .banner {
        padding: 0.75rem 1rem;
        border-radius: 6px;
        margin-bottom: 1.5rem;
    }

    .banner-success {
        background: rgba(63, 185, 80, 0.15);
        border: 1px solid var(--accent-green-dim);
        color: var(--accent-green);
    }

    .banner-error {
        background: rgba(248, 81, 73, 0.15);
        border: 1px solid var(--accent-red);
        color: var(--accent-red);
    }

    label {
        display: block;
        margin-bottom: 0.25rem;
        color: var(--text-secondary);
        font-size: 0.875rem;
    }

    input, select, textarea {
        width: 100%;
        padding: 0.5rem 0.75rem;
        margin-bottom: 1rem;
        background: var(--bg-tertiary);
        border: 1px solid var(--border-color);
        border-radius: 6px;
        color: var(--text-primary);
        font-size: 0.9rem;
    }

    .pair-row {
        display: flex;
        gap: 0.5rem;
    }

    button {
        background: var(--accent-green-dim);
        color: #fff;
        border: none;
        border-radius: 6px;
        padding: 0.6rem 1.25rem;
        font-size: 0.9rem;
        cursor: pointer;
    }

    button.secondary {
        background: var(--bg-tertiary);
        border: 1px solid var(--border-color);
    }

    button.danger {
        background: var(--accent-red);
    }

    table {
        width: 100%;
        border-collapse: collapse;
    }

    th, td {
        text-align: left;
        padding: 0.5rem 0.75rem;
        border-bottom: 1px solid var(--border-color);
        font-size: 0.875rem;
    }

    th {
        color: var(--text-secondary);
        font-weight: 500;
    }

    .sev-critical { color: var(--accent-red); }
    .sev-warning { color: var(--accent-yellow); }
    .sev-info { color: var(--accent-blue); }

    .muted {
        color: var(--text-secondary);
        font-size: 0.8rem;
    }
</style>
{{end}}

{{define "index"}}
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>ADAM - Alert Generator</title>
    {{template "style"}}
</head>
<body>
    <div class="container">
        <header>
            <h1>ADAM &mdash; Alert Generator</h1>
            <nav>
                <a href="/">New Alert</a>
                <a href="/alerts-ui">Tracked Alerts</a>
            </nav>
        </header>

        {{if .Message}}
        <div class="banner banner-{{.MessageType}}">{{.Message}}</div>
        {{end}}

        <div class="card">
            <form method="POST" action="/">
                <label for="summary">Summary</label>
                <input type="text" id="summary" name="summary" list="summary-history" value="{{.Form.Summary}}" required>
                <datalist id="summary-history">
                    {{range .History.Summaries}}<option value="{{.}}">{{end}}
                </datalist>

                <label for="description">Description</label>
                <input type="text" id="description" name="description" list="description-history" value="{{.Form.Description}}" required>
                <datalist id="description-history">
                    {{range .History.Descriptions}}<option value="{{.}}">{{end}}
                </datalist>

                <label for="severity">Severity</label>
                <select id="severity" name="severity" required>
                    <option value="" {{if not .Form.Severity}}selected{{end}}>Select severity</option>
                    <option value="info" {{if eq .Form.Severity "info"}}selected{{end}}>info</option>
                    <option value="warning" {{if eq .Form.Severity "warning"}}selected{{end}}>warning</option>
                    <option value="critical" {{if eq .Form.Severity "critical"}}selected{{end}}>critical</option>
                </select>

                <label for="duration">Duration (e.g. 10s, 5m, 1h)</label>
                <input type="text" id="duration" name="duration" list="duration-history" value="{{.Form.Duration}}" required>
                <datalist id="duration-history">
                    {{range .History.Durations}}<option value="{{.}}">{{end}}
                </datalist>

                <label for="service">Service</label>
                <input type="text" id="service" name="service" list="service-history" value="{{.Form.Service}}" required>
                <datalist id="service-history">
                    {{range .History.Services}}<option value="{{.}}">{{end}}
                </datalist>

                <label>Custom labels</label>
                {{range .Form.LabelPairs}}
                <div class="pair-row">
                    <input type="text" name="label_keys" placeholder="key" value="{{.Key}}">
                    <input type="text" name="label_values" placeholder="value" value="{{.Value}}">
                </div>
                {{end}}
                <div class="pair-row">
                    <input type="text" name="label_keys" placeholder="key">
                    <input type="text" name="label_values" placeholder="value">
                </div>

                <label>Custom annotations</label>
                {{range .Form.AnnotationPairs}}
                <div class="pair-row">
                    <input type="text" name="annotation_keys" placeholder="key" value="{{.Key}}">
                    <input type="text" name="annotation_values" placeholder="value" value="{{.Value}}">
                </div>
                {{end}}
                <div class="pair-row">
                    <input type="text" name="annotation_keys" placeholder="key">
                    <input type="text" name="annotation_values" placeholder="value">
                </div>

                <button type="submit">Fire Alert</button>
            </form>
        </div>

        <p class="muted">Alertmanager: {{.AlertmanagerURL}} &middot; version {{.Version}}</p>
    </div>
</body>
</html>
{{end}}

{{define "alerts"}}
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>ADAM - Tracked Alerts</title>
    {{template "style"}}
</head>
<body>
    <div class="container">
        <header>
            <h1>Tracked Alerts ({{.Total}})</h1>
            <nav>
                <a href="/">New Alert</a>
                <a href="/alerts-ui">Tracked Alerts</a>
            </nav>
        </header>

        {{if .Message}}
        <div class="banner banner-{{.MessageType}}">{{.Message}}</div>
        {{end}}

        <div class="card">
            <form method="POST" action="/bulk-generate" style="display:flex; gap:0.5rem; align-items:flex-end;">
                <div>
                    <label for="count">Count</label>
                    <input type="number" id="count" name="count" value="10" min="1" style="margin-bottom:0;">
                </div>
                <div>
                    <label for="bulk-duration">Duration</label>
                    <input type="text" id="bulk-duration" name="duration" value="5m" style="margin-bottom:0;">
                </div>
                <button type="submit" class="secondary">Bulk Generate</button>
            </form>
        </div>

        <div class="card">
            {{if .Alerts}}
            <table>
                <tr>
                    <th>Summary</th>
                    <th>Service</th>
                    <th>Severity</th>
                    <th>Duration</th>
                    <th>Sent</th>
                    <th></th>
                </tr>
                {{range .Alerts}}
                <tr>
                    <td>{{.Summary}}</td>
                    <td>{{.Service}}</td>
                    <td class="{{severityClass .Severity}}">{{.Severity}}</td>
                    <td>{{.Duration}}</td>
                    <td class="muted">{{.SentAt.Format "15:04:05"}}</td>
                    <td>
                        <form method="POST" action="/resolve-alert/{{.ID}}">
                            <button type="submit" class="secondary">Resolve</button>
                        </form>
                    </td>
                </tr>
                {{end}}
            </table>
            {{else}}
            <p class="muted">No tracked alerts.</p>
            {{end}}
        </div>

        <form method="POST" action="/close-all-alerts">
            <button type="submit" class="danger">Close All Alerts</button>
        </form>

        <p class="muted" style="margin-top:1rem;">Alerts directory: {{.AlertsDir}}</p>
    </div>
</body>
</html>
{{end}}
`))
