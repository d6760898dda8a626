/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: templates.go
Description: HTML template for the descriptor report page.
*/

package reporting

// reportTemplate is the page written to index.html
const reportTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{if .Title}}{{.Title}} - {{end}}Tabby Schema Report</title>
    <script src="https://cdn.jsdelivr.net/npm/chart.js"></script>
    <style>
        * {
            margin: 0;
            padding: 0;
            box-sizing: border-box;
        }

        body {
            font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif;
            background: #f4f5f9;
            color: #333;
        }

        .container {
            max-width: 1200px;
            margin: 0 auto;
            padding: 20px;
        }

        .header, .card {
            background: #fff;
            border-radius: 12px;
            padding: 25px;
            margin-bottom: 25px;
            box-shadow: 0 4px 16px rgba(0, 0, 0, 0.08);
        }

        .header h1 {
            color: #4a5568;
            font-size: 2rem;
            margin-bottom: 8px;
        }

        .header p, .label {
            color: #718096;
        }

        .stats-grid {
            display: grid;
            grid-template-columns: repeat(auto-fit, minmax(200px, 1fr));
            gap: 20px;
            margin-bottom: 25px;
        }

        .value {
            font-size: 2rem;
            font-weight: 700;
            color: #2d3748;
        }

        table {
            width: 100%;
            border-collapse: collapse;
        }

        th, td {
            text-align: left;
            padding: 8px 12px;
            border-bottom: 1px solid #e2e8f0;
        }

        td.path {
            font-family: monospace;
        }

        tr.optional td {
            color: #b7791f;
        }

        pre {
            background: #2d3748;
            color: #e2e8f0;
            padding: 15px;
            border-radius: 8px;
            overflow-x: auto;
        }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>{{if .Title}}{{.Title}}{{else}}Schema Report{{end}}</h1>
            <p>Generated on {{.GeneratedAt.Format "January 2, 2006 at 3:04 PM"}} | Run: {{.RunID}} | Version: {{.Version}}</p>
            {{if .Source}}<p>Source: {{.Source}}</p>{{end}}
        </div>

        <div class="stats-grid">
            <div class="card"><div class="value">{{.Records}}</div><div class="label">Records</div></div>
            <div class="card"><div class="value">{{.Stats.Fields}}</div><div class="label">Fields</div></div>
            <div class="card"><div class="value">{{.Stats.Optional}}</div><div class="label">Optional</div></div>
            <div class="card"><div class="value">{{.Stats.Mixed}}</div><div class="label">Mixed Kinds</div></div>
        </div>

        <div class="card">
            <canvas id="kindChart"></canvas>
        </div>

        <div class="card">
            <table>
                <thead>
                    <tr><th>Path</th><th>Types</th><th>Required</th><th>Distinct</th><th>Count</th></tr>
                </thead>
                <tbody>
                    {{range .Fields}}
                    <tr{{if not .Required}} class="optional"{{end}}>
                        <td class="path">{{.Path}}</td>
                        <td>{{range $i, $k := .Kinds}}{{if $i}} | {{end}}{{$k}}{{end}}</td>
                        <td>{{if .Required}}yes{{else}}no{{end}}</td>
                        <td>{{.Distinct}}</td>
                        <td>{{.Count}}</td>
                    </tr>
                    {{end}}
                </tbody>
            </table>
        </div>

        {{if .Schema}}
        <div class="card">
            <pre>{{.Schema}}</pre>
        </div>
        {{end}}
    </div>

    <script>
        new Chart(
            document.getElementById('kindChart'),
            {{.KindChart | json}}
        );
    </script>
</body>
</html>`
