/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: templates.go
Description: HTML template for the QueryCollect quiz page. Shows the input and output
tables of one round, the guess form and the streak counter.
*/

package server

// pageTemplate renders one quiz round
const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}}</title>
    <style>
        * {
            margin: 0;
            padding: 0;
            box-sizing: border-box;
        }

        body {
            font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif;
            background: linear-gradient(135deg, #667eea 0%, #764ba2 100%);
            min-height: 100vh;
            color: #333;
        }

        .container {
            max-width: 1200px;
            margin: 0 auto;
            padding: 20px;
        }

        .header {
            background: rgba(255, 255, 255, 0.95);
            border-radius: 20px;
            padding: 24px;
            margin-bottom: 24px;
            box-shadow: 0 8px 32px rgba(0, 0, 0, 0.1);
            display: flex;
            justify-content: space-between;
            align-items: center;
        }

        .header h1 {
            color: #4a5568;
            font-size: 2rem;
        }

        .streak {
            font-size: 1.2rem;
            font-weight: 600;
            color: #667eea;
        }

        .tables {
            display: grid;
            grid-template-columns: repeat(auto-fit, minmax(400px, 1fr));
            gap: 24px;
            margin-bottom: 24px;
        }

        .card {
            background: rgba(255, 255, 255, 0.95);
            border-radius: 15px;
            padding: 20px;
            box-shadow: 0 4px 16px rgba(0, 0, 0, 0.08);
            overflow-x: auto;
        }

        .card h2 {
            color: #4a5568;
            font-size: 1.2rem;
            margin-bottom: 12px;
        }

        table {
            width: 100%;
            border-collapse: collapse;
            font-family: 'Fira Code', monospace;
            font-size: 0.9rem;
        }

        th, td {
            padding: 6px 10px;
            border-bottom: 1px solid #e2e8f0;
            text-align: left;
            white-space: nowrap;
        }

        th {
            background: #edf2f7;
        }

        td.missing {
            color: #a0aec0;
            font-style: italic;
        }

        textarea {
            width: 100%;
            min-height: 90px;
            padding: 10px;
            border: 1px solid #cbd5e0;
            border-radius: 10px;
            font-family: 'Fira Code', monospace;
            margin-bottom: 12px;
        }

        .actions {
            display: flex;
            gap: 12px;
        }

        button {
            border: none;
            border-radius: 10px;
            padding: 10px 24px;
            font-size: 1rem;
            cursor: pointer;
            color: #fff;
            background: #667eea;
        }

        button.skip {
            background: #a0aec0;
        }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>{{.Title}}</h1>
            <span class="streak">Streak: <span id="streak">{{.Streak}}</span></span>
        </div>

        <div class="tables">
            {{template "table" .Input}}
            {{template "table" .Output}}
        </div>

        <div class="card">
            <h2>Which query turns the input into the output?</h2>
            <form id="guess" method="post" action="/add_query">
                <input type="hidden" name="query_type" value="{{.QueryType}}">
                <input type="hidden" name="streak" value="{{.Streak}}">
                <textarea name="query_input" maxlength="{{.MaxLength}}" placeholder="Describe the transformation..."></textarea>
                <div class="actions">
                    <button type="submit">Submit</button>
                </div>
            </form>
            <form id="skip" method="post" action="/skip">
                <input type="hidden" name="streak-break" value="0">
                <div class="actions">
                    <button class="skip" type="submit">Skip</button>
                </div>
            </form>
        </div>
    </div>
</body>
</html>

{{define "table"}}
<div class="card">
    <h2>{{.Caption}}</h2>
    <table class="{{.Class}}">
        <thead>
            <tr>{{range .Headers}}<th>{{.}}</th>{{end}}</tr>
        </thead>
        <tbody>
            {{range .Rows}}<tr>{{range .}}<td{{if .Missing}} class="missing"{{end}}>{{.Text}}</td>{{end}}</tr>
            {{end}}
        </tbody>
    </table>
</div>
{{end}}`
