package handler

import (
	"html/template"
	"net/http"

	"membership/internal/errors"
	logs "membership/internal/infra/log"

	"github.com/labstack/echo/v4"
)

var logPage = template.Must(template.New("logs").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta http-equiv="refresh" content="2">
<title>Server logs</title>
<style>
body { font-family: monospace; background: #111; color: #ddd; margin: 1em; }
.entry { border-bottom: 1px solid #333; padding: 2px 0; }
.ERROR { color: #f66; } .WARN { color: #fc6; } .DEBUG { color: #888; }
.attr { color: #8ac; }
</style>
</head>
<body>
<h1>Server logs</h1>
<p>{{len .Entries}} of {{.Capacity}} entries, newest first</p>
{{range .Entries}}<div class="entry {{.Level}}">{{.Time.Format "2006-01-02T15:04:05.000Z07:00"}} [{{.Level}}] {{.Message}}{{range .Attrs}} <span class="attr">{{.Key}}={{.Value}}</span>{{end}}</div>
{{else}}<p>No log entries yet.</p>
{{end}}
</body>
</html>
`))

type logPageData struct {
	Entries  []logs.Entry
	Capacity int
}

// LogHandler renders the in-memory log buffer as an auto-refreshing page.
type LogHandler struct {
	buffer *logs.RingBuffer
}

// NewLogHandler creates a LogHandler reading from buffer
func NewLogHandler(buffer *logs.RingBuffer) *LogHandler {
	return &LogHandler{buffer: buffer}
}

// ViewLogs writes the buffered entries, newest first. Every value is HTML-escaped.
func (h *LogHandler) ViewLogs(c echo.Context) error {
	data := logPageData{
		Entries:  h.buffer.Entries(),
		Capacity: h.buffer.Cap(),
	}

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	res.Header().Set("Cache-Control", "no-store")
	res.WriteHeader(http.StatusOK)

	return errors.WithStack(logPage.Execute(res, data))
}
