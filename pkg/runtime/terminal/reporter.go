package terminal

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/template"
	"time"

	"github.com/de-tools/grid-weekly-report/pkg/calendar"
	"github.com/de-tools/grid-weekly-report/pkg/models/api"
	"github.com/de-tools/grid-weekly-report/pkg/models/domain"
)

type TableConfig struct {
	WeekWidth   int
	DateWidth   int
	StatusWidth int
	FileWidth   int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		WeekWidth:   6,
		DateWidth:   10,
		StatusWidth: 8,
		FileWidth:   60,
	}
}

const outcomesTemplate = `
{{separator}}
{{row "Week" "Start" "End" "Status" "File"}}
{{separator}}
{{range .}}{{row (weekNum .Window.Start) (day .Window.Start) (day .Window.End) (status .) .File}}
{{end}}{{separator}}
{{range .}}{{if .Degraded}}{{day .Window.Start}} defaulted sections: {{join .Degraded}}
{{end}}{{if .Err}}{{day .Window.Start}} error: {{.Err}}
{{end}}{{range .Exports}}  exported {{.}}
{{end}}{{end}}
{{summary .}}
`

// Reporter prints week outcomes to the console as a table.
type Reporter struct {
	writer io.Writer
	config TableConfig
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{
		writer: writer,
		config: DefaultTableConfig(),
	}
}

func (c *Reporter) Handle(outcomes domain.Outcomes) error {
	funcMap := template.FuncMap{
		"row": func(week, start, end, status, file string) string {
			return fmt.Sprintf("| %-*s | %-*s | %-*s | %-*s | %-*s |",
				c.config.WeekWidth, week,
				c.config.DateWidth, start,
				c.config.DateWidth, end,
				c.config.StatusWidth, status,
				c.config.FileWidth, file)
		},
		"separator": func() string {
			return fmt.Sprintf("+%s+%s+%s+%s+%s+",
				strings.Repeat("-", c.config.WeekWidth+2),
				strings.Repeat("-", c.config.DateWidth+2),
				strings.Repeat("-", c.config.DateWidth+2),
				strings.Repeat("-", c.config.StatusWidth+2),
				strings.Repeat("-", c.config.FileWidth+2))
		},
		"weekNum": func(d time.Time) string {
			return strconv.Itoa(calendar.FinYearWeekNumber(d))
		},
		"day": func(d time.Time) string {
			return d.Format(calendar.DateLayout)
		},
		"status": func(o domain.WeekOutcome) string {
			if o.Success {
				return "done"
			}
			return "failed"
		},
		"join": func(sections []domain.Section) string {
			names := make([]string, len(sections))
			for i, s := range sections {
				names[i] = string(s)
			}
			return strings.Join(names, ", ")
		},
		"summary": func(o domain.Outcomes) string {
			if o.Succeeded() {
				return api.MessageDone
			}
			return api.MessageUnsuccessful
		},
	}

	t, err := template.New("outcomes").Funcs(funcMap).Parse(outcomesTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, outcomes)
}
