package docx

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"regexp"
	"strings"
	"text/template"

	"github.com/de-tools/grid-weekly-report/pkg/format"
)

var (
	splitOpen   = regexp.MustCompile(`\{(?:<[^>]+>)+\{`)
	splitClose  = regexp.MustCompile(`\}(?:<[^>]+>)+\}`)
	action      = regexp.MustCompile(`(?s)\{\{.*?\}\}`)
	xmlTag      = regexp.MustCompile(`<[^>]+>`)
	assignment  = regexp.MustCompile(`^\$\w*\s*:?=`)
	smartQuotes = strings.NewReplacer("“", `"`, "”", `"`, "‘", "'", "’", "'")
)

var controlKeywords = []string{
	"range", "if", "else", "end", "with", "template", "define", "block", "break", "continue", "/*",
}

// Prepare turns a Word part containing template actions into Go template source.
//
// Word splits typed text into runs freely, so an action may arrive with run
// markup inside its braces; that markup is dropped. An action written as
// {{tr ...}} or {{p ...}} replaces its whole table row or paragraph, which
// lets range/end pairs repeat rows. Every action that prints a value is piped
// through xml escaping.
func Prepare(part string) string {
	part = splitOpen.ReplaceAllString(part, "{{")
	part = splitClose.ReplaceAllString(part, "}}")
	part = action.ReplaceAllStringFunc(part, func(a string) string {
		return smartQuotes.Replace(xmlTag.ReplaceAllString(a, ""))
	})
	part = hoist(part, "tr", "w:tr")
	part = hoist(part, "p", "w:p")
	return action.ReplaceAllStringFunc(part, escapeAction)
}

// hoist replaces the element enclosing every {{marker ...}} action with the bare action.
func hoist(part, marker, element string) string {
	prefix := "{{" + marker + " "
	for {
		at := strings.Index(part, prefix)
		if at < 0 {
			return part
		}
		end := strings.Index(part[at:], "}}")
		if end < 0 {
			return part
		}
		end += at + 2
		bare := "{{" + strings.TrimSpace(part[at+len(prefix):end-2]) + "}}"

		open := lastOpenTag(part[:at], element)
		closeTag := "</" + element + ">"
		closeAt := strings.Index(part[end:], closeTag)
		if open < 0 || closeAt < 0 {
			part = part[:at] + bare + part[end:]
			continue
		}
		closeAt += end + len(closeTag)
		part = part[:open] + bare + part[closeAt:]
	}
}

func lastOpenTag(s, element string) int {
	return max(strings.LastIndex(s, "<"+element+">"), strings.LastIndex(s, "<"+element+" "))
}

func escapeAction(a string) string {
	inner := a[2 : len(a)-2]
	left, right := "{{", "}}"
	if strings.HasPrefix(inner, "- ") {
		left, inner = "{{- ", inner[2:]
	}
	if strings.HasSuffix(inner, " -") {
		right, inner = " -}}", inner[:len(inner)-2]
	}
	body := strings.TrimSpace(inner)
	if body == "" || assignment.MatchString(body) {
		return a
	}
	for _, kw := range controlKeywords {
		if body == kw || strings.HasPrefix(body, kw+" ") || (kw == "/*" && strings.HasPrefix(body, kw)) {
			return a
		}
	}
	return left + "(" + body + ") | xml" + right
}

// escapeXML is the xml template func.
func escapeXML(v any) (string, error) {
	var buf bytes.Buffer
	if err := xml.EscapeText(&buf, []byte(fmt.Sprint(v))); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func funcMap() template.FuncMap {
	funcs := format.FuncMap()
	funcs["xml"] = escapeXML
	return funcs
}

func parsePart(name, part string) (*template.Template, error) {
	return template.New(name).Funcs(funcMap()).Option("missingkey=error").Parse(Prepare(part))
}
