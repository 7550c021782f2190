package validation

import (
	"strings"

	"github.com/vanotis720/SampleTaskAPI/internal/translator"
)

type Failure struct {
	Field     string
	MessageID string
	Params    map[string]interface{}
}

// Errors collects the failing rule of every invalid field, in schema order.
type Errors struct {
	failures []Failure
}

func NewErrors() *Errors {
	return &Errors{}
}

func (e *Errors) Add(field, messageID string, params map[string]interface{}) {
	e.failures = append(e.failures, Failure{Field: field, MessageID: messageID, Params: params})
}

func (e *Errors) Len() int {
	return len(e.failures)
}

func (e *Errors) Has(field string) bool {
	for _, f := range e.failures {
		if f.Field == field {
			return true
		}
	}
	return false
}

func (e *Errors) Fields() []string {
	fields := make([]string, 0, len(e.failures))
	for _, f := range e.failures {
		fields = append(fields, f.Field)
	}
	return fields
}

func (e *Errors) First(lang string) string {
	if len(e.failures) == 0 {
		return ""
	}
	return e.render(lang, e.failures[0])
}

// Summary is the first message followed by a count of the remaining ones.
func (e *Errors) Summary(lang string) string {
	first := e.First(lang)
	remaining := len(e.failures) - 1
	switch {
	case remaining <= 0:
		return first
	case remaining == 1:
		return translator.Localize(lang, "validationSummaryOne", map[string]interface{}{"First": first, "Count": remaining})
	default:
		return translator.Localize(lang, "validationSummaryMany", map[string]interface{}{"First": first, "Count": remaining})
	}
}

func (e *Errors) Messages(lang string) map[string][]string {
	messages := make(map[string][]string, len(e.failures))
	for _, f := range e.failures {
		messages[f.Field] = append(messages[f.Field], e.render(lang, f))
	}
	return messages
}

func (e *Errors) Error() string {
	return e.Summary(translator.LanguageEn)
}

func (e *Errors) render(lang string, f Failure) string {
	data := make(map[string]interface{}, len(f.Params)+1)
	for k, v := range f.Params {
		data[k] = v
	}
	data["Attribute"] = attributeName(f.Field)
	return translator.Localize(lang, f.MessageID, data)
}

func attributeName(field string) string {
	return strings.ReplaceAll(field, "_", " ")
}
