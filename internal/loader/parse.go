package loader

import (
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	appLog "touhoucal/internal/log"
	"touhoucal/internal/model"
)

var requiredFields = []string{"month", "day", "name", "message", "explanation"}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report definition-file keys rather than Go field names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		return name
	})
	return v
}

// SourceName is the file name holding the definitions for month.
func SourceName(month int) string {
	return fmt.Sprintf("%d.yaml", month)
}

// ParseSource decodes every YAML document of one month file. Null documents
// (an empty file or a bare "---") contribute nothing.
func ParseSource(month int, r io.Reader) ([]model.Event, error) {
	source := SourceName(month)
	dec := yaml.NewDecoder(r)

	events := make([]model.Event, 0)
	for block := 1; ; block++ {
		var doc any
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s block %d: decoding yaml: %w", source, block, err)
		}
		if doc == nil {
			continue
		}

		fields, ok := toStringMap(doc)
		if !ok {
			return nil, &MalformedTypeError{Source: source, Block: block, Want: "mapping", Got: typeName(doc)}
		}

		ev, err := ParseBlock(source, block, fields)
		if err != nil {
			return nil, err
		}
		if ev.Month != month {
			appLog.Warn("event month does not match its source", "source", source, "block", block, "month", ev.Month, "name", ev.Name)
		}
		events = append(events, ev)
	}

	appLog.Debug("source parsed", "source", source, "events", len(events))
	return events, nil
}

// ParseBlock turns one definition mapping into an Event. It is the only
// place where field presence, shapes and values are checked.
func ParseBlock(source string, block int, doc map[string]any) (model.Event, error) {
	for _, key := range requiredFields {
		if _, ok := doc[key]; !ok {
			return model.Event{}, &MissingFieldError{Source: source, Block: block, Field: key}
		}
	}

	p := blockParser{source: source, block: block, doc: doc}
	ev := model.Event{
		Month:            p.integer("month"),
		Day:              p.integer("day"),
		Name:             p.text("name"),
		Message:          p.text("message"),
		Explanation:      p.text("explanation"),
		ExplanationShort: p.optionalText("explanation_short"),
		Characters:       p.characters(),
		Citations:        p.citations(),
	}
	if p.err != nil {
		return model.Event{}, p.err
	}

	if err := validate.Struct(ev); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return model.Event{}, &MalformedTypeError{
				Source: source,
				Block:  block,
				Field:  fe.Field(),
				Want:   constraint(fe),
				Got:    fmt.Sprintf("%#v", fe.Value()),
			}
		}
		return model.Event{}, fmt.Errorf("%s block %d: %w", source, block, err)
	}

	if !ev.ValidDate() {
		return model.Event{}, &InvalidDateError{Source: source, Block: block, Month: ev.Month, Day: ev.Day}
	}

	return ev, nil
}

// blockParser reads typed fields out of a decoded mapping and keeps the
// first shape error it meets.
type blockParser struct {
	source string
	block  int
	doc    map[string]any
	err    error
}

func (p *blockParser) fail(field, want string, got any) {
	if p.err != nil {
		return
	}
	p.err = &MalformedTypeError{Source: p.source, Block: p.block, Field: field, Want: want, Got: typeName(got)}
}

func (p *blockParser) integer(field string) int {
	n, ok := p.doc[field].(int)
	if !ok {
		p.fail(field, "integer", p.doc[field])
	}
	return n
}

func (p *blockParser) text(field string) string {
	s, ok := p.doc[field].(string)
	if !ok {
		p.fail(field, "string", p.doc[field])
	}
	return s
}

func (p *blockParser) optionalText(field string) *string {
	v, ok := p.doc[field]
	if !ok || v == nil {
		return nil
	}
	s, ok := v.(string)
	if !ok {
		p.fail(field, "string", v)
		return nil
	}
	return &s
}

// characters keeps list items in order; non-string scalars are kept by
// their printed form.
func (p *blockParser) characters() []string {
	items := p.listOrEmpty("characters")
	return lo.Map(items, func(item any, _ int) string {
		if s, ok := item.(string); ok {
			return s
		}
		return fmt.Sprint(item)
	})
}

// citations keeps mapping items and drops anything else.
func (p *blockParser) citations() []model.Citation {
	items := p.listOrEmpty("citations")
	return lo.FilterMap(items, func(item any, _ int) (model.Citation, bool) {
		m, ok := toStringMap(item)
		return model.Citation(m), ok
	})
}

// listOrEmpty is the parse-or-default rule for the optional list fields:
// a value that is not a sequence becomes an empty list, never an error.
// Existing definition files rely on this leniency.
func (p *blockParser) listOrEmpty(field string) []any {
	v, ok := p.doc[field]
	if !ok || v == nil {
		return nil
	}
	items, ok := v.([]any)
	if !ok {
		appLog.Warn("ignoring non-list field", "source", p.source, "block", p.block, "field", field, "type", typeName(v))
		return nil
	}
	return items
}

func toStringMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[fmt.Sprint(k)] = val
		}
		return out, true
	default:
		return nil, false
	}
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case int, int64, uint64:
		return "integer"
	case float64:
		return "float"
	case bool:
		return "boolean"
	case []any:
		return "sequence"
	case map[string]any, map[any]any:
		return "mapping"
	default:
		return fmt.Sprintf("%T", v)
	}
}

func constraint(fe validator.FieldError) string {
	if fe.Param() == "" {
		return fe.Tag()
	}
	return fe.Tag() + "=" + fe.Param()
}
