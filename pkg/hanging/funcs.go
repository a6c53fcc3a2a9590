package hanging

import (
	"fmt"
	"html/template"
	texttemplate "text/template"
)

// FilterName is the name the filter is registered under in templates.
const FilterName = "hanging"

// FuncMap returns the filter as an html/template function. Plain values are
// escaped before processing; template.HTML values are trusted as markup.
func (f *Filter) FuncMap() template.FuncMap {
	return template.FuncMap{FilterName: f.conditional}
}

// TextFuncMap returns the filter as a text/template function. text/template
// does not autoescape, so input is always treated as markup.
func (f *Filter) TextFuncMap() texttemplate.FuncMap {
	return texttemplate.FuncMap{FilterName: func(s string) (string, error) {
		out, err := f.Hanging(s, false)
		return string(out), err
	}}
}

func (f *Filter) conditional(v any) (template.HTML, error) {
	switch s := v.(type) {
	case template.HTML:
		return f.Hanging(string(s), false)
	case string:
		return f.Hanging(s, true)
	case nil:
		return "", nil
	default:
		return f.Hanging(fmt.Sprint(s), true)
	}
}
