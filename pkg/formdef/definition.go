package formdef

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/formguard/pkg/validation"
	"github.com/dmitrymomot/formguard/pkg/validator"
)

// File is a parsed definition file.
type File struct {
	Forms map[string]*Definition `yaml:"forms"`
}

// Definition declares one form.
type Definition struct {
	Name     string                     `yaml:"-"`
	Settings Settings                   `yaml:"settings"`
	Rules    map[string]validation.Rule `yaml:"rules"`
	Fields   []FieldDef                 `yaml:"fields"`
}

// Settings mirrors validation.Settings with YAML names.
type Settings struct {
	MessagesPlace    string            `yaml:"messages_place"`
	StopOnError      bool              `yaml:"stop_on_error"`
	FieldBind        string            `yaml:"field_bind"`
	ErrorTime        time.Duration     `yaml:"error_time"`
	ErrorPlacePrefix string            `yaml:"error_place_prefix"`
	ErrorCSS         map[string]string `yaml:"error_css"`
	ErrorEffect      string            `yaml:"error_effect"`
	Language         string            `yaml:"language"`
}

// FieldDef is a named field in declaration order.
type FieldDef struct {
	Name             string `yaml:"name"`
	validation.Field `yaml:",inline"`
}

// Parse decodes and checks a definition file.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.Join(ErrInvalidDefinition, err)
	}
	if err := f.check(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Load reads and parses a definition file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Join(ErrReadFile, err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Form returns the named definition.
func (f *File) Form(name string) (*Definition, error) {
	d, ok := f.Forms[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrFormNotFound, name)
	}
	return d, nil
}

// Names returns the declared form names in lexical order.
func (f *File) Names() []string {
	names := make([]string, 0, len(f.Forms))
	for name := range f.Forms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Verify builds every declared rule against catalog so that unknown kinds
// and bad parameters surface at load time.
func (f *File) Verify(catalog *validator.Catalog) error {
	var errs []error
	for _, form := range f.Names() {
		for name, rule := range f.Forms[form].Rules {
			kind := rule.Kind
			if kind == "" {
				kind = name
			}
			if _, err := catalog.Build(kind, rule.Params); err != nil {
				errs = append(errs, fmt.Errorf("form %q rule %q: %w", form, name, err))
			}
		}
	}
	return errors.Join(errs...)
}

// Config converts the definition into a container seed.
func (d *Definition) Config() validation.Config {
	st := validation.Settings{
		MessagesPlace:    d.Settings.MessagesPlace,
		StopOnError:      d.Settings.StopOnError,
		FieldBind:        d.Settings.FieldBind,
		ErrorTime:        d.Settings.ErrorTime,
		ErrorPlacePrefix: d.Settings.ErrorPlacePrefix,
		ErrorCSS:         d.Settings.ErrorCSS,
		ErrorEffect:      d.Settings.ErrorEffect,
		Language:         d.Settings.Language,
	}
	if st.ErrorEffect == "" {
		st.ErrorEffect = validation.DefaultErrorEffect
	}

	rules := make(map[string]validation.Rule, len(d.Rules))
	for name, r := range d.Rules {
		r.Params = r.Params.Clone()
		rules[name] = r
	}
	fields := make([]validation.NamedField, 0, len(d.Fields))
	for _, fd := range d.Fields {
		f := fd.Field
		f.Rules = slices.Clone(f.Rules)
		fields = append(fields, validation.NamedField{Name: fd.Name, Field: f})
	}
	return validation.Config{Settings: &st, Rules: rules, Fields: fields}
}

// FieldNames returns the declared field names in order.
func (d *Definition) FieldNames() []string {
	names := make([]string, len(d.Fields))
	for i, fd := range d.Fields {
		names[i] = fd.Name
	}
	return names
}

func (f *File) check() error {
	if len(f.Forms) == 0 {
		return fmt.Errorf("%w: no forms declared", ErrInvalidDefinition)
	}
	var errs []error
	for _, form := range f.Names() {
		d := f.Forms[form]
		if d == nil {
			errs = append(errs, fmt.Errorf("%w: form %q is empty", ErrInvalidDefinition, form))
			continue
		}
		d.Name = form
		seen := make(map[string]struct{}, len(d.Fields))
		for i, fd := range d.Fields {
			if fd.Name == "" {
				errs = append(errs, fmt.Errorf("%w: form %q field #%d has no name", ErrInvalidDefinition, form, i+1))
				continue
			}
			if _, dup := seen[fd.Name]; dup {
				errs = append(errs, fmt.Errorf("%w: form %q declares field %q twice", ErrInvalidDefinition, form, fd.Name))
			}
			seen[fd.Name] = struct{}{}
			for _, rule := range fd.Rules {
				if _, ok := d.Rules[rule]; !ok && rule != validation.RequiredRule {
					errs = append(errs, fmt.Errorf("%w: form %q field %q references unknown rule %q", ErrInvalidDefinition, form, fd.Name, rule))
				}
			}
		}
	}
	return errors.Join(errs...)
}
