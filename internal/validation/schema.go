package validation

import "errors"

// Field binds an input key to its ordered rules. Evaluation of a field stops
// at its first failing rule.
type Field struct {
	Name  string
	Rules []Rule
}

func Attr(name string, rules ...Rule) Field {
	return Field{Name: name, Rules: rules}
}

type Schema []Field

func Fields(fields ...Field) Schema {
	return fields
}

// Validate returns nil, a *Errors describing every invalid field, or the
// infrastructure error a rule ran into.
func (s Schema) Validate(input Input) error {
	errs := NewErrors()

	for _, field := range s {
		failure, err := field.check(input)
		if err != nil {
			return err
		}
		if failure != nil {
			errs.Add(field.Name, failure.MessageID, failure.Params)
		}
	}

	if errs.Len() > 0 {
		return errs
	}
	return nil
}

func (f Field) check(input Input) (*Failure, error) {
	var required, nullable, sometimes, numeric bool
	for _, r := range f.Rules {
		switch r.(type) {
		case requiredRule:
			required = true
		case nullableRule:
			nullable = true
		case sometimesRule:
			sometimes = true
		case integerRule:
			numeric = true
		}
	}

	value, present := input[f.Name]

	if sometimes && !present {
		return nil, nil
	}
	if !present || value == nil {
		if required {
			return &Failure{MessageID: "validationRequired"}, nil
		}
		if !present || nullable {
			return nil, nil
		}
	}

	attr := &Attribute{Name: f.Name, Value: value, Input: input, Numeric: numeric}
	for _, r := range f.Rules {
		failure, err := r.Check(attr)
		if err != nil {
			return nil, err
		}
		if failure != nil {
			return failure, nil
		}
	}
	return nil, nil
}

// AsErrors unwraps err to *Errors when it carries validation failures.
func AsErrors(err error) (*Errors, bool) {
	var verrs *Errors
	if errors.As(err, &verrs) {
		return verrs, true
	}
	return nil, false
}
