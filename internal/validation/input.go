package validation

import (
	"mime/multipart"
	"strings"
)

// Input is the decoded request payload a schema is evaluated against.
// Uploaded files are stored as *multipart.FileHeader values.
type Input map[string]interface{}

var untrimmed = map[string]bool{
	"password":              true,
	"password_confirmation": true,
}

// Normalize trims string values and turns empty strings into nulls, except
// for password fields which are kept verbatim.
func Normalize(raw map[string]interface{}) Input {
	input := make(Input, len(raw))
	for key, value := range raw {
		s, ok := value.(string)
		if !ok {
			input[key] = value
			continue
		}
		if !untrimmed[key] {
			s = strings.TrimSpace(s)
		}
		if s == "" {
			input[key] = nil
			continue
		}
		input[key] = s
	}
	return input
}

func (in Input) Has(key string) bool {
	_, ok := in[key]
	return ok
}

func (in Input) String(key string) string {
	s, _ := in[key].(string)
	return s
}

// OptionalString returns nil when the key is absent or null.
func (in Input) OptionalString(key string) *string {
	s, ok := in[key].(string)
	if !ok {
		return nil
	}
	return &s
}

func (in Input) File(key string) *multipart.FileHeader {
	fh, _ := in[key].(*multipart.FileHeader)
	return fh
}
