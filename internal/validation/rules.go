package validation

import (
	"encoding/json"
	"fmt"
	"math"
	"mime/multipart"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

// Attribute is the value under validation plus the rest of the payload.
type Attribute struct {
	Name    string
	Value   interface{}
	Input   Input
	Numeric bool
}

type Rule interface {
	Check(a *Attribute) (*Failure, error)
}

type RuleFunc func(a *Attribute) (*Failure, error)

func (f RuleFunc) Check(a *Attribute) (*Failure, error) {
	return f(a)
}

func fail(messageID string, params map[string]interface{}) (*Failure, error) {
	return &Failure{MessageID: messageID, Params: params}, nil
}

var validate = validator.New()

// DateLayouts are the accepted input formats for the date rule.
var DateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// ImageMIMETypes are the content types accepted by the image rule.
var ImageMIMETypes = []string{
	"image/jpeg",
	"image/png",
	"image/gif",
	"image/bmp",
	"image/svg+xml",
	"image/webp",
}

type requiredRule struct{}
type nullableRule struct{}
type sometimesRule struct{}
type integerRule struct{}

func (requiredRule) Check(*Attribute) (*Failure, error)  { return nil, nil }
func (nullableRule) Check(*Attribute) (*Failure, error)  { return nil, nil }
func (sometimesRule) Check(*Attribute) (*Failure, error) { return nil, nil }

func (integerRule) Check(a *Attribute) (*Failure, error) {
	if _, ok := toInteger(a.Value); ok {
		return nil, nil
	}
	return fail("validationInteger", nil)
}

// Required fails when the field is absent or null.
func Required() Rule { return requiredRule{} }

// Nullable lets an explicit null skip the remaining rules.
func Nullable() Rule { return nullableRule{} }

// Sometimes only validates the field when it is present in the input.
func Sometimes() Rule { return sometimesRule{} }

func Integer() Rule { return integerRule{} }

func String() Rule {
	return RuleFunc(func(a *Attribute) (*Failure, error) {
		if _, ok := a.Value.(string); ok {
			return nil, nil
		}
		return fail("validationString", nil)
	})
}

func Date() Rule {
	return RuleFunc(func(a *Attribute) (*Failure, error) {
		if s, ok := a.Value.(string); ok {
			if _, err := ParseDate(s); err == nil {
				return nil, nil
			}
		}
		return fail("validationDate", nil)
	})
}

func Email() Rule {
	return RuleFunc(func(a *Attribute) (*Failure, error) {
		if s, ok := a.Value.(string); ok && validate.Var(s, "email") == nil {
			return nil, nil
		}
		return fail("validationEmail", nil)
	})
}

// Max bounds characters for strings, the value for integers and kilobytes
// for files.
func Max(n int) Rule {
	return RuleFunc(func(a *Attribute) (*Failure, error) {
		size, kind := sizeOf(a)
		if size <= float64(n) {
			return nil, nil
		}
		return fail("validationMax"+kind, map[string]interface{}{"Max": n})
	})
}

func Min(n int) Rule {
	return RuleFunc(func(a *Attribute) (*Failure, error) {
		size, kind := sizeOf(a)
		if size >= float64(n) {
			return nil, nil
		}
		return fail("validationMin"+kind, map[string]interface{}{"Min": n})
	})
}

func In(values ...string) Rule {
	return RuleFunc(func(a *Attribute) (*Failure, error) {
		candidate, ok := scalarString(a.Value)
		if ok {
			for _, v := range values {
				if v == candidate {
					return nil, nil
				}
			}
		}
		return fail("validationIn", nil)
	})
}

// Confirmed requires <field>_confirmation to carry the same value.
func Confirmed() Rule {
	return RuleFunc(func(a *Attribute) (*Failure, error) {
		value, ok := scalarString(a.Value)
		confirmation, confirmed := scalarString(a.Input[a.Name+"_confirmation"])
		if ok && confirmed && value == confirmation {
			return nil, nil
		}
		return fail("validationConfirmed", nil)
	})
}

// Unique fails when table.column already holds the value.
func Unique(db *gorm.DB, table, column string) Rule {
	return RuleFunc(func(a *Attribute) (*Failure, error) {
		count, err := countMatching(db, table, column, a.Value)
		if err != nil {
			return nil, err
		}
		if count > 0 {
			return fail("validationUnique", nil)
		}
		return nil, nil
	})
}

// Exists fails when no row of table has column equal to the value.
func Exists(db *gorm.DB, table, column string) Rule {
	return RuleFunc(func(a *Attribute) (*Failure, error) {
		count, err := countMatching(db, table, column, a.Value)
		if err != nil {
			return nil, err
		}
		if count == 0 {
			return fail("validationExists", nil)
		}
		return nil, nil
	})
}

// ExistsID is Exists against a UUID primary key. Values that are not UUIDs
// fail without querying. Ids are stored in canonical lowercase form, so the
// lookup uses the parsed id rather than the raw input.
func ExistsID(db *gorm.DB, table string) Rule {
	exists := Exists(db, table, "id")
	return RuleFunc(func(a *Attribute) (*Failure, error) {
		s, ok := a.Value.(string)
		if !ok {
			return fail("validationExists", nil)
		}
		id, err := uuid.FromString(s)
		if err != nil {
			return fail("validationExists", nil)
		}
		canonical := *a
		canonical.Value = id
		return exists.Check(&canonical)
	})
}

func Image() Rule {
	return RuleFunc(func(a *Attribute) (*Failure, error) {
		fh, ok := a.Value.(*multipart.FileHeader)
		if !ok {
			return fail("validationImage", nil)
		}
		mime, err := DetectMIME(fh)
		if err != nil {
			return nil, err
		}
		if !mimetype.EqualsAny(mime.String(), ImageMIMETypes...) {
			return fail("validationImage", nil)
		}
		return nil, nil
	})
}

func DetectMIME(fh *multipart.FileHeader) (*mimetype.MIME, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()

	mime, err := mimetype.DetectReader(f)
	if err != nil {
		return nil, fmt.Errorf("failed to detect upload type: %w", err)
	}
	return mime, nil
}

// ParseDate accepts any of DateLayouts.
func ParseDate(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range DateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

func countMatching(db *gorm.DB, table, column string, value interface{}) (int64, error) {
	var count int64
	err := db.Table(table).Where(map[string]interface{}{column: value}).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to check %s.%s: %w", table, column, err)
	}
	return count, nil
}

func sizeOf(a *Attribute) (float64, string) {
	switch v := a.Value.(type) {
	case *multipart.FileHeader:
		return float64(v.Size) / 1024, "File"
	case []interface{}:
		return float64(len(v)), "Numeric"
	}
	if a.Numeric {
		if n, ok := toInteger(a.Value); ok {
			return float64(n), "Numeric"
		}
	}
	s, _ := scalarString(a.Value)
	return float64(utf8.RuneCountInString(s)), "String"
}

func toInteger(value interface{}) (int64, bool) {
	switch v := value.(type) {
	case float64:
		if v == math.Trunc(v) && !math.IsInf(v, 0) {
			return int64(v), true
		}
	case int:
		return int64(v), true
	case int64:
		return v, true
	case json.Number:
		n, err := v.Int64()
		return n, err == nil
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		return n, err == nil
	}
	return 0, false
}

func scalarString(value interface{}) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case bool:
		if v {
			return "1", true
		}
		return "0", true
	case json.Number:
		return v.String(), true
	}
	return "", false
}
