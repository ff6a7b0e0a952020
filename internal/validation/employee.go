// Package validation checks raw employee payloads against the per-field rules
// shared by create and update.
package validation

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/spec-kit/employee-service/internal/domain"
)

// Field names as they appear on the wire.
const (
	FieldName        = "emp_name"
	FieldEmail       = "emp_email"
	FieldSalary      = "emp_salary"
	FieldExperience  = "experience"
	FieldDeptCode    = "dept_code"
	FieldJoiningDate = "joining_date"
	FieldSecreteCode = "secrete_code"
)

// Violation is a single field-level validation failure.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Violations is an ordered list of failures. It satisfies error so it can be
// returned alongside other errors.
type Violations []Violation

func (v Violations) Error() string {
	return "validation failed"
}

// Fields lists the violated field names in order.
func (v Violations) Fields() []string {
	out := make([]string, 0, len(v))
	for _, item := range v {
		out = append(out, item.Field)
	}
	return out
}

type rule struct {
	field   string
	valid   func(any) bool
	message string
}

var validate = validator.New()

// rules are evaluated in order; every rule runs regardless of earlier failures.
var rules = []rule{
	{FieldName, isNonBlank, "Employee name is required"},
	{FieldEmail, isEmail, "Valid email is required"},
	{FieldSalary, isNumber, "Salary must be a number"},
	{FieldExperience, isNonNegativeInt, "Experience must be a non-negative integer"},
	{FieldDeptCode, isNonBlank, "Department code is required"},
	{FieldJoiningDate, isDate, "Joining date must be a valid date (YYYY-MM-DD)"},
	{FieldSecreteCode, isNonBlank, "Secret code is required"},
}

// Validate applies every rule to fields and returns all violations. A nil
// result means the payload is valid.
func Validate(fields map[string]any) Violations {
	var out Violations
	for _, r := range rules {
		if !r.valid(fields[r.field]) {
			out = append(out, Violation{Field: r.field, Message: r.message})
		}
	}
	return out
}

// Parse validates fields and converts them into an EmployeeInput.
func Parse(fields map[string]any) (domain.EmployeeInput, Violations) {
	if violations := Validate(fields); len(violations) > 0 {
		return domain.EmployeeInput{}, violations
	}

	salary, _ := salaryValue(fields[FieldSalary])
	experience, _ := experienceValue(fields[FieldExperience])
	joined, _ := dateValue(fields[FieldJoiningDate])

	return domain.EmployeeInput{
		Name:        fields[FieldName].(string),
		Email:       fields[FieldEmail].(string),
		Salary:      salary,
		Experience:  experience,
		DeptCode:    fields[FieldDeptCode].(string),
		JoiningDate: joined,
		SecreteCode: fields[FieldSecreteCode].(string),
	}, nil
}

func isNonBlank(v any) bool {
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) != ""
}

func isEmail(v any) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	return validate.Var(s, "required,email") == nil
}

func isNumber(v any) bool {
	_, ok := salaryValue(v)
	return ok
}

func isNonNegativeInt(v any) bool {
	_, ok := experienceValue(v)
	return ok
}

func isDate(v any) bool {
	_, ok := dateValue(v)
	return ok
}

func salaryValue(v any) (decimal.Decimal, bool) {
	var raw string
	switch val := v.(type) {
	case string:
		raw = strings.TrimSpace(val)
	case json.Number:
		raw = val.String()
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return decimal.Decimal{}, false
		}
		return decimal.NewFromFloat(val), true
	case int:
		return decimal.NewFromInt(int64(val)), true
	default:
		return decimal.Decimal{}, false
	}
	if raw == "" {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(raw)
	if err != nil || !fitsNumeric(d) {
		return decimal.Decimal{}, false
	}
	return d, true
}

// NUMERIC allows up to 131072 digits before the decimal point and 16383 after.
const (
	maxNumericExponent = 131071
	minNumericExponent = -16383
)

// fitsNumeric rejects exponents the column cannot hold before any digit
// expansion happens.
func fitsNumeric(d decimal.Decimal) bool {
	exp := d.Exponent()
	return exp >= minNumericExponent && exp <= maxNumericExponent
}

// experienceValue accepts JSON integers and integer strings in [0, MaxInt32].
func experienceValue(v any) (int, bool) {
	var n int64
	switch val := v.(type) {
	case json.Number:
		parsed, err := val.Int64()
		if err != nil {
			d, derr := decimal.NewFromString(val.String())
			if derr != nil || !fitsNumeric(d) || d.IsNegative() || !d.IsInteger() ||
				d.GreaterThan(decimal.NewFromInt(math.MaxInt32)) {
				return 0, false
			}
			parsed = d.IntPart()
		}
		n = parsed
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(val), 10, 64)
		if err != nil {
			return 0, false
		}
		n = parsed
	case float64:
		if val != math.Trunc(val) || val < 0 || val > math.MaxInt32 {
			return 0, false
		}
		n = int64(val)
	case int:
		n = int64(val)
	default:
		return 0, false
	}
	if n < 0 || n > math.MaxInt32 {
		return 0, false
	}
	return int(n), true
}

func dateValue(v any) (time.Time, bool) {
	s, ok := v.(string)
	if !ok {
		return time.Time{}, false
	}
	t, err := time.Parse(domain.DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
