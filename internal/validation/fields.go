package validation

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ruleforge/ruleforge/internal/entity"
)

// FieldError is a single cell-level validation failure.
type FieldError struct {
	Field   string // Canonical field name
	Message string // Human-readable description naming the field and the violated rule
}

// Error implements the error interface.
func (e *FieldError) Error() string {
	return e.Message
}

func fieldErr(field, format string, args ...any) *FieldError {
	return &FieldError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// CellValidator checks one raw cell value. A nil return means the value is acceptable.
type CellValidator func(value entity.Cell) error

// toNumber coerces a cell to a float64. Strings are trimmed first; booleans count as
// 1 and 0. NaN and infinities are rejected.
func toNumber(value entity.Cell) (float64, bool) {
	var f float64
	switch v := value.(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case bool:
		if v {
			f = 1
		}
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// RangeValidator returns a validator accepting numbers in [lo, hi].
func RangeValidator(field string, lo, hi float64) CellValidator {
	return func(value entity.Cell) error {
		if entity.IsEmpty(value) {
			return nil
		}
		n, ok := toNumber(value)
		if !ok {
			return fieldErr(field, "%s must be a number", field)
		}
		if n < lo || n > hi {
			return fieldErr(field, "%s must be between %s and %s", field, fmtNum(lo), fmtNum(hi))
		}
		return nil
	}
}

// MinValidator returns a validator accepting numbers >= lo.
func MinValidator(field string, lo float64) CellValidator {
	return func(value entity.Cell) error {
		if entity.IsEmpty(value) {
			return nil
		}
		n, ok := toNumber(value)
		if !ok {
			return fieldErr(field, "%s must be a number", field)
		}
		if n < lo {
			return fieldErr(field, "%s must be at least %s", field, fmtNum(lo))
		}
		return nil
	}
}

func fmtNum(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

var (
	// ValidatePriorityLevel accepts 1 through 5.
	ValidatePriorityLevel = RangeValidator(entity.FieldPriorityLevel, 1, 5)
	// ValidateQualificationLevel accepts 1 through 10.
	ValidateQualificationLevel = RangeValidator(entity.FieldQualificationLevel, 1, 10)
	// ValidateDuration accepts any number >= 1.
	ValidateDuration = MinValidator(entity.FieldDuration, 1)
	// ValidateMaxLoadPerPhase accepts any number >= 1.
	ValidateMaxLoadPerPhase = MinValidator(entity.FieldMaxLoadPerPhase, 1)
	// ValidateMaxConcurrent accepts any number >= 1.
	ValidateMaxConcurrent = MinValidator(entity.FieldMaxConcurrent, 1)
)

const (
	slotsSyntaxMsg  = "AvailableSlots must be a JSON array (e.g. [1,2,3]) or a comma-separated list (e.g. 1,2,3) of positive integers"
	phasesSyntaxMsg = "PreferredPhases must be a JSON array (e.g. [1,2,3]), a range (e.g. 1-3) or a comma-separated list (e.g. 1,2,3) of positive integers"
)

// ValidateAvailableSlots accepts a JSON array or a comma-separated list of positive integers.
func ValidateAvailableSlots(value entity.Cell) error {
	if entity.IsEmpty(value) {
		return nil
	}
	if _, err := ParseSlots(entity.CellString(value)); err != nil {
		return fieldErr(entity.FieldAvailableSlots, slotsSyntaxMsg)
	}
	return nil
}

// ValidatePreferredPhases accepts a JSON array, an inclusive "a-b" range, or a
// comma-separated list of positive integers.
func ValidatePreferredPhases(value entity.Cell) error {
	if entity.IsEmpty(value) {
		return nil
	}
	if err := checkPhases(entity.CellString(value)); err != nil {
		return fieldErr(entity.FieldPreferredPhases, phasesSyntaxMsg)
	}
	return nil
}

// ParseSlots parses an AvailableSlots value. The JSON array form is tried first; any
// input that is not a JSON array is read as a comma-separated list.
func ParseSlots(s string) ([]int, error) {
	if nums, isArray, err := parseJSONArray(s); isArray {
		return nums, err
	}
	return parseCSV(s)
}

// checkPhases validates a PreferredPhases value without expanding ranges.
func checkPhases(s string) error {
	if _, isArray, err := parseJSONArray(s); isArray {
		return err
	}
	if strings.Contains(s, "-") {
		_, _, err := parseRange(s)
		return err
	}
	_, err := parseCSV(s)
	return err
}

// parseJSONArray decodes s as a JSON array of positive integers. isArray is false when
// s is not a JSON array at all, which lets the caller fall back to other syntaxes.
func parseJSONArray(s string) (nums []int, isArray bool, err error) {
	var items []any
	if json.Unmarshal([]byte(strings.TrimSpace(s)), &items) != nil {
		return nil, false, nil
	}
	nums = make([]int, 0, len(items))
	for _, item := range items {
		n, ok := positiveInt(item)
		if !ok {
			return nil, true, fmt.Errorf("element %v is not a positive integer", item)
		}
		nums = append(nums, n)
	}
	return nums, true, nil
}

func parseCSV(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	nums := make([]int, 0, len(parts))
	for _, part := range parts {
		n, ok := positiveInt(strings.TrimSpace(part))
		if !ok {
			return nil, fmt.Errorf("%q is not a positive integer", strings.TrimSpace(part))
		}
		nums = append(nums, n)
	}
	return nums, nil
}

func parseRange(s string) (start, end int, err error) {
	parts := strings.Split(s, "-")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%q is not a start-end range", s)
	}
	start, ok1 := positiveInt(strings.TrimSpace(parts[0]))
	end, ok2 := positiveInt(strings.TrimSpace(parts[1]))
	if !ok1 || !ok2 {
		return 0, 0, fmt.Errorf("%q range bounds must be positive integers", s)
	}
	if start > end {
		return 0, 0, fmt.Errorf("%q range start exceeds end", s)
	}
	return start, end, nil
}

func positiveInt(value any) (int, bool) {
	n, ok := toNumber(value)
	if !ok || n < 1 || n != math.Trunc(n) || n > math.MaxInt32 {
		return 0, false
	}
	return int(n), true
}

var cellValidators = map[entity.Type]map[string]CellValidator{
	entity.Clients: {
		entity.FieldPriorityLevel: ValidatePriorityLevel,
	},
	entity.Workers: {
		entity.FieldAvailableSlots:     ValidateAvailableSlots,
		entity.FieldMaxLoadPerPhase:    ValidateMaxLoadPerPhase,
		entity.FieldQualificationLevel: ValidateQualificationLevel,
	},
	entity.Tasks: {
		entity.FieldDuration:        ValidateDuration,
		entity.FieldPreferredPhases: ValidatePreferredPhases,
		entity.FieldMaxConcurrent:   ValidateMaxConcurrent,
	},
}

// ValidateCell runs the field validator registered for (t, field). Fields without a
// typed constraint always pass.
func ValidateCell(t entity.Type, field string, value entity.Cell) error {
	v, ok := cellValidators[t][field]
	if !ok {
		return nil
	}
	return v(value)
}
