package validation

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
	"github.com/ruleforge/ruleforge/internal/entity"
)

// Row schemas. Struct field names match the canonical field names so a
// validator.FieldError can be mapped straight back to a column.

type clientRow struct {
	ClientID         string `validate:"required"`
	ClientName       string `validate:"required"`
	PriorityLevel    *int   `validate:"required,min=1,max=5"`
	RequestedTaskIDs string `validate:"required"`
	GroupTag         string
	AttributesJSON   string
}

type workerRow struct {
	WorkerID           string `validate:"required"`
	WorkerName         string `validate:"required"`
	Skills             string `validate:"required"`
	AvailableSlots     string `validate:"required,slots"`
	MaxLoadPerPhase    *int   `validate:"required,min=1"`
	WorkerGroup        string
	QualificationLevel *int `validate:"omitempty,min=1,max=10"`
}

type taskRow struct {
	TaskID          string   `validate:"required"`
	TaskName        string   `validate:"required"`
	Category        string   `validate:"required"`
	Duration        *float64 `validate:"required,min=1"`
	RequiredSkills  string   `validate:"required"`
	PreferredPhases string   `validate:"required,phases"`
	MaxConcurrent   *int     `validate:"required,min=1"`
}

var rowValidate = newRowValidator()

func newRowValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Registration only fails on an empty tag or nil func, neither of which can happen here.
	_ = v.RegisterValidation("slots", func(fl validator.FieldLevel) bool {
		_, err := ParseSlots(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("phases", func(fl validator.FieldLevel) bool {
		return checkPhases(fl.Field().String()) == nil
	})
	return v
}

// rowDecoder coerces keyed cell values into typed row fields, remembering the first
// coercion failure per field.
type rowDecoder struct {
	values map[string]entity.Cell
	errs   map[string]string
}

func (d *rowDecoder) str(field string) string {
	return entity.CellString(d.values[field])
}

func (d *rowDecoder) number(field string) *float64 {
	v := d.values[field]
	if entity.IsEmpty(v) {
		return nil
	}
	n, ok := toNumber(v)
	if !ok {
		d.errs[field] = fmt.Sprintf("%s must be a number", field)
		return nil
	}
	return &n
}

func (d *rowDecoder) integer(field string) *int {
	n := d.number(field)
	if n == nil {
		return nil
	}
	if *n != math.Trunc(*n) {
		d.errs[field] = fmt.Sprintf("%s must be a whole number", field)
		return nil
	}
	// Out-of-range values saturate so bound tags still compare them correctly.
	var i int
	switch {
	case *n >= float64(math.MaxInt):
		i = math.MaxInt
	case *n <= float64(math.MinInt):
		i = math.MinInt
	default:
		i = int(*n)
	}
	return &i
}

func decodeRow(t entity.Type, d *rowDecoder) (any, error) {
	switch t {
	case entity.Clients:
		return &clientRow{
			ClientID:         d.str(entity.FieldClientID),
			ClientName:       d.str(entity.FieldClientName),
			PriorityLevel:    d.integer(entity.FieldPriorityLevel),
			RequestedTaskIDs: d.str(entity.FieldRequestedTaskIDs),
			GroupTag:         d.str(entity.FieldGroupTag),
			AttributesJSON:   d.str(entity.FieldAttributesJSON),
		}, nil
	case entity.Workers:
		return &workerRow{
			WorkerID:           d.str(entity.FieldWorkerID),
			WorkerName:         d.str(entity.FieldWorkerName),
			Skills:             d.str(entity.FieldSkills),
			AvailableSlots:     d.str(entity.FieldAvailableSlots),
			MaxLoadPerPhase:    d.integer(entity.FieldMaxLoadPerPhase),
			WorkerGroup:        d.str(entity.FieldWorkerGroup),
			QualificationLevel: d.integer(entity.FieldQualificationLevel),
		}, nil
	case entity.Tasks:
		return &taskRow{
			TaskID:          d.str(entity.FieldTaskID),
			TaskName:        d.str(entity.FieldTaskName),
			Category:        d.str(entity.FieldCategory),
			Duration:        d.number(entity.FieldDuration),
			RequiredSkills:  d.str(entity.FieldRequiredSkills),
			PreferredPhases: d.str(entity.FieldPreferredPhases),
			MaxConcurrent:   d.integer(entity.FieldMaxConcurrent),
		}, nil
	default:
		return nil, fmt.Errorf("unknown entity type: %q", t)
	}
}

// RowValues keys a positional row by its headers. Unmapped columns are dropped and
// the first occurrence of a duplicated header wins.
func RowValues(headers []string, row []entity.Cell) map[string]entity.Cell {
	values := make(map[string]entity.Cell, len(headers))
	for i, h := range headers {
		if entity.IsUnmapped(h) {
			continue
		}
		if _, seen := values[h]; seen {
			continue
		}
		if i < len(row) {
			values[h] = row[i]
		} else {
			values[h] = nil
		}
	}
	return values
}

// ValidateRow checks one row against t's canonical schema and returns one message per
// failing field, keyed at (t, rowIndex, column). Fields whose header is not present
// are skipped since there is no column to report against.
func ValidateRow(t entity.Type, values map[string]entity.Cell, rowIndex int, headers []string) entity.ErrorMap {
	errs := entity.ErrorMap{}

	d := &rowDecoder{values: values, errs: map[string]string{}}
	row, err := decodeRow(t, d)
	if err != nil {
		return errs
	}

	messages := d.errs
	if verr := rowValidate.Struct(row); verr != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(verr, &fieldErrs) {
			for _, fe := range fieldErrs {
				field := fe.StructField()
				if _, exists := messages[field]; exists {
					continue
				}
				messages[field] = describeFieldError(t, field, fe, values[field])
			}
		}
	}

	for field, msg := range messages {
		col := indexOf(headers, field)
		if col == -1 {
			continue
		}
		errs.Set(t, rowIndex, col, msg)
	}
	return errs
}

// describeFieldError turns a failed tag into a message. Bound and list-syntax failures
// reuse the field validator so grid edits and row checks read the same.
func describeFieldError(t entity.Type, field string, fe validator.FieldError, value entity.Cell) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min", "max", "slots", "phases":
		if err := ValidateCell(t, field, value); err != nil {
			return err.Error()
		}
		return fmt.Sprintf("%s failed %s=%s", field, fe.Tag(), fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}

// ValidateTable runs ValidateRow over every row of tbl.
func ValidateTable(t entity.Type, tbl entity.Table) entity.ErrorMap {
	errs := entity.ErrorMap{}
	for i, row := range tbl.Rows {
		errs.Merge(ValidateRow(t, RowValues(tbl.Headers, row), i, tbl.Headers))
	}
	return errs
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}
