package tier

import (
	"fmt"
	"reflect"
	"strings"
)

// ValidationResult reports fields or data that a tier does not allow.
type ValidationResult struct {
	Valid            bool     `json:"valid"`
	Errors           []string `json:"errors,omitempty"`
	RestrictedFields []string `json:"restricted_fields,omitempty"`
}

// LocationLimitResult reports a location count against a tier's limit.
type LocationLimitResult struct {
	Valid      bool   `json:"valid"`
	MaxAllowed int    `json:"max_allowed"`
	Current    int    `json:"current"`
	Message    string `json:"message,omitempty"`
}

// ValidateFields checks every field name against the fields t may use.
func (p *Policy) ValidateFields(t Tier, fields []string) ValidationResult {
	var restricted []string
	for _, f := range fields {
		if !p.CanAccessField(t, f) {
			restricted = append(restricted, f)
		}
	}
	if len(restricted) == 0 {
		return ValidationResult{Valid: true}
	}
	return ValidationResult{
		Valid:            false,
		RestrictedFields: restricted,
		Errors: []string{
			fmt.Sprintf("fields %s are not accessible for %s tier", strings.Join(restricted, ", "), t),
		},
	}
}

// ValidateLocationLimit checks count against the location limit of t.
func (p *Policy) ValidateLocationLimit(t Tier, count int) LocationLimitResult {
	maxAllowed := p.MaxLocations(t)
	res := LocationLimitResult{Valid: count <= maxAllowed, MaxAllowed: maxAllowed, Current: count}
	if !res.Valid {
		res.Message = fmt.Sprintf("tier %s allows maximum %d location(s), but %d provided", t, maxAllowed, count)
	}
	return res
}

// ValidateTierChange checks whether a vendor holding data can move from
// current to next. Upgrades and lateral moves are always valid. A downgrade
// is refused while the vendor still has non-empty data in a field the new
// tier loses, or more locations than the new tier allows.
//
// The locations field is judged by count only: every vendor keeps its HQ.
func (p *Policy) ValidateTierChange(current, next Tier, data map[string]any) ValidationResult {
	if next.Rank() >= current.Rank() {
		return ValidationResult{Valid: true}
	}

	var errs []string
	for _, field := range p.AccessibleFields(current) {
		if field == FieldLocations || p.CanAccessField(next, field) {
			continue
		}
		if hasData(data[field]) {
			errs = append(errs, fmt.Sprintf("cannot downgrade: vendor has data in %s which requires %s", field, current))
		}
	}

	if locs, ok := data[FieldLocations]; ok {
		if n, isList := length(locs); isList {
			if limit := p.ValidateLocationLimit(next, n); !limit.Valid {
				errs = append(errs, limit.Message)
			}
		}
	}

	if len(errs) > 0 {
		return ValidationResult{Valid: false, Errors: errs}
	}
	return ValidationResult{Valid: true}
}

// hasData reports whether v is a non-empty string, slice, array or map.
// Numbers, booleans and nil never count as data that blocks a downgrade.
func hasData(v any) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String, reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len() > 0
	case reflect.Pointer:
		if rv.IsNil() {
			return false
		}
		return hasData(rv.Elem().Interface())
	default:
		return false
	}
}

func length(v any) (int, bool) {
	if v == nil {
		return 0, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return rv.Len(), true
	default:
		return 0, false
	}
}
