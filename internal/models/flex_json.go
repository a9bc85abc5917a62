package models

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"
)

// fieldMaps caches JSON tag -> struct field index mappings per type
var fieldMaps sync.Map

func jsonFieldMap(t reflect.Type) map[string]int {
	if cached, ok := fieldMaps.Load(t); ok {
		return cached.(map[string]int)
	}
	m := make(map[string]int, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("json")
		if tag == "" || tag == "-" {
			continue
		}
		m[strings.Split(tag, ",")[0]] = i
	}
	actual, _ := fieldMaps.LoadOrStore(t, m)
	return actual.(map[string]int)
}

// UnmarshalJSON accepts documents whose numbers were written as strings
// ("round": "17") and ids written as numbers ("matchId": 202517001).
func (m *MatchPrediction) UnmarshalJSON(data []byte) error {
	type alias MatchPrediction
	return flexUnmarshal(data, (*alias)(m))
}

func (p *PlayerPrediction) UnmarshalJSON(data []byte) error {
	type alias PlayerPrediction
	return flexUnmarshal(data, (*alias)(p))
}

func (s *PlayerStatLine) UnmarshalJSON(data []byte) error {
	type alias PlayerStatLine
	return flexUnmarshal(data, (*alias)(s))
}

func (b *BettingOpportunity) UnmarshalJSON(data []byte) error {
	type alias BettingOpportunity
	return flexUnmarshal(data, (*alias)(b))
}

// flexUnmarshal decodes into dst (a pointer to a method-less alias struct).
// Fields that fail native decoding are coerced one by one; anything that
// still cannot be coerced is left at its zero value.
func flexUnmarshal(data []byte, dst any) error {
	// Fast path: types match natively
	if err := json.Unmarshal(data, dst); err == nil {
		return nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("flex unmarshal: %w", err)
	}

	v := reflect.ValueOf(dst).Elem()
	fieldMap := jsonFieldMap(v.Type())

	for key, rawVal := range raw {
		idx, ok := fieldMap[key]
		if !ok {
			continue
		}
		fv := v.Field(idx)
		if !fv.CanSet() {
			continue
		}

		ptr := reflect.New(fv.Type())
		if err := json.Unmarshal(rawVal, ptr.Interface()); err == nil {
			fv.Set(ptr.Elem())
			continue
		}

		text := strings.TrimSpace(string(rawVal))
		if len(text) > 1 && text[0] == '"' {
			var s string
			if err := json.Unmarshal(rawVal, &s); err != nil || s == "" {
				continue
			}
			text = s
		}
		coerceStringToField(fv, text)
	}

	return nil
}

// coerceStringToField converts a string (or bare number literal) to the field's
// type and reports whether it succeeded.
func coerceStringToField(fv reflect.Value, s string) bool {
	switch fv.Kind() {
	case reflect.Ptr:
		elem := reflect.New(fv.Type().Elem())
		if !coerceStringToField(elem.Elem(), s) {
			return false
		}
		fv.Set(elem)
	case reflect.Float32, reflect.Float64:
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return false
		}
		fv.SetFloat(n)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		// "17.0" -> 17
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return false
		}
		fv.SetInt(int64(n))
	case reflect.Bool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return false
		}
		fv.SetBool(b)
	case reflect.String:
		// only bare numbers reach here, e.g. a numeric matchId
		if _, err := strconv.ParseFloat(s, 64); err != nil {
			return false
		}
		fv.SetString(s)
	default:
		return false
	}
	return true
}
