package sheets

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

var (
	errEmptyCell = errors.New("empty cell")
	errNegative  = errors.New("negative value")
)

// dateLayouts are tried in order; sheets edited by hand in a French locale
// produce day-first dates.
var dateLayouts = []string{DateLayout, "02/01/2006", "2/1/2006", "2006/01/02"}

func cell(row []interface{}, i int) string {
	if i >= len(row) || row[i] == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(row[i]))
}

func parseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errEmptyCell
	}
	// drop any time-of-day suffix
	if i := strings.IndexByte(value, ' '); i > 0 {
		value = value[:i]
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", value)
}

func parseInt(value string) (int, error) {
	if value == "" {
		return 0, errEmptyCell
	}
	f, err := parseFloat(value)
	if err != nil {
		return 0, err
	}
	if f != float64(int(f)) {
		return 0, fmt.Errorf("not a whole number %q", value)
	}
	return int(f), nil
}

// parseFloat accepts a decimal comma and space thousands separators.
func parseFloat(value string) (float64, error) {
	if value == "" {
		return 0, errEmptyCell
	}
	normalized := strings.ReplaceAll(value, " ", "")
	normalized = strings.ReplaceAll(normalized, "\u00a0", "")
	if strings.Count(normalized, ",") == 1 && !strings.Contains(normalized, ".") {
		normalized = strings.Replace(normalized, ",", ".", 1)
	} else {
		normalized = strings.ReplaceAll(normalized, ",", "")
	}
	v, err := strconv.ParseFloat(normalized, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("not a finite number %q", value)
	}
	return v, nil
}

// nonNegative wraps a parse result and rejects counts below zero.
func nonNegative(v int, err error) (int, error) {
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, errNegative
	}
	return v, nil
}

// optionalInt parses value when present and falls back to 0 for an empty cell.
func optionalInt(value string) (int, error) {
	if value == "" {
		return 0, nil
	}
	return parseInt(value)
}

func optionalFloat(value string) (float64, error) {
	if value == "" {
		return 0, nil
	}
	return parseFloat(value)
}

func parseBool(value string) bool {
	switch strings.ToLower(value) {
	case "true", "yes", "y", "1", "oui", "x":
		return true
	default:
		return false
	}
}
