/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package ecdef

import "strconv"

func itoa(v uint64) string { return strconv.FormatUint(v, 10) }

// Converts custom attribute value to int. Values decoded from JSON are float64.
func anyToInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case uint32:
		return int(n), true
	case uint64:
		return int(n), true
	case float64:
		return int(n), true
	case string:
		i, err := strconv.Atoi(n)
		return i, err == nil
	}
	return 0, false
}
