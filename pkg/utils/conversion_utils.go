package utils

import "strconv"

// Int64ToStr converts an int64 to its string representation.
func Int64ToStr(num int64) string {
	return strconv.FormatInt(num, 10)
}

// StrToInt64 converts a string to an int64.
// Returns 0 and an error if the conversion fails.
func StrToInt64(s string) (int64, error) {
	num, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}
	return num, nil
}

// StrToPositiveInt64 is StrToInt64 for identifiers, which are never zero or negative.
func StrToPositiveInt64(s string) (int64, bool) {
	num, err := StrToInt64(s)
	if err != nil || num <= 0 {
		return 0, false
	}
	return num, true
}
