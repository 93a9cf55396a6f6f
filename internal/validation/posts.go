package validation

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Field limits for posts, in characters.
const (
	MaxTitleLength = 255
	MaxBodyLength  = 10000
)

// Pagination bounds.
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Client-facing validation messages.
const (
	MsgTitleRequired  = "Title is required and must be a non-empty string"
	MsgTitleTooLong   = "Title must be 255 characters or less"
	MsgBodyRequired   = "Body is required and must be a non-empty string"
	MsgBodyTooLong    = "Body must be 10000 characters or less"
	MsgInvalidID      = "Invalid post ID"
	MsgUserIDRequired = "user_id is required"
	MsgUserIDInvalid  = "user_id must be a positive integer"
)

// validate is safe for concurrent use and caches struct metadata, so one
// instance serves the whole process.
var validate = validator.New()

// ValidateID reports whether id is a base-10 integer greater than zero.
// Empty, non-numeric, zero and negative values are invalid.
func ValidateID(id string) bool {
	n, err := strconv.ParseInt(id, 10, 64)
	return err == nil && n > 0
}

// ValidatePagination turns raw page/limit query values into usable numbers.
//
// It never fails. A missing, non-numeric or zero page becomes 1 and a
// negative one is raised to 1. A missing, non-numeric or zero limit becomes 10,
// anything else is clamped to [1, 100].
func ValidatePagination(page, limit string) (pageNum, limitNum int) {
	pageNum = DefaultPage
	if p, err := strconv.Atoi(strings.TrimSpace(page)); err == nil && p > 0 {
		pageNum = p
	}

	limitNum = DefaultLimit
	if l, err := strconv.Atoi(strings.TrimSpace(limit)); err == nil && l != 0 {
		limitNum = min(max(l, 1), MaxLimit)
	}

	return pageNum, limitNum
}

// ValidatePostData checks title and body independently and returns every
// problem found. Values that are not strings count as missing.
func ValidatePostData(title, body any) (bool, []string) {
	var problems []string

	if msg := checkText(title, MaxTitleLength, MsgTitleRequired, MsgTitleTooLong); msg != "" {
		problems = append(problems, msg)
	}
	if msg := checkText(body, MaxBodyLength, MsgBodyRequired, MsgBodyTooLong); msg != "" {
		problems = append(problems, msg)
	}

	return len(problems) == 0, problems
}

func checkText(value any, maxLen int, requiredMsg, tooLongMsg string) string {
	s, ok := value.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return requiredMsg
	}

	// max on a string counts runes, not bytes.
	if err := validate.Var(s, fmt.Sprintf("max=%d", maxLen)); err != nil {
		return tooLongMsg
	}

	return ""
}

// SanitizeString trims leading and trailing whitespace. Anything that is not
// a string sanitizes to "".
func SanitizeString(value any) string {
	s, ok := value.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

// IsBlankValue reports whether a decoded JSON value counts as "not provided":
// null, false, zero, NaN, or the empty string. encoding/json decodes every
// number into an interface as float64.
func IsBlankValue(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case bool:
		return !v
	case string:
		return v == ""
	case float64:
		return v == 0 || math.IsNaN(v)
	default:
		return false
	}
}

// ParseUserID converts a decoded JSON user_id into a positive integer.
// Integral numbers and numeric strings are accepted.
func ParseUserID(value any) (int64, error) {
	var id int64

	switch v := value.(type) {
	case float64:
		if v != math.Trunc(v) || v > math.MaxInt64 || v < 1 {
			return 0, Errors{MsgUserIDInvalid}
		}
		id = int64(v)
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0, Errors{MsgUserIDInvalid}
		}
		id = n
	default:
		return 0, Errors{MsgUserIDInvalid}
	}

	if id < 1 {
		return 0, Errors{MsgUserIDInvalid}
	}

	return id, nil
}
