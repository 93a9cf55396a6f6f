package validation

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateID(t *testing.T) {
	valid := []string{"1", "42", "999999", "9223372036854775807"}
	invalid := []string{"", "0", "-1", "-42", "abc", "1.5", "12abc", " 7", "null", "9223372036854775808"}

	for _, id := range valid {
		assert.True(t, ValidateID(id), "expected %q to be valid", id)
	}
	for _, id := range invalid {
		assert.False(t, ValidateID(id), "expected %q to be invalid", id)
	}
}

func TestValidatePagination(t *testing.T) {
	tests := []struct {
		page, limit         string
		wantPage, wantLimit int
	}{
		{"", "", 1, 10},
		{"-1", "200", 1, 100},
		{"abc", "xyz", 1, 10},
		{"3", "25", 3, 25},
		{"0", "0", 1, 10},
		{"2", "-5", 2, 1},
		{"1", "100", 1, 100},
		{"1", "101", 1, 100},
		{" 4 ", " 5 ", 4, 5},
	}

	for _, tt := range tests {
		page, limit := ValidatePagination(tt.page, tt.limit)
		assert.Equal(t, tt.wantPage, page, "page for (%q, %q)", tt.page, tt.limit)
		assert.Equal(t, tt.wantLimit, limit, "limit for (%q, %q)", tt.page, tt.limit)
	}
}

func TestValidatePagination_AlwaysInBounds(t *testing.T) {
	inputs := []string{"", "x", "-100", "-1", "0", "1", "50", "100", "101", "100000", "1e3"}

	for _, p := range inputs {
		for _, l := range inputs {
			page, limit := ValidatePagination(p, l)
			assert.GreaterOrEqual(t, page, 1)
			assert.GreaterOrEqual(t, limit, 1)
			assert.LessOrEqual(t, limit, 100)
		}
	}
}

func TestValidatePostData(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		ok, problems := ValidatePostData("Hello", "World")
		assert.True(t, ok)
		assert.Empty(t, problems)
	})

	t.Run("both fields fail together", func(t *testing.T) {
		ok, problems := ValidatePostData("", strings.Repeat("x", 20000))
		assert.False(t, ok)
		assert.Equal(t, []string{MsgTitleRequired, MsgBodyTooLong}, problems)
	})

	t.Run("non strings count as missing", func(t *testing.T) {
		ok, problems := ValidatePostData(123, nil)
		assert.False(t, ok)
		assert.Equal(t, []string{MsgTitleRequired, MsgBodyRequired}, problems)
	})

	t.Run("whitespace only", func(t *testing.T) {
		_, problems := ValidatePostData("   ", "\n\t")
		assert.Equal(t, []string{MsgTitleRequired, MsgBodyRequired}, problems)
	})

	t.Run("length boundaries", func(t *testing.T) {
		ok, _ := ValidatePostData(strings.Repeat("t", 255), strings.Repeat("b", 10000))
		assert.True(t, ok)

		_, problems := ValidatePostData(strings.Repeat("t", 256), strings.Repeat("b", 10001))
		assert.Equal(t, []string{MsgTitleTooLong, MsgBodyTooLong}, problems)
	})

	t.Run("length counts characters not bytes", func(t *testing.T) {
		ok, _ := ValidatePostData(strings.Repeat("é", 255), "body")
		assert.True(t, ok)
	})
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "", SanitizeString(123))
	assert.Equal(t, "", SanitizeString(nil))
	assert.Equal(t, "hi", SanitizeString("  hi  "))
	assert.Equal(t, "a b", SanitizeString("\ta b\n"))
}

func TestIsBlankValue(t *testing.T) {
	blank := []any{nil, false, "", 0.0, math.NaN()}
	present := []any{true, "x", 1.0, -1.0, map[string]any{}, []any{}}

	for _, v := range blank {
		assert.True(t, IsBlankValue(v), "expected %#v to be blank", v)
	}
	for _, v := range present {
		assert.False(t, IsBlankValue(v), "expected %#v to be present", v)
	}
}

func TestUserIDFromDecodedJSON(t *testing.T) {
	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(`{"zero": 0, "id": 42, "big": 1e3}`), &payload))

	assert.True(t, IsBlankValue(payload["zero"]))
	assert.True(t, IsBlankValue(payload["missing"]))

	id, err := ParseUserID(payload["id"])
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	id, err = ParseUserID(payload["big"])
	require.NoError(t, err)
	assert.Equal(t, int64(1000), id)
}

func TestParseUserID(t *testing.T) {
	tests := []struct {
		in      any
		want    int64
		wantErr bool
	}{
		{in: 7.0, want: 7},
		{in: "12", want: 12},
		{in: 1.5, wantErr: true},
		{in: -2.0, wantErr: true},
		{in: "abc", wantErr: true},
		{in: true, wantErr: true},
		{in: map[string]any{"id": 1}, wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseUserID(tt.in)
		if tt.wantErr {
			require.Error(t, err, "input %#v", tt.in)
			assert.Equal(t, MsgUserIDInvalid, err.Error())
			continue
		}
		require.NoError(t, err, "input %#v", tt.in)
		assert.Equal(t, tt.want, got)
	}
}
