package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildCode(product, expiration, lot, serial string) string {
	return product + "17" + expiration + "10" + lot + "21" + serial
}

func TestParseCode(t *testing.T) {
	t.Run("Known25ml", func(t *testing.T) {
		code := buildCode("0104517715966683", "261231", "LOT123", "SN000000000001")
		require.Len(t, code, CodeLength)

		parsed, err := ParseCode(code)
		require.NoError(t, err)
		assert.Equal(t, ParsedCode{
			ProductCode:    "0104517715966683",
			Size:           Size25ml,
			LotNumber:      "LOT123",
			ExpirationDate: Date{Year: 2026, Month: time.December, Day: 31},
			SerialNumber:   "SN000000000001",
		}, parsed)
	})

	t.Run("Known40ml", func(t *testing.T) {
		parsed, err := ParseCode(buildCode("0104517715967246", "250101", "A00001", "00000000000042"))
		require.NoError(t, err)
		assert.Equal(t, Size40ml, parsed.Size)
		assert.Equal(t, "2025-01-01", parsed.ExpirationDate.String())
		assert.Equal(t, "00000000000042", parsed.SerialNumber)
	})

	t.Run("UnknownProduct", func(t *testing.T) {
		parsed, err := ParseCode(buildCode("9999999999999999", "300615", "LOTXYZ", "SN000000000002"))
		require.NoError(t, err)
		assert.Equal(t, SizeUnknown, parsed.Size)
	})

	t.Run("LeapDay", func(t *testing.T) {
		parsed, err := ParseCode(buildCode("0104517715966683", "280229", "LOT123", "SN000000000003"))
		require.NoError(t, err)
		assert.Equal(t, Date{Year: 2028, Month: time.February, Day: 29}, parsed.ExpirationDate)
	})
}

func TestParseCode_InvalidLength(t *testing.T) {
	valid := buildCode("0104517715966683", "261231", "LOT123", "SN000000000001")

	for _, tc := range []struct {
		name string
		code string
		want int
	}{
		{"Empty", "", 0},
		{"OneShort", valid[:47], 47},
		{"OneLong", valid + "X", 49},
		{"Whitespace", " " + valid, 49},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseCode(tc.code)
			require.ErrorIs(t, err, ErrInvalidLength)

			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, tc.want, pe.Length)
		})
	}

	t.Run("CountsCharactersNotBytes", func(t *testing.T) {
		code := strings.Repeat("日", CodeLength)
		_, err := ParseCode(code)
		// 48 characters pass the length check; the date field is not numeric
		assert.ErrorIs(t, err, ErrInvalidDate)
	})
}

func TestParseCode_InvalidDate(t *testing.T) {
	for _, tc := range []struct {
		name  string
		field string
	}{
		{"MonthZero", "260015"},
		{"MonthThirteen", "261315"},
		{"DayZero", "261200"},
		{"February30", "260230"},
		{"NotLeapYear", "270229"},
		{"NonDigit", "26A231"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseCode(buildCode("0104517715966683", tc.field, "LOT123", "SN000000000001"))
			require.ErrorIs(t, err, ErrInvalidDate)

			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, tc.field, pe.Field)
			assert.Contains(t, pe.Error(), tc.field)
		})
	}
}

func TestDate(t *testing.T) {
	d, err := ParseDate("2026-03-09")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-09", d.String())
	assert.Equal(t, time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), d.Time())
	assert.Equal(t, -1, d.Compare(Date{Year: 2026, Month: time.March, Day: 10}))

	_, err = ParseDate("2026-02-30")
	assert.ErrorIs(t, err, ErrInvalidDate)

	var zero Date
	assert.True(t, zero.IsZero())
	assert.Equal(t, "", zero.String())

	data, err := d.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `"2026-03-09"`, string(data))

	var back Date
	require.NoError(t, back.UnmarshalJSON(data))
	assert.Equal(t, d, back)
	assert.Error(t, back.UnmarshalJSON([]byte(`"09/03/2026"`)))
}
