package validation

import (
	"testing"
	"time"

	"github.com/aretw0/intake/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() time.Time {
	return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
}

func newTestRules() *Rules {
	return NewRules(WithClock(fixedClock))
}

func TestRules_IDNumber(t *testing.T) {
	r := newTestRules()

	res := r.Validate(KindIDNumber, "900101 0001 088", nil)
	require.True(t, res.Valid, res.Message)
	assert.Equal(t, IdentityInfo{IDNumber: "9001010001088", DateOfBirth: "1990-01-01", Age: 35}, res.Value)

	tests := []struct {
		name  string
		input string
		msg   string
	}{
		{"empty", "", "ID number is required"},
		{"short", "900101000108", "ID number must be 13 digits"},
		{"checksum", "9001010001089", "Invalid ID number format"},
		{"bad date", "9002300001085", "Invalid date in ID number"},
		{"too young", "1501010001085", "Applicant must be at least 16 years old"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := r.Validate(KindIDNumber, tt.input, nil)
			assert.False(t, res.Valid)
			assert.Equal(t, tt.msg, res.Message)
			assert.Nil(t, res.Value)
		})
	}
}

func TestRules_DateOfBirth(t *testing.T) {
	r := newTestRules()
	for _, in := range []string{"15/01/1990", "5/1/1990", "15-01-1990", "1990-01-15"} {
		res := r.Validate(KindDateOfBirth, in, nil)
		require.True(t, res.Valid, in)
	}
	res := r.Validate(KindDateOfBirth, "15/01/1990", nil)
	assert.Equal(t, BirthInfo{DateOfBirth: "1990-01-15", Age: 35}, res.Value)

	assert.False(t, r.Validate(KindDateOfBirth, "Jan 15 1990", nil).Valid)
	assert.Equal(t, "Date of birth cannot be in the future", r.Validate(KindDateOfBirth, "01/01/2030", nil).Message)
	assert.Equal(t, "You must be at least 16 years old to apply", r.Validate(KindDateOfBirth, "01/01/2015", nil).Message)
}

func TestRules_Phone(t *testing.T) {
	r := newTestRules()
	res := r.Validate(KindPhone, "082 123 4567", nil)
	require.True(t, res.Valid)
	assert.Equal(t, PhoneInfo{Formatted: "+27821234567", WhatsApp: "27821234567"}, res.Value)

	res = r.Validate(KindPhone, "+27 72 555 0000", nil)
	require.True(t, res.Valid)

	assert.Equal(t, "Please enter a valid South African phone number", r.Validate(KindPhone, "44 20 7946 0958", nil).Message)
	assert.Equal(t, "Phone number must be 10 digits (including area code)", r.Validate(KindPhone, "08212345", nil).Message)
	assert.Equal(t, "Please enter a valid mobile number", r.Validate(KindPhone, "0112345678", nil).Message)
}

func TestRules_Email(t *testing.T) {
	r := newTestRules()
	res := r.Validate(KindEmail, "  Thandi@Gmail.com ", nil)
	require.True(t, res.Valid)
	assert.Equal(t, "thandi@gmail.com", res.Value)

	assert.True(t, r.Validate(KindEmail, "info@spaza.co.za", nil).Valid)
	assert.True(t, r.Validate(KindEmail, "student@wits.ac.za", nil).Valid)
	assert.Equal(t, "Please enter a valid email address", r.Validate(KindEmail, "not-an-email", nil).Message)
	assert.Equal(t, "Please use a valid email provider or South African domain",
		r.Validate(KindEmail, "me@example.org", nil).Message)
}

func TestRules_TextAndIdentifiers(t *testing.T) {
	r := newTestRules()

	assert.True(t, r.Validate(KindName, "Anne-Marie O'Neil", nil).Valid)
	assert.False(t, r.Validate(KindName, "R2D2", nil).Valid)
	assert.False(t, r.Validate(KindName, "A", nil).Valid)

	res := r.Validate(KindCIPC, "ck2012/123456/07", nil)
	require.True(t, res.Valid)
	assert.Equal(t, "CK2012/123456/07", res.Value)
	assert.Equal(t, CIPCNotProvided, r.Validate(KindCIPC, "skip", nil).Value)
	assert.False(t, r.Validate(KindCIPC, "12345", nil).Valid)

	assert.Equal(t, "Business description must be at least 20 characters",
		r.Validate(KindDescription, "Too short", nil).Message)
	assert.True(t, r.Validate(KindSubSector, "Bakery", nil).Valid)
	assert.Equal(t, "City is required", r.Validate(KindCity, "   ", nil).Message)

	res = r.Validate(KindZip, "2 000", nil)
	require.True(t, res.Valid)
	assert.Equal(t, "2000", res.Value)
	assert.False(t, r.Validate(KindZip, "200", nil).Valid)
}

func TestRules_Numbers(t *testing.T) {
	r := newTestRules()

	res := r.Validate(KindEmployeeCount, "0", nil)
	require.True(t, res.Valid)
	assert.Equal(t, 0, res.Value)

	assert.Equal(t, 12, r.Validate(KindEmployeeCount, "12 people", nil).Value)
	assert.Equal(t, "Value must be less than 1000", r.Validate(KindEmployeeCount, "5000", nil).Message)
	assert.Equal(t, "Value must be less than 50", r.Validate(KindYearsInOperation, "51", nil).Message)
	assert.Equal(t, "Please enter a valid number", r.Validate(KindYearsInOperation, "many", nil).Message)

	res = r.Validate(KindAmount, "R 250,000", nil)
	require.True(t, res.Valid)
	assert.Equal(t, 250000.0, res.Value)
	assert.Equal(t, "Funding amount must be at least R1,000", r.Validate(KindAmount, "500", nil).Message)
	assert.Equal(t, "Funding amount must be less than R10,000,000", r.Validate(KindAmount, "R20000000", nil).Message)
}

func TestRules_AmountAcceptsPlainDecimalsOnly(t *testing.T) {
	r := newTestRules()

	tests := []struct {
		raw   string
		valid bool
	}{
		{"R75,000.50", true},
		{"15000", true},
		{"nan", false},
		{"NaN", false},
		{"inf", false},
		{"+Inf", false},
		{"1e6", false},
		{"0x1p20", false},
		{"-5000", false},
		{"12.", false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			res := r.Validate(KindAmount, tt.raw, nil)
			assert.Equal(t, tt.valid, res.Valid)
			if !tt.valid {
				assert.Equal(t, "Please enter a valid amount (numbers only)", res.Message)
			}
		})
	}
}

func TestRules_YesNo(t *testing.T) {
	r := newTestRules()
	assert.Equal(t, "YES", r.Validate(KindYesNo, "y", nil).Value)
	assert.Equal(t, "NO", r.Validate(KindYesNo, "No", nil).Value)
	assert.Equal(t, "UNSURE", r.Validate(KindYesNo, "unsure", []string{"YES", "NO", "UNSURE"}).Value)
	assert.False(t, r.Validate(KindYesNo, "maybe", nil).Valid)
}

func TestRules_Deterministic(t *testing.T) {
	r := newTestRules()
	a := r.Validate(KindIDNumber, "9001010001088", nil)
	b := r.Validate(KindIDNumber, "9001010001088", nil)
	assert.Equal(t, a, b)
}

func TestSelect(t *testing.T) {
	options := []string{"Grant", "Loan", "Equity", "Other"}

	tests := []struct {
		input string
		want  string
	}{
		{"loan", "Loan"},
		{"2", "Loan"},
		{" EQUITY ", "Equity"},
		{"a grant please", "Grant"},
		{"equ", "Equity"},
	}
	for _, tt := range tests {
		res := Select(tt.input, options)
		require.True(t, res.Valid, tt.input)
		assert.Equal(t, tt.want, res.Value, tt.input)
	}

	assert.Equal(t, "Please make a selection", Select("", options).Message)
	assert.Equal(t, "Please select one of: Grant, Loan, Equity, Other", Select("9", options).Message)
	assert.False(t, Select("e", options).Valid)
}

func TestSelectMany(t *testing.T) {
	options := []string{"Working Capital", "Equipment Purchase", "Expansion", "Debt Consolidation", "Other"}

	res := SelectMany("1,5", options)
	require.True(t, res.Valid)
	assert.Equal(t, domain.Selection{"Working Capital", "Other"}, res.Value)

	res = SelectMany("expansion, 3, bogus, equipment", options)
	require.True(t, res.Valid)
	assert.Equal(t, domain.Selection{"Expansion", "Equipment Purchase"}, res.Value)

	assert.False(t, SelectMany("", options).Valid)
	assert.False(t, SelectMany("9, bogus", options).Valid)
}
