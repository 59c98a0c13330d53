// pkg/validation/rules_test.go
package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuleClean(t *testing.T) {
	cases := []struct {
		name  string
		rule  *Rule
		in    string
		want  string
		valid bool
	}{
		{"FullNameValid", FullName, "Jane Doe", "Jane Doe", true},
		{"FullNameTooShort", FullName, "J", "", false},
		{"FullNameDigits", FullName, "Jane 2", "", false},
		{"IDNumberValid", IDNumber, "1234567890123", "1234567890123", true},
		{"IDNumberTwelveDigits", IDNumber, "123456789012", "", false},
		{"AccountNumberValid", AccountNumber, "12345678", "12345678", true},
		{"AccountNumberTooShort", AccountNumber, "1234567", "", false},
		{"AccountNumberTooLong", AccountNumber, "123456789012345678901", "", false},
		{"PasswordValid", Password, "Str0ng!Passw0rd", "Str0ng!Passw0rd", true},
		{"PasswordTooShort", Password, "Sh0rt!A", "", false},
		{"PasswordNoUpper", Password, "alllowercase1!", "", false},
		{"PasswordNoDigit", Password, "NoDigitsHere!!", "", false},
		{"PasswordNoSpecial", Password, "NoSpecial12345", "", false},
		{"PasswordWithSpace", Password, "Has Space1!Abc", "", false},
		{"PasswordKeepsSpecialCharacters", Password, "Amp&Percent%99", "Amp&Percent%99", true},
		{"EmailValid", Email, "jane@example.com", "jane@example.com", true},
		{"EmailInvalid", Email, "jane@example", "", false},
		{"AmountValid", Amount, "100.00", "100.00", true},
		{"AmountInteger", Amount, "250", "250", true},
		{"AmountZeroMatchesPattern", Amount, "0", "0", true},
		{"AmountThirteenDigits", Amount, "1234567890123.45", "", false},
		{"AmountNegative", Amount, "-5", "", false},
		{"AmountThreeDecimals", Amount, "1.234", "", false},
		{"AmountTrailingDot", Amount, "12.", "", false},
		{"CurrencyValid", Currency, "USD", "USD", true},
		{"CurrencyLowercase", Currency, "usd", "", false},
		{"SWIFTValid", SWIFT, "ABCDEF12", "ABCDEF12", true},
		{"SWIFTElevenChars", SWIFT, "ABCDEF12XYZ", "ABCDEF12XYZ", true},
		{"SWIFTTooShort", SWIFT, "ABC12", "", false},
		{"PayeeAccountValid", PayeeAccount, "400500600700", "400500600700", true},
		{"PayeeAccountLetters", PayeeAccount, "4005A0600700", "", false},
		{"ProviderValid", Provider, "Acme Bank", "Acme Bank", true},
		{"DescriptionEmptyIsOptional", Description, "", "", true},
		{"DescriptionValid", Description, "Invoice 42, thanks!", "Invoice 42, thanks!", true},
		{"PayeeNameBlankIsOptional", PayeeName, "   ", "", true},
		{"IdentifierValid", Identifier, "doesnotexist", "doesnotexist", true},
		{"IdentifierUUID", Identifier, "0b5b3d0e-8f53-4c4f-9d0b-6a1c9f2f7a10", "0b5b3d0e-8f53-4c4f-9d0b-6a1c9f2f7a10", true},
		{"IdentifierTooShort", Identifier, "short", "", false},
		{"IdentifierIllegalCharacter", Identifier, "abc$def12345", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.rule.Clean(tc.in)
			if tc.valid {
				require.NoError(t, err)
				assert.Equal(t, tc.want, got)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Empty(t, got)
		})
	}
}

func TestRuleCleanRequired(t *testing.T) {
	_, err := Currency.Clean("")
	require.Error(t, err)

	var fe *FieldError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "currency", fe.Field)
	assert.Equal(t, "is required", fe.Reason)
}

func TestRuleCleanRequiredAfterSanitizing(t *testing.T) {
	_, err := FullName.Clean("<>()")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestValidatorCollectsFailures(t *testing.T) {
	var v Validator
	name := v.Field(FullName, "X")
	id := v.Field(IDNumber, "abc")
	account := v.Field(AccountNumber, "12345678")

	assert.Empty(t, name)
	assert.Empty(t, id)
	assert.Equal(t, "12345678", account)

	err := v.Err()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "fullName")
	assert.Contains(t, err.Error(), "idNumber")
	assert.NotContains(t, err.Error(), "accountNumber")
}

func TestValidatorNoFailures(t *testing.T) {
	var v Validator
	v.Field(Currency, "EUR")
	assert.NoError(t, v.Err())
}
