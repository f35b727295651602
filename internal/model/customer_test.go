package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInput() CustomerInput {
	return CustomerInput{
		Name:      "Ana",
		Lastname:  "Silva",
		Email:     "ana.silva@example.com",
		Birthdate: "1990-04-12",
		Phone:     "11987654321",
		Address:   "Rua das Flores, 123 - Centro - São Paulo - SP",
	}
}

func TestCustomerInputValidate_OK(t *testing.T) {
	fields, verrs := validInput().Validate()
	require.Nil(t, verrs)
	assert.Equal(t, "Ana", fields.Name)
	assert.Equal(t, "Silva", fields.Lastname)
	assert.Equal(t, 1990, fields.BirthDate.Year())
	assert.Equal(t, time.April, fields.BirthDate.Month())
}

func TestCustomerInputValidate_TrimsSpaces(t *testing.T) {
	in := validInput()
	in.Name = "  Ana  "
	in.Email = " ana.silva@example.com "
	fields, verrs := in.Validate()
	require.Nil(t, verrs)
	assert.Equal(t, "Ana", fields.Name)
	assert.Equal(t, "ana.silva@example.com", fields.Email)
}

func TestCustomerInputValidate_Fields(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*CustomerInput)
		field  string
	}{
		{"empty name", func(in *CustomerInput) { in.Name = "   " }, "name"},
		{"empty lastname", func(in *CustomerInput) { in.Lastname = "" }, "lastname"},
		{"bad email", func(in *CustomerInput) { in.Email = "not-an-email" }, "email"},
		{"bad birthdate", func(in *CustomerInput) { in.Birthdate = "12/04/1990" }, "birthdate"},
		{"phone too short", func(in *CustomerInput) { in.Phone = "123" }, "phone"},
		{"phone too long", func(in *CustomerInput) { in.Phone = "1234567890123456" }, "phone"},
		{"empty address", func(in *CustomerInput) { in.Address = "" }, "address"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.mutate(&in)
			_, verrs := in.Validate()
			require.NotNil(t, verrs)
			assert.Contains(t, verrs, tc.field)
			assert.Len(t, verrs, 1)
		})
	}
}

func TestParseBirthDate(t *testing.T) {
	d, err := ParseBirthDate("1990-04-12")
	require.NoError(t, err)
	assert.Equal(t, time.Date(1990, time.April, 12, 0, 0, 0, 0, time.UTC), d)

	d, err = ParseBirthDate("1990-04-12T00:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, 12, d.Day())

	_, err = ParseBirthDate("12.04.1990")
	assert.Error(t, err)
}

func TestCustomerUpdate_Validate(t *testing.T) {
	empty := ""
	bad := "nope"
	name := "Beto"

	verrs, err := CustomerUpdate{Name: &empty}.Validate()
	require.Error(t, err)
	assert.Contains(t, verrs, "name")

	verrs, err = CustomerUpdate{Email: &bad}.Validate()
	require.Error(t, err)
	assert.Contains(t, verrs, "email")

	verrs, err = CustomerUpdate{Name: &name}.Validate()
	require.NoError(t, err)
	assert.Nil(t, verrs)
}

func TestCustomerUpdate_IsEmpty(t *testing.T) {
	assert.True(t, CustomerUpdate{}.IsEmpty())
	name := "Ana"
	assert.False(t, CustomerUpdate{Name: &name}.IsEmpty())
}

func TestValidationErrors_Error(t *testing.T) {
	verrs := ValidationErrors{"email": "bad", "name": "bad"}
	msg := verrs.Error()
	assert.Contains(t, msg, "email")
	assert.Contains(t, msg, "name")

	got, ok := AsValidationErrors(verrs)
	require.True(t, ok)
	assert.Equal(t, verrs, got)
}
