package dto

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/parentchild/account-service/pkg/util/errorutil"
)

func TestRegisterParentRequestValidation(t *testing.T) {
	valid := RegisterParentRequest{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Password: "Secret@123"}
	require.NoError(t, Check(valid))

	cases := map[string]func(r *RegisterParentRequest){
		"first_name": func(r *RegisterParentRequest) { r.FirstName = "" },
		"last_name":  func(r *RegisterParentRequest) { r.LastName = "R2-D2" },
		"email":      func(r *RegisterParentRequest) { r.Email = "not-an-email" },
		"password":   func(r *RegisterParentRequest) { r.Password = "alllowercase1!" },
	}
	for field, mutate := range cases {
		t.Run(field, func(t *testing.T) {
			req := valid
			mutate(&req)

			err := Check(req)
			var de *apperrors.DomainError
			require.True(t, errors.As(err, &de))
			assert.Equal(t, http.StatusBadRequest, de.HTTPStatus)
			assert.Equal(t, apperrors.CodeValidation, de.Code)
			assert.Contains(t, de.Details, field)
		})
	}
}

func TestPasswordTooLongForBcrypt(t *testing.T) {
	long := "Aa1@" + strings.Repeat("x", 70)
	err := Check(RegisterParentRequest{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Password: long})
	assert.Error(t, err)
}

func TestLengthsMatchColumnWidths(t *testing.T) {
	registration := func(first, last string) RegisterParentRequest {
		return RegisterParentRequest{FirstName: first, LastName: last, Email: "ada@example.com", Password: "Secret@123"}
	}
	name := func(n int) string { return "A" + strings.Repeat("a", n-1) }

	cases := []struct {
		name  string
		req   Validatable
		field string
		ok    bool
	}{
		{"register first_name at 30", registration(name(30), "Lovelace"), "first_name", true},
		{"register first_name at 31", registration(name(31), "Lovelace"), "first_name", false},
		{"register last_name at 30", registration("Ada", name(30)), "last_name", true},
		{"register last_name at 31", registration("Ada", name(31)), "last_name", false},
		{"profile first_name at 31", ProfileUpdateRequest{FirstName: name(31)}, "first_name", false},
		{"profile last_name at 31", ProfileUpdateRequest{LastName: name(31)}, "last_name", false},
		{"city at 50", ProfileUpdateRequest{City: strings.Repeat("c", 50)}, "city", true},
		{"city at 51", ProfileUpdateRequest{City: strings.Repeat("c", 51)}, "city", false},
		{"city counts characters", ProfileUpdateRequest{City: strings.Repeat("é", 50)}, "city", true},
		{"country at 51", ProfileUpdateRequest{Country: strings.Repeat("c", 51)}, "country", false},
		{"pin_code at 10", ProfileUpdateRequest{PinCode: strings.Repeat("9", 10)}, "pin_code", true},
		{"pin_code at 11", ProfileUpdateRequest{PinCode: strings.Repeat("9", 11)}, "pin_code", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Check(tc.req)
			if tc.ok {
				assert.NoError(t, err)
				return
			}
			var de *apperrors.DomainError
			require.True(t, errors.As(err, &de))
			assert.Equal(t, http.StatusBadRequest, de.HTTPStatus)
			assert.Contains(t, de.Details, tc.field)
		})
	}
}

func TestProfileUpdateRequestToUpdate(t *testing.T) {
	req := ProfileUpdateRequest{FirstName: "Ada", City: "  ", Age: 0, PinCode: "N1"}
	require.NoError(t, Check(req))

	update := req.ToUpdate()
	require.NotNil(t, update.FirstName)
	assert.Equal(t, "Ada", *update.FirstName)
	assert.Nil(t, update.City)
	assert.Nil(t, update.Age)
	assert.Nil(t, update.LastName)
	require.NotNil(t, update.PinCode)
	assert.Equal(t, "N1", *update.PinCode)

	assert.Error(t, Check(ProfileUpdateRequest{Age: -3}))
	assert.True(t, ProfileUpdateRequest{}.ToUpdate().Empty())
}

func TestChildRequests(t *testing.T) {
	assert.NoError(t, Check(CreateChildRequest{Name: "Tom", Age: 6}))
	assert.Error(t, Check(CreateChildRequest{Name: "Tom"}))
	assert.Error(t, Check(CreateChildRequest{Age: 6}))

	update := UpdateChildRequest{AdditionalInfo: "likes trains"}.ToUpdate()
	assert.Nil(t, update.Name)
	assert.Nil(t, update.Age)
	require.NotNil(t, update.AdditionalInfo)
	assert.Equal(t, "likes trains", *update.AdditionalInfo)
}
