package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type sample struct {
	Title    string `json:"title" validate:"required"`
	Email    string `json:"contact_email" validate:"omitempty,email"`
	Count    int    `json:"workers_needed" validate:"gte=1"`
	Priority string `json:"priority" validate:"omitempty,oneof=Low Normal High Urgent"`
}

func TestStruct(t *testing.T) {
	errs := Struct(&sample{Title: "Plumber", Count: 2, Priority: "High"})
	require.Empty(t, errs)

	errs = Struct(&sample{Email: "nope", Count: 0, Priority: "Whenever"})
	require.Equal(t, "title is required", errs["title"])
	require.Equal(t, "contact_email must be a valid email address", errs["contact_email"])
	require.Equal(t, "workers_needed must be greater than or equal to 1", errs["workers_needed"])
	require.Equal(t, "priority must be one of [Low Normal High Urgent]", errs["priority"])
}

func TestCheck(t *testing.T) {
	sentinel := errors.New("invalid job")

	require.NoError(t, Check(sentinel, &sample{Title: "Cook", Count: 1}))

	err := Check(sentinel, &sample{Count: 1})
	require.ErrorIs(t, err, sentinel)
	require.Equal(t, map[string]string{"title": "title is required"}, FieldsOf(err))
	require.Nil(t, FieldsOf(sentinel))
}
