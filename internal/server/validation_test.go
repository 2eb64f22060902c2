package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sampleInput struct {
	Name  string `validate:"required,min=2"`
	Email string `validate:"required,email"`
	Seats int    `validate:"gte=1,lte=100"`
}

func TestValidateStruct(t *testing.T) {
	t.Run("valid input", func(t *testing.T) {
		errs := ValidateStruct(sampleInput{Name: "Yoga", Email: "sarah@example.com", Seats: 20})
		assert.Empty(t, errs)
	})

	t.Run("collects all failures", func(t *testing.T) {
		errs := ValidateStruct(sampleInput{Name: "", Email: "not-an-email", Seats: 0})
		assert.Len(t, errs, 3)

		fields := make(map[string]string)
		for _, e := range errs {
			fields[e.Field] = e.Message
		}
		assert.Equal(t, "Name is required", fields["Name"])
		assert.Equal(t, "Email must be a valid email address", fields["Email"])
		assert.Equal(t, "Seats must be greater than or equal to 1", fields["Seats"])
	})
}
