package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sampleInput struct {
	Name  string `json:"name" validate:"required,max=10"`
	Order int    `json:"displayOrder" validate:"min=0"`
	Link  string `json:"url" validate:"omitempty,url"`
}

func TestStruct(t *testing.T) {
	t.Parallel()

	assert.NoError(t, Struct(sampleInput{Name: "ok"}))

	err := Struct(sampleInput{})
	assert.EqualError(t, err, "name is required")

	err = Struct(sampleInput{Name: "abcdefghijkl"})
	assert.EqualError(t, err, "name must be at most 10 characters")

	err = Struct(sampleInput{Name: "ok", Order: -1})
	assert.EqualError(t, err, "displayOrder must be at least 0")

	err = Struct(sampleInput{Name: "ok", Link: "not a url"})
	assert.EqualError(t, err, "url must be a valid URL")
}
