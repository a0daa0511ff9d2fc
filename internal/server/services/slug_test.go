package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Black & White", "black-white"},
		{"  Street   Photography ", "street-photography"},
		{"film_35mm", "film_35mm"},
		{"Été 2024", "t-2024"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, slugify(tt.in))
		})
	}

	assert.Len(t, slugify("???"), 8)
}
