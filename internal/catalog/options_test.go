package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTranslateOptionValue(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"direct color", "Blue", "Azul"},
		{"case insensitive", "GOLD", "Dourado"},
		{"compound wins over word", "rose gold", "Rosé"},
		{"multi-word value", "Navy", "Azul Marinho"},
		{"partial replacement", "Blue Flower", "Azul Flower"},
		{"size letter", "XL", "GG"},
		{"one size", "one size", "Tamanho Único"},
		{"measure normalizes case", "18CM", "18cm"},
		{"already translated", "Azul", "Azul"},
		{"unknown passes through", "Mandala", "Mandala"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, translateOptionValue(tt.in))
		})
	}
}

func TestDesiredOptionValue(t *testing.T) {
	assert.Equal(t, "Azul Marinho", desiredOptionValue([]string{"Azul Marinho"}, 0, "Blue"))
	assert.Equal(t, "Azul", desiredOptionValue(nil, 0, "Blue"))
	assert.Equal(t, "Dourado", desiredOptionValue([]string{""}, 0, "gold"))
	assert.Equal(t, "", desiredOptionValue(nil, 2, ""))
}
