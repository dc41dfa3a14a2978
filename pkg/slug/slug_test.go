package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerate(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"5 Receitas Saudáveis!", "5-receitas-saudaveis"},
		{"Fogão 4 Bocas Itatiaia", "fogao-4-bocas-itatiaia"},
		{"Máquina de Lavar Brastemp 12kg", "maquina-de-lavar-brastemp-12kg"},
		{"Air Fryer  (5,5L)", "air-fryer-55l"},
		{"Geladeira Frost-Free", "geladeira-frost-free"},
		{"  Televisão 55\" 4K  ", "televisao-55-4k"},
		{"snake_case_stays", "snake_case_stays"},
		{"Micro - ondas", "micro-ondas"},
		{"D'Or", "dor"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Generate(tt.input))
		})
	}
}

func TestGenerate_EmptyAndSymbolsOnly(t *testing.T) {
	assert.Equal(t, "", Generate(""))
	assert.Equal(t, "", Generate("!!! ???"))
}

func TestGenerate_Idempotent(t *testing.T) {
	once := Generate("Cafeteira Expresso Nespresso Inissia")
	assert.Equal(t, once, Generate(once))
}
