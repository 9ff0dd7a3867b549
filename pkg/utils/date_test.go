package utils

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatDate(t *testing.T) {
	tests := []struct {
		name     string
		entrada  interface{}
		esperado string
	}{
		{
			name:     "Data nativa",
			entrada:  time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC),
			esperado: "15/03/2024",
		},
		{
			name:     "String dd/mm/yyyy",
			entrada:  "15/03/2024",
			esperado: "15/03/2024",
		},
		{
			name:     "String mm/dd/yyyy desambiguada pelo dia",
			entrada:  "03/25/2024",
			esperado: "25/03/2024",
		},
		{
			name:     "Ano de dois dígitos",
			entrada:  "15/03/24",
			esperado: "15/03/2024",
		},
		{
			name:     "Delimitador hífen",
			entrada:  "15-03-2024",
			esperado: "15/03/2024",
		},
		{
			name:     "String com hora anexada",
			entrada:  "15/03/2024 10:45",
			esperado: "15/03/2024",
		},
		{
			name:     "Valor não interpretável",
			entrada:  "indefinido",
			esperado: "-",
		},
		{
			name:     "String vazia",
			entrada:  "",
			esperado: "-",
		},
		{
			name:     "Número pequeno não é data",
			entrada:  float64(500),
			esperado: "-",
		},
		{
			name:     "Ano solto não vira serial",
			entrada:  "2024",
			esperado: "-",
		},
		{
			name:     "Serial gravado como texto",
			entrada:  "45292",
			esperado: "01/01/2024",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.esperado, FormatDate(tt.entrada))
		})
	}
}

func TestFormatDateSerialPlanilha(t *testing.T) {
	// Serial convertido deve cair no mesmo dia-calendário de
	// epoch + (serial − 25569) × 86400000 ms.
	serials := []float64{25570, 43831, 45292, 45657.5}

	for _, serial := range serials {
		t.Run(fmt.Sprintf("serial_%v", serial), func(t *testing.T) {
			millis := int64((serial - 25569) * 86400000)
			esperado := time.UnixMilli(millis).UTC().Format(DisplayDateLayout)
			assert.Equal(t, esperado, FormatDate(serial))
		})
	}
}

func TestFormatDateTimestampMillis(t *testing.T) {
	ts := float64(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC).UnixMilli())
	assert.Equal(t, "01/06/2024", FormatDate(ts))
}

func TestDaysSince(t *testing.T) {
	t.Run("Data de dez dias atrás", func(t *testing.T) {
		passada := time.Now().AddDate(0, 0, -10).Format(DisplayDateLayout)
		dias := DaysSince(passada)
		require.NotNil(t, dias)
		assert.Equal(t, 10, *dias)
	})

	t.Run("String sem três componentes", func(t *testing.T) {
		assert.Nil(t, DaysSince("2024"))
	})

	t.Run("Marcador de data ausente", func(t *testing.T) {
		assert.Nil(t, DaysSince("-"))
	})
}

func TestColorForDays(t *testing.T) {
	dias := func(n int) *int { return &n }

	assert.Equal(t, "gray", ColorForDays(nil))
	assert.Equal(t, "green", ColorForDays(dias(3)))
	assert.Equal(t, "yellow", ColorForDays(dias(12)))
	assert.Equal(t, "burgundy", ColorForDays(dias(40)))
}
