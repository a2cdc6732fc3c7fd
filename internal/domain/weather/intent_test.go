package weather

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassifyWeatherQuestionWithPlace(t *testing.T) {
	c := NewKeywordClassifier("Bogotá")

	intent := c.Classify("¿Cómo está el clima en Bogotá?")
	require.True(t, intent.IsWeather)
	require.Equal(t, "Bogotá", intent.Place)
	require.False(t, intent.Tomorrow)
	require.False(t, intent.Umbrella)
}

func TestClassifyNonWeatherMessage(t *testing.T) {
	c := NewKeywordClassifier("Bogotá")

	intent := c.Classify("Hola, ¿cómo estás?")
	require.False(t, intent.IsWeather)
}

func TestClassifyKeepsPlaceCasing(t *testing.T) {
	c := NewKeywordClassifier("Bogotá")

	intent := c.Classify("dime el tiempo en Medellín")
	require.True(t, intent.IsWeather)
	require.Equal(t, "Medellín", intent.Place)
}

func TestClassifyTomorrow(t *testing.T) {
	c := NewKeywordClassifier("Bogotá")

	intent := c.Classify("¿Lloverá mañana en Medellín?")
	require.True(t, intent.IsWeather)
	require.Equal(t, "Medellín", intent.Place)
	require.True(t, intent.Tomorrow)
}

func TestClassifyDefaultPlace(t *testing.T) {
	c := NewKeywordClassifier("Bogotá")

	intent := c.Classify("¿Va a llover?")
	require.True(t, intent.IsWeather)
	require.Equal(t, "Bogotá", intent.Place)
	require.False(t, intent.Tomorrow)
}

func TestClassifyUmbrellaSubIntent(t *testing.T) {
	c := NewKeywordClassifier("Bogotá")

	intent := c.Classify("¿Llevo paraguas hoy en Cali?")
	require.True(t, intent.IsWeather)
	require.Equal(t, "Cali", intent.Place)
	require.True(t, intent.Umbrella)
}
