package weather

import (
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"strings"
)

var conditionNames = map[int]string{
	0:  "Cielo despejado",
	1:  "Despejado",
	2:  "Parcialmente nublado",
	3:  "Nublado",
	45: "Niebla",
	48: "Niebla con escarcha",
	51: "Llovizna ligera",
	53: "Llovizna moderada",
	55: "Llovizna intensa",
	56: "Llovizna helada",
	57: "Llovizna helada intensa",
	61: "Lluvia ligera",
	63: "Lluvia moderada",
	65: "Lluvia fuerte",
	66: "Lluvia helada",
	67: "Lluvia helada fuerte",
	71: "Nevada ligera",
	73: "Nevada moderada",
	75: "Nevada intensa",
	77: "Granos de nieve",
	80: "Chubascos ligeros",
	81: "Chubascos moderados",
	82: "Chubascos violentos",
	85: "Chubascos de nieve",
	86: "Chubascos de nieve fuertes",
	95: "Tormenta",
	96: "Tormenta con granizo",
	99: "Tormenta con granizo fuerte",
}

var (
	umbrellaEmojis = []string{"☔", "🌂", "🌧️"}
	sunEmojis      = []string{"☀️", "🌞", "😎"}
)

// Formatter renders a deterministic weather reply. The pick function drives
// the cosmetic emoji choice so tests can pin it down.
type Formatter struct {
	pick func(n int) int
}

// NewFormatter constructs a Formatter; a nil pick falls back to math/rand.
func NewFormatter(pick func(n int) int) *Formatter {
	if pick == nil {
		pick = rand.Intn
	}
	return &Formatter{pick: pick}
}

// Format turns an observation plus the extracted intent into the reply text.
func (f *Formatter) Format(obs Observation, intent Intent) string {
	day := "(hoy)"
	if obs.Tomorrow {
		day = "(mañana)"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s Clima en %s %s:\n", conditionEmoji(obs.Code), obs.Place, day)
	fmt.Fprintf(&b, "- Temperatura: %d°C\n", int(math.Round(obs.Temperature)))
	fmt.Fprintf(&b, "- Condición: %s\n", ConditionName(obs.Code))

	if obs.Precipitation > 0 {
		fmt.Fprintf(&b, "- Lluvia: %s mm\n", formatMillimeters(obs.Precipitation))
		if intent.Umbrella {
			fmt.Fprintf(&b, "\n¡Sí, lleva paraguas! %s\n", umbrellaEmojis[f.pick(len(umbrellaEmojis))])
		}
	} else if intent.Umbrella {
		fmt.Fprintf(&b, "\nNo parece que vaya a llover, no necesitarás paraguas. %s\n", sunEmojis[f.pick(len(sunEmojis))])
	}

	return b.String()
}

// Unavailable is the fixed apology used when no observation could be
// resolved for the place.
func (f *Formatter) Unavailable(place string) string {
	return fmt.Sprintf("No pude obtener la información del tiempo para %s. Por favor, intenta con otra ciudad o más tarde.", place)
}

// ConditionName maps a WMO weather code to its Spanish description.
func ConditionName(code int) string {
	if name, ok := conditionNames[code]; ok {
		return name
	}
	return "Condiciones desconocidas"
}

func conditionEmoji(code int) string {
	switch {
	case code >= 0 && code <= 3:
		return "☀️"
	case code >= 45 && code <= 48:
		return "🌫️"
	case (code >= 51 && code <= 67) || (code >= 80 && code <= 82):
		return "🌧️"
	case code >= 71 && code <= 77:
		return "❄️"
	case code >= 95 && code <= 99:
		return "⛈️"
	default:
		return "🌡️"
	}
}

func formatMillimeters(mm float64) string {
	return strconv.FormatFloat(math.Round(mm*10)/10, 'f', -1, 64)
}
