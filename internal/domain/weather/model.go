package weather

// Location is a resolved geographic coordinate pair.
type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Observation holds the normalized provider data for a single place and day.
// It is built per request and consumed immediately by the formatter.
type Observation struct {
	Place         string
	Temperature   float64
	Code          int
	Precipitation float64
	Tomorrow      bool
}

// Intent is the classification of an inbound message.
type Intent struct {
	IsWeather bool
	Place     string
	Tomorrow  bool
	Umbrella  bool
}
