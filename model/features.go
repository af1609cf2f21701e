package model

import (
	"fmt"
	"math"
)

// FeatureCount is the number of inputs the production model was trained on.
const FeatureCount = 7

// FeatureVector holds one set of environmental readings in the order the
// model expects: date-hour encoding, wind speed, sunshine, air pressure,
// radiation, air temperature, relative humidity.
type FeatureVector struct {
	DateHour         float64 `json:"date_hour"`
	WindSpeed        float64 `json:"wind_speed"`
	Sunshine         float64 `json:"sunshine"`
	AirPressure      float64 `json:"air_pressure"`
	Radiation        float64 `json:"radiation"`
	AirTemperature   float64 `json:"air_temperature"`
	RelativeHumidity float64 `json:"relative_humidity"`
}

// Values returns the positional vector passed to the regressor.
func (v FeatureVector) Values() []float64 {
	return []float64{
		v.DateHour,
		v.WindSpeed,
		v.Sunshine,
		v.AirPressure,
		v.Radiation,
		v.AirTemperature,
		v.RelativeHumidity,
	}
}

// Key returns the vector as a comparable array, usable as a cache key.
func (v FeatureVector) Key() [FeatureCount]float64 {
	return [FeatureCount]float64{
		v.DateHour,
		v.WindSpeed,
		v.Sunshine,
		v.AirPressure,
		v.Radiation,
		v.AirTemperature,
		v.RelativeHumidity,
	}
}

// Field describes one input of the feature vector: its position, display
// metadata and the widget bounds enforced at entry.
type Field struct {
	Key     string
	Label   string
	Unit    string
	Min     float64
	Max     float64
	Default float64
	Step    float64
	Bounded bool
}

// Fields lists the seven inputs in model order. The date-hour encoding is
// unbounded; every other field carries the widget min/max from the form.
var Fields = []Field{
	{Key: "date_hour", Label: "Date-Hour (NMT)", Unit: "", Default: 1.00, Step: 0.01},
	{Key: "wind_speed", Label: "Wind Speed", Unit: "m/s", Min: 0.0, Max: 50.0, Default: 3.5, Step: 0.1, Bounded: true},
	{Key: "sunshine", Label: "Sunshine", Unit: "hours", Min: 0.0, Max: 24.0, Default: 6.0, Step: 0.1, Bounded: true},
	{Key: "air_pressure", Label: "Air Pressure", Unit: "hPa", Min: 800.0, Max: 1100.0, Default: 1013.0, Step: 0.5, Bounded: true},
	{Key: "radiation", Label: "Radiation", Unit: "W/m²", Min: 0.0, Max: 1500.0, Default: 650.0, Step: 1.0, Bounded: true},
	{Key: "air_temperature", Label: "Air Temperature", Unit: "°C", Min: -20.0, Max: 60.0, Default: 28.0, Step: 0.1, Bounded: true},
	{Key: "relative_humidity", Label: "Relative Air Humidity", Unit: "%", Min: 0.0, Max: 100.0, Default: 45.0, Step: 0.5, Bounded: true},
}

// DefaultVector returns a FeatureVector populated with the form defaults.
func DefaultVector() FeatureVector {
	return vectorFromValues(defaults())
}

func defaults() []float64 {
	values := make([]float64, len(Fields))
	for i, f := range Fields {
		values[i] = f.Default
	}
	return values
}

// FromValues builds a FeatureVector from a positional slice. The slice must
// contain exactly FeatureCount values in field order.
func FromValues(values []float64) (FeatureVector, error) {
	if len(values) != FeatureCount {
		return FeatureVector{}, fmt.Errorf("expected %d values, got %d", FeatureCount, len(values))
	}
	return vectorFromValues(values), nil
}

func vectorFromValues(values []float64) FeatureVector {
	return FeatureVector{
		DateHour:         values[0],
		WindSpeed:        values[1],
		Sunshine:         values[2],
		AirPressure:      values[3],
		Radiation:        values[4],
		AirTemperature:   values[5],
		RelativeHumidity: values[6],
	}
}

// Validate enforces the widget bounds on a submitted vector. Values must be
// finite; bounded fields must fall inside [Min, Max].
func (v FeatureVector) Validate() error {
	values := v.Values()
	for i, f := range Fields {
		value := values[i]
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return fmt.Errorf("%s: value must be a finite number", f.Key)
		}
		if !f.Bounded {
			continue
		}
		if value < f.Min || value > f.Max {
			return fmt.Errorf("%s: value %g outside allowed range [%g, %g]", f.Key, value, f.Min, f.Max)
		}
	}
	return nil
}
