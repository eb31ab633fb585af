package model

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/Veraticus/psychro/internal/common"
)

// Chart bounds shared by the manual point and design zone rules.
const (
	MinTemperature = -10.0
	MaxTemperature = 50.0
	MinHumidity    = 0.0
	MaxHumidity    = 100.0
)

// Validation rules, checked in this order.
var (
	ErrNotANumber     = errors.New("value is not a finite number")
	ErrZoneTempOrder  = errors.New("zone minimum temperature not below maximum")
	ErrZoneTempRange  = errors.New("zone temperature outside chart range")
	ErrZoneRHOrder    = errors.New("zone minimum RH not below maximum")
	ErrZoneRHRange    = errors.New("zone RH outside 0-100%")
	ErrPointTempRange = errors.New("point temperature outside chart range")
	ErrNoFileSelected = errors.New("no file selected")
)

// User-facing validation messages.
const (
	MsgInvalidNumbers = "Please enter valid numbers!"
	MsgPointTempRange = "Temperature must be between -10°C and 50°C."
	MsgZoneTempOrder  = "Minimum temperature must be less than maximum temperature."
	MsgZoneTempRange  = "Temperature range must be between -10°C and 50°C."
	MsgZoneRHOrder    = "Minimum RH must be less than maximum RH."
	MsgZoneRHRange    = "RH range must be between 0% and 100%."
	MsgNoFileSelected = "Please select a file!"
)

// DesignZone bounds the shaded comfort rectangle on the chart.
type DesignZone struct {
	MinTemp float64
	MaxTemp float64
	MinRH   float64
	MaxRH   float64
}

// DefaultDesignZone returns the 20-24°C / 40-60% comfort zone.
func DefaultDesignZone() DesignZone {
	return DesignZone{MinTemp: 20, MaxTemp: 24, MinRH: 40, MaxRH: 60}
}

// Validate checks ordering before range, temperature before RH.
func (z DesignZone) Validate() error {
	if z.MinTemp >= z.MaxTemp {
		return common.NewValidationError(ErrZoneTempOrder, MsgZoneTempOrder)
	}
	if z.MinTemp < MinTemperature || z.MaxTemp > MaxTemperature {
		return common.NewValidationError(ErrZoneTempRange, MsgZoneTempRange)
	}
	if z.MinRH >= z.MaxRH {
		return common.NewValidationError(ErrZoneRHOrder, MsgZoneRHOrder)
	}
	if z.MinRH < MinHumidity || z.MaxRH > MaxHumidity {
		return common.NewValidationError(ErrZoneRHRange, MsgZoneRHRange)
	}
	return nil
}

// Input renders the zone back into editable form.
func (z DesignZone) Input() ZoneInput {
	return ZoneInput{
		MinTemp: FormatNumber(z.MinTemp),
		MaxTemp: FormatNumber(z.MaxTemp),
		MinRH:   FormatNumber(z.MinRH),
		MaxRH:   FormatNumber(z.MaxRH),
	}
}

// ZoneInput holds the four zone bounds as typed by the user.
type ZoneInput struct {
	MinTemp string
	MaxTemp string
	MinRH   string
	MaxRH   string
}

// Parse converts and validates the input. A parse failure on any field wins
// over every range rule.
func (in ZoneInput) Parse() (DesignZone, error) {
	values := make([]float64, 0, 4)
	for _, raw := range []string{in.MinTemp, in.MaxTemp, in.MinRH, in.MaxRH} {
		v, err := ParseNumber(raw)
		if err != nil {
			return DesignZone{}, err
		}
		values = append(values, v)
	}

	zone := DesignZone{MinTemp: values[0], MaxTemp: values[1], MinRH: values[2], MaxRH: values[3]}
	if err := zone.Validate(); err != nil {
		return DesignZone{}, err
	}
	return zone, nil
}

// ParsePoint validates a manual point. Humidity is not range-checked here;
// the service rejects values outside 0-100%.
func ParsePoint(temperature, humidity string) (ManualPoint, error) {
	t, err := ParseNumber(temperature)
	if err != nil {
		return ManualPoint{}, err
	}
	h, err := ParseNumber(humidity)
	if err != nil {
		return ManualPoint{}, err
	}
	if t < MinTemperature || t > MaxTemperature {
		return ManualPoint{}, common.NewValidationError(ErrPointTempRange, MsgPointTempRange)
	}
	return ManualPoint{Temperature: t, Humidity: h}, nil
}

// ParseNumber accepts a finite decimal number surrounded by optional whitespace.
func ParseNumber(raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, common.NewValidationError(ErrNotANumber, MsgInvalidNumbers)
	}
	return v, nil
}

// FormatNumber renders v in its shortest decimal form, e.g. 25 or 25.5.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
