package analytics

// ThermalIndex is a temperature-humidity index for heat stress. Higher is hotter.
// tempC is in °C, humidityPct in % relative humidity. The result is not clamped.
func ThermalIndex(tempC, humidityPct float64) float64 {
	return (1.8*tempC + 32) - (0.55-0.0055*humidityPct)*(1.8*tempC-26)
}
