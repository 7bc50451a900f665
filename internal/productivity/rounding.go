package productivity

const secondsPerHour = 3600

// Hours converts a second count to hours rounded to two decimals, with
// halves rounded away from zero. The rounding is done on integer hundredths
// of an hour so values such as 1.005h do not drift through float error.
func Hours(seconds int64) float64 {
	if seconds < 0 {
		return -Hours(-seconds)
	}
	// hundredths = seconds / 36, rounded half up.
	hundredths := (seconds*2 + 36) / 72
	return float64(hundredths) / 100
}

// Ratio returns part/whole, or 0 when whole is not positive.
func Ratio(part, whole int64) float64 {
	if whole <= 0 {
		return 0
	}
	return float64(part) / float64(whole)
}
