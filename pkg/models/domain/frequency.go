package domain

// FreqProfileRow is one day of the derived frequency profile
type FreqProfileRow struct {
	Day             int
	Max             float64
	Min             float64
	Avg             float64
	LessThanBand    float64
	BetweenBand     float64
	GreaterThanBand float64
	OutOfBand       float64
	OutOfBandHrs    float64
	Fdi             float64
}

// FrequencyProfile holds the daily rows and the weekly frequency deviation index
type FrequencyProfile struct {
	Rows      []FreqProfileRow
	WeeklyFdi float64
}
