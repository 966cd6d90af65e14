package prediction

import "errors"

// Error kinds exposed by the prediction engine. All of them are terminal for
// the request that triggered them; retry policy belongs to the caller.
var (
	// ErrDataUnavailable: the requested date falls in the recent-past gap
	// where neither provider has reliable data yet.
	ErrDataUnavailable = errors.New("data for the last 3 days is unavailable due to provider processing delay; pick a date from today onward or more than 3 days back")

	// ErrRangeNotFound: the requested hour window is not present in the
	// forecast provider's response.
	ErrRangeNotFound = errors.New("forecast not found for the selected time range")

	// ErrSourceUnavailable: the historical provider returned no usable
	// parameter data at all.
	ErrSourceUnavailable = errors.New("no historical observation data available")

	// ErrPredictionUnavailable: every analyzed historical year failed, so no
	// pattern prediction can be built.
	ErrPredictionUnavailable = errors.New("no historical data available for prediction")
)
