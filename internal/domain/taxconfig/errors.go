package taxconfig

import "errors"

var (
	ErrTaxBracketNotFound     = errors.New("tax bracket not found")
	ErrTaxBracketNameExists   = errors.New("tax bracket name already exists for this effective date")
	ErrInvalidConfigType      = errors.New("invalid tax config type")
	ErrNoScheduleFound        = errors.New("no tax schedule found for date")
	ErrAmbiguousBracket       = errors.New("more than one active flat-rate bracket for the same type")
	ErrScheduleGap            = errors.New("personal income tax brackets leave a gap")
	ErrScheduleOverlap        = errors.New("personal income tax brackets overlap")
	ErrTaxBracketAlreadyEnded = errors.New("tax bracket is already inactive")
)

// IsConfigurationError reports errors that make every computation on the
// affected date impossible.
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrNoScheduleFound) ||
		errors.Is(err, ErrAmbiguousBracket) ||
		errors.Is(err, ErrScheduleGap) ||
		errors.Is(err, ErrScheduleOverlap)
}
