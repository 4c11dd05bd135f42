package predictions

import "errors"

// ErrMissingIDColumn is returned when a batch upload has no CustomerID
// column. Handlers map it to a client error rather than a processing failure.
var ErrMissingIDColumn = errors.New("the uploaded file must contain a 'CustomerID' column")
