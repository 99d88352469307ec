package measure

import "errors"

// ErrUnparseable marks a raw result that is neither a number nor a clock string.
var ErrUnparseable = errors.New("unparseable measurement")
