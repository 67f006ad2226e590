package plane

import "errors"

var ErrTruncated = errors.New("truncated array")
