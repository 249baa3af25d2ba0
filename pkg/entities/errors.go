package entities

import "errors"

// ErrInvalidCoordinates 坐标或速度不是有限数(NaN / Inf)
var ErrInvalidCoordinates = errors.New("invalid coordinates")
