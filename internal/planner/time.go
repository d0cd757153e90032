package planner

import (
	"time"

	"github.com/google/uuid"
)

// timeNow and newID are package-level variables for testability.
var (
	timeNow = time.Now
	newID   = uuid.NewString
)
