package obs

import (
	"context"
	"log"
	"time"
)

type ctxKey string

// TruckIDKey tags a context with the truck a command operates on, so timing
// lines can be correlated with one agent's lane.
const TruckIDKey ctxKey = "truck_id"

// Time logs the duration (and error, if any) of a named operation when the
// returned func is deferred with a pointer to the operation's error.
func Time(ctx context.Context, name string) func(errp *error) {
	start := time.Now()

	truckID, _ := ctx.Value(TruckIDKey).(string)

	return func(errp *error) {
		dur := time.Since(start)

		if errp != nil && *errp != nil {
			log.Printf("truck=%s op=%s dur=%dms err=%v", truckID, name, dur.Milliseconds(), *errp)
			return
		}
		log.Printf("truck=%s op=%s dur=%dms", truckID, name, dur.Milliseconds())
	}
}
