package lifecycle

import (
	"errors"
	"fmt"
	"time"

	"github.com/Skotchmaster/souq/internal/models"
)

var (
	ErrBackwardTransition = errors.New("backward status transition")
	ErrFinalStatus        = errors.New("order already in final status")
)

// Apply sets the order status. Entering Delivered stamps DeliveredAt with now,
// on every such transition; any other status leaves DeliveredAt as it was.
func Apply(o *models.Order, status models.OrderStatus, now time.Time) {
	o.Status = status
	if status == models.StatusDelivered {
		t := now
		o.DeliveredAt = &t
	}
}

func rank(s models.OrderStatus) int {
	for i, st := range models.AllStatuses() {
		if st == s {
			return i
		}
	}
	return -1
}

// Next returns the status following s.
func Next(s models.OrderStatus) (models.OrderStatus, error) {
	all := models.AllStatuses()
	r := rank(s)
	if r < 0 {
		return models.StatusUnknown, fmt.Errorf("%w: %d", models.ErrUnknownStatus, int(s))
	}
	if r == len(all)-1 {
		return models.StatusUnknown, ErrFinalStatus
	}
	return all[r+1], nil
}

// Policy decides which transitions the service layer accepts. The zero value
// is permissive: any status may follow any other.
type Policy struct {
	Strict bool
}

func (p Policy) Check(from, to models.OrderStatus) error {
	if !to.Valid() {
		return fmt.Errorf("%w: %d", models.ErrUnknownStatus, int(to))
	}
	if !p.Strict {
		return nil
	}
	if rank(to) < rank(from) {
		return fmt.Errorf("%w: %s -> %s", ErrBackwardTransition, from, to)
	}
	return nil
}
