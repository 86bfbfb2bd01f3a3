package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// OrderStatus is the closed set of order states. The Arabic labels are the
// wire and storage vocabulary shared with the storefront client.
type OrderStatus int

const (
	StatusUnknown OrderStatus = iota
	StatusPreparing
	StatusOutForDelivery
	StatusDelivered
)

const (
	LabelPreparing      = "قيد التحضير"
	LabelOutForDelivery = "قيد التوصيل"
	LabelDelivered      = "تم التوصيل"
)

var ErrUnknownStatus = errors.New("unknown order status")

var statusLabels = map[OrderStatus]string{
	StatusPreparing:      LabelPreparing,
	StatusOutForDelivery: LabelOutForDelivery,
	StatusDelivered:      LabelDelivered,
}

// AllStatuses lists the states in lifecycle order.
func AllStatuses() []OrderStatus {
	return []OrderStatus{StatusPreparing, StatusOutForDelivery, StatusDelivered}
}

func ParseOrderStatus(label string) (OrderStatus, error) {
	label = strings.TrimSpace(label)
	for s, l := range statusLabels {
		if l == label {
			return s, nil
		}
	}
	return StatusUnknown, fmt.Errorf("%w: %q", ErrUnknownStatus, label)
}

func (s OrderStatus) String() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return fmt.Sprintf("OrderStatus(%d)", int(s))
}

func (s OrderStatus) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

func (s OrderStatus) MarshalJSON() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownStatus, int(s))
	}
	return json.Marshal(statusLabels[s])
}

func (s *OrderStatus) UnmarshalJSON(data []byte) error {
	var label string
	if err := json.Unmarshal(data, &label); err != nil {
		return err
	}
	parsed, err := ParseOrderStatus(label)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func (s OrderStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownStatus, int(s))
	}
	return statusLabels[s], nil
}

func (s *OrderStatus) Scan(src any) error {
	var label string
	switch v := src.(type) {
	case string:
		label = v
	case []byte:
		label = string(v)
	default:
		return fmt.Errorf("order status: cannot scan %T", src)
	}
	parsed, err := ParseOrderStatus(label)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
