// Package orders presents an order's fulfillment state as a linear timeline.
package orders

import (
	"github.com/kmoo25z/ameriduka/pkg/enums"
)

// progressSteps is the happy-path fulfillment sequence. Cancelled and
// refunded sit outside it; an order on those branches has no position on
// the timeline.
var progressSteps = []enums.OrderStatus{
	enums.OrderStatusPending,
	enums.OrderStatusProcessing,
	enums.OrderStatusPacked,
	enums.OrderStatusShipped,
	enums.OrderStatusDelivered,
}

// Progress locates an order on the fulfillment timeline.
type Progress struct {
	Steps   []enums.OrderStatus
	Current int
	Hidden  bool
}

// Steps returns the happy-path sequence in display order.
func Steps() []enums.OrderStatus {
	steps := make([]enums.OrderStatus, len(progressSteps))
	copy(steps, progressSteps)
	return steps
}

// StepIndex returns the timeline position of a status, -1 when the status
// is not on the happy path.
func StepIndex(status enums.OrderStatus) int {
	for i, step := range progressSteps {
		if step == status {
			return i
		}
	}
	return -1
}

// IsTerminalBranch reports whether the status left the happy path for good.
func IsTerminalBranch(status enums.OrderStatus) bool {
	return status == enums.OrderStatusCancelled || status == enums.OrderStatusRefunded
}

// Describe maps an order status onto the timeline. Off-path statuses hide
// the timeline instead of showing a misleading position.
func Describe(status enums.OrderStatus) Progress {
	if IsTerminalBranch(status) {
		return Progress{Steps: Steps(), Current: -1, Hidden: true}
	}
	return Progress{Steps: Steps(), Current: StepIndex(status)}
}
