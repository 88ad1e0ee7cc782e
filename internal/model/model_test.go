package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseOrderStatus(t *testing.T) {
	tests := []struct {
		input string
		want  OrderStatus
		ok    bool
	}{
		{"Pending", OrderStatusPending, true},
		{"pending", OrderStatusPending, true},
		{"PROCESSING", OrderStatusProcessing, true},
		{"shipped", OrderStatusShipped, true},
		{"Delivered", OrderStatusDelivered, true},
		{"cAnCeLlEd", OrderStatusCancelled, true},
		{"Teleported", "", false},
		{"", "", false},
		{"Pending ", "", false},
	}

	for _, tt := range tests {
		got, ok := ParseOrderStatus(tt.input)
		assert.Equal(t, tt.ok, ok, "input %q", tt.input)
		assert.Equal(t, tt.want, got, "input %q", tt.input)
	}
}

func TestProductDeleted(t *testing.T) {
	assert.False(t, Product{Status: ProductStatusActive}.Deleted())
	assert.True(t, Product{Status: ProductStatusDeleted}.Deleted())
}
