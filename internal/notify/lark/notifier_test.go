package lark

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/crestline-ap/invoice-exceptions/internal/domain"
)

func TestConfigEnabled(t *testing.T) {
	assert.False(t, Config{}.Enabled())
	assert.False(t, Config{AppID: "a", AppSecret: "b"}.Enabled())
	assert.True(t, Config{AppID: "a", AppSecret: "b", ChatID: "oc_123"}.Enabled())
}

func TestDisabledNotifierIsNoOp(t *testing.T) {
	n := New(Config{}, nil)
	err := n.Notify(context.Background(), domain.ExceptionRecord{ExceptionID: "EXC-000000000000"})
	assert.NoError(t, err)
}
