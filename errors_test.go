package duvc

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOfNil(t *testing.T) {
	assert.Equal(t, Success, KindOf(nil))
}

func TestKindOfOurs(t *testing.T) {
	err := newErr(DeviceBusy, "device %s is in use", "Cam0")
	assert.Equal(t, DeviceBusy, KindOf(err))
	assert.True(t, Is(err, DeviceBusy))
	assert.False(t, Is(err, DeviceNotFound))
}

func TestKindOfForeign(t *testing.T) {
	assert.Equal(t, SystemError, KindOf(errors.New("not ours")))
}

func TestErrorWrapping(t *testing.T) {
	inner := newErr(InvalidValue, "bad value")
	wrapped := fmt.Errorf("context: %w", inner)
	assert.NotNil(t, wrapped)

	var target *Error
	require.False(t, errors.As(errors.New("unrelated"), &target))
	require.True(t, errors.As(wrapped, &target))
	assert.Equal(t, InvalidValue, target.Kind)
}

func TestPlatformErrorMessage(t *testing.T) {
	err := newPlatformErr(SystemError, -2147467259, "HRESULT failure")
	assert.Contains(t, err.Error(), "platform code")
}

func TestErrorKindStringUnknown(t *testing.T) {
	k := ErrorKind(999)
	assert.Contains(t, k.String(), "ErrorKind")
}
