package serialport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"
)

func TestNormalizeDefaults(t *testing.T) {
	got, err := PortOptions{}.Normalize()
	require.NoError(t, err)
	assert.Equal(t, PortOptions{BaudRate: 9600, DataBits: 8, StopBits: 1, Parity: "N"}, got)
}

func TestNormalizeRejectsBadValues(t *testing.T) {
	for _, opts := range []PortOptions{
		{BaudRate: 12345},
		{DataBits: 9},
		{StopBits: 3},
		{Parity: "mark"},
	} {
		_, err := opts.Normalize()
		assert.Error(t, err, "%+v", opts)
	}
}

func TestNormalizeParityAliases(t *testing.T) {
	for in, want := range map[string]string{"none": "N", " even ": "E", "o": "O"} {
		got, err := PortOptions{Parity: in}.Normalize()
		require.NoError(t, err)
		assert.Equal(t, want, got.Parity)
	}
}

func TestSerialMode(t *testing.T) {
	mode, err := PortOptions{BaudRate: 115200, StopBits: 2, Parity: "E"}.SerialMode()
	require.NoError(t, err)
	assert.Equal(t, &serial.Mode{
		BaudRate: 115200,
		DataBits: 8,
		StopBits: serial.TwoStopBits,
		Parity:   serial.EvenParity,
	}, mode)

	mode, err = PortOptions{}.SerialMode()
	require.NoError(t, err)
	assert.Equal(t, serial.OneStopBit, mode.StopBits)
	assert.Equal(t, serial.NoParity, mode.Parity)
}

func TestRankPrefersMicrocontrollers(t *testing.T) {
	ports := []*enumerator.PortDetails{
		{Name: "/dev/ttyS0"},
		{Name: "/dev/ttyUSB0", IsUSB: true, VID: "1a86", PID: "7523", Product: "USB2.0-Serial"},
		nil,
		{Name: "/dev/ttyACM0", IsUSB: true, VID: "2341", PID: "0043", Product: "Arduino Uno"},
	}

	got := Rank(ports)
	require.Len(t, got, 3)
	assert.Equal(t, "/dev/ttyACM0", got[0].Name)
	assert.Equal(t, "/dev/ttyUSB0", got[1].Name)
	assert.Equal(t, "/dev/ttyS0", got[2].Name)
	assert.Equal(t, 0, got[2].Score)
	assert.Equal(t, "Arduino", got[0].Vendor())
	assert.Equal(t, "CH340", got[1].Vendor())
}

func TestBest(t *testing.T) {
	_, err := best(nil)
	assert.ErrorIs(t, err, ErrNoController)

	_, err = best(Rank([]*enumerator.PortDetails{{Name: "/dev/ttyS0"}}))
	assert.ErrorIs(t, err, ErrNoController)

	name, err := best(Rank([]*enumerator.PortDetails{
		{Name: "/dev/ttyS0"},
		{Name: "/dev/cu.usbmodem14101"},
	}))
	require.NoError(t, err)
	assert.Equal(t, "/dev/cu.usbmodem14101", name)
}
