//go:build tinygo && arduino

// Command firmware runs the scan loop on an Arduino Uno: HC-SR04 trigger on
// D10, echo on D11, servo signal on D9, reports and commands on the USB UART.
package main

import (
	"context"
	"machine"
	"time"

	"tinygo.org/x/drivers/hcsr04"
	"tinygo.org/x/drivers/servo"

	"sonar-radar.klederson.com/internal/command"
	"sonar-radar.klederson.com/internal/config"
	"sonar-radar.klederson.com/internal/ranging"
	"sonar-radar.klederson.com/internal/report"
	"sonar-radar.klederson.com/internal/scan"
)

const (
	minPulseUs = 500
	maxPulseUs = 2500
)

type servoHead struct {
	s servo.Servo
}

func (h servoHead) SetAngle(angle int) {
	us := minPulseUs + angle*(maxPulseUs-minPulseUs)/config.MaxAngle
	h.s.SetMicroseconds(int16(us))
}

type sonar struct {
	dev hcsr04.Device
}

// Ping returns the echo pulse width. The driver bounds the wait itself and
// reports 0 when no echo arrived.
func (s sonar) Ping(timeout time.Duration) (time.Duration, bool) {
	us := s.dev.ReadPulse()
	if us <= 0 {
		return 0, false
	}
	echo := time.Duration(us) * time.Microsecond
	return echo, echo <= timeout
}

// uartCommands moves received bytes into the line buffer whenever the loop
// polls for a command.
type uartCommands struct {
	uart *machine.UART
	buf  *command.LineBuffer
}

func (c uartCommands) Available() bool {
	for c.uart.Buffered() > 0 {
		b, err := c.uart.ReadByte()
		if err != nil {
			break
		}
		c.buf.Write([]byte{b})
	}
	return c.buf.Available()
}

func (c uartCommands) ReadLine() string {
	return c.buf.ReadLine()
}

func main() {
	uart := machine.Serial
	uart.Configure(machine.UARTConfig{BaudRate: config.BaudRate})

	sensor := hcsr04.New(machine.D10, machine.D11)
	sensor.Configure()

	sv, err := servo.New(machine.Timer1, machine.D9)
	if err != nil {
		println("servo:", err.Error())
		halt()
	}

	cfg := scan.DefaultConfig()
	cfg.ExitOnHalt = true
	loop, err := scan.New(cfg,
		servoHead{s: sv},
		ranging.NewSampler(sonar{dev: sensor}, config.EchoTimeout),
		report.NewTextSink(uart, nil),
		uartCommands{uart: uart, buf: command.NewLineBuffer(0, 0)},
	)
	if err != nil {
		println("scan:", err.Error())
		halt()
	}

	loop.Run(context.Background())
	halt()
}

// halt parks the board; the loop only restarts on reset.
func halt() {
	for {
		time.Sleep(time.Second)
	}
}
