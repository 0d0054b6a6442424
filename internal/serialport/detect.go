package serialport

import (
	"errors"
	"sort"
	"strings"

	"go.bug.st/serial/enumerator"
)

// ErrNoController is returned by Detect when no port looks like a
// microcontroller board.
var ErrNoController = errors.New("no scanner controller found")

// USB vendor IDs of common microcontroller boards and USB-serial bridges.
var knownVendors = map[string]string{
	"2341": "Arduino",
	"2A03": "Arduino",
	"1A86": "CH340",
	"0403": "FTDI",
	"10C4": "CP210x",
	"2E8A": "Raspberry Pi Pico",
}

var descriptionKeywords = []string{"arduino", "ch340", "usb serial", "usb-serial", "uart"}

var nameKeywords = []string{"ttyacm", "ttyusb", "usbmodem", "usbserial", "wchusbserial"}

// Candidate is a serial port with a score of how likely it is the controller.
type Candidate struct {
	Name    string
	Product string
	VID     string
	PID     string
	IsUSB   bool
	Score   int
}

// Rank scores ports and returns them best first. Ports with no evidence of
// being a microcontroller keep a zero score.
func Rank(ports []*enumerator.PortDetails) []Candidate {
	out := make([]Candidate, 0, len(ports))
	for _, p := range ports {
		if p == nil {
			continue
		}
		c := Candidate{
			Name:    p.Name,
			Product: p.Product,
			VID:     strings.ToUpper(p.VID),
			PID:     strings.ToUpper(p.PID),
			IsUSB:   p.IsUSB,
		}
		if _, ok := knownVendors[c.VID]; ok {
			c.Score += 4
		}
		product := strings.ToLower(p.Product)
		for _, kw := range descriptionKeywords {
			if strings.Contains(product, kw) {
				c.Score += 2
				break
			}
		}
		name := strings.ToLower(p.Name)
		for _, kw := range nameKeywords {
			if strings.Contains(name, kw) {
				c.Score += 2
				break
			}
		}
		if c.IsUSB {
			c.Score++
		}
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

// Vendor names the board family of a candidate, if known.
func (c Candidate) Vendor() string {
	return knownVendors[c.VID]
}

// List enumerates the serial ports of the host, best candidate first.
func List() ([]Candidate, error) {
	ports, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, err
	}
	return Rank(ports), nil
}

// Detect returns the port most likely to be the scanner controller.
func Detect() (string, error) {
	candidates, err := List()
	if err != nil {
		return "", err
	}
	return best(candidates)
}

func best(candidates []Candidate) (string, error) {
	if len(candidates) == 0 || candidates[0].Score < 2 {
		return "", ErrNoController
	}
	return candidates[0].Name, nil
}
