package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedRecord is returned when an output line is not of the form hostname,address
var ErrMalformedRecord = errors.New("malformed record")

// Record is one line of the output file. Address is empty when resolution failed.
type Record struct {
	Hostname string `json:"hostname"`
	Address  string `json:"address"`
	Err      error  `json:"-"`
}

// Resolved reports whether the hostname has an address
func (r Record) Resolved() bool {
	return r.Address != ""
}

// Line renders the record as written to the output file, trailing newline included
func (r Record) Line() string {
	return r.Hostname + "," + r.Address + "\n"
}

// ParseRecord parses a single output line (with or without its newline)
func ParseRecord(line string) (Record, error) {
	line = strings.TrimRight(line, "\r\n")
	idx := strings.LastIndexByte(line, ',')
	if idx <= 0 {
		return Record{}, fmt.Errorf("%w: %q", ErrMalformedRecord, line)
	}
	return Record{
		Hostname: line[:idx],
		Address:  line[idx+1:],
	}, nil
}
