package bc

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
)

// LoadFixedCells reads this rank's fixed-cell flag file. Each rank owns
// one file, <base>.<rank>.dat with the rank zero-padded to eight
// digits, holding exactly one byte per owned cell in storage order
// (x fastest). A size mismatch means the file was written for a
// different grid or decomposition and is fatal.
func (b *BC) LoadFixedCells(base string) error {
	if !b.fixCell {
		return nil
	}
	var (
		name   = fmt.Sprintf("%s.%08d.dat", base, b.g.Rank)
		ncells = b.g.NumCells()
	)
	buf, err := os.ReadFile(name)
	if err != nil {
		return fmt.Errorf("bc: reading fixed-cell flags: %w", err)
	}
	if len(buf) != ncells {
		return fmt.Errorf("bc: fixed-cell file %s holds %d flags, grid has %d cells",
			name, len(buf), ncells)
	}
	b.fixCellFlag = buf
	log.WithFields(log.Fields{
		"file":  name,
		"cells": ncells,
	}).Info("loaded fixed-cell flags")
	return nil
}

// WriteRestart appends the fixed-cell flags to a restart stream.
func (b *BC) WriteRestart(w io.Writer) error {
	n := int64(len(b.fixCellFlag))
	if err := binary.Write(w, binary.LittleEndian, n); err != nil {
		return fmt.Errorf("bc: writing restart header: %w", err)
	}
	if n == 0 {
		return nil
	}
	if _, err := w.Write(b.fixCellFlag); err != nil {
		return fmt.Errorf("bc: writing restart flags: %w", err)
	}
	return nil
}

// ReadRestart restores the fixed-cell flags from a restart stream.
func (b *BC) ReadRestart(r io.Reader) error {
	var n int64
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return fmt.Errorf("bc: reading restart header: %w", err)
	}
	if n == 0 {
		b.fixCellFlag = nil
		return nil
	}
	if n != int64(b.g.NumCells()) {
		return fmt.Errorf("bc: restart holds %d flags, grid has %d cells", n, b.g.NumCells())
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return fmt.Errorf("bc: reading restart flags: %w", err)
	}
	b.fixCellFlag = buf
	return nil
}
