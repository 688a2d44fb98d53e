// Package demo walks a colored light through undo, redo and a transaction.
package demo

import (
	"fmt"
	"io"

	"github.com/dshills/undoredo/internal/capture"
	"github.com/dshills/undoredo/internal/engine/history"
)

// ColoredLight is a light that can be switched and recolored. Every change
// registers its inverse with the manager.
type ColoredLight struct {
	m     *history.Manager
	out   io.Writer
	on    bool
	color string
}

// NewColoredLight returns a white light that is switched off.
func NewColoredLight(m *history.Manager, out io.Writer) *ColoredLight {
	return &ColoredLight{m: m, out: out, color: "white"}
}

// IsOn reports whether the light is on.
func (l *ColoredLight) IsOn() bool { return l.on }

// Color returns the current color.
func (l *ColoredLight) Color() string { return l.color }

// SwitchOn switches the light on.
func (l *ColoredLight) SwitchOn() error {
	l.on = true
	fmt.Fprintln(l.out, "Switch on the light")
	return capture.For(l.m, l).Call((*ColoredLight).SwitchOff)
}

// SwitchOff switches the light off.
func (l *ColoredLight) SwitchOff() error {
	l.on = false
	fmt.Fprintln(l.out, "Switch off the light")
	return capture.For(l.m, l).Call((*ColoredLight).SwitchOn)
}

// SetColor changes the color. Setting the current color is not recorded.
func (l *ColoredLight) SetColor(color string) error {
	backup := l.color
	if backup == color {
		return nil
	}
	l.color = color
	fmt.Fprintf(l.out, "Set color %s.\n", color)
	return capture.For(l.m, l).Method("SetColor", backup)
}

// Run plays the demo against m, writing a transcript to out.
func Run(m *history.Manager, out io.Writer) error {
	light := NewColoredLight(m, out)

	fmt.Fprintln(out, "====== WORKING WITHOUT TRANSACTIONS ======")
	fmt.Fprintln(out, "Initial state")
	m.SetActionName("Switch On")
	if err := light.SwitchOn(); err != nil {
		return err
	}

	fmt.Fprintf(out, "%s\n", m.UndoMenuItemTitle())
	if err := m.Undo(); err != nil {
		return err
	}

	fmt.Fprintf(out, "%s\n", m.RedoMenuItemTitle())
	if err := m.Redo(); err != nil {
		return err
	}

	fmt.Fprintln(out, "====== WORKING WITH TRANSACTIONS ======")
	fmt.Fprintln(out, "Initial state")
	err := m.Do("Switch On Red", func() error {
		if err := light.SwitchOn(); err != nil {
			return err
		}
		return light.SetColor("red")
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%s\n", m.UndoMenuItemTitle())
	return m.Undo()
}
