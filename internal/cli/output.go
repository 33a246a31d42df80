// Package cli provides the command-line interface for the signal engine.
package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"crypto-trader/internal/models"
)

// Output handles formatted output for the CLI.
type Output struct {
	writer   io.Writer
	jsonMode bool
}

// NewOutput creates a new Output instance.
func NewOutput(cmd *cobra.Command) *Output {
	jsonMode, _ := cmd.Flags().GetBool("json")
	return &Output{
		writer:   cmd.OutOrStdout(),
		jsonMode: jsonMode,
	}
}

// IsJSON returns true if JSON output mode is enabled.
func (o *Output) IsJSON() bool {
	return o.jsonMode
}

// JSON outputs data as JSON.
func (o *Output) JSON(data interface{}) error {
	encoder := json.NewEncoder(o.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// Printf prints a formatted message.
func (o *Output) Printf(format string, args ...interface{}) {
	fmt.Fprintf(o.writer, format, args...)
}

// Println prints a line.
func (o *Output) Println(args ...interface{}) {
	fmt.Fprintln(o.writer, args...)
}

// Bold prints a bold message.
func (o *Output) Bold(format string, args ...interface{}) {
	color.New(color.Bold).Fprintf(o.writer, format+"\n", args...)
}

// Dim prints a dimmed message.
func (o *Output) Dim(format string, args ...interface{}) {
	color.New(color.Faint).Fprintf(o.writer, format+"\n", args...)
}

// Success prints a success message in green.
func (o *Output) Success(format string, args ...interface{}) {
	color.New(color.FgGreen).Fprintf(o.writer, format+"\n", args...)
}

// Error prints an error message in red.
func (o *Output) Error(format string, args ...interface{}) {
	color.New(color.FgRed).Fprintf(o.writer, format+"\n", args...)
}

// Warning prints a warning message in yellow.
func (o *Output) Warning(format string, args ...interface{}) {
	color.New(color.FgYellow).Fprintf(o.writer, format+"\n", args...)
}

// Info prints an info message in cyan.
func (o *Output) Info(format string, args ...interface{}) {
	color.New(color.FgCyan).Fprintf(o.writer, format+"\n", args...)
}

// Signal prints a trading signal with action-appropriate coloring.
func (o *Output) Signal(sig models.TradingSignal) {
	var c *color.Color
	switch sig.Action {
	case models.ActionBuy:
		c = color.New(color.FgGreen, color.Bold)
	case models.ActionSell:
		c = color.New(color.FgRed, color.Bold)
	default:
		c = color.New(color.FgYellow)
	}

	c.Fprintf(o.writer, "%s %s", sig.Action, sig.Symbol)
	fmt.Fprintf(o.writer, "  [%s]  confidence %.2f\n", sig.Strategy, sig.Confidence)
	fmt.Fprintf(o.writer, "  price       %.4f\n", sig.Price)
	if sig.IsActionable() {
		fmt.Fprintf(o.writer, "  stop loss   %.4f\n", sig.StopLoss)
		fmt.Fprintf(o.writer, "  take profit %.4f\n", sig.TakeProfit)
		fmt.Fprintf(o.writer, "  risk/reward %.2f\n", sig.RiskReward)
	}
	fmt.Fprintf(o.writer, "  reason: %s\n", sig.Reason)
}
