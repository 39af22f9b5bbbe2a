package recording

import (
	"fmt"

	"github.com/gogpu/compose"
)

// CommandType identifies the type of a command.
type CommandType uint8

const (
	CmdDrawPrimitive CommandType = iota // Draw one primitive
	CmdDrawBatch                        // Draw a template at several offsets
)

// commandTypeNames maps CommandType values to their string representation.
var commandTypeNames = [...]string{
	CmdDrawPrimitive: "DrawPrimitive",
	CmdDrawBatch:     "DrawBatch",
}

// String returns the name of the command type.
func (t CommandType) String() string {
	if int(t) < len(commandTypeNames) {
		return commandTypeNames[t]
	}
	return fmt.Sprintf("CommandType(%d)", t)
}

// Command is a recorded drawing operation.
type Command interface {
	Type() CommandType
}

// DrawPrimitiveCommand draws a single primitive.
type DrawPrimitiveCommand struct {
	Primitive compose.Primitive
	Style     compose.Style
}

// Type implements Command.
func (DrawPrimitiveCommand) Type() CommandType { return CmdDrawPrimitive }

// DrawBatchCommand draws a batch template once per offset.
type DrawBatchCommand struct {
	Batch compose.FormBatch
	Style compose.Style
}

// Type implements Command.
func (DrawBatchCommand) Type() CommandType { return CmdDrawBatch }
