package logger

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

const (
	colorReset = "\x1b[0m"
	colorBold  = "\x1b[1m"
)

// Gruvbox Dark color palette
var (
	colorTime      = "\x1b[38;5;108m" // aqua
	colorComponent = "\x1b[38;5;208m" // orange
	colorMessage   = "\x1b[38;5;223m" // cream
	colorPath      = "\x1b[38;5;109m" // blue
	colorNumber    = "\x1b[38;5;175m" // purple
	colorWarn      = "\x1b[38;5;214m"
	colorWarnBg    = "\x1b[48;5;58m"
	colorError     = "\x1b[38;5;167m"
	colorErrorBg   = "\x1b[48;5;88m"
)

// pathFields are rendered as bare values after the message, in this order.
var pathFields = map[string]bool{
	FieldDocument: true,
	FieldOutput:   true,
	FieldSnapshot: true,
	FieldBackup:   true,
	FieldHelper:   true,
}

var bufferPool = buffer.NewPool()

// minimalEncoder implements a calm, compact console encoder.
// Format: "13:04:35  merge  Regenerated output  ui/main.py  (2 roots)"
type minimalEncoder struct {
	zapcore.Encoder // Embed a base encoder for field serialization
	color           bool
}

func newMinimalEncoder() *minimalEncoder {
	// Create a base JSON encoder for field serialization (internal use only)
	baseEncoder := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())

	return &minimalEncoder{
		Encoder: baseEncoder,
		color:   os.Getenv("NO_COLOR") == "",
	}
}

func (enc *minimalEncoder) Clone() zapcore.Encoder {
	return &minimalEncoder{
		Encoder: enc.Encoder.Clone(),
		color:   enc.color,
	}
}

func (enc *minimalEncoder) paint(color, s string) string {
	if !enc.color || s == "" {
		return s
	}
	return color + s + colorReset
}

func (enc *minimalEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	final := bufferPool.Get()

	final.AppendString(enc.paint(colorTime, ent.Time.Format("15:04:05")))

	// Level: only show for non-INFO entries
	if ent.Level != zapcore.InfoLevel {
		final.AppendString("  ")
		final.AppendString(enc.levelString(ent.Level))
	}

	if ent.LoggerName != "" {
		final.AppendString("  ")
		final.AppendString(enc.paint(colorComponent, ent.LoggerName))
	}

	final.AppendString("  ")
	final.AppendString(enc.paint(colorMessage, ent.Message))

	if values := enc.extractFieldValues(fields); values != "" {
		final.AppendString("  ")
		final.AppendString(values)
	}

	final.AppendString("\n")
	return final, nil
}

// levelString returns bold + colored + background for WARN/ERROR
func (enc *minimalEncoder) levelString(level zapcore.Level) string {
	name := level.CapitalString()
	if !enc.color {
		return name
	}
	switch level {
	case zapcore.DebugLevel:
		return colorNumber + name + colorReset
	case zapcore.WarnLevel:
		return colorBold + colorWarnBg + colorWarn + name + colorReset
	default:
		return colorBold + colorErrorBg + colorError + name + colorReset
	}
}

// getFieldValue extracts the value from a zap field, handling different field types
func getFieldValue(field zapcore.Field) string {
	switch field.Type {
	case zapcore.StringType:
		return field.String
	case zapcore.Int64Type, zapcore.Int32Type, zapcore.Int16Type, zapcore.Int8Type,
		zapcore.Uint64Type, zapcore.Uint32Type, zapcore.Uint16Type, zapcore.Uint8Type:
		return fmt.Sprintf("%d", field.Integer)
	case zapcore.Float64Type:
		return strconv.FormatFloat(math.Float64frombits(uint64(field.Integer)), 'g', -1, 64)
	case zapcore.Float32Type:
		return strconv.FormatFloat(float64(math.Float32frombits(uint32(field.Integer))), 'g', -1, 32)
	case zapcore.BoolType:
		if field.Integer == 1 {
			return "true"
		}
		return "false"
	case zapcore.ErrorType:
		if err, ok := field.Interface.(error); ok {
			return err.Error()
		}
	}

	if field.Interface != nil {
		return fmt.Sprintf("%v", field.Interface)
	}
	return ""
}

// extractFieldValues renders paths as bare values and everything else as key=value.
// Input: {"output": "ui/main.py", "roots": 2}
// Output: "ui/main.py roots=2"
func (enc *minimalEncoder) extractFieldValues(fields []zapcore.Field) string {
	var paths, rest []string

	for _, field := range fields {
		val := getFieldValue(field)
		if val == "" {
			continue
		}
		switch {
		case pathFields[field.Key]:
			paths = append(paths, enc.paint(colorPath, val))
		case field.Key == FieldError:
			rest = append(rest, enc.paint(colorError, val))
		default:
			rest = append(rest, field.Key+"="+enc.paint(colorNumber, val))
		}
	}

	return strings.Join(append(paths, rest...), " ")
}
