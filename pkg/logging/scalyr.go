package logging

import (
	"encoding/json"
	"time"

	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

var bufferPool = buffer.NewPool()

// ScalyrEncoder writes one flat JSON object per entry, the shape Scalyr parses
// without a custom parser. Context added through With() is kept in the
// embedded map encoder.
type ScalyrEncoder struct {
	*zapcore.MapObjectEncoder
}

// NewScalyrEncoder creates a new Scalyr-compatible encoder
func NewScalyrEncoder() zapcore.Encoder {
	return &ScalyrEncoder{MapObjectEncoder: zapcore.NewMapObjectEncoder()}
}

// EncodeEntry encodes a log entry in Scalyr-compatible format
func (e *ScalyrEncoder) EncodeEntry(entry zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	enc := e.clone()
	for _, field := range fields {
		field.AddTo(enc.MapObjectEncoder)
	}

	logObj := make(map[string]interface{}, len(enc.Fields)+6)
	for k, v := range enc.Fields {
		switch val := v.(type) {
		case time.Duration:
			v = val.String()
		case time.Time:
			v = val.Format(time.RFC3339Nano)
		}
		logObj[k] = v
	}
	logObj["timestamp"] = entry.Time.Format(time.RFC3339Nano)
	logObj["level"] = entry.Level.String()
	logObj["message"] = entry.Message
	if entry.LoggerName != "" {
		logObj["logger"] = entry.LoggerName
	}
	if entry.Caller.Defined {
		logObj["file"] = entry.Caller.File
		logObj["line"] = entry.Caller.Line
	}
	if entry.Stack != "" {
		logObj["stack"] = entry.Stack
	}

	data, err := json.Marshal(logObj)
	if err != nil {
		return nil, err
	}
	buf := bufferPool.Get()
	buf.AppendBytes(data)
	buf.AppendByte('\n')
	return buf, nil
}

// Clone creates a copy of the encoder
func (e *ScalyrEncoder) Clone() zapcore.Encoder {
	return e.clone()
}

func (e *ScalyrEncoder) clone() *ScalyrEncoder {
	m := zapcore.NewMapObjectEncoder()
	for k, v := range e.Fields {
		m.Fields[k] = v
	}
	return &ScalyrEncoder{MapObjectEncoder: m}
}
