package logging

import (
	"bytes"
	"encoding/json"
	"io"
	"sync"
	"time"

	"github.com/dlshle/lrucache/utils"
)

var bufferPool = sync.Pool{
	New: func() any {
		return new(bytes.Buffer)
	},
}

type JSONWriter struct {
	lock     sync.Mutex
	ioWriter io.Writer
	sep      string
}

func NewJSONWriter(ioWriter io.Writer) LogWriter {
	return NewJSONWriterWithSep(ioWriter, "")
}

func NewlineSeparatedJSONWriter(ioWriter io.Writer) LogWriter {
	return NewJSONWriterWithSep(ioWriter, "\n")
}

func NewJSONWriterWithSep(ioWriter io.Writer, sep string) LogWriter {
	return &JSONWriter{
		ioWriter: ioWriter,
		sep:      sep,
	}
}

func (w *JSONWriter) Write(entity *LogEntity) {
	buffer := bufferPool.Get().(*bytes.Buffer)
	defer func() {
		buffer.Reset()
		bufferPool.Put(buffer)
	}()
	w.encode(buffer, entity)
	w.lock.Lock()
	defer w.lock.Unlock()
	w.ioWriter.Write(buffer.Bytes())
}

func (w *JSONWriter) encode(buffer *bytes.Buffer, entity *LogEntity) {
	buffer.WriteRune('{')
	writeJSONField(buffer, "timestamp", entity.Timestamp.Format(time.RFC3339Nano))
	buffer.WriteRune(',')
	writeJSONField(buffer, "file", entity.File)
	buffer.WriteRune(',')
	writeJSONField(buffer, "level", LogLevelPrefixMap[entity.Level])
	buffer.WriteRune(',')
	writeJSONField(buffer, "prefix", entity.Prefix)
	buffer.WriteRune(',')
	writeJSONField(buffer, "message", entity.Message)
	buffer.WriteString(`,"context":`)
	buffer.WriteString(utils.StringMapToJSON(entity.Context))
	buffer.WriteRune('}')
	buffer.WriteString(w.sep)
}

func writeJSONField(b *bytes.Buffer, k, v string) {
	ks, _ := json.Marshal(k)
	vs, _ := json.Marshal(v)
	b.Write(ks)
	b.WriteRune(':')
	b.Write(vs)
}
