package logging

// TeeWriter fans every entity out to all of its writers in order.
type TeeWriter struct {
	writers []LogWriter
}

func (tw *TeeWriter) Write(entity *LogEntity) {
	for _, w := range tw.writers {
		w.Write(entity)
	}
}

// NewTeeWriter drops nil writers.
func NewTeeWriter(writers ...LogWriter) LogWriter {
	nonNil := make([]LogWriter, 0, len(writers))
	for _, w := range writers {
		if w != nil {
			nonNil = append(nonNil, w)
		}
	}
	return &TeeWriter{nonNil}
}
