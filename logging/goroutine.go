package logging

import "github.com/dlshle/lrucache/gr_context"

// goroutine scoped logging context, only read by loggers created WithGRContextLogging(true)

const (
	grContextPrefix = "$logging_"
	GoroutineIDKey  = "goroutine"
)

func SetGRContext(k, v string) {
	gr_context.Put(grContextPrefix+k, v)
}

func GetGRContext(k string) string {
	v, _ := gr_context.Get(grContextPrefix + k).(string)
	return v
}

func DeleteGRContext(k string) {
	gr_context.Delete(grContextPrefix + k)
}

func goroutineContext() map[string]string {
	subset := gr_context.GetByPrefix(grContextPrefix)
	res := make(map[string]string, len(subset)+1)
	for k, v := range subset {
		if s, ok := v.(string); ok {
			res[k[len(grContextPrefix):]] = s
		}
	}
	res[GoroutineIDKey] = gr_context.GoIDString()
	return res
}
