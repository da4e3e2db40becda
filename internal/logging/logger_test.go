package logging

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestNewLoggerTo_Level(t *testing.T) {
	testCases := []struct {
		level     string
		debugSeen bool
		infoSeen  bool
		warnSeen  bool
	}{
		{level: "debug", debugSeen: true, infoSeen: true, warnSeen: true},
		{level: "", infoSeen: true, warnSeen: true},
		{level: "INFO", infoSeen: true, warnSeen: true},
		{level: "warning", warnSeen: true},
		{level: "error"},
	}

	for _, tc := range testCases {
		t.Run(tc.level, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLoggerTo(&buf, tc.level)

			logger.Debug("d")
			logger.Info("i")
			logger.Warn("w")

			seen := map[string]bool{}
			dec := json.NewDecoder(&buf)
			for dec.More() {
				var line map[string]any
				if err := dec.Decode(&line); err != nil {
					t.Fatalf("decode: %v", err)
				}
				if _, ok := line["source"]; !ok {
					t.Errorf("expected source attribute in %v", line)
				}
				seen[line["msg"].(string)] = true
			}

			if seen["d"] != tc.debugSeen || seen["i"] != tc.infoSeen || seen["w"] != tc.warnSeen {
				t.Errorf("level %q: got %v", tc.level, seen)
			}
		})
	}
}
