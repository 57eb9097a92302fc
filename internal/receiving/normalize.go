package receiving

import "strings"

const trackSegment = "/track/"

// NormalizeCode canonicalizes a scanned token into a bare case code.
// Scan-redirect URLs embed the code as the final path segment after /track/.
// Returns false when no usable code remains after trimming.
func NormalizeCode(raw string) (string, bool) {
	code := strings.TrimSpace(raw)
	if code == "" {
		return "", false
	}
	if strings.Contains(code, trackSegment) {
		if idx := strings.LastIndex(code, "/"); idx >= 0 {
			code = code[idx+1:]
		}
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return "", false
	}
	return code, true
}
