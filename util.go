package flightvk

import "unsafe"

// safeString returns s terminated with a NUL byte, as the Vulkan loader expects.
func safeString(s string) string {
	if len(s) == 0 {
		return "\x00"
	}
	if s[len(s)-1] != '\x00' {
		return s + "\x00"
	}
	return s
}

func safeStrings(list []string) []string {
	out := make([]string, len(list))
	for i, s := range list {
		out[i] = safeString(s)
	}
	return out
}

// sliceUint32 reinterprets SPIR-V byte code as words. len(data) must be a multiple of 4.
func sliceUint32(data []byte) []uint32 {
	if len(data) < 4 {
		return nil
	}
	return unsafe.Slice((*uint32)(unsafe.Pointer(&data[0])), len(data)/4)
}

func stripNul(s string) string {
	if n := len(s); n > 0 && s[n-1] == '\x00' {
		return s[:n-1]
	}
	return s
}
