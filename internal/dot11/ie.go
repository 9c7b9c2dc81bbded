package dot11

// ieWalk calls fn for each (tag, value) tuple in the tagged-parameter
// region of a management frame body. It stops as soon as the remaining
// bytes are shorter than len+2, matching spec.md §4.3's bounds rule
// exactly rather than panicking on a truncated trailing IE.
//
// Grounded in the teacher's internal/adapters/sniffer/ie/ie_parser.go
// IterateIEs, adapted to return on the first malformed IE rather than
// skip it (spec.md: "stops when remaining bytes < len+2").
func ieWalk(data []byte, fn func(tag byte, value []byte)) {
	offset := 0
	for offset+2 <= len(data) {
		tag := data[offset]
		length := int(data[offset+1])
		if offset+2+length > len(data) {
			return
		}
		fn(tag, data[offset+2:offset+2+length])
		offset += 2 + length
	}
}

// findIE returns the value of the first IE matching tag, or nil.
func findIE(data []byte, tag byte) []byte {
	var out []byte
	found := false
	ieWalk(data, func(t byte, v []byte) {
		if !found && t == tag {
			out = v
			found = true
		}
	})
	return out
}

const (
	tagSSID    = 0x00
	tagDSChan  = 0x03
	tagRSN     = 0x30
	tagVendor  = 0xDD
)

// isASCIIPrintable enforces the spec.md non-goal of rejecting non-ASCII
// SSIDs silently.
func isASCIIPrintable(b []byte) bool {
	for _, c := range b {
		if c < 0x20 || c > 0x7e {
			return false
		}
	}
	return true
}
