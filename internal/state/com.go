package state

const (
	hrSOK    = 0x00000000
	hrSFalse = 0x00000001
)

// comInitAccepted reports whether a CoInitializeEx HRESULT leaves COM
// initialised on the calling thread and so needs a matching CoUninitialize.
// S_FALSE means the thread was already initialised in the same mode.
func comInitAccepted(hr uintptr) bool {
	return hr == hrSOK || hr == hrSFalse
}

// variantInt converts the integer shapes WMI returns through IDispatch.
// Null properties arrive as nil and map to zero.
func variantInt(v any) int {
	switch x := v.(type) {
	case int:
		return x
	case int8:
		return int(x)
	case int16:
		return int(x)
	case int32:
		return int(x)
	case int64:
		return int(x)
	case uint8:
		return int(x)
	case uint16:
		return int(x)
	case uint32:
		return int(x)
	case uint64:
		return int(x)
	default:
		return 0
	}
}

func variantString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
