package core

// TrackWrap is the collaborator hook for track-wrapping: the core
// treats it as an identity-by-default transformation. The containers
// layer (object/array/map/set/promise proxies) is out of scope for this
// core, but it hooks in here to replace a freshly-derived plain value
// with a proxied reactive container before it's cached.
var TrackWrap func(any) any = func(v any) any { return v }

func trackWrap(v any) any {
	if TrackWrap == nil {
		return v
	}
	return TrackWrap(v)
}
