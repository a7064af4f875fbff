package recordio

// webCodec is the web-flowtype format for non-NetFlow-v5 probes: the same
// wire layout as genericCodec, kept as a distinct wire type for the same
// reason v5WebCodec is kept distinct from v5Codec.
type webCodec struct{ genericCodec }

var _ Codec = webCodec{}
