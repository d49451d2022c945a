// Package compositor owns the two-layer composition of the single visible
// slot: a blurred layer underneath and a clear layer above it.
//
// The manager never lets the clear layer become visible until the blurred
// layer has been committed fully opaque in an earlier frame, so a viewer can
// never catch an unblurred image before its blurred placeholder.
package compositor
