// Package trace records committed compositor frames and checks them for
// flashes: frames where the clear layer shows before the blurred layer of the
// same image was committed opaque. Traces persist as parquet files.
package trace
